package metrics

import (
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func counterValues(t *testing.T, r *Recorder) map[string]float64 {
	families, err := r.Gatherer().Gather()
	assert.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			values[key] = m.GetCounter().GetValue()
		}
	}
	return values
}

func TestObserveBurst(t *testing.T) {
	r := NewRecorder()

	r.ObserveBurst(BurstStats{Protocol: "ETHERNET", Frames: 3, FrameBytes: 192, Gaps: 3, GapBytes: 36})
	r.ObserveBurst(BurstStats{Protocol: "ETHERNET", Frames: 1, FrameBytes: 64, Gaps: 2, GapBytes: 24, Truncated: true})

	values := counterValues(t, r)
	assert.Equal(t, 2.0, values["burstgen_bursts_total"])
	assert.Equal(t, 4.0, values["burstgen_frames_total/ETHERNET"])
	assert.Equal(t, 5.0, values["burstgen_gap_markers_total"])
	assert.Equal(t, 256.0, values["burstgen_bytes_total/frame"])
	assert.Equal(t, 60.0, values["burstgen_bytes_total/gap"])
	assert.Equal(t, 1.0, values["burstgen_truncated_bursts_total"])
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ObserveBurst(BurstStats{Frames: 1})
	})
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "never.prom")))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveBurst(BurstStats{Protocol: "ECPRI", Frames: 2, FrameBytes: 128})

	path := filepath.Join(t.TempDir(), "burstgen.prom")
	assert.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `burstgen_frames_total{protocol="ECPRI"} 2`))
	assert.Contains(t, string(data), "burstgen_bursts_total 1")
}
