package burstgen

import (
	"bytes"
	"burstgen/metrics"
	"errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

// steppingAssembler returns a fixed burst and moves the clock forward by one
// burst period on every call.
type steppingAssembler struct {
	clock *ManualClock
	calls int
}

func (a *steppingAssembler) Assemble(spec *PacketSpec, codec FrameCodec) (Burst, error) {
	a.calls++
	a.clock.Advance(time.Duration(spec.BurstPeriodUs) * time.Microsecond)
	return Burst{
		Protocol: codec.Protocol(),
		Entries:  []Entry{Frame{0x01, 0x02}, GapMarker{IFGByte}},
	}, nil
}

type recordingSink struct {
	bursts []Burst
	err    error
}

func (s *recordingSink) WriteBurst(b Burst) error {
	if s.err != nil {
		return s.err
	}
	s.bursts = append(s.bursts, b)
	return nil
}

func newTestStream(durationMs uint, sink Sink) (*Stream, *steppingAssembler) {
	clock := NewManualClock(epoch)
	spec := ethernetSpec(64, nil)
	spec.StreamDurationMs = durationMs
	spec.BurstPeriodUs = 1000

	assembler := &steppingAssembler{clock: clock}
	s := NewStream(spec, NewEthernetCodec(), sink, clock)
	s.Assembler = assembler
	return s, assembler
}

func TestStreamRunsUntilDuration(t *testing.T) {
	sink := &recordingSink{}
	s, assembler := newTestStream(5, sink)

	assert.NoError(t, s.Run())
	assert.Equal(t, 5, assembler.calls)
	assert.Len(t, sink.bursts, 5)
	assert.Equal(t, uint64(5), s.Bursts())
}

func TestStreamZeroDuration(t *testing.T) {
	sink := &recordingSink{}
	s, assembler := newTestStream(0, sink)

	assert.NoError(t, s.Run())
	assert.Equal(t, 0, assembler.calls)
	assert.Empty(t, sink.bursts)
}

func TestStreamSinkError(t *testing.T) {
	diskFull := errors.New("disk full")
	s, assembler := newTestStream(5, &recordingSink{err: diskFull})

	err := s.Run()
	assert.ErrorIs(t, err, diskFull)

	var writeErr *SinkWriteError
	assert.ErrorAs(t, err, &writeErr)
	assert.Equal(t, uint64(1), writeErr.Burst)
	assert.Equal(t, 1, assembler.calls)
	assert.Equal(t, uint64(0), s.Bursts())
}

func TestStreamRejectsInvalidSpec(t *testing.T) {
	sink := &recordingSink{}
	s, assembler := newTestStream(5, sink)
	s.Spec.MaxPacketSize = 10

	assert.ErrorIs(t, s.Run(), ErrPacketTooSmall)
	assert.Equal(t, 0, assembler.calls)
}

func TestStreamRecordsMetrics(t *testing.T) {
	s, _ := newTestStream(3, &recordingSink{})
	s.Metrics = metrics.NewRecorder()

	assert.NoError(t, s.Run())

	families, err := s.Metrics.Gatherer().Gather()
	assert.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			values[mf.GetName()] += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 3.0, values["burstgen_bursts_total"])
	assert.Equal(t, 3.0, values["burstgen_frames_total"])
	assert.Equal(t, 3.0, values["burstgen_gap_markers_total"])
	assert.Equal(t, 9.0, values["burstgen_bytes_total"])
}

func TestStreamLogs(t *testing.T) {
	buff := bytes.NewBuffer(make([]byte, 0, 4096))
	log.SetOutput(buff)
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(log.InfoLevel)

	s, _ := newTestStream(2, &recordingSink{})
	assert.NoError(t, s.Run())

	out := buff.String()
	assert.Contains(t, out, "starting stream")
	assert.Contains(t, out, "generating burst")
	assert.Contains(t, out, "burst finished generating")
	assert.Contains(t, out, "stream finished")
}

func TestBurstStats(t *testing.T) {
	stats := burstStats(Burst{
		Protocol:  PayloadEcpri,
		Entries:   []Entry{Frame{1, 2, 3}, Frame{4}},
		Truncated: true,
	})

	assert.Equal(t, metrics.BurstStats{
		Protocol:   "ECPRI",
		Frames:     2,
		FrameBytes: 4,
		Truncated:  true,
	}, stats)
}
