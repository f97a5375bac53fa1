// Package metrics counts what a generator run emitted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the counters of one run on its own registry. A nil Recorder
// is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	BurstsTotal          prometheus.Counter
	FramesTotal          *prometheus.CounterVec
	GapMarkersTotal      prometheus.Counter
	BytesTotal           *prometheus.CounterVec
	TruncatedBurstsTotal prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		BurstsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "burstgen_bursts_total",
				Help: "Total number of bursts handed to the sink",
			},
		),
		FramesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "burstgen_frames_total",
				Help: "Total number of frames generated",
			},
			[]string{"protocol"},
		),
		GapMarkersTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "burstgen_gap_markers_total",
				Help: "Total number of inter-frame gap markers generated",
			},
		),
		BytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "burstgen_bytes_total",
				Help: "Total number of frame and gap bytes generated",
			},
			[]string{"kind"},
		),
		TruncatedBurstsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "burstgen_truncated_bursts_total",
				Help: "Bursts closed by their deadline before reaching the burst size",
			},
		),
	}

	r.registry.MustRegister(r.BurstsTotal, r.FramesTotal, r.GapMarkersTotal, r.BytesTotal, r.TruncatedBurstsTotal)
	return r
}

// BurstStats is what a single burst contributed.
type BurstStats struct {
	Protocol   string
	Frames     int
	FrameBytes int
	Gaps       int
	GapBytes   int
	Truncated  bool
}

func (r *Recorder) ObserveBurst(s BurstStats) {
	if r == nil {
		return
	}

	r.BurstsTotal.Inc()
	r.FramesTotal.WithLabelValues(s.Protocol).Add(float64(s.Frames))
	r.GapMarkersTotal.Add(float64(s.Gaps))
	r.BytesTotal.WithLabelValues("frame").Add(float64(s.FrameBytes))
	r.BytesTotal.WithLabelValues("gap").Add(float64(s.GapBytes))
	if s.Truncated {
		r.TruncatedBurstsTotal.Inc()
	}
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile dumps the counters in the text exposition format, for pick up
// by the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
