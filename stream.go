package burstgen

import (
	"burstgen/metrics"
	log "github.com/sirupsen/logrus"
	"time"
)

// Sink persists bursts. WriteBurst must have completed, successfully or not,
// when it returns.
type Sink interface {
	WriteBurst(b Burst) error
}

// Stream repeatedly assembles bursts and hands them to a sink until
// Spec.StreamDurationMs has elapsed on Clock.
type Stream struct {
	Spec      *PacketSpec
	Codec     FrameCodec
	Assembler BurstAssembler
	Sink      Sink
	Clock     Clock
	Metrics   *metrics.Recorder
	Log       *log.Entry

	bursts uint64
}

func NewStream(spec *PacketSpec, codec FrameCodec, sink Sink, clock Clock) *Stream {
	logger := log.WithField("prefix", "stream")
	return &Stream{
		Spec:  spec,
		Codec: codec,
		Assembler: &Assembler{
			Clock: clock,
			Log:   log.WithField("prefix", "assembler"),
		},
		Sink:  sink,
		Clock: clock,
		Log:   logger,
	}
}

// Bursts returns the number of bursts produced so far.
func (s *Stream) Bursts() uint64 {
	return s.bursts
}

// Run generates bursts until the stream duration has elapsed. The first sink
// error stops the run and is returned as a *SinkWriteError.
func (s *Stream) Run() error {
	if s.Log == nil {
		s.Log = log.NewEntry(log.StandardLogger())
	}
	if s.Clock == nil {
		s.Clock = SystemClock
	}
	if s.Assembler == nil {
		s.Assembler = &Assembler{Clock: s.Clock, Log: s.Log}
	}

	if err := s.Spec.Validate(); err != nil {
		return err
	}
	if err := s.Codec.Validate(s.Spec); err != nil {
		return err
	}

	s.Log.WithField("protocol", s.Codec.Protocol()).
		WithField("duration_ms", s.Spec.StreamDurationMs).
		WithField("burst_size", s.Spec.BurstSize).
		WithField("burst_period_us", s.Spec.BurstPeriodUs).
		WithField("max_packet_size", s.Spec.MaxPacketSize).
		Info("starting stream")

	deadline := NewDeadline(s.Clock, time.Duration(s.Spec.StreamDurationMs)*time.Millisecond)
	for !deadline.Expired() {
		burstNo := s.bursts + 1
		s.Log.WithField("burst", burstNo).Debug("generating burst")

		burst, err := s.Assembler.Assemble(s.Spec, s.Codec)
		if err != nil {
			return err
		}

		if err := s.Sink.WriteBurst(burst); err != nil {
			s.Log.WithField("burst", burstNo).
				WithField("error", err).
				Error("failed to write burst")
			return &SinkWriteError{Burst: burstNo, Err: err}
		}

		s.bursts = burstNo
		s.Metrics.ObserveBurst(burstStats(burst))

		s.Log.WithField("burst", burstNo).
			WithField("frames", burst.Frames()).
			WithField("bytes", burst.Size()).
			Debug("burst finished generating")
	}

	s.Log.WithField("bursts", s.bursts).Info("stream finished")
	return nil
}

func burstStats(b Burst) metrics.BurstStats {
	stats := metrics.BurstStats{
		Protocol:  b.Protocol.String(),
		Truncated: b.Truncated,
	}
	for _, e := range b.Entries {
		switch e := e.(type) {
		case Frame:
			stats.Frames++
			stats.FrameBytes += len(e)
		case GapMarker:
			stats.Gaps++
			stats.GapBytes += len(e)
		}
	}
	return stats
}
