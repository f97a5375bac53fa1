package burstgen

import (
	log "github.com/sirupsen/logrus"
	"time"
)

// Burst is the ordered list of frames and gap markers produced under one
// deadline.
type Burst struct {
	Protocol PayloadType
	Entries  []Entry

	// Truncated is set when the deadline closed the burst before BurstSize
	// frames were built.
	Truncated bool
}

func (b Burst) Frames() int {
	n := 0
	for _, e := range b.Entries {
		if _, ok := e.(Frame); ok {
			n++
		}
	}
	return n
}

func (b Burst) Gaps() int {
	return len(b.Entries) - b.Frames()
}

// Size returns the number of bytes in the burst.
func (b Burst) Size() int {
	n := 0
	for _, e := range b.Entries {
		n += len(e.Bytes())
	}
	return n
}

const maxPreallocEntries = 4096

// BurstAssembler produces one burst per call.
type BurstAssembler interface {
	Assemble(spec *PacketSpec, codec FrameCodec) (Burst, error)
}

// Assembler builds bursts against a deadline of spec.BurstPeriodUs measured
// from the start of each Assemble call.
type Assembler struct {
	Clock Clock
	Log   *log.Entry
}

func NewAssembler(clock Clock) *Assembler {
	return &Assembler{
		Clock: clock,
		Log:   log.WithField("prefix", "assembler"),
	}
}

// Assemble builds at most spec.BurstSize frames. The deadline is checked before
// every frame; once it has passed the gap marker is appended one last time and
// the burst is closed. Codecs without a gap marker simply stop.
func (a *Assembler) Assemble(spec *PacketSpec, codec FrameCodec) (Burst, error) {
	logger := a.logger()
	burst := Burst{
		Protocol: codec.Protocol(),
		Entries:  make([]Entry, 0, min(2*spec.BurstSize, maxPreallocEntries)),
	}
	gapper, hasGap := codec.(GapCodec)
	deadline := NewDeadline(a.clock(), time.Duration(spec.BurstPeriodUs)*time.Microsecond)

	for i := uint(0); i < spec.BurstSize; i++ {
		if deadline.Expired() {
			burst.Truncated = true
			if hasGap {
				burst.Entries = append(burst.Entries, gapper.GapMarker(spec))
				logger.Trace("added IFG to buffer")
			}

			logger.WithField("frames", i).
				WithField("burst_size", spec.BurstSize).
				Debug("burst deadline reached")
			break
		}

		frame, err := codec.BuildFrame(spec)
		if err != nil {
			return Burst{}, err
		}

		burst.Entries = append(burst.Entries, frame)
		logger.WithField("size", len(frame)).Trace("added packet to buffer")

		if hasGap {
			burst.Entries = append(burst.Entries, gapper.GapMarker(spec))
			logger.Trace("added IFG to buffer")
		}
	}

	return burst, nil
}

func (a *Assembler) clock() Clock {
	if a.Clock == nil {
		return SystemClock
	}
	return a.Clock
}

func (a *Assembler) logger() *log.Entry {
	if a.Log == nil {
		return log.NewEntry(log.StandardLogger())
	}
	return a.Log
}
