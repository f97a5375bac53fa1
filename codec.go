package burstgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

var (
	ErrPacketTooSmall     = errors.New("max packet size does not cover the frame overhead")
	ErrPacketTooLarge     = errors.New("max packet size does not fit the length field")
	ErrProtocolMismatch   = errors.New("packet spec does not carry fields for this protocol")
	ErrUnresolvedPayload  = errors.New("payload type must be resolved before choosing a codec")
	ErrUnknownPayloadType = errors.New("unknown payload type")
	ErrShortPayloadSource = errors.New("payload source ran dry")
)

// Entry is one element of a burst: a frame or a gap marker.
type Entry interface {
	Bytes() []byte
}

// Frame is one packet as it goes on the wire.
type Frame []byte

func (f Frame) Bytes() []byte {
	return f
}

// GapMarker is filler inserted between frames to emulate the inter-frame gap.
type GapMarker []byte

func (g GapMarker) Bytes() []byte {
	return g
}

// FrameCodec turns a PacketSpec into frames of one protocol.
type FrameCodec interface {
	// Protocol returns the payload type the codec produces.
	Protocol() PayloadType

	// Validate reports whether frames can be built for spec. It is called once
	// before generation starts.
	Validate(spec *PacketSpec) error

	// BuildFrame returns a freshly allocated frame.
	BuildFrame(spec *PacketSpec) (Frame, error)
}

// GapCodec is implemented by codecs that separate frames with a gap marker.
type GapCodec interface {
	GapMarker(spec *PacketSpec) GapMarker
}

// NewCodec returns the codec for a resolved payload type.
func NewCodec(payloadType PayloadType) (FrameCodec, error) {
	switch payloadType {
	case PayloadEthernet:
		return NewEthernetCodec(), nil
	case PayloadEcpri:
		return NewEcpriCodec(), nil
	case PayloadRandom:
		return nil, ErrUnresolvedPayload
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPayloadType, payloadType)
	}
}

func payloadSize(spec *PacketSpec, overhead int) (int, error) {
	size := int(spec.MaxPacketSize) - overhead
	if size < 0 {
		return 0, fmt.Errorf("%w: %d < %d", ErrPacketTooSmall, spec.MaxPacketSize, overhead)
	}
	return size, nil
}

func readPayload(src io.Reader, payload []byte) error {
	if src == nil {
		src = rand.Reader
	}
	if _, err := io.ReadFull(src, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrShortPayloadSource, err)
	}
	return nil
}
