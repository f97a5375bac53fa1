package burstgen

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// Widths of the bit fields packed into the first eCPRI header byte.
const (
	EcpriVersionBits  = 4
	EcpriReservedBits = 3
	EcpriCBits        = 1
)

// EcpriMessageTypeIQData is the message type carried by every generated frame.
const EcpriMessageTypeIQData uint8 = 0

// EcpriHeaderLen is the fixed overhead of an eCPRI frame: header byte, message
// type and the 2-byte payload length indicator.
const EcpriHeaderLen = 1 + 1 + 2

var (
	ErrFieldOverflow = errors.New("value does not fit its bit field")
	ErrNotBinary     = errors.New("bit field must only contain 0 and 1")
)

// ParseBitField parses a binary string into a field of the given width.
// Strings shorter than width are treated as left-padded with zeros, longer
// strings are rejected.
func ParseBitField(s string, width int) (uint8, error) {
	s = strings.TrimSpace(s)
	if len(s) > width {
		return 0, fmt.Errorf("%w: %q is wider than %d bits", ErrFieldOverflow, s, width)
	}

	var v uint8
	for _, c := range s {
		switch c {
		case '0':
			v <<= 1
		case '1':
			v = v<<1 | 1
		default:
			return 0, fmt.Errorf("%w: %q", ErrNotBinary, s)
		}
	}
	return v, nil
}

// EcpriHeader holds the fields packed into the first byte of an eCPRI frame.
type EcpriHeader struct {
	ProtocolVersion uint8 // 4-bit protocol revision
	Reserved        uint8 // 3-bit reserved
	C               bool  // concatenation indicator
}

// Byte packs the header most significant field first:
// version(4) | reserved(3) | c(1).
func (h EcpriHeader) Byte() (byte, error) {
	if h.ProtocolVersion >= 1<<EcpriVersionBits {
		return 0, fmt.Errorf("%w: protocol version %d", ErrFieldOverflow, h.ProtocolVersion)
	}
	if h.Reserved >= 1<<EcpriReservedBits {
		return 0, fmt.Errorf("%w: reserved %d", ErrFieldOverflow, h.Reserved)
	}

	b := h.ProtocolVersion<<(EcpriReservedBits+EcpriCBits) | h.Reserved<<EcpriCBits
	if h.C {
		b |= 1
	}
	return b, nil
}

func ParseEcpriHeader(b byte) EcpriHeader {
	return EcpriHeader{
		ProtocolVersion: b >> (EcpriReservedBits + EcpriCBits),
		Reserved:        (b >> EcpriCBits) & (1<<EcpriReservedBits - 1),
		C:               b&1 == 1,
	}
}

// PackEcpriHeader packs the binary string forms of the header fields, e.g.
// PackEcpriHeader("0001", "010", "1") == 0x15.
func PackEcpriHeader(version, reserved, c string) (byte, error) {
	v, err := ParseBitField(version, EcpriVersionBits)
	if err != nil {
		return 0, fmt.Errorf("protocol version: %w", err)
	}
	r, err := ParseBitField(reserved, EcpriReservedBits)
	if err != nil {
		return 0, fmt.Errorf("reserved: %w", err)
	}
	cb, err := ParseBitField(c, EcpriCBits)
	if err != nil {
		return 0, fmt.Errorf("c: %w", err)
	}

	return EcpriHeader{ProtocolVersion: v, Reserved: r, C: cb == 1}.Byte()
}

// EcpriFrame represents an eCPRI frame: common header followed by payload.
type EcpriFrame []byte

func (f EcpriFrame) Header() EcpriHeader {
	return ParseEcpriHeader(f[0])
}

func (f EcpriFrame) MessageType() uint8 {
	return f[1]
}

// PayloadLength returns the payload length indicator. It carries the maximum
// packet size the frame was built for.
func (f EcpriFrame) PayloadLength() uint16 {
	return binary.BigEndian.Uint16(f[2:4])
}

func (f EcpriFrame) Payload() []byte {
	return f[EcpriHeaderLen:]
}

// NewEcpriFrame builds a frame of EcpriHeaderLen+payloadSize bytes.
func NewEcpriFrame(fields *EcpriFields, lengthIndicator uint16, payloadSize int, payload io.Reader) (EcpriFrame, error) {
	header, err := fields.Header().Byte()
	if err != nil {
		return nil, err
	}

	f := make(EcpriFrame, EcpriHeaderLen+payloadSize)
	f[0] = header
	f[1] = EcpriMessageTypeIQData
	binary.BigEndian.PutUint16(f[2:4], lengthIndicator)

	if err := readPayload(payload, f.Payload()); err != nil {
		return nil, err
	}
	return f, nil
}

// EcpriCodec builds eCPRI frames. eCPRI bursts carry no inter-frame gap.
type EcpriCodec struct {
	// Payload supplies payload bytes. crypto/rand is used when nil.
	Payload io.Reader
}

func NewEcpriCodec() *EcpriCodec {
	return &EcpriCodec{}
}

func (c *EcpriCodec) Protocol() PayloadType {
	return PayloadEcpri
}

func (c *EcpriCodec) Validate(spec *PacketSpec) error {
	if spec.Ecpri == nil {
		return ErrProtocolMismatch
	}
	if spec.MaxPacketSize > math.MaxUint16 {
		return fmt.Errorf("%w: %d", ErrPacketTooLarge, spec.MaxPacketSize)
	}
	if _, err := spec.Ecpri.Header().Byte(); err != nil {
		return err
	}
	_, err := payloadSize(spec, EcpriHeaderLen)
	return err
}

func (c *EcpriCodec) BuildFrame(spec *PacketSpec) (Frame, error) {
	if err := c.Validate(spec); err != nil {
		return nil, err
	}

	size, _ := payloadSize(spec, EcpriHeaderLen)
	f, err := NewEcpriFrame(spec.Ecpri, uint16(spec.MaxPacketSize), size, c.Payload)
	if err != nil {
		return nil, err
	}
	return Frame(f), nil
}
