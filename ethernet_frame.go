package burstgen

import (
	"encoding/binary"
	"github.com/songgao/packets/ethernet"
	"hash/crc32"
	"io"
	"net"
)

// Fixed parts of an ethernet frame on the wire.
const (
	PreambleLen           = 8
	PreambleByte     byte = 0x55
	StartOfFrameByte byte = 0xFD
	ChecksumLen           = 4
	IFGByte          byte = 0x07

	macHeaderLen = 6 + 6 + 2

	// EthernetOverhead is the number of bytes an untagged frame spends on
	// everything but its payload.
	EthernetOverhead = PreambleLen + 1 + macHeaderLen + ChecksumLen
)

// EthernetFrame represents an ethernet frame as emitted on the wire, preamble
// and start-of-frame delimiter first, checksum last. The length of the
// underlying slice always reflects the frame length.
type EthernetFrame []byte

// Preamble returns the preamble field of the frame.
//
// It is not safe to use this method if f is nil or an invalid ethernet frame.
func (f EthernetFrame) Preamble() []byte {
	return f[:PreambleLen:PreambleLen]
}

// StartOfFrame returns the start-of-frame delimiter.
func (f EthernetFrame) StartOfFrame() byte {
	return f[PreambleLen]
}

// MAC returns the part of the frame between the start-of-frame delimiter and
// the checksum. The returned frame references a slice on f.
func (f EthernetFrame) MAC() ethernet.Frame {
	return ethernet.Frame(f[PreambleLen+1 : len(f)-ChecksumLen : len(f)-ChecksumLen])
}

// Destination returns the destination address field of the frame.
func (f EthernetFrame) Destination() net.HardwareAddr {
	mac := f.MAC()
	return mac.Destination()
}

// Source returns the source address field of the frame.
func (f EthernetFrame) Source() net.HardwareAddr {
	mac := f.MAC()
	return mac.Source()
}

// Tagging returns whether/how the frame has 802.1Q tag(s), read from the tag
// type after the source address. An untagged frame whose ether type is 0x8100
// or 0x88A8 reads as tagged; use EtherTypeWith and PayloadWith when the
// tagging is known.
func (f EthernetFrame) Tagging() VlanTagging {
	mac := f.MAC()
	t := VlanTagging(mac.Tagging())
	if len(mac) < macHeaderLen+int(t) {
		return TaggingUntagged
	}
	return t
}

// EtherType returns the ethertype field of the frame.
func (f EthernetFrame) EtherType() EtherType {
	return f.EtherTypeWith(f.Tagging())
}

// EtherTypeWith returns the ethertype field of a frame carrying tagging.
func (f EthernetFrame) EtherTypeWith(tagging VlanTagging) EtherType {
	mac := f.MAC()
	at := macHeaderLen - 2 + int(tagging)
	return EtherType{mac[at], mac[at+1]}
}

// Payload returns a slice holding the payload part of the frame.
func (f EthernetFrame) Payload() []byte {
	return f.PayloadWith(f.Tagging())
}

// PayloadWith returns the payload of a frame carrying tagging.
func (f EthernetFrame) PayloadWith(tagging VlanTagging) []byte {
	mac := f.MAC()
	return mac[macHeaderLen+int(tagging):]
}

// Checksum returns the frame check sequence carried in the last four bytes.
func (f EthernetFrame) Checksum() uint32 {
	return binary.BigEndian.Uint32(f[len(f)-ChecksumLen:])
}

// VerifyChecksum recomputes the CRC-32 over everything but the trailing
// checksum and compares it to the carried one.
func (f EthernetFrame) VerifyChecksum() bool {
	if len(f) < EthernetOverhead {
		return false
	}
	return crc32.ChecksumIEEE(f[:len(f)-ChecksumLen]) == f.Checksum()
}

// NewEthernetFrame builds a frame holding payloadSize bytes read from payload.
// The MAC header is laid out by ethernet.Frame.Prepare, the preamble,
// start-of-frame delimiter and CRC-32 are wrapped around it.
func NewEthernetFrame(fields *EthernetFields, payloadSize int, payload io.Reader) (EthernetFrame, error) {
	tagging := fields.Tagging.GetTagging()

	var mac ethernet.Frame
	mac.Prepare(fields.Destination, fields.Source, tagging.tagging(), fields.EtherType.ethertype(), payloadSize)

	// sliced by the configured tagging, mac.Tags() guesses it from the bytes
	tagEnd := 12 + int(tagging)
	fields.Tagging.fill(mac[12:tagEnd])

	if err := readPayload(payload, mac[tagEnd+2:]); err != nil {
		return nil, err
	}

	f := make(EthernetFrame, 0, PreambleLen+1+len(mac)+ChecksumLen)
	for i := 0; i < PreambleLen; i++ {
		f = append(f, PreambleByte)
	}
	f = append(f, StartOfFrameByte)
	f = append(f, mac...)
	f = binary.BigEndian.AppendUint32(f, crc32.ChecksumIEEE(f))

	return f, nil
}

// EthernetCodec builds ethernet frames padded with random payload up to the
// maximum packet size, each followed by an inter-frame gap.
type EthernetCodec struct {
	// Payload supplies payload bytes. crypto/rand is used when nil.
	Payload io.Reader
}

func NewEthernetCodec() *EthernetCodec {
	return &EthernetCodec{}
}

func (c *EthernetCodec) Protocol() PayloadType {
	return PayloadEthernet
}

// Overhead is the number of non-payload bytes in every frame built for spec.
func (c *EthernetCodec) Overhead(spec *PacketSpec) int {
	return EthernetOverhead + int(spec.Ethernet.Tagging.GetTagging())
}

func (c *EthernetCodec) Validate(spec *PacketSpec) error {
	if spec.Ethernet == nil {
		return ErrProtocolMismatch
	}
	_, err := payloadSize(spec, c.Overhead(spec))
	return err
}

func (c *EthernetCodec) BuildFrame(spec *PacketSpec) (Frame, error) {
	if spec.Ethernet == nil {
		return nil, ErrProtocolMismatch
	}

	size, err := payloadSize(spec, c.Overhead(spec))
	if err != nil {
		return nil, err
	}

	f, err := NewEthernetFrame(spec.Ethernet, size, c.Payload)
	if err != nil {
		return nil, err
	}
	return Frame(f), nil
}

// GapMarker returns IFGByte repeated once per configured inter-frame gap.
func (c *EthernetCodec) GapMarker(spec *PacketSpec) GapMarker {
	gap := make(GapMarker, spec.Ethernet.IFGCount)
	for i := range gap {
		gap[i] = IFGByte
	}
	return gap
}
