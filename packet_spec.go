package burstgen

import (
	"fmt"
	"math/rand"
	"net"
	"strings"
)

// PayloadType selects the framing used for a run.
type PayloadType int

const (
	PayloadEthernet PayloadType = iota + 1
	PayloadEcpri
	// PayloadRandom picks PayloadEthernet or PayloadEcpri when resolved.
	PayloadRandom
)

var payloadTypeNames = map[PayloadType]string{
	PayloadEthernet: "ETHERNET",
	PayloadEcpri:    "ECPRI",
	PayloadRandom:   "RANDOM",
}

func (t PayloadType) String() string {
	if name, ok := payloadTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PayloadType(%d)", int(t))
}

// ParsePayloadType matches s case-insensitively against the payload type names.
func ParsePayloadType(s string) (PayloadType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t, n := range payloadTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPayloadType, s)
}

// Resolve returns the concrete payload type for a run. PayloadRandom draws a
// fresh choice on every call.
func (t PayloadType) Resolve() PayloadType {
	return t.ResolveWith(rand.Intn)
}

// ResolveWith is Resolve with an injectable source of randomness; intn must
// return a value in [0, n).
func (t PayloadType) ResolveWith(intn func(n int) int) PayloadType {
	if t != PayloadRandom {
		return t
	}
	if intn(2) == 0 {
		return PayloadEthernet
	}
	return PayloadEcpri
}

// EthernetFields are the ethernet specific parts of a PacketSpec.
type EthernetFields struct {
	IFGCount    uint
	Source      net.HardwareAddr
	Destination net.HardwareAddr
	EtherType   EtherType
	Tagging     TagData
}

// EcpriFields are the eCPRI specific parts of a PacketSpec.
type EcpriFields struct {
	ProtocolVersion uint8
	Reserved        uint8
	C               bool
}

func (f *EcpriFields) Header() EcpriHeader {
	return EcpriHeader{
		ProtocolVersion: f.ProtocolVersion,
		Reserved:        f.Reserved,
		C:               f.C,
	}
}

// PacketSpec describes everything needed to generate one run. It is read-only
// once generation starts. Exactly one of Ethernet and Ecpri is set, matching
// PayloadType.
type PacketSpec struct {
	StreamDurationMs uint
	BurstSize        uint
	BurstPeriodUs    uint
	MaxPacketSize    uint

	PayloadType PayloadType
	Ethernet    *EthernetFields
	Ecpri       *EcpriFields
}

func (s *PacketSpec) Validate() error {
	switch s.PayloadType {
	case PayloadEthernet:
		if s.Ethernet == nil || s.Ecpri != nil {
			return ErrProtocolMismatch
		}
		if len(s.Ethernet.Source) != 6 || len(s.Ethernet.Destination) != 6 {
			return fmt.Errorf("ethernet addresses must be 6 bytes, got source %d destination %d",
				len(s.Ethernet.Source), len(s.Ethernet.Destination))
		}
	case PayloadEcpri:
		if s.Ecpri == nil || s.Ethernet != nil {
			return ErrProtocolMismatch
		}
	case PayloadRandom:
		return ErrUnresolvedPayload
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPayloadType, s.PayloadType)
	}
	return nil
}
