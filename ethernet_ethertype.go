package burstgen

import (
	"encoding/binary"
	"fmt"
	"github.com/songgao/packets/ethernet"
)

// EtherType is a type used represent the EtherType of an ethernet frame.
// Defined as a 2-byte array, variables of this type are intended to be used as
// immutable values.
type EtherType [2]byte

func (e EtherType) Equal(other EtherType) bool {
	return e[0] == other[0] && e[1] == other[1]
}

func (e EtherType) Uint16() uint16 {
	return binary.BigEndian.Uint16(e[:])
}

func (e EtherType) String() string {
	return fmt.Sprintf("0x%04x", e.Uint16())
}

func (e EtherType) ethertype() ethernet.Ethertype {
	return ethernet.Ethertype(e)
}

// EtherTypeFromBytes copies a 2-byte big-endian ether type. It fails on any
// other length.
func EtherTypeFromBytes(b []byte) (EtherType, error) {
	if len(b) != 2 {
		return EtherType{}, fmt.Errorf("ether type must be 2 bytes, got %d", len(b))
	}
	return EtherType{b[0], b[1]}, nil
}

// Common EtherType values
var (
	EtherTypeIPv4          = EtherType{0x08, 0x00}
	EtherTypeARP           = EtherType{0x08, 0x06}
	EtherTypeVLAN          = EtherType{0x81, 0x00}
	EtherTypeIPv6          = EtherType{0x86, 0xDD}
	EtherTypeMPLS          = EtherType{0x88, 0x47}
	EtherTypeQinQ          = EtherType{0x88, 0xA8}
	EtherTypeLLDP          = EtherType{0x88, 0xCC}
	EtherTypePTP           = EtherType{0x88, 0xF7}
	EtherTypeEcpri         = EtherType{0xAE, 0xFE}
	EtherTypeFlowControl   = EtherType{0x88, 0x08}
	EtherTypeEtherCAT      = EtherType{0x88, 0xA4}
	EtherTypeRoCE          = EtherType{0x89, 0x15}
	EtherTypeJumboFrames   = EtherType{0x88, 0x70}
	EtherTypeVeritasLLT    = EtherType{0xCA, 0xFE}
	EtherTypeEthernetCFM   = EtherType{0x89, 0x02}
	EtherTypeMACsecurity   = EtherType{0x88, 0xE5}
	EtherTypeHomePlugAVMME = EtherType{0x88, 0xE1}
)
