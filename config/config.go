// Package config loads the line-oriented generator configuration and resolves
// it into a burstgen.PacketSpec.
package config

import (
	"burstgen"
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"strings"
)

// Config holds the values of a config file after per-key conversion. Bit
// fields keep their zero-padded binary string form, hexadecimal values are
// decoded to raw bytes.
type Config struct {
	StreamDurationMs   uint                 `mapstructure:"STREAM_DURATION_MS"`
	BurstSize          uint                 `mapstructure:"BURST_SIZE"`
	BurstPeriodicityUs uint                 `mapstructure:"BURST_PERIODICITY_US"`
	IFGsNumber         uint                 `mapstructure:"IFGs_NUMBER"`
	MaxPacketSize      string               `mapstructure:"MAX_PACKET_SIZE"`
	ProtocolVersion    string               `mapstructure:"PROTOCOL_VERSION"`
	Reserved           string               `mapstructure:"RESERVED"`
	C                  string               `mapstructure:"C"`
	PayloadSize        string               `mapstructure:"PAYLOAD_SIZE"`
	MessageType        []byte               `mapstructure:"MESSAGE_TYPE"`
	SourceAddress      []byte               `mapstructure:"SOURCE_ADDRESS"`
	DestinationAddress []byte               `mapstructure:"DESTINATION_ADDRESS"`
	EtherType          []byte               `mapstructure:"ETHER_TYPE"`
	PayloadType        burstgen.PayloadType `mapstructure:"PAYLOAD_TYPE"`
	VlanID             uint                 `mapstructure:"VLAN_ID"`
	ServiceVlanID      uint                 `mapstructure:"SERVICE_VLAN_ID"`

	present map[string]bool
}

// Has reports whether key was set in the config file.
func (c *Config) Has(key string) bool {
	return c.present[key]
}

func (c *Config) require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if !c.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
	}
	return nil
}

// PacketSpec resolves the config into the PacketSpec of one run. A RANDOM payload
// type is decided here, once per call.
func (c *Config) PacketSpec() (*burstgen.PacketSpec, error) {
	return c.PacketSpecWith(rand.Intn)
}

// PacketSpecWith is PacketSpec with an injectable random choice.
func (c *Config) PacketSpecWith(intn func(n int) int) (*burstgen.PacketSpec, error) {
	if err := c.require("STREAM_DURATION_MS", "BURST_SIZE", "BURST_PERIODICITY_US", "MAX_PACKET_SIZE", "PAYLOAD_TYPE"); err != nil {
		return nil, err
	}

	maxPacketSize, err := strconv.ParseUint(strings.TrimSpace(c.MaxPacketSize), 10, 0)
	if err != nil {
		return nil, fmt.Errorf("MAX_PACKET_SIZE: %w", err)
	}

	spec := &burstgen.PacketSpec{
		StreamDurationMs: c.StreamDurationMs,
		BurstSize:        c.BurstSize,
		BurstPeriodUs:    c.BurstPeriodicityUs,
		MaxPacketSize:    uint(maxPacketSize),
		PayloadType:      c.PayloadType.ResolveWith(intn),
	}

	switch spec.PayloadType {
	case burstgen.PayloadEthernet:
		spec.Ethernet, err = c.ethernetFields()
	case burstgen.PayloadEcpri:
		spec.Ecpri, err = c.ecpriFields()
	}
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func (c *Config) ethernetFields() (*burstgen.EthernetFields, error) {
	if err := c.require("SOURCE_ADDRESS", "DESTINATION_ADDRESS", "ETHER_TYPE"); err != nil {
		return nil, err
	}

	if len(c.SourceAddress) != 6 {
		return nil, fmt.Errorf("SOURCE_ADDRESS must be 6 bytes, got %d", len(c.SourceAddress))
	}
	if len(c.DestinationAddress) != 6 {
		return nil, fmt.Errorf("DESTINATION_ADDRESS must be 6 bytes, got %d", len(c.DestinationAddress))
	}
	etherType, err := burstgen.EtherTypeFromBytes(c.EtherType)
	if err != nil {
		return nil, fmt.Errorf("ETHER_TYPE: %w", err)
	}

	if c.VlanID > burstgen.MaxVlanID || c.ServiceVlanID > burstgen.MaxVlanID {
		return nil, fmt.Errorf("%w: VLAN_ID %d SERVICE_VLAN_ID %d", burstgen.ErrInvalidVlanID, c.VlanID, c.ServiceVlanID)
	}
	tags, err := burstgen.VlanTags(uint16(c.VlanID), uint16(c.ServiceVlanID))
	if err != nil {
		return nil, err
	}

	return &burstgen.EthernetFields{
		IFGCount:    c.IFGsNumber,
		Source:      net.HardwareAddr(append([]byte(nil), c.SourceAddress...)),
		Destination: net.HardwareAddr(append([]byte(nil), c.DestinationAddress...)),
		EtherType:   etherType,
		Tagging:     tags,
	}, nil
}

func (c *Config) ecpriFields() (*burstgen.EcpriFields, error) {
	version, err := burstgen.ParseBitField(c.ProtocolVersion, burstgen.EcpriVersionBits)
	if err != nil {
		return nil, fmt.Errorf("PROTOCOL_VERSION: %w", err)
	}
	reserved, err := burstgen.ParseBitField(c.Reserved, burstgen.EcpriReservedBits)
	if err != nil {
		return nil, fmt.Errorf("RESERVED: %w", err)
	}
	cBit, err := burstgen.ParseBitField(c.C, burstgen.EcpriCBits)
	if err != nil {
		return nil, fmt.Errorf("C: %w", err)
	}

	return &burstgen.EcpriFields{
		ProtocolVersion: version,
		Reserved:        reserved,
		C:               cBit == 1,
	}, nil
}
