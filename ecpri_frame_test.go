package burstgen

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"github.com/stretchr/testify/assert"
	"math"
	"testing"
)

func ecpriSpec(maxPacketSize uint) *PacketSpec {
	return &PacketSpec{
		StreamDurationMs: 10,
		BurstSize:        4,
		BurstPeriodUs:    1000,
		MaxPacketSize:    maxPacketSize,
		PayloadType:      PayloadEcpri,
		Ecpri: &EcpriFields{
			ProtocolVersion: 1,
			Reserved:        2,
			C:               true,
		},
	}
}

func TestPackEcpriHeader(t *testing.T) {
	cases := []struct {
		version, reserved, c string
		want                 byte
	}{
		{"0001", "010", "1", 0x15},
		{"0000", "000", "0", 0x00},
		{"1111", "111", "1", 0xFF},
		{"1", "", "0", 0x10},
	}

	for _, tc := range cases {
		b, err := PackEcpriHeader(tc.version, tc.reserved, tc.c)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, b, "%s|%s|%s", tc.version, tc.reserved, tc.c)
	}
}

func TestPackEcpriHeaderRejectsBadFields(t *testing.T) {
	_, err := PackEcpriHeader("10000", "000", "0")
	assert.ErrorIs(t, err, ErrFieldOverflow)

	_, err = PackEcpriHeader("0001", "0101", "0")
	assert.ErrorIs(t, err, ErrFieldOverflow)

	_, err = PackEcpriHeader("0001", "000", "2")
	assert.ErrorIs(t, err, ErrNotBinary)
}

func TestEcpriHeaderRoundTrip(t *testing.T) {
	h := ParseEcpriHeader(0x15)
	assert.Equal(t, EcpriHeader{ProtocolVersion: 1, Reserved: 2, C: true}, h)

	b, err := h.Byte()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x15), b)

	_, err = EcpriHeader{ProtocolVersion: 16}.Byte()
	assert.ErrorIs(t, err, ErrFieldOverflow)
}

func TestEcpriCodecBuildFrame(t *testing.T) {
	codec := &EcpriCodec{Payload: bytes.NewReader(bytes.Repeat([]byte{0xCD}, 128))}
	spec := ecpriSpec(64)

	assert.NoError(t, codec.Validate(spec))

	frame, err := codec.BuildFrame(spec)
	assert.NoError(t, err)
	fmt.Printf("%s", hex.Dump(frame))

	f := EcpriFrame(frame)
	assert.Len(t, f, 64)
	assert.Equal(t, byte(0x15), f[0])
	assert.Equal(t, spec.Ecpri.Header(), f.Header())
	assert.Equal(t, EcpriMessageTypeIQData, f.MessageType())
	assert.Equal(t, uint16(64), f.PayloadLength())
	assert.Equal(t, bytes.Repeat([]byte{0xCD}, 64-EcpriHeaderLen), f.Payload())
}

func TestEcpriCodecHasNoGap(t *testing.T) {
	var codec FrameCodec = NewEcpriCodec()

	_, ok := codec.(GapCodec)
	assert.False(t, ok)
}

func TestEcpriCodecLimits(t *testing.T) {
	codec := NewEcpriCodec()

	frame, err := codec.BuildFrame(ecpriSpec(EcpriHeaderLen))
	assert.NoError(t, err)
	assert.Len(t, frame, EcpriHeaderLen)

	assert.ErrorIs(t, codec.Validate(ecpriSpec(EcpriHeaderLen-1)), ErrPacketTooSmall)
	assert.ErrorIs(t, codec.Validate(ecpriSpec(math.MaxUint16+1)), ErrPacketTooLarge)
	assert.ErrorIs(t, codec.Validate(ethernetSpec(64, nil)), ErrProtocolMismatch)
}

func TestParseBitField(t *testing.T) {
	v, err := ParseBitField("", 4)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), v)

	v, err = ParseBitField("101", 3)
	assert.NoError(t, err)
	assert.Equal(t, uint8(5), v)

	_, err = ParseBitField("0101", 3)
	assert.ErrorIs(t, err, ErrFieldOverflow)

	_, err = ParseBitField("1x", 4)
	assert.ErrorIs(t, err, ErrNotBinary)
}
