package sink

import (
	"bytes"
	"burstgen"
	"errors"
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
)

func TestHexWriteBurst(t *testing.T) {
	var buf bytes.Buffer
	s := NewHexWriter(&buf)

	err := s.WriteBurst(burstgen.Burst{
		Protocol: burstgen.PayloadEthernet,
		Entries: []burstgen.Entry{
			burstgen.Frame{0xAB, 0x01, 0xFF},
			burstgen.GapMarker{0x07, 0x07},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "ab01ff0707", buf.String())

	err = s.WriteBurst(burstgen.Burst{
		Protocol: burstgen.PayloadEcpri,
		Entries:  []burstgen.Entry{burstgen.Frame{0x15, 0x00}},
	})
	assert.NoError(t, err)
	assert.Equal(t, "ab01ff07071500", buf.String())
	assert.Equal(t, int64(14), s.Written())
}

func TestHexFileTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	assert.NoError(t, os.WriteFile(path, []byte("stale content"), 0o644))

	s, err := CreateHexFile(path)
	assert.NoError(t, err)
	assert.NoError(t, s.WriteBurst(burstgen.Burst{Entries: []burstgen.Entry{burstgen.Frame{0xDE, 0xAD}}}))
	assert.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "dead", string(data))
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestHexWriteError(t *testing.T) {
	s := NewHexWriter(brokenWriter{})

	err := s.WriteBurst(burstgen.Burst{Entries: []burstgen.Entry{burstgen.Frame{0x01}}})
	assert.EqualError(t, err, "disk full")
}

func TestCreateHexFileInMissingDir(t *testing.T) {
	_, err := CreateHexFile(filepath.Join(t.TempDir(), "nope", "out.txt"))
	assert.Error(t, err)
}
