// Package sink persists generated bursts.
package sink

import (
	"bufio"
	"burstgen"
	"encoding/hex"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
)

// HexFile writes every byte of every frame and gap marker as two lowercase hex
// characters. Nothing separates frames or bursts.
type HexFile struct {
	w       *bufio.Writer
	enc     io.Writer
	closer  io.Closer
	written int64
}

// NewHexWriter wraps w. The caller keeps ownership of w.
func NewHexWriter(w io.Writer) *HexFile {
	bw := bufio.NewWriter(w)
	return &HexFile{
		w:   bw,
		enc: hex.NewEncoder(bw),
	}
}

// CreateHexFile truncates or creates path and returns a sink appending to it.
func CreateHexFile(path string) (*HexFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	s := NewHexWriter(f)
	s.closer = f
	return s, nil
}

// WriteBurst appends the burst and flushes it before returning.
func (s *HexFile) WriteBurst(b burstgen.Burst) error {
	for _, e := range b.Entries {
		n, err := s.enc.Write(e.Bytes())
		s.written += int64(2 * n)
		if err != nil {
			return err
		}
	}

	if err := s.w.Flush(); err != nil {
		return err
	}

	log.WithField("prefix", "sink").
		WithField("entries", len(b.Entries)).
		WithField("written", s.written).
		Trace("burst written")
	return nil
}

// Written returns the number of hex characters written so far.
func (s *HexFile) Written() int64 {
	return s.written
}

func (s *HexFile) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cErr := s.closer.Close(); err == nil {
			err = cErr
		}
	}
	return err
}
