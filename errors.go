package burstgen

import (
	"errors"
	"fmt"
)

var ErrPermissionDenied = errors.New("permission denied")

// PermissionError reports a config file that cannot be read or an output file
// that cannot be written. It is raised before generation starts.
type PermissionError struct {
	Path string
	Op   string // "read" or "write"
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("no %s permission for file %s: %v", e.Op, e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// SinkWriteError reports a failure to persist a burst. It aborts the run; bursts
// written before it stay in the output.
type SinkWriteError struct {
	Burst uint64
	Err   error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("writing burst %d: %v", e.Burst, e.Err)
}

func (e *SinkWriteError) Unwrap() error {
	return e.Err
}
