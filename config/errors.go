package config

import (
	"burstgen"
	"errors"
	"fmt"
)

var ErrMissingKey = errors.New("missing config key")

// FormatError reports a config line that could not be understood.
type FormatError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config line %d %q: %s: %v", e.Line, e.Text, e.Reason, e.Err)
	}
	return fmt.Sprintf("config line %d %q: %s", e.Line, e.Text, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// UnknownPayloadTypeError reports a PAYLOAD_TYPE that names none of ETHERNET,
// ECPRI or RANDOM.
type UnknownPayloadTypeError struct {
	Line  int
	Value string
}

func (e *UnknownPayloadTypeError) Error() string {
	return fmt.Sprintf("config line %d: no such payload type %q, use ETHERNET, ECPRI or RANDOM", e.Line, e.Value)
}

func (e *UnknownPayloadTypeError) Unwrap() error {
	return burstgen.ErrUnknownPayloadType
}
