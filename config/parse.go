package config

import (
	"bufio"
	"burstgen"
	"encoding/hex"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"strconv"
	"strings"
)

const commentPrefix = "//"

type valueKind int

const (
	kindUint valueKind = iota
	kindString
	kindBits
	kindHex
	kindPayloadType
)

type keySpec struct {
	kind  valueKind
	width int // zero padding for kindBits
}

var keys = map[string]keySpec{
	"STREAM_DURATION_MS":   {kind: kindUint},
	"BURST_SIZE":           {kind: kindUint},
	"BURST_PERIODICITY_US": {kind: kindUint},
	"IFGs_NUMBER":          {kind: kindUint},
	"VLAN_ID":              {kind: kindUint},
	"SERVICE_VLAN_ID":      {kind: kindUint},
	"MAX_PACKET_SIZE":      {kind: kindString},
	"PROTOCOL_VERSION":     {kind: kindBits, width: burstgen.EcpriVersionBits},
	"RESERVED":             {kind: kindBits, width: burstgen.EcpriReservedBits},
	"C":                    {kind: kindBits, width: burstgen.EcpriCBits},
	"PAYLOAD_SIZE":         {kind: kindBits, width: 16},
	"MESSAGE_TYPE":         {kind: kindHex},
	"SOURCE_ADDRESS":       {kind: kindHex},
	"DESTINATION_ADDRESS":  {kind: kindHex},
	"ETHER_TYPE":           {kind: kindHex},
	"PAYLOAD_TYPE":         {kind: kindPayloadType},
}

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, err
	}

	log.WithField("file", path).
		WithField("keys", len(cfg.present)).
		Debug("loaded config")
	return cfg, nil
}

// Parse reads KEY = VALUE lines. Everything after // is a comment, blank lines
// are skipped. The first malformed line aborts parsing.
func Parse(r io.Reader) (*Config, error) {
	values := make(map[string]interface{})

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()

		line := text
		if i := strings.Index(line, commentPrefix); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, err := parseLine(lineNo, text, line)
		if err != nil {
			return nil, err
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, err
	}

	cfg.present = make(map[string]bool, len(values))
	for key := range values {
		cfg.present[key] = true
	}
	return cfg, nil
}

func parseLine(lineNo int, text, line string) (string, interface{}, error) {
	parts := strings.Split(line, "=")
	if len(parts) != 2 {
		return "", nil, &FormatError{Line: lineNo, Text: text, Reason: "expected exactly one '='"}
	}

	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])

	spec, ok := keys[key]
	if !ok {
		return "", nil, &FormatError{Line: lineNo, Text: text, Reason: "unknown key " + strconv.Quote(key)}
	}

	switch spec.kind {
	case kindUint:
		n, err := strconv.ParseUint(value, 10, 0)
		if err != nil {
			return "", nil, &FormatError{Line: lineNo, Text: text, Reason: "expected a decimal integer", Err: err}
		}
		return key, uint(n), nil

	case kindString:
		return key, value, nil

	case kindBits:
		if len(value) < spec.width {
			value = strings.Repeat("0", spec.width-len(value)) + value
		}
		return key, value, nil

	case kindHex:
		b, err := decodeHex(value)
		if err != nil {
			return "", nil, &FormatError{Line: lineNo, Text: text, Reason: "expected a hexadecimal string", Err: err}
		}
		return key, b, nil

	case kindPayloadType:
		t, err := burstgen.ParsePayloadType(value)
		if err != nil {
			return "", nil, &UnknownPayloadTypeError{Line: lineNo, Value: value}
		}
		return key, t, nil
	}

	return "", nil, &FormatError{Line: lineNo, Text: text, Reason: "unsupported key"}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.Join(strings.Fields(s), "")
	return hex.DecodeString(s)
}
