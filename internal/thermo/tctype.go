// internal/thermo/tctype.go
package thermo

import (
	"fmt"
	"strings"
)

// TCType is the thermocouple type code a channel is configured for.
// Values follow the board firmware encoding.
type TCType uint8

const (
	TypeJ TCType = iota
	TypeK
	TypeT
	TypeE
	TypeR
	TypeS
	TypeB
	TypeN
)

// TypeDisabled turns a channel off.
const TypeDisabled TCType = 0xFF

var tcNames = map[TCType]string{
	TypeJ:        "J",
	TypeK:        "K",
	TypeT:        "T",
	TypeE:        "E",
	TypeR:        "R",
	TypeS:        "S",
	TypeB:        "B",
	TypeN:        "N",
	TypeDisabled: "DISABLED",
}

func (t TCType) String() string {
	if s, ok := tcNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TCType(%d)", uint8(t))
}

// ParseTCType accepts a type letter or "disabled", case-insensitive.
func ParseTCType(s string) (TCType, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range tcNames {
		if name == v {
			return t, nil
		}
	}
	return 0, &ConfigError{Field: "tc_type", Msg: fmt.Sprintf("unknown thermocouple type %q", s)}
}

// UnmarshalText lets TCType be used directly in YAML config.
func (t *TCType) UnmarshalText(b []byte) error {
	v, err := ParseTCType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TCType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
