// internal/config/validate.go
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &thermo.ConfigError{Msg: "nil config"}
	}

	// ------------------------------------------------------------
	// SOURCES
	// ------------------------------------------------------------

	if len(cfg.Sources) == 0 {
		return &thermo.ConfigError{Field: "sources", Msg: "at least one source required"}
	}

	// key = address | channel
	seen := make(map[string]int)
	keys := make(map[string]int)

	for i, s := range cfg.Sources {
		if err := ValidateSource(s.Address, s.Channel); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}

		if s.TCType != "" {
			if _, err := thermo.ParseTCType(s.TCType); err != nil {
				return fmt.Errorf("source %d: %w", i, err)
			}
		}

		id := fmt.Sprintf("%d|%d", s.Address, s.Channel)
		if prev, exists := seen[id]; exists {
			return &thermo.ConfigError{
				Field: "sources",
				Msg: fmt.Sprintf(
					"address=%d channel=%d listed by sources %d and %d",
					s.Address, s.Channel, prev, i,
				),
			}
		}
		seen[id] = i

		// compared as Normalize will store them
		if key := strings.TrimSpace(s.Key); key != "" {
			if prev, exists := keys[key]; exists {
				return &thermo.ConfigError{
					Field: "sources",
					Msg:   fmt.Sprintf("key %q used by sources %d and %d", key, prev, i),
				}
			}
			keys[key] = i
		}
	}

	// ------------------------------------------------------------
	// DRIVER
	// ------------------------------------------------------------

	return validateDriver(cfg)
}

// ValidateSource range-checks one address/channel pair.
func ValidateSource(address uint8, channel int) error {
	if int(address) >= MaxBoards {
		return &thermo.ConfigError{
			Field: "address",
			Msg:   fmt.Sprintf("%d out of range 0-%d", address, MaxBoards-1),
		}
	}
	if channel < 0 || channel >= NumChannels {
		return &thermo.ConfigError{
			Field: "channel",
			Msg:   fmt.Sprintf("%d out of range 0-%d", channel, NumChannels-1),
		}
	}
	return nil
}

// ValidateRate checks a streaming rate in Hz.
func ValidateRate(hz float64) error {
	if !(hz > 0) {
		return &thermo.ConfigError{Field: "stream", Msg: fmt.Sprintf("rate must be > 0 Hz, got %v", hz)}
	}
	// the period 1/hz must fit in a time.Duration
	if !(float64(time.Second)/hz < float64(math.MaxInt64)) {
		return &thermo.ConfigError{Field: "stream", Msg: fmt.Sprintf("rate %v Hz too low", hz)}
	}
	return nil
}

func validateDriver(cfg *Config) error {
	d := cfg.Driver

	switch d.Type {
	case "", DriverSim:
		for _, a := range d.Sim.Addresses {
			if int(a) >= MaxBoards {
				return &thermo.ConfigError{
					Field: "driver.sim.addresses",
					Msg:   fmt.Sprintf("%d out of range 0-%d", a, MaxBoards-1),
				}
			}
		}

	case DriverModbus:
		if d.Modbus.Port == "" {
			return &thermo.ConfigError{Field: "driver.modbus.port", Msg: "required"}
		}
		switch d.Modbus.Parity {
		case "", "N", "E", "O":
		default:
			return &thermo.ConfigError{
				Field: "driver.modbus.parity",
				Msg:   fmt.Sprintf("must be N, E or O, got %q", d.Modbus.Parity),
			}
		}
		// every board must map to a valid slave id (1-247)
		for _, s := range cfg.Sources {
			id := int(d.Modbus.SlaveBase) + int(s.Address)
			if d.Modbus.SlaveBase != 0 && id > 247 {
				return &thermo.ConfigError{
					Field: "driver.modbus.slave_base",
					Msg:   fmt.Sprintf("address %d maps to slave id %d (max 247)", s.Address, id),
				}
			}
		}

	case DriverADS1115:
		base := d.ADS1115.BaseAddress
		if base != 0 && (base < 0x48 || base > 0x4B) {
			return &thermo.ConfigError{
				Field: "driver.ads1115.base_address",
				Msg:   fmt.Sprintf("0x%02X outside 0x48-0x4B", base),
			}
		}
		if base == 0 {
			base = 0x48
		}
		for _, s := range cfg.Sources {
			if uint16(s.Address)+base > 0x4B {
				return &thermo.ConfigError{
					Field: "address",
					Msg:   fmt.Sprintf("%d maps past i2c address 0x4B", s.Address),
				}
			}
		}

	default:
		return &thermo.ConfigError{Field: "driver.type", Msg: fmt.Sprintf("unknown driver %q", d.Type)}
	}

	return nil
}
