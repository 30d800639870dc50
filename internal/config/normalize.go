// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// SOURCES
	// ------------------------------------------------------------

	for i := range cfg.Sources {
		s := &cfg.Sources[i]
		s.Key = strings.TrimSpace(s.Key)
		if s.TCType == "" {
			s.TCType = "K"
		}
	}

	// ------------------------------------------------------------
	// DRIVER DEFAULTS
	// ------------------------------------------------------------

	d := &cfg.Driver
	if d.Type == "" {
		d.Type = DriverSim
	}

	switch d.Type {
	case DriverSim:
		if len(d.Sim.Addresses) == 0 {
			d.Sim.Addresses = sourceAddresses(cfg.Sources)
		}

	case DriverModbus:
		m := &d.Modbus
		if m.BaudRate == 0 {
			m.BaudRate = 19200
		}
		if m.DataBits == 0 {
			m.DataBits = 8
		}
		if m.Parity == "" {
			m.Parity = "E"
		}
		if m.StopBits == 0 {
			m.StopBits = 1
		}
		if m.TimeoutMs == 0 {
			m.TimeoutMs = 500
		}
		if m.SlaveBase == 0 {
			m.SlaveBase = 1
		}

	case DriverADS1115:
		a := &d.ADS1115
		if a.Bus == "" {
			a.Bus = "1"
		}
		if a.BaseAddress == 0 {
			a.BaseAddress = 0x48
		}
		if a.SampleRate == 0 {
			a.SampleRate = 128
		}
	}
}

// sourceAddresses returns distinct addresses in first-seen order.
func sourceAddresses(sources []SourceConfig) []uint8 {
	var out []uint8
	seen := make(map[uint8]bool)
	for _, s := range sources {
		if !seen[s.Address] {
			seen[s.Address] = true
			out = append(out, s.Address)
		}
	}
	return out
}
