// cmd/thermo-cli/request.go
package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tamzrod/thermo-cli/internal/config"
	"github.com/tamzrod/thermo-cli/internal/output"
	"github.com/tamzrod/thermo-cli/internal/session"
	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// request is one fully resolved get invocation.
type request struct {
	cfg     *config.Config
	session session.Config
	format  output.Format
	stream  bool
}

// loadConfig resolves the source list and driver from either a config file
// or the single-source flags. The result is validated and normalized.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	var cfg *config.Config

	if path := v.GetString("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		addr := v.GetInt("address")
		if addr < 0 || addr >= config.MaxBoards {
			return nil, &thermo.ConfigError{
				Field: "address",
				Msg:   fmt.Sprintf("%d out of range 0-%d", addr, config.MaxBoards-1),
			}
		}
		cfg = &config.Config{
			Sources: []config.SourceConfig{{
				Address: uint8(addr),
				Channel: v.GetInt("channel"),
				Key:     v.GetString("key"),
				TCType:  v.GetString("tc-type"),
			}},
		}
	}

	if d := v.GetString("driver"); d != "" {
		cfg.Driver.Type = d
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

// buildRequest turns flags into a session request.
// streamSet reports whether --stream was given on the command line.
func buildRequest(v *viper.Viper, streamSet bool) (*request, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	static := thermo.StaticFields{
		Serial:            v.GetBool("serial"),
		CalibrationDate:   v.GetBool("cali-date"),
		CalibrationCoeffs: v.GetBool("cali-coeffs"),
		UpdateInterval:    v.GetBool("update-interval"),
	}
	dynamic := thermo.DynamicFields{
		Temperature: v.GetBool("temp"),
		ADC:         v.GetBool("adc"),
		CJC:         v.GetBool("cjc"),
	}
	if !static.Any() && !dynamic.Any() {
		dynamic.Temperature = true
	}

	req := &request{
		cfg: cfg,
		session: session.Config{
			Sources: cfg.ThermalSources(),
			Static:  static,
			Dynamic: dynamic,
		},
		format: output.Format{
			JSON:    v.GetBool("json"),
			Compact: v.GetBool("compact"),
			Clean:   v.GetBool("clean"),
		},
	}

	rate := v.GetFloat64("stream")
	if streamSet || rate != 0 {
		if err := config.ValidateRate(rate); err != nil {
			return nil, err
		}
		if !dynamic.Any() {
			return nil, &thermo.ConfigError{Field: "stream", Msg: "at least one of --temp, --adc, --cjc required"}
		}
		req.stream = true
		req.session.Rate = rate
		// one document per line
		req.format.Compact = true
	}

	return req, nil
}
