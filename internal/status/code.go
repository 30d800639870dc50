// internal/status/code.go
package status

import (
	"context"
	"errors"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// Code maps an error to a process exit code without inspecting messages.
// Cancellation is a clean stop.
func Code(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitOK
	}

	var ce *thermo.ConfigError
	if errors.As(err, &ce) {
		return ExitConfig
	}
	var he *thermo.HardwareError
	if errors.As(err, &he) {
		return ExitHardware
	}

	return ExitGeneric
}
