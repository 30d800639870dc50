// internal/thermo/errors.go
package thermo

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by drivers for fields the hardware cannot provide.
var ErrUnsupported = errors.New("not supported by driver")

// ConfigError reports invalid user input (flags or config file).
// It is raised before any hardware is touched.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Msg
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// HardwareError reports a failed open/configure/read on a board.
// Channel is -1 for board-level operations.
type HardwareError struct {
	Op      string
	Address uint8
	Channel int
	Err     error
}

func (e *HardwareError) Error() string {
	if e.Channel < 0 {
		return fmt.Sprintf("hardware: %s (address=%d): %v", e.Op, e.Address, e.Err)
	}
	return fmt.Sprintf("hardware: %s (address=%d channel=%d): %v", e.Op, e.Address, e.Channel, e.Err)
}

func (e *HardwareError) Unwrap() error { return e.Err }
