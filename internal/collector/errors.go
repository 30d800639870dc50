// internal/collector/errors.go
package collector

import (
	"errors"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

var errInvalidChannel = errors.New("channel outside board range")

func hwErr(op string, address uint8, channel int, err error) error {
	return &thermo.HardwareError{Op: op, Address: address, Channel: channel, Err: err}
}
