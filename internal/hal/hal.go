// internal/hal/hal.go
package hal

import "github.com/tamzrod/thermo-cli/internal/thermo"

// ErrUnsupported is returned for fields a backend cannot provide.
var ErrUnsupported = thermo.ErrUnsupported

// Device abstracts the board-manager operations the collector needs.
// Every call is addressed by board address; a board must be opened first.
type Device interface {
	Open(address uint8) error
	Close(address uint8) error

	// NumChannels is the number of thermocouple inputs per board.
	NumChannels() int

	SetTCType(address uint8, channel int, tc thermo.TCType) error

	// ---- static ----
	Serial(address uint8) (string, error)
	CalibrationDate(address uint8, channel int) (string, error)
	CalibrationCoeffs(address uint8, channel int) (thermo.CalibrationCoeffs, error)
	UpdateInterval(address uint8) (int, error)

	// ---- dynamic ----
	Temperature(address uint8, channel int) (float64, error)
	ADCVoltage(address uint8, channel int) (float64, error)
	CJCTemperature(address uint8, channel int) (float64, error)
}

// Lister is implemented by devices that can enumerate present boards.
type Lister interface {
	Addresses() ([]uint8, error)
}
