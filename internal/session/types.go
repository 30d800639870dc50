// internal/session/types.go
package session

import "github.com/tamzrod/thermo-cli/internal/thermo"

// Collector is the hardware-to-struct contract the session drives.
// collector.Collector implements it.
type Collector interface {
	NumChannels() int
	CollectBoardInfo(info *thermo.BoardInfo, channel int, f thermo.StaticFields) error
	CollectChannelConfig(info *thermo.BoardInfo, channel int, f thermo.StaticFields) error
	CollectChannelReading(address uint8, channel int, f thermo.DynamicFields) (thermo.ChannelReading, error)
}

// Boards opens and configures board addresses.
// hal.Device implements it.
type Boards interface {
	Open(address uint8) error
	Close(address uint8) error
	SetTCType(address uint8, channel int, tc thermo.TCType) error
}

// Config is the immutable request of one session.
type Config struct {
	Sources []thermo.ThermalSource
	Static  thermo.StaticFields
	Dynamic thermo.DynamicFields

	// Rate is the streaming rate in Hz. Unused by Get.
	Rate float64
}
