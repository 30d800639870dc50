// internal/config/config.go
package config

import "github.com/tamzrod/thermo-cli/internal/thermo"

type Config struct {
	Driver  DriverConfig   `yaml:"driver"`
	Sources []SourceConfig `yaml:"sources"`
}

// ---- DRIVER ----

type DriverConfig struct {
	Type    string        `yaml:"type"` // sim | modbus | ads1115
	Sim     SimConfig     `yaml:"sim"`
	Modbus  ModbusConfig  `yaml:"modbus"`
	ADS1115 ADS1115Config `yaml:"ads1115"`
}

const (
	DriverSim     = "sim"
	DriverModbus  = "modbus"
	DriverADS1115 = "ads1115"
)

type SimConfig struct {
	Addresses []uint8 `yaml:"addresses"`
	Seed      int64   `yaml:"seed"`
}

// ModbusConfig describes an RS-485 thermocouple gateway.
type ModbusConfig struct {
	Port      string `yaml:"port"`
	BaudRate  int    `yaml:"baud_rate"`
	DataBits  int    `yaml:"data_bits"`
	Parity    string `yaml:"parity"` // N | E | O
	StopBits  int    `yaml:"stop_bits"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Slave id of board address 0. Board N answers on SlaveBase+N.
	SlaveBase uint8 `yaml:"slave_base"`
	WordSwap  bool  `yaml:"word_swap"`
}

type ADS1115Config struct {
	Bus         string                     `yaml:"bus"`
	BaseAddress uint16                     `yaml:"base_address"`
	SampleRate  int                        `yaml:"sample_rate"`
	Boards      map[uint8]ADS1115BoardInfo `yaml:"boards"`
}

// ADS1115BoardInfo carries the static data the ADC itself cannot report.
type ADS1115BoardInfo struct {
	Serial          string                       `yaml:"serial"`
	CalibrationDate string                       `yaml:"calibration_date"`
	UpdateInterval  int                          `yaml:"update_interval"`
	Channels        map[int]ADS1115ChannelConfig `yaml:"channels"`
}

type ADS1115ChannelConfig struct {
	Slope  float64 `yaml:"slope"`
	Offset float64 `yaml:"offset"`
}

// ---- SOURCES ----

type SourceConfig struct {
	Address uint8  `yaml:"address"`
	Channel int    `yaml:"channel"`
	Key     string `yaml:"key"`
	TCType  string `yaml:"tc_type"`
}

// ---- LIMITS ----

// MaxBoards is the number of addresses the board stack can select.
const MaxBoards = 8

// NumChannels is the channel count of the reference board.
const NumChannels = 4

// ThermalSources converts the validated source list into domain sources.
// It MUST be called only after Validate() and Normalize().
func (c *Config) ThermalSources() []thermo.ThermalSource {
	out := make([]thermo.ThermalSource, 0, len(c.Sources))
	for _, s := range c.Sources {
		tc, _ := thermo.ParseTCType(s.TCType)
		out = append(out, thermo.ThermalSource{
			Address: s.Address,
			Channel: s.Channel,
			Key:     s.Key,
			TCType:  tc,
		})
	}
	return out
}
