// internal/hal/builder.go
package hal

import (
	"time"

	cfg "github.com/tamzrod/thermo-cli/internal/config"
	"github.com/tamzrod/thermo-cli/internal/hal/ads1115"
	hmodbus "github.com/tamzrod/thermo-cli/internal/hal/modbus"
	"github.com/tamzrod/thermo-cli/internal/hal/sim"
	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// Build constructs the Device selected by driver config.
// Config MUST be validated and normalized.
// The returned closer releases the transport (bus, serial port).
func Build(d cfg.DriverConfig) (Device, func() error, error) {
	switch d.Type {
	case cfg.DriverSim:
		dev := sim.New(sim.Config{
			Addresses: d.Sim.Addresses,
			Seed:      d.Sim.Seed,
		})
		return dev, func() error { return nil }, nil

	case cfg.DriverModbus:
		dev, err := hmodbus.New(hmodbus.Config{
			Port:      d.Modbus.Port,
			BaudRate:  d.Modbus.BaudRate,
			DataBits:  d.Modbus.DataBits,
			Parity:    d.Modbus.Parity,
			StopBits:  d.Modbus.StopBits,
			Timeout:   time.Duration(d.Modbus.TimeoutMs) * time.Millisecond,
			SlaveBase: d.Modbus.SlaveBase,
			WordSwap:  d.Modbus.WordSwap,
		})
		if err != nil {
			return nil, nil, err
		}
		return dev, dev.Shutdown, nil

	case cfg.DriverADS1115:
		boards := make(map[uint8]ads1115.BoardInfo, len(d.ADS1115.Boards))
		for addr, b := range d.ADS1115.Boards {
			cal := make(map[int]thermo.CalibrationCoeffs, len(b.Channels))
			for ch, c := range b.Channels {
				cal[ch] = thermo.CalibrationCoeffs{Slope: c.Slope, Offset: c.Offset}
			}
			boards[addr] = ads1115.BoardInfo{
				Serial:          b.Serial,
				CalibrationDate: b.CalibrationDate,
				UpdateInterval:  b.UpdateInterval,
				Calibration:     cal,
			}
		}
		dev, err := ads1115.New(ads1115.Config{
			Bus:         d.ADS1115.Bus,
			BaseAddress: d.ADS1115.BaseAddress,
			SampleRate:  d.ADS1115.SampleRate,
			Boards:      boards,
		})
		if err != nil {
			return nil, nil, err
		}
		return dev, dev.Shutdown, nil
	}

	return nil, nil, &thermo.ConfigError{Field: "driver.type", Msg: "unknown driver " + d.Type}
}
