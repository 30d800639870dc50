// internal/collector/collector.go
package collector

import (
	"github.com/tamzrod/thermo-cli/internal/hal"
	"github.com/tamzrod/thermo-cli/internal/logger"
	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// Collector turns hardware reads into BoardInfo and ChannelReading values.
// It performs blocking I/O and caches nothing; deduplication is the caller's job.
type Collector struct {
	dev hal.Device
	log *logger.Logger
}

func New(dev hal.Device, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Nop()
	}
	return &Collector{dev: dev, log: log}
}

// NumChannels reports the per-board channel count of the device.
func (c *Collector) NumChannels() int {
	return c.dev.NumChannels()
}

// CollectBoardInfo fills the requested board-level fields of info and the
// requested calibration fields of channel.
// On error info may be partially filled and must be discarded.
func (c *Collector) CollectBoardInfo(info *thermo.BoardInfo, channel int, f thermo.StaticFields) error {
	addr := info.Address

	if f.Serial {
		sn, err := c.dev.Serial(addr)
		c.log.Debugw("read serial", "address", addr, "serial", sn, "err", err)
		if err != nil {
			return hwErr("read serial", addr, -1, err)
		}
		info.Serial = sn
		info.HasSerial = sn != ""
	}

	if f.UpdateInterval {
		iv, err := c.dev.UpdateInterval(addr)
		c.log.Debugw("read update interval", "address", addr, "interval", iv, "err", err)
		if err != nil {
			return hwErr("read update interval", addr, -1, err)
		}
		info.UpdateInterval = iv
		info.HasUpdateInterval = iv > 0
	}

	return c.CollectChannelConfig(info, channel, f)
}

// CollectChannelConfig fills only the per-channel calibration slot of info.
func (c *Collector) CollectChannelConfig(info *thermo.BoardInfo, channel int, f thermo.StaticFields) error {
	addr := info.Address

	if !f.CalibrationDate && !f.CalibrationCoeffs {
		return nil
	}

	slot := info.Channel(channel)
	if slot == nil {
		return hwErr("read calibration", addr, channel, errInvalidChannel)
	}

	if f.CalibrationDate {
		date, err := c.dev.CalibrationDate(addr, channel)
		c.log.Debugw("read calibration date", "address", addr, "channel", channel, "date", date, "err", err)
		if err != nil {
			return hwErr("read calibration date", addr, channel, err)
		}
		slot.CalibrationDate = date
		slot.HasCalibrationDate = date != ""
	}

	if f.CalibrationCoeffs {
		cal, err := c.dev.CalibrationCoeffs(addr, channel)
		c.log.Debugw("read calibration coefficients", "address", addr, "channel", channel,
			"slope", cal.Slope, "offset", cal.Offset, "err", err)
		if err != nil {
			return hwErr("read calibration coefficients", addr, channel, err)
		}
		slot.Calibration = cal
		slot.HasCalibration = !cal.Zero()
	}

	return nil
}

// CollectChannelReading reads the requested dynamic fields into a new reading.
// Any failure aborts: no partial reading is returned.
func (c *Collector) CollectChannelReading(address uint8, channel int, f thermo.DynamicFields) (thermo.ChannelReading, error) {
	r := thermo.ChannelReading{Address: address, Channel: channel}

	if f.Temperature {
		v, err := c.dev.Temperature(address, channel)
		if err != nil {
			return thermo.ChannelReading{}, hwErr("read temperature", address, channel, err)
		}
		r.Temperature, r.HasTemperature = v, true
	}

	if f.ADC {
		v, err := c.dev.ADCVoltage(address, channel)
		if err != nil {
			return thermo.ChannelReading{}, hwErr("read adc voltage", address, channel, err)
		}
		r.ADCVoltage, r.HasADC = v, true
	}

	if f.CJC {
		v, err := c.dev.CJCTemperature(address, channel)
		if err != nil {
			return thermo.ChannelReading{}, hwErr("read cjc temperature", address, channel, err)
		}
		r.CJCTemperature, r.HasCJC = v, true
	}

	c.log.Debugw("read channel", "address", address, "channel", channel,
		"temperature", r.Temperature, "adc", r.ADCVoltage, "cjc", r.CJCTemperature)

	return r, nil
}
