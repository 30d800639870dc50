// internal/hal/ads1115/ads1115.go
package ads1115

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// NumChannels is the number of single-ended ADS1115 inputs.
const NumChannels = 4

const (
	pointerConv   = 0x00
	pointerConfig = 0x01

	// full scale of PGA setting 001
	pgaFS = 4.096

	// AD8495 transfer function: 1.25 V reference, 5 mV/degC
	ampRefV    = 1.25
	ampVPerDeg = 0.005
)

// BoardInfo is the static data supplied by config for one board.
type BoardInfo struct {
	Serial          string
	CalibrationDate string
	UpdateInterval  int
	Calibration     map[int]thermo.CalibrationCoeffs
}

type Config struct {
	Bus         string
	BaseAddress uint16
	SampleRate  int
	Boards      map[uint8]BoardInfo
}

// txer is the part of i2c.Dev the driver needs.
type txer interface {
	Tx(w, r []byte) error
}

// Device reads AD8495 thermocouple amplifiers through ADS1115 converters.
// Each board address is one converter at BaseAddress+address.
type Device struct {
	cfg  Config
	bus  i2c.BusCloser
	dial func(addr uint16) txer

	devs     map[uint8]txer
	disabled map[uint8]map[int]bool
	sleep    func(time.Duration)
}

// New initializes the host and opens the I2C bus.
func New(cfg Config) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c: %w", err)
	}
	d := newDevice(cfg, func(addr uint16) txer {
		return &i2c.Dev{Addr: addr, Bus: bus}
	})
	d.bus = bus
	return d, nil
}

func newDevice(cfg Config, dial func(addr uint16) txer) *Device {
	return &Device{
		cfg:      cfg,
		dial:     dial,
		devs:     make(map[uint8]txer),
		disabled: make(map[uint8]map[int]bool),
		sleep:    time.Sleep,
	}
}

// Shutdown closes the I2C bus.
func (d *Device) Shutdown() error {
	if d.bus != nil {
		return d.bus.Close()
	}
	return nil
}

func (d *Device) NumChannels() int { return NumChannels }

// Open probes the converter by reading its config register.
func (d *Device) Open(address uint8) error {
	addr := d.cfg.BaseAddress + uint16(address)
	dev := d.dial(addr)
	buf := make([]byte, 2)
	if err := dev.Tx([]byte{pointerConfig}, buf); err != nil {
		return fmt.Errorf("probe 0x%02X: %w", addr, err)
	}
	d.devs[address] = dev
	d.disabled[address] = make(map[int]bool)
	return nil
}

func (d *Device) Close(address uint8) error {
	delete(d.devs, address)
	delete(d.disabled, address)
	return nil
}

// SetTCType accepts K (the AD8495 curve) or Disabled.
func (d *Device) SetTCType(address uint8, channel int, tc thermo.TCType) error {
	if _, err := d.check(address, channel); err != nil {
		return err
	}
	switch tc {
	case thermo.TypeK:
		d.disabled[address][channel] = false
	case thermo.TypeDisabled:
		d.disabled[address][channel] = true
	default:
		return fmt.Errorf("type %s: %w", tc, thermo.ErrUnsupported)
	}
	return nil
}

// ---- static ----

func (d *Device) Serial(address uint8) (string, error) {
	if _, err := d.check(address, 0); err != nil {
		return "", err
	}
	return d.cfg.Boards[address].Serial, nil
}

func (d *Device) CalibrationDate(address uint8, channel int) (string, error) {
	if _, err := d.check(address, channel); err != nil {
		return "", err
	}
	return d.cfg.Boards[address].CalibrationDate, nil
}

func (d *Device) CalibrationCoeffs(address uint8, channel int) (thermo.CalibrationCoeffs, error) {
	if _, err := d.check(address, channel); err != nil {
		return thermo.CalibrationCoeffs{}, err
	}
	return d.cfg.Boards[address].Calibration[channel], nil
}

func (d *Device) UpdateInterval(address uint8) (int, error) {
	if _, err := d.check(address, 0); err != nil {
		return 0, err
	}
	return d.cfg.Boards[address].UpdateInterval, nil
}

// ---- dynamic ----

// Temperature converts the amplifier output and applies config calibration.
func (d *Device) Temperature(address uint8, channel int) (float64, error) {
	if _, err := d.check(address, channel); err != nil {
		return 0, err
	}
	if d.disabled[address][channel] {
		return 0, fmt.Errorf("channel %d disabled", channel)
	}
	v, err := d.ADCVoltage(address, channel)
	if err != nil {
		return 0, err
	}
	t := (v - ampRefV) / ampVPerDeg
	if cal := d.cfg.Boards[address].Calibration[channel]; !cal.Zero() {
		t = t*cal.Slope + cal.Offset
	}
	return t, nil
}

func (d *Device) ADCVoltage(address uint8, channel int) (float64, error) {
	dev, err := d.check(address, channel)
	if err != nil {
		return 0, err
	}
	msb, lsb, err := configForChannel(channel, d.cfg.SampleRate)
	if err != nil {
		return 0, err
	}
	// write config
	if err := dev.Tx([]byte{pointerConfig, msb, lsb}, nil); err != nil {
		return 0, fmt.Errorf("write config: %w", err)
	}
	// wait for conversion
	rate := d.cfg.SampleRate
	if rate <= 0 {
		rate = 128
	}
	d.sleep(time.Duration(1000/rate+2) * time.Millisecond)
	// read conversion
	buf := make([]byte, 2)
	if err := dev.Tx([]byte{pointerConv}, buf); err != nil {
		return 0, fmt.Errorf("read conv: %w", err)
	}
	raw := int16(buf[0])<<8 | int16(buf[1])
	return float64(raw) * pgaFS / 32768.0, nil
}

// CJCTemperature is not available: the AD8495 compensates internally.
func (d *Device) CJCTemperature(address uint8, channel int) (float64, error) {
	if _, err := d.check(address, channel); err != nil {
		return 0, err
	}
	return 0, thermo.ErrUnsupported
}

// ---- helpers ----

func (d *Device) check(address uint8, channel int) (txer, error) {
	dev, ok := d.devs[address]
	if !ok {
		return nil, fmt.Errorf("board %d not open", address)
	}
	if channel < 0 || channel >= NumChannels {
		return nil, fmt.Errorf("invalid channel %d", channel)
	}
	return dev, nil
}

// ---- config register ----

const (
	cfgStartSingle = 1 << 15
	cfgMuxShift    = 12
	cfgPGAShift    = 9
	cfgModeSingle  = 1 << 8
	cfgDRShift     = 5
	cfgCompOff     = 0x3

	// AIN0 vs GND; AINn vs GND follows at muxSingleEnded+n
	muxSingleEnded = 0x4
	// PGA code of the 4.096 V full scale
	pga4096 = 0x1
	// DR code used for unlisted sample rates (128 SPS)
	defaultDR = 0x4
)

// dataRates holds the selectable rates in SPS, indexed by DR code.
var dataRates = [...]int{8, 16, 32, 64, 128, 250, 475, 860}

func dataRateCode(sps int) uint16 {
	for code, r := range dataRates {
		if r == sps {
			return uint16(code)
		}
	}
	return defaultDR
}

func muxCode(channel int) (uint16, error) {
	if channel < 0 || channel >= NumChannels {
		return 0, fmt.Errorf("invalid channel %d", channel)
	}
	return muxSingleEnded + uint16(channel), nil
}

// configForChannel returns the config register (MSB, LSB) that starts one
// single-shot, single-ended conversion of channel at pgaFS.
func configForChannel(channel, sampleRate int) (byte, byte, error) {
	mux, err := muxCode(channel)
	if err != nil {
		return 0, 0, err
	}
	reg := uint16(cfgStartSingle) |
		mux<<cfgMuxShift |
		pga4096<<cfgPGAShift |
		cfgModeSingle |
		dataRateCode(sampleRate)<<cfgDRShift |
		cfgCompOff
	return byte(reg >> 8), byte(reg), nil
}
