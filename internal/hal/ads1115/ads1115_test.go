// internal/hal/ads1115/ads1115_test.go
package ads1115

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// ---- fake converter ----

type fakeADC struct {
	raw    int16
	writes [][]byte
	fail   bool
}

func (f *fakeADC) Tx(w, r []byte) error {
	if f.fail {
		return errors.New("i2c: nack")
	}
	f.writes = append(f.writes, append([]byte(nil), w...))
	if len(r) == 2 {
		r[0] = byte(uint16(f.raw) >> 8)
		r[1] = byte(uint16(f.raw))
	}
	return nil
}

func newTestDevice(cfg Config, adc *fakeADC) (*Device, *uint16) {
	var dialed uint16
	d := newDevice(cfg, func(addr uint16) txer {
		dialed = addr
		return adc
	})
	d.sleep = func(time.Duration) {}
	return d, &dialed
}

// rawFor returns the converter code for a voltage at ±4.096 V.
func rawFor(v float64) int16 {
	return int16(math.Round(v * 32768.0 / pgaFS))
}

// ---- tests ----

func TestConfigForChannelBytes(t *testing.T) {
	// channel 0, sample rate 128 -> C3 83
	msb, lsb, err := configForChannel(0, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msb != 0xC3 || lsb != 0x83 {
		t.Fatalf("channel0@128 => got %02X %02X; want C3 83", msb, lsb)
	}

	// channel 1, sample rate 128 -> D3 83
	msb, lsb, _ = configForChannel(1, 128)
	if msb != 0xD3 || lsb != 0x83 {
		t.Fatalf("channel1@128 => got %02X %02X; want D3 83", msb, lsb)
	}

	// sample rate 8 for channel 0 -> C3 03
	msb, lsb, _ = configForChannel(0, 8)
	if msb != 0xC3 || lsb != 0x03 {
		t.Fatalf("channel0@8 => got %02X %02X; want C3 03", msb, lsb)
	}

	// fastest rate, channel 3 -> F3 E3
	msb, lsb, _ = configForChannel(3, 860)
	if msb != 0xF3 || lsb != 0xE3 {
		t.Fatalf("channel3@860 => got %02X %02X; want F3 E3", msb, lsb)
	}

	// unlisted rate falls back to 128 SPS
	msb, lsb, _ = configForChannel(2, 100)
	if msb != 0xE3 || lsb != 0x83 {
		t.Fatalf("channel2@100 => got %02X %02X; want E3 83", msb, lsb)
	}

	if _, _, err := configForChannel(-1, 128); err == nil {
		t.Fatalf("expected error for negative channel")
	}
	if _, _, err := configForChannel(9, 128); err == nil {
		t.Fatalf("expected error for invalid channel")
	}
}

func TestOpen_DialsBasePlusAddress(t *testing.T) {
	d, dialed := newTestDevice(Config{BaseAddress: 0x48, SampleRate: 128}, &fakeADC{})

	if err := d.Open(2); err != nil {
		t.Fatalf("open: %v", err)
	}
	if *dialed != 0x4A {
		t.Fatalf("dialed 0x%02X want 0x4A", *dialed)
	}
}

func TestOpen_ProbeFailure(t *testing.T) {
	d, _ := newTestDevice(Config{BaseAddress: 0x48}, &fakeADC{fail: true})

	if err := d.Open(0); err == nil {
		t.Fatalf("expected probe error")
	}
}

func TestTemperature_AmplifierTransfer(t *testing.T) {
	// 1.25 V + 25 degC * 5 mV = 1.375 V
	adc := &fakeADC{raw: rawFor(1.375)}
	d, _ := newTestDevice(Config{BaseAddress: 0x48, SampleRate: 128}, adc)
	_ = d.Open(0)

	temp, err := d.Temperature(0, 0)
	if err != nil {
		t.Fatalf("temperature: %v", err)
	}
	if math.Abs(temp-25) > 0.05 {
		t.Fatalf("temperature: got %f want ~25", temp)
	}
}

func TestTemperature_AppliesCalibration(t *testing.T) {
	adc := &fakeADC{raw: rawFor(1.375)}
	cfg := Config{
		BaseAddress: 0x48,
		SampleRate:  128,
		Boards: map[uint8]BoardInfo{
			0: {Calibration: map[int]thermo.CalibrationCoeffs{1: {Slope: 2, Offset: 1}}},
		},
	}
	d, _ := newTestDevice(cfg, adc)
	_ = d.Open(0)

	temp, _ := d.Temperature(0, 1)
	if math.Abs(temp-51) > 0.1 {
		t.Fatalf("calibrated temperature: got %f want ~51", temp)
	}
}

func TestCJC_Unsupported(t *testing.T) {
	d, _ := newTestDevice(Config{BaseAddress: 0x48}, &fakeADC{})
	_ = d.Open(0)

	if _, err := d.CJCTemperature(0, 0); !errors.Is(err, thermo.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestSetTCType(t *testing.T) {
	d, _ := newTestDevice(Config{BaseAddress: 0x48}, &fakeADC{})
	_ = d.Open(0)

	if err := d.SetTCType(0, 0, thermo.TypeJ); !errors.Is(err, thermo.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for J, got %v", err)
	}
	if err := d.SetTCType(0, 0, thermo.TypeDisabled); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := d.Temperature(0, 0); err == nil {
		t.Fatalf("expected disabled channel error")
	}
}

func TestStatic_FromConfig(t *testing.T) {
	cfg := Config{
		BaseAddress: 0x48,
		Boards: map[uint8]BoardInfo{
			1: {Serial: "AMP-001", CalibrationDate: "2025-01-10", UpdateInterval: 2},
		},
	}
	d, _ := newTestDevice(cfg, &fakeADC{})
	_ = d.Open(1)

	sn, _ := d.Serial(1)
	date, _ := d.CalibrationDate(1, 0)
	iv, _ := d.UpdateInterval(1)
	if sn != "AMP-001" || date != "2025-01-10" || iv != 2 {
		t.Fatalf("static: %q %q %d", sn, date, iv)
	}
}
