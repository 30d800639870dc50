// internal/hal/sim/sim_test.go
package sim

import (
	"testing"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

func TestDevice_RequiresOpen(t *testing.T) {
	d := New(Config{Addresses: []uint8{0}, Seed: 1})

	if _, err := d.Temperature(0, 0); err == nil {
		t.Fatalf("expected error reading unopened board")
	}
	if err := d.Open(0); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := d.Temperature(0, 0); err != nil {
		t.Fatalf("temperature: %v", err)
	}
	if err := d.Close(0); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := d.Serial(0); err == nil {
		t.Fatalf("expected error after close")
	}
}

func TestDevice_MissingBoard(t *testing.T) {
	d := New(Config{Addresses: []uint8{1}, Seed: 1})

	if err := d.Open(0); err == nil {
		t.Fatalf("expected error opening absent board")
	}
}

func TestDevice_StaticData(t *testing.T) {
	d := New(Config{Addresses: []uint8{2}, Seed: 1})
	_ = d.Open(2)

	sn, err := d.Serial(2)
	if err != nil || sn != "SIM00002" {
		t.Fatalf("serial: %q %v", sn, err)
	}
	cal, err := d.CalibrationCoeffs(2, 1)
	if err != nil || cal.Zero() {
		t.Fatalf("calibration: %+v %v", cal, err)
	}
	if _, err := d.CalibrationDate(2, 4); err == nil {
		t.Fatalf("expected invalid channel error")
	}
}

func TestDevice_TemperatureNearBaseline(t *testing.T) {
	d := New(Config{Addresses: []uint8{0}, Seed: 7})
	_ = d.Open(0)

	for ch := 0; ch < NumChannels; ch++ {
		v, err := d.Temperature(0, ch)
		if err != nil {
			t.Fatalf("ch%d: %v", ch, err)
		}
		base := ambientC + 0.5*float64(ch)
		if v < base-1 || v > base+1 {
			t.Fatalf("ch%d: %f outside %f±1", ch, v, base)
		}
	}
}

func TestDevice_DisabledChannel(t *testing.T) {
	d := New(Config{Addresses: []uint8{0}, Seed: 1})
	_ = d.Open(0)

	if err := d.SetTCType(0, 3, thermo.TypeDisabled); err != nil {
		t.Fatalf("set tc type: %v", err)
	}
	if _, err := d.Temperature(0, 3); err == nil {
		t.Fatalf("expected error on disabled channel")
	}
}

func TestDevice_Addresses(t *testing.T) {
	d := New(Config{Addresses: []uint8{5, 1, 3}, Seed: 1})

	got, _ := d.Addresses()
	if len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 5 {
		t.Fatalf("addresses: %v", got)
	}
}
