// internal/hal/sim/sim.go
package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// NumChannels matches the reference board.
const NumChannels = 4

const (
	ambientC        = 22.0
	cjcC            = 24.5
	seebeckVPerC    = 40.7e-6 // type K near room temperature
	calibrationDate = "2024-03-15"
	updateInterval  = 1
)

// Config selects which boards the simulator exposes.
type Config struct {
	Addresses []uint8
	Seed      int64
}

type board struct {
	open bool
	tc   [NumChannels]thermo.TCType
}

// Device simulates a stack of thermocouple boards.
// Not safe for concurrent use.
type Device struct {
	boards map[uint8]*board
	rng    *rand.Rand
	start  time.Time
	now    func() time.Time
}

// New creates a simulator. Seed 0 picks a time-based seed.
func New(cfg Config) *Device {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	d := &Device{
		boards: make(map[uint8]*board, len(cfg.Addresses)),
		rng:    rand.New(rand.NewSource(seed)),
		start:  time.Now(),
		now:    time.Now,
	}
	for _, a := range cfg.Addresses {
		b := &board{}
		for ch := range b.tc {
			b.tc[ch] = thermo.TypeK
		}
		d.boards[a] = b
	}
	return d
}

// Addresses lists the simulated boards in ascending order.
func (d *Device) Addresses() ([]uint8, error) {
	out := make([]uint8, 0, len(d.boards))
	for a := range d.boards {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (d *Device) NumChannels() int { return NumChannels }

func (d *Device) Open(address uint8) error {
	b, ok := d.boards[address]
	if !ok {
		return fmt.Errorf("sim: no board at address %d", address)
	}
	b.open = true
	return nil
}

func (d *Device) Close(address uint8) error {
	if b, ok := d.boards[address]; ok {
		b.open = false
	}
	return nil
}

func (d *Device) SetTCType(address uint8, channel int, tc thermo.TCType) error {
	b, err := d.channel(address, channel)
	if err != nil {
		return err
	}
	b.tc[channel] = tc
	return nil
}

// ---- static ----

func (d *Device) Serial(address uint8) (string, error) {
	if _, err := d.board(address); err != nil {
		return "", err
	}
	return fmt.Sprintf("SIM%05d", address), nil
}

func (d *Device) CalibrationDate(address uint8, channel int) (string, error) {
	if _, err := d.channel(address, channel); err != nil {
		return "", err
	}
	return calibrationDate, nil
}

func (d *Device) CalibrationCoeffs(address uint8, channel int) (thermo.CalibrationCoeffs, error) {
	if _, err := d.channel(address, channel); err != nil {
		return thermo.CalibrationCoeffs{}, err
	}
	return thermo.CalibrationCoeffs{
		Slope:  1 + 0.0001*float64(channel),
		Offset: -0.002 * float64(int(address)+1),
	}, nil
}

func (d *Device) UpdateInterval(address uint8) (int, error) {
	if _, err := d.board(address); err != nil {
		return 0, err
	}
	return updateInterval, nil
}

// ---- dynamic ----

func (d *Device) Temperature(address uint8, channel int) (float64, error) {
	b, err := d.channel(address, channel)
	if err != nil {
		return 0, err
	}
	if b.tc[channel] == thermo.TypeDisabled {
		return 0, fmt.Errorf("sim: channel %d disabled", channel)
	}
	return d.hotJunction(address, channel), nil
}

func (d *Device) ADCVoltage(address uint8, channel int) (float64, error) {
	if _, err := d.channel(address, channel); err != nil {
		return 0, err
	}
	delta := d.hotJunction(address, channel) - d.coldJunction()
	return delta * seebeckVPerC, nil
}

func (d *Device) CJCTemperature(address uint8, channel int) (float64, error) {
	if _, err := d.channel(address, channel); err != nil {
		return 0, err
	}
	return d.coldJunction(), nil
}

// ---- helpers ----

func (d *Device) board(address uint8) (*board, error) {
	b, ok := d.boards[address]
	if !ok {
		return nil, fmt.Errorf("sim: no board at address %d", address)
	}
	if !b.open {
		return nil, fmt.Errorf("sim: board %d not open", address)
	}
	return b, nil
}

func (d *Device) channel(address uint8, channel int) (*board, error) {
	b, err := d.board(address)
	if err != nil {
		return nil, err
	}
	if channel < 0 || channel >= NumChannels {
		return nil, fmt.Errorf("sim: invalid channel %d", channel)
	}
	return b, nil
}

// hotJunction drifts slowly around a per-channel baseline.
func (d *Device) hotJunction(address uint8, channel int) float64 {
	elapsed := d.now().Sub(d.start).Seconds()
	base := ambientC + float64(address) + 0.5*float64(channel)
	drift := 0.8 * math.Sin(elapsed/30+float64(channel))
	noise := (d.rng.Float64() - 0.5) * 0.05
	return base + drift + noise
}

func (d *Device) coldJunction() float64 {
	return cjcC + (d.rng.Float64()-0.5)*0.02
}
