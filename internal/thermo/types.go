// internal/thermo/types.go
package thermo

// ---- STATIC DATA ----

// CalibrationCoeffs is the factory slope/offset pair of one channel.
type CalibrationCoeffs struct {
	Slope  float64
	Offset float64
}

// Zero reports the "not loaded" sentinel: slope AND offset exactly zero.
func (c CalibrationCoeffs) Zero() bool {
	return c.Slope == 0 && c.Offset == 0
}

// ChannelConfig is the static configuration of one physical channel.
type ChannelConfig struct {
	CalibrationDate    string
	HasCalibrationDate bool

	Calibration    CalibrationCoeffs
	HasCalibration bool

	TCType TCType
}

// BoardInfo is the static data of one board address.
// All channels of a board share one BoardInfo.
type BoardInfo struct {
	Address uint8

	Serial    string
	HasSerial bool

	// UpdateInterval is in seconds.
	UpdateInterval    int
	HasUpdateInterval bool

	// Channels holds one slot per physical channel, indexed by channel number.
	Channels []ChannelConfig
}

// NewBoardInfo returns an empty BoardInfo sized for numChannels.
func NewBoardInfo(address uint8, numChannels int) *BoardInfo {
	return &BoardInfo{
		Address:  address,
		Channels: make([]ChannelConfig, numChannels),
	}
}

// Channel returns the slot for ch, or nil when ch is out of range.
func (b *BoardInfo) Channel(ch int) *ChannelConfig {
	if b == nil || ch < 0 || ch >= len(b.Channels) {
		return nil
	}
	return &b.Channels[ch]
}

// ---- DYNAMIC DATA ----

// ChannelReading is one measurement cycle of one address/channel pair.
// Presence is explicit: 0.0 is a valid reading.
type ChannelReading struct {
	Address uint8
	Channel int

	Temperature    float64
	HasTemperature bool

	ADCVoltage float64
	HasADC     bool

	CJCTemperature float64
	HasCJC         bool
}

// ---- SOURCES ----

// ThermalSource identifies what to read. Immutable for a session.
type ThermalSource struct {
	Address uint8
	Channel int
	Key     string
	TCType  TCType
}

// ---- FIELD SELECTION ----

// StaticFields selects which BoardInfo fields to fetch.
type StaticFields struct {
	Serial            bool
	CalibrationDate   bool
	CalibrationCoeffs bool
	UpdateInterval    bool
}

// Any reports whether at least one static field is requested.
func (f StaticFields) Any() bool {
	return f.Serial || f.CalibrationDate || f.CalibrationCoeffs || f.UpdateInterval
}

// DynamicFields selects which ChannelReading fields to fetch.
type DynamicFields struct {
	Temperature bool
	ADC         bool
	CJC         bool
}

// Any reports whether at least one dynamic field is requested.
func (f DynamicFields) Any() bool {
	return f.Temperature || f.ADC || f.CJC
}
