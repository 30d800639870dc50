// internal/output/table.go
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// Separator ends every table batch unless clean mode is on.
var Separator = strings.Repeat("-", 40)

// Unit labels.
const (
	unitDegC    = "degC"
	unitVolts   = "V"
	unitSeconds = "s"
)

// WriteTable renders records as human-readable lines.
// A header is printed per record when there are several records or the
// source has a key. Absent fields print nothing.
func WriteTable(w io.Writer, recs []Record, clean bool) error {
	bw := bufio.NewWriter(w)

	for _, rec := range recs {
		if len(recs) > 1 || rec.Source.Key != "" {
			fmt.Fprintln(bw, header(rec.Source))
		}
		if rec.Board != nil {
			writeBoardLines(bw, rec.Board, rec.Source.Channel)
		}
		if rec.Reading != nil {
			writeReadingLines(bw, rec.Reading)
		}
	}

	if !clean {
		fmt.Fprintln(bw, Separator)
	}

	return bw.Flush()
}

func header(src thermo.ThermalSource) string {
	if src.Key != "" {
		return src.Key + ":"
	}
	return fmt.Sprintf("Address %d, Channel %d:", src.Address, src.Channel)
}

func writeBoardLines(w io.Writer, info *thermo.BoardInfo, channel int) {
	if info.HasSerial {
		textLine(w, "Serial", info.Serial)
	}
	if ch := info.Channel(channel); ch != nil {
		if ch.HasCalibrationDate {
			textLine(w, "Calibration Date", ch.CalibrationDate)
		}
		if ch.HasCalibration {
			numberLine(w, "Calibration Slope", ch.Calibration.Slope, "")
			numberLine(w, "Calibration Offset", ch.Calibration.Offset, "")
		}
	}
	if info.HasUpdateInterval {
		fmt.Fprintf(w, "  Update Interval: %d %s\n", info.UpdateInterval, unitSeconds)
	}
}

func writeReadingLines(w io.Writer, r *thermo.ChannelReading) {
	if r.HasTemperature {
		numberLine(w, "Temperature", r.Temperature, unitDegC)
	}
	if r.HasADC {
		numberLine(w, "ADC", r.ADCVoltage, unitVolts)
	}
	if r.HasCJC {
		numberLine(w, "CJC", r.CJCTemperature, unitDegC)
	}
}

func textLine(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", label, value)
}

func numberLine(w io.Writer, label string, v float64, unit string) {
	if unit == "" {
		fmt.Fprintf(w, "  %s: %.6f\n", label, v)
		return
	}
	fmt.Fprintf(w, "  %s: %.6f %s\n", label, v, unit)
}
