// internal/output/json.go
package output

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/tamzrod/thermo-cli/internal/thermo"
)

// ---- document shapes ----
//
// Field order is the emitted key order. KEY first is cosmetic.

type calibrationDoc struct {
	Date   string   `json:"DATE,omitempty"`
	Slope  *float64 `json:"SLOPE,omitempty"`
	Offset *float64 `json:"OFFSET,omitempty"`
}

type recordDoc struct {
	Key            string          `json:"KEY,omitempty"`
	Address        uint8           `json:"ADDRESS"`
	Channel        *int            `json:"CHANNEL,omitempty"`
	Serial         string          `json:"SERIAL,omitempty"`
	Calibration    *calibrationDoc `json:"CALIBRATION,omitempty"`
	UpdateInterval *int            `json:"UPDATE_INTERVAL,omitempty"`
	Temperature    *float64        `json:"TEMPERATURE,omitempty"`
	ADC            *float64        `json:"ADC,omitempty"`
	CJC            *float64        `json:"CJC,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// addReading copies present dynamic fields.
func (d *recordDoc) addReading(r *thermo.ChannelReading) {
	if r.HasTemperature {
		d.Temperature = ptr(r.Temperature)
	}
	if r.HasADC {
		d.ADC = ptr(r.ADCVoltage)
	}
	if r.HasCJC {
		d.CJC = ptr(r.CJCTemperature)
	}
}

// addBoard copies present static fields; calibration comes from channel's slot.
func (d *recordDoc) addBoard(info *thermo.BoardInfo, channel int) {
	if info.HasSerial {
		d.Serial = info.Serial
	}

	if ch := info.Channel(channel); ch != nil && (ch.HasCalibrationDate || ch.HasCalibration) {
		cal := &calibrationDoc{}
		if ch.HasCalibrationDate {
			cal.Date = ch.CalibrationDate
		}
		if ch.HasCalibration {
			cal.Slope = ptr(ch.Calibration.Slope)
			cal.Offset = ptr(ch.Calibration.Offset)
		}
		d.Calibration = cal
	}

	if info.HasUpdateInterval {
		d.UpdateInterval = ptr(info.UpdateInterval)
	}
}

func readingDoc(r thermo.ChannelReading, key string) recordDoc {
	d := recordDoc{Key: key, Address: r.Address, Channel: ptr(r.Channel)}
	d.addReading(&r)
	return d
}

// boardDoc omits CHANNEL when channel < 0.
func boardDoc(info *thermo.BoardInfo, channel int) recordDoc {
	d := recordDoc{Address: info.Address}
	if channel >= 0 {
		d.Channel = ptr(channel)
	}
	d.addBoard(info, channel)
	return d
}

func recordToDoc(rec Record) recordDoc {
	d := recordDoc{
		Key:     rec.Source.Key,
		Address: rec.Source.Address,
		Channel: ptr(rec.Source.Channel),
	}
	if rec.Board != nil {
		d.addBoard(rec.Board, rec.Source.Channel)
	}
	if rec.Reading != nil {
		d.addReading(rec.Reading)
	}
	return d
}

// ---- marshal ----

func marshal(v any, compact bool) ([]byte, error) {
	if compact {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// MarshalReading renders one reading as a flat object.
func MarshalReading(r thermo.ChannelReading, key string, compact bool) ([]byte, error) {
	return marshal(readingDoc(r, key), compact)
}

// MarshalBoard renders static board data, optionally for one channel.
func MarshalBoard(info *thermo.BoardInfo, channel int, compact bool) ([]byte, error) {
	return marshal(boardDoc(info, channel), compact)
}

// MarshalBoards renders board data as an array, one object per board.
func MarshalBoards(infos []*thermo.BoardInfo, compact bool) ([]byte, error) {
	docs := make([]recordDoc, 0, len(infos))
	for _, info := range infos {
		docs = append(docs, boardDoc(info, -1))
	}
	return marshal(docs, compact)
}

// MarshalRecords renders a bare object for exactly one record and a bare
// array otherwise. Callers must handle both shapes.
func MarshalRecords(recs []Record, compact bool) ([]byte, error) {
	if len(recs) == 1 {
		return marshal(recordToDoc(recs[0]), compact)
	}
	docs := make([]recordDoc, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, recordToDoc(rec))
	}
	return marshal(docs, compact)
}

// EncodeJSON writes MarshalRecords output followed by a newline.
// Nothing is written if marshaling fails.
func EncodeJSON(w io.Writer, recs []Record, compact bool) error {
	b, err := MarshalRecords(recs, compact)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
