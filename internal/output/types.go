// internal/output/types.go
package output

import "github.com/tamzrod/thermo-cli/internal/thermo"

// Record joins one source with its reading and/or its board's static data.
// Reading and Board are independently optional.
type Record struct {
	Source  thermo.ThermalSource
	Reading *thermo.ChannelReading
	Board   *thermo.BoardInfo
}

// Format selects the rendering.
type Format struct {
	JSON bool

	// Compact disables JSON indentation.
	Compact bool

	// Clean suppresses the table separator line.
	Clean bool
}

// Writer renders one batch of records per call.
type Writer interface {
	Write(recs []Record) error
}
