// internal/output/writer.go
package output

import "io"

type writerImpl struct {
	w      io.Writer
	format Format
}

// New returns a Writer rendering every batch to w in the given format.
func New(w io.Writer, f Format) Writer {
	return &writerImpl{w: w, format: f}
}

func (wr *writerImpl) Write(recs []Record) error {
	if wr.format.JSON {
		return EncodeJSON(wr.w, recs, wr.format.Compact)
	}
	return WriteTable(wr.w, recs, wr.format.Clean)
}
