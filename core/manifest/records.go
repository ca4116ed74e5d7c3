package manifest

import (
	"io"
	"strings"

	"filelist-diff/core/fault"
)

// RecordReader yields the records of one manifest, skipping comments and
// entries excluded by its filter.
type RecordReader struct {
	location string
	lines    *LineReader
	delim    rune
	filter   *Filter
}

// NewRecordReader reads records from lines. location names the source in faults.
func NewRecordReader(location string, lines *LineReader, delim rune, filter *Filter) *RecordReader {
	return &RecordReader{
		location: location,
		lines:    lines,
		delim:    delim,
		filter:   filter,
	}
}

// Location returns the location the records are read from.
func (r *RecordReader) Location() string {
	return r.location
}

// Next returns the next record, or io.EOF when the manifest is exhausted.
func (r *RecordReader) Next() (Record, error) {
	for r.lines.Next() {
		text := r.lines.Text()
		if strings.HasPrefix(text, CommentPrefix) {
			continue
		}

		entry, err := ParseEntry(text, r.delim)
		if err != nil {
			return Record{}, fault.NewParse(r.location, r.lines.Line(), err)
		}
		if r.filter.Excluded(entry.Path) {
			continue
		}
		return Record{Entry: entry, Line: r.lines.Line()}, nil
	}

	if err := r.lines.Err(); err != nil {
		return Record{}, fault.NewResource("read", r.location, err)
	}
	return Record{}, io.EOF
}

// Close releases the underlying stream.
func (r *RecordReader) Close() error {
	return r.lines.Close()
}
