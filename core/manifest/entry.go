package manifest

import (
	"strings"

	"filelist-diff/core/fault"
)

// FieldCount is the number of fields a record must carry.
const FieldCount = 4

// Entry is one file of a manifest. Path identifies the file; the other
// fields are compared as opaque strings.
type Entry struct {
	Type string
	Hash string
	Size string
	Path string
}

// SameContent reports whether two entries for the same path are identical.
func (e Entry) SameContent(o Entry) bool {
	return e.Type == o.Type && e.Hash == o.Hash && e.Size == o.Size
}

// Record is an Entry with the 1-based line it was read from.
type Record struct {
	Entry
	Line int
}

// ParseEntry splits a line into an Entry. Fields beyond the fourth are ignored.
func ParseEntry(line string, delim rune) (Entry, error) {
	fields, err := SplitFields(line, delim)
	if err != nil {
		return Entry{}, err
	}
	if len(fields) < FieldCount {
		return Entry{}, fault.ErrTooFewFields
	}
	return Entry{
		Type: fields[0],
		Hash: fields[1],
		Size: fields[2],
		Path: fields[3],
	}, nil
}

// FormatEntry renders e as a line ParseEntry reads back unchanged.
func FormatEntry(e Entry, delim rune) string {
	var b strings.Builder
	b.Grow(len(e.Type) + len(e.Hash) + len(e.Size) + len(e.Path) + 3)
	for i, f := range [FieldCount]string{e.Type, e.Hash, e.Size, e.Path} {
		if i > 0 {
			b.WriteRune(delim)
		}
		writeField(&b, f, delim, i == 0)
	}
	return b.String()
}

// writeField quotes field when it would otherwise be split, mistaken for a
// comment, or lose a carriage return to line terminator stripping.
func writeField(b *strings.Builder, field string, delim rune, first bool) {
	needsQuotes := strings.ContainsRune(field, delim) ||
		strings.ContainsRune(field, '"') ||
		strings.ContainsAny(field, "\r\n") ||
		(first && strings.HasPrefix(field, CommentPrefix))
	if !needsQuotes {
		b.WriteString(field)
		return
	}
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(field, `"`, `""`))
	b.WriteByte('"')
}
