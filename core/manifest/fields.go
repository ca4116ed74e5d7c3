package manifest

import (
	"strings"
	"unicode/utf8"

	"filelist-diff/core/fault"
)

// CommentPrefix marks a line that carries no record.
const CommentPrefix = "#"

// SplitFields splits one line into fields following RFC 4180 quoting.
// A quote inside an unquoted field is taken literally.
func SplitFields(line string, delim rune) ([]string, error) {
	if !strings.Contains(line, `"`) {
		return strings.Split(line, string(delim)), nil
	}

	delimLen := utf8.RuneLen(delim)
	fields := make([]string, 0, FieldCount)
	rest := line
	for {
		if !strings.HasPrefix(rest, `"`) {
			i := strings.IndexRune(rest, delim)
			if i < 0 {
				return append(fields, rest), nil
			}
			fields = append(fields, rest[:i])
			rest = rest[i+delimLen:]
			continue
		}

		field, tail, err := unquote(rest[1:])
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if tail == "" {
			return fields, nil
		}
		r, size := utf8.DecodeRuneInString(tail)
		if r != delim {
			return nil, fault.ErrMalformedQuote
		}
		rest = tail[size:]
	}
}

// unquote reads a quoted field body up to its closing quote and returns the
// field and whatever follows the closing quote.
func unquote(s string) (string, string, error) {
	var b strings.Builder
	for {
		i := strings.IndexByte(s, '"')
		if i < 0 {
			return "", "", fault.ErrMalformedQuote
		}
		b.WriteString(s[:i])
		s = s[i+1:]
		if strings.HasPrefix(s, `"`) {
			b.WriteByte('"')
			s = s[1:]
			continue
		}
		return b.String(), s, nil
	}
}
