package utils

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// ParseSize parses a manifest size field as a byte count.
// The field is taken as is: surrounding whitespace makes it invalid.
func ParseSize(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	return strconv.ParseUint(s, 10, 64)
}

// FormatSize renders a byte count in SI units followed by the exact count,
// e.g. "1.2 MB (1,234,567 bytes)".
func FormatSize(n uint64) string {
	unit := "bytes"
	if n == 1 {
		unit = "byte"
	}
	return fmt.Sprintf("%s (%s %s)", humanize.Bytes(n), humanize.Comma(clampInt64(n)), unit)
}

// FormatCount renders a count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

func clampInt64(n uint64) int64 {
	const maxInt64 = 1<<63 - 1
	if n > maxInt64 {
		return maxInt64
	}
	return int64(n)
}
