package diff

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"filelist-diff/core/fault"
	"filelist-diff/core/reconcile"
)

// Config holds the defaults of a comparison run. CLI flags override them.
type Config struct {
	// RoundSize is the number of records each scanner processes per turn.
	RoundSize int `mapstructure:"round_size" default:"10000"`
	// Delimiter is the field delimiter: a single character, "\t" or "tab".
	Delimiter string `mapstructure:"delimiter" default:"\t"`
	// Encoding is the WHATWG label of the input encoding.
	Encoding string `mapstructure:"encoding" default:"utf-8"`
	// Exclude lists glob patterns of paths to ignore on both sides.
	Exclude []string `mapstructure:"exclude" default:""`
	// RejectDuplicates fails a run on a duplicate path within one input.
	RejectDuplicates bool `mapstructure:"reject_duplicates" default:"false"`
	// ProgressIntervalMs is the progress refresh period in milliseconds.
	ProgressIntervalMs int `mapstructure:"progress_interval_ms" default:"50"`
	// Publish is an s3://bucket/prefix target for the output files.
	Publish string `mapstructure:"publish" default:""`
}

// ParseDelimiter resolves a delimiter setting to a single rune.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) || r == utf8.RuneError || r == '"' || r == '\n' || r == '\r' {
		return 0, fault.NewArgument("delimiter", "", fmt.Errorf("%w: delimiter must be a single character other than a quote or line break, got %q", fault.ErrInvalidArgument, s))
	}
	return r, nil
}

// Validate checks the numeric settings.
func (c Config) Validate() error {
	if c.RoundSize <= 0 {
		return fault.NewArgument("round-size", "", fmt.Errorf("%w: round size must be positive, got %d", fault.ErrInvalidArgument, c.RoundSize))
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// ProgressInterval returns the progress period, defaulting to the engine's.
func (c Config) ProgressInterval() time.Duration {
	if c.ProgressIntervalMs <= 0 {
		return reconcile.DefaultProgressInterval
	}
	return time.Duration(c.ProgressIntervalMs) * time.Millisecond
}

// DuplicatePolicy maps RejectDuplicates to the engine policy.
func (c Config) DuplicatePolicy() reconcile.DuplicatePolicy {
	if c.RejectDuplicates {
		return reconcile.DuplicatesReject
	}
	return reconcile.DuplicatesLastWins
}
