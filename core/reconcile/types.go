package reconcile

import (
	"time"

	"filelist-diff/core/manifest"

	"go.uber.org/zap"
)

const (
	// DefaultRoundSize is the number of records a scanner processes per turn.
	DefaultRoundSize = 10000

	// DefaultProgressInterval is the period between progress callbacks.
	DefaultProgressInterval = 50 * time.Millisecond
)

// Source yields the records of one side, returning io.EOF when exhausted.
type Source interface {
	Next() (manifest.Record, error)
	// Location names the source in faults and logs.
	Location() string
}

// DuplicatePolicy decides what happens when a path appears twice on one side
// while its first entry is still unreconciled.
type DuplicatePolicy int

const (
	// DuplicatesLastWins replaces the earlier entry.
	DuplicatesLastWins DuplicatePolicy = iota
	// DuplicatesReject fails the comparison with a parse fault.
	DuplicatesReject
)

// Options tunes a comparison.
type Options struct {
	// RoundSize is the number of records per turn. Zero means DefaultRoundSize.
	RoundSize int

	// Duplicates selects the duplicate path policy.
	Duplicates DuplicatePolicy

	// Progress, if set, is called periodically from a separate goroutine and
	// once more when the comparison ends.
	Progress func(Progress)

	// ProgressInterval is the period between Progress calls.
	// Zero means DefaultProgressInterval.
	ProgressInterval time.Duration

	// Logger receives debug events. Nil disables logging.
	Logger *zap.Logger
}

// Progress reports how far each scanner has read.
type Progress struct {
	// OldLines is the last line number consumed from the old side.
	OldLines int64
	// NewLines is the last line number consumed from the new side.
	NewLines int64
	// Done is set on the final call.
	Done bool
}

// Result is the classification produced by Compare.
type Result struct {
	// OnlyOld holds entries whose path is absent from the new side.
	OnlyOld map[string]manifest.Entry

	// OnlyNew holds entries whose path is absent from the old side.
	OnlyNew map[string]manifest.Entry

	// ChangedOld and ChangedNew are index-aligned: ChangedOld[i] and
	// ChangedNew[i] are the two differing entries for the same path.
	ChangedOld []manifest.Entry
	ChangedNew []manifest.Entry

	// OldLines and NewLines are the last line numbers read from each side.
	OldLines int64
	NewLines int64

	// PeakResident is the largest number of unreconciled entries held in
	// both tables at once.
	PeakResident int
}
