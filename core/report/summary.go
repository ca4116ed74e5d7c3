package report

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"filelist-diff/core/fault"
	"filelist-diff/core/manifest"
	"filelist-diff/core/reconcile"
	"filelist-diff/core/utils"
)

// Totals counts files and their combined size.
type Totals struct {
	Files int    `json:"files"`
	Bytes uint64 `json:"bytes"`
}

// ChangedTotals counts changed files and their size on each side.
type ChangedTotals struct {
	Files    int    `json:"files"`
	OldBytes uint64 `json:"old_bytes"`
	NewBytes uint64 `json:"new_bytes"`
}

// Summary aggregates a comparison result.
type Summary struct {
	Missing Totals        `json:"missing"`
	New     Totals        `json:"new"`
	Changed ChangedTotals `json:"changed"`
}

// Summarize counts the entries of res and sums their sizes.
func Summarize(res *reconcile.Result) (Summary, error) {
	var (
		s   Summary
		err error
	)

	s.Missing.Files = len(res.OnlyOld)
	for _, e := range res.OnlyOld {
		if s.Missing.Bytes, err = addSize(s.Missing.Bytes, e); err != nil {
			return Summary{}, err
		}
	}

	s.New.Files = len(res.OnlyNew)
	for _, e := range res.OnlyNew {
		if s.New.Bytes, err = addSize(s.New.Bytes, e); err != nil {
			return Summary{}, err
		}
	}

	s.Changed.Files = len(res.ChangedOld)
	for _, e := range res.ChangedOld {
		if s.Changed.OldBytes, err = addSize(s.Changed.OldBytes, e); err != nil {
			return Summary{}, err
		}
	}
	for _, e := range res.ChangedNew {
		if s.Changed.NewBytes, err = addSize(s.Changed.NewBytes, e); err != nil {
			return Summary{}, err
		}
	}

	return s, nil
}

// addSize adds the size of e to total. A size that does not parse, or that
// would overflow the total, is a Parse fault naming the entry's path.
func addSize(total uint64, e manifest.Entry) (uint64, error) {
	n, err := utils.ParseSize(e.Size)
	if err != nil {
		return 0, invalidSize(e, fmt.Errorf("%w for path %q", fault.ErrInvalidSize, e.Path))
	}

	sum, carry := bits.Add64(total, n, 0)
	if carry != 0 {
		return 0, invalidSize(e, fmt.Errorf("%w for path %q: total exceeds %d bytes", fault.ErrInvalidSize, e.Path, uint64(math.MaxUint64)))
	}
	return sum, nil
}

func invalidSize(e manifest.Entry, err error) *fault.Error {
	return &fault.Error{
		Kind:  fault.Parse,
		Op:    "summarize",
		Field: "size",
		Value: e.Size,
		Err:   err,
	}
}

// String renders the summary as printed at the end of a run.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Missing files:\t%s — %s\n", utils.FormatCount(s.Missing.Files), utils.FormatSize(s.Missing.Bytes))
	fmt.Fprintf(&b, "New files:\t%s — %s\n", utils.FormatCount(s.New.Files), utils.FormatSize(s.New.Bytes))
	fmt.Fprintf(&b, "Changed files:\t%s — %s vs. %s\n", utils.FormatCount(s.Changed.Files),
		utils.FormatSize(s.Changed.OldBytes), utils.FormatSize(s.Changed.NewBytes))
	return b.String()
}
