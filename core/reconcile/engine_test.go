package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"filelist-diff/core/fault"
	"filelist-diff/core/manifest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource serves records from memory, optionally slowly or failing.
type sliceSource struct {
	name    string
	entries []manifest.Entry
	pos     int
	delay   time.Duration
	failAt  int
	failErr error
}

func (s *sliceSource) Next() (manifest.Record, error) {
	if s.failErr != nil && s.pos+1 == s.failAt {
		return manifest.Record{}, s.failErr
	}
	if s.pos >= len(s.entries) {
		return manifest.Record{}, io.EOF
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.pos++
	return manifest.Record{Entry: s.entries[s.pos-1], Line: s.pos}, nil
}

func (s *sliceSource) Location() string {
	return s.name
}

// endlessSource never runs out of records.
type endlessSource struct {
	prefix string
	n      int
}

func (s *endlessSource) Next() (manifest.Record, error) {
	s.n++
	return manifest.Record{
		Entry: manifest.Entry{Type: "f", Hash: "h", Size: "1", Path: fmt.Sprintf("%s/%d", s.prefix, s.n)},
		Line:  s.n,
	}, nil
}

func (s *endlessSource) Location() string {
	return s.prefix
}

func src(name string, entries ...manifest.Entry) *sliceSource {
	return &sliceSource{name: name, entries: entries}
}

func entry(hash, size, path string) manifest.Entry {
	return manifest.Entry{Type: "f", Hash: hash, Size: size, Path: path}
}

func compare(t *testing.T, oldSrc, newSrc Source, roundSize int) *Result {
	t.Helper()
	res, err := Compare(context.Background(), oldSrc, newSrc, Options{RoundSize: roundSize})
	require.NoError(t, err)
	return res
}

func TestCompare_WorkedExamples(t *testing.T) {
	t.Run("DistinctPathsAreNotChanged", func(t *testing.T) {
		res := compare(t,
			src("old", entry("h1", "10", "a"), entry("h2", "20", "b")),
			src("new", entry("h1", "10", "a"), entry("h3", "20", "c")),
			1,
		)

		assert.Equal(t, map[string]manifest.Entry{"b": entry("h2", "20", "b")}, res.OnlyOld)
		assert.Equal(t, map[string]manifest.Entry{"c": entry("h3", "20", "c")}, res.OnlyNew)
		assert.Empty(t, res.ChangedOld)
		assert.Empty(t, res.ChangedNew)
	})

	t.Run("ChangedHash", func(t *testing.T) {
		res := compare(t,
			src("old", entry("h1", "10", "a")),
			src("new", entry("h2", "10", "a")),
			DefaultRoundSize,
		)

		assert.Empty(t, res.OnlyOld)
		assert.Empty(t, res.OnlyNew)
		assert.Equal(t, []manifest.Entry{entry("h1", "10", "a")}, res.ChangedOld)
		assert.Equal(t, []manifest.Entry{entry("h2", "10", "a")}, res.ChangedNew)
	})
}

func TestCompare_Disjoint(t *testing.T) {
	var oldEntries, newEntries []manifest.Entry
	for i := 0; i < 100; i++ {
		oldEntries = append(oldEntries, entry("h", "1", fmt.Sprintf("old/%d", i)))
		newEntries = append(newEntries, entry("h", "1", fmt.Sprintf("new/%d", i)))
	}

	res := compare(t, src("old", oldEntries...), src("new", newEntries...), 7)

	assert.Len(t, res.OnlyOld, 100)
	assert.Len(t, res.OnlyNew, 100)
	assert.Empty(t, res.ChangedOld)
	for _, e := range oldEntries {
		assert.Equal(t, e, res.OnlyOld[e.Path])
	}
	for _, e := range newEntries {
		assert.Equal(t, e, res.OnlyNew[e.Path])
	}
}

func TestCompare_SelfComparison(t *testing.T) {
	var entries []manifest.Entry
	for i := 0; i < 1000; i++ {
		entries = append(entries, entry(fmt.Sprintf("h%d", i), "1", fmt.Sprintf("p/%d", i)))
	}
	shuffled := append([]manifest.Entry(nil), entries...)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, roundSize := range []int{1, 3, 64, 5000} {
		t.Run(fmt.Sprintf("round=%d", roundSize), func(t *testing.T) {
			res := compare(t, src("old", entries...), src("new", shuffled...), roundSize)
			assert.Empty(t, res.OnlyOld)
			assert.Empty(t, res.OnlyNew)
			assert.Empty(t, res.ChangedOld)
			assert.Empty(t, res.ChangedNew)
			assert.EqualValues(t, 1000, res.OldLines)
			assert.EqualValues(t, 1000, res.NewLines)
		})
	}
}

func TestCompare_ChangedPairsAligned(t *testing.T) {
	oldEntries := []manifest.Entry{
		entry("h1", "10", "a"),
		entry("h2", "20", "b"),
		{Type: "f", Hash: "h3", Size: "30", Path: "c"},
		entry("h4", "40", "d"),
		entry("h5", "50", "same"),
	}
	newEntries := []manifest.Entry{
		{Type: "d", Hash: "h3", Size: "30", Path: "c"},
		entry("h5", "50", "same"),
		entry("h4", "41", "d"),
		entry("hX", "10", "a"),
		entry("h2", "20", "b"),
	}

	res := compare(t, src("old", oldEntries...), src("new", newEntries...), 2)

	require.Len(t, res.ChangedOld, 3)
	require.Len(t, res.ChangedNew, 3)
	for i := range res.ChangedOld {
		o, n := res.ChangedOld[i], res.ChangedNew[i]
		assert.Equal(t, o.Path, n.Path, "pair %d", i)
		assert.False(t, o.SameContent(n), "pair %d", i)
	}
	assert.Empty(t, res.OnlyOld)
	assert.Empty(t, res.OnlyNew)
}

func TestCompare_UnevenLengths(t *testing.T) {
	var oldEntries, newEntries []manifest.Entry
	for i := 0; i < 10; i++ {
		oldEntries = append(oldEntries, entry("h", "1", fmt.Sprintf("p/%d", i)))
	}
	for i := 0; i < 1000; i++ {
		newEntries = append(newEntries, entry("h", "1", fmt.Sprintf("p/%d", i)))
	}

	res := compare(t, src("old", oldEntries...), src("new", newEntries...), 3)
	assert.Empty(t, res.OnlyOld)
	assert.Len(t, res.OnlyNew, 990)

	res = compare(t, src("old", newEntries...), src("new", oldEntries...), 3)
	assert.Len(t, res.OnlyOld, 990)
	assert.Empty(t, res.OnlyNew)
}

func TestCompare_EmptyInputs(t *testing.T) {
	res := compare(t, src("old"), src("new"), 1)
	assert.Empty(t, res.OnlyOld)
	assert.Empty(t, res.OnlyNew)
	assert.Zero(t, res.PeakResident)

	res = compare(t, src("old", entry("h", "1", "a")), src("new"), 1)
	assert.Len(t, res.OnlyOld, 1)
}

func TestCompare_MemoryBound(t *testing.T) {
	const (
		total     = 3000
		roundSize = 50
		extra     = 20
	)

	var oldEntries, newEntries []manifest.Entry
	for i := 0; i < total; i++ {
		e := entry(fmt.Sprintf("h%d", i), "1", fmt.Sprintf("p/%05d", i))
		oldEntries = append(oldEntries, e)
		newEntries = append(newEntries, e)
		if i%(total/extra) == 0 {
			newEntries = append(newEntries, entry("hx", "1", fmt.Sprintf("added/%d", i)))
		}
	}

	tests := []struct {
		name     string
		oldDelay time.Duration
		newDelay time.Duration
	}{
		{"even", 0, 0},
		{"slow new side", 0, 20 * time.Microsecond},
		{"slow old side", 20 * time.Microsecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldSrc := &sliceSource{name: "old", entries: oldEntries, delay: tt.oldDelay}
			newSrc := &sliceSource{name: "new", entries: newEntries, delay: tt.newDelay}

			res := compare(t, oldSrc, newSrc, roundSize)

			assert.Empty(t, res.OnlyOld)
			assert.Len(t, res.OnlyNew, extra)
			// One round of the leading side, plus the lag and the unmatched
			// entries the added paths cause on the other.
			assert.LessOrEqual(t, res.PeakResident, roundSize+2*extra)
			assert.Less(t, res.PeakResident, total/10)
		})
	}
}

func TestCompare_Duplicates(t *testing.T) {
	oldEntries := []manifest.Entry{entry("h1", "1", "a"), entry("h2", "2", "a")}

	t.Run("LastWins", func(t *testing.T) {
		res := compare(t, src("old", oldEntries...), src("new"), 10)
		assert.Equal(t, entry("h2", "2", "a"), res.OnlyOld["a"])
	})

	t.Run("Reject", func(t *testing.T) {
		_, err := Compare(context.Background(), src("old.txt", oldEntries...), src("new.txt"), Options{
			RoundSize:  10,
			Duplicates: DuplicatesReject,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, fault.ErrDuplicatePath)

		kind, _ := fault.KindOf(err)
		assert.Equal(t, fault.Engine, kind)

		cause := fault.Cause(err)
		require.NotNil(t, cause)
		assert.Equal(t, fault.Parse, cause.Kind)
		assert.Equal(t, "old.txt", cause.Location)
		assert.Equal(t, 2, cause.Line)
		assert.Equal(t, "a", cause.Value)
	})

	t.Run("RejectAllowsReconciledRepeat", func(t *testing.T) {
		// The first "a" is reconciled before the second one arrives.
		_, err := Compare(context.Background(),
			src("old", entry("h1", "1", "a")),
			src("new", entry("h1", "1", "a"), entry("h1", "1", "a")),
			Options{RoundSize: 1, Duplicates: DuplicatesReject},
		)
		assert.NoError(t, err)
	})
}

func TestCompare_SourceFailure(t *testing.T) {
	parseErr := fault.NewParse("old.txt", 5, fault.ErrTooFewFields)
	oldSrc := &sliceSource{
		name:    "old.txt",
		entries: make([]manifest.Entry, 10),
		failAt:  5,
		failErr: parseErr,
	}
	for i := range oldSrc.entries {
		oldSrc.entries[i] = entry("h", "1", fmt.Sprintf("p/%d", i))
	}

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, err = Compare(context.Background(), oldSrc, &endlessSource{prefix: "new"}, Options{RoundSize: 2})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("comparison did not stop after a scanner failed")
	}

	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrTooFewFields)
	assert.Same(t, parseErr, fault.Cause(err))
	kind, _ := fault.KindOf(err)
	assert.Equal(t, fault.Engine, kind)
}

func TestCompare_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, err = Compare(ctx, &endlessSource{prefix: "old"}, &endlessSource{prefix: "new"}, Options{RoundSize: 100})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("comparison did not stop after cancellation")
	}
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare_Progress(t *testing.T) {
	var (
		mu      sync.Mutex
		reports []Progress
	)
	var entries []manifest.Entry
	for i := 0; i < 200; i++ {
		entries = append(entries, entry("h", "1", fmt.Sprintf("p/%d", i)))
	}

	_, err := Compare(context.Background(),
		&sliceSource{name: "old", entries: entries, delay: 100 * time.Microsecond},
		src("new", entries...),
		Options{
			RoundSize:        10,
			ProgressInterval: time.Millisecond,
			Progress: func(p Progress) {
				mu.Lock()
				reports = append(reports, p)
				mu.Unlock()
			},
		},
	)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, reports)
	last := reports[len(reports)-1]
	assert.True(t, last.Done)
	assert.EqualValues(t, 200, last.OldLines)
	assert.EqualValues(t, 200, last.NewLines)
	for _, p := range reports[:len(reports)-1] {
		assert.False(t, p.Done)
	}
}

func TestCompare_InvalidRoundSize(t *testing.T) {
	_, err := Compare(context.Background(), src("old"), src("new"), Options{RoundSize: -1})
	assert.True(t, errors.Is(err, fault.ErrInvalidArgument))
	kind, _ := fault.KindOf(err)
	assert.Equal(t, fault.Argument, kind)
}
