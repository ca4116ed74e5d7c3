package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"filelist-diff/core/fault"
	"filelist-diff/core/manifest"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// side is one scanner's state. table and changed are only touched by the
// holder of a turn permit.
type side struct {
	name    string
	src     Source
	table   map[string]manifest.Entry
	changed []manifest.Entry

	turn     chan struct{}
	finished atomic.Bool
	lines    atomic.Int64
	other    *side
}

// grant hands the turn to s. A pending permit is never doubled.
func (s *side) grant() {
	select {
	case s.turn <- struct{}{}:
	default:
	}
}

func (s *side) acquire(ctx context.Context) error {
	select {
	case <-s.turn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type engine struct {
	opts Options
	log  *zap.Logger
	old  *side
	new  *side
	peak int
}

// Compare reads both sources to the end and classifies every path.
// The sources are not closed.
func Compare(ctx context.Context, oldSrc, newSrc Source, opts Options) (*Result, error) {
	// Validate options and apply defaults
	if opts.RoundSize < 0 {
		return nil, fault.NewArgument("compare", "", fmt.Errorf("%w: round size must be positive, got %d", fault.ErrInvalidArgument, opts.RoundSize))
	}
	if opts.RoundSize == 0 {
		opts.RoundSize = DefaultRoundSize
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}

	e := &engine{
		opts: opts,
		log:  opts.Logger,
		old:  newSide("old", oldSrc),
		new:  newSide("new", newSrc),
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	// Link the sides; the old side takes the first turn
	e.old.other = e.new
	e.new.other = e.old
	e.old.grant()

	stopProgress := e.startProgress()

	// Run both scanners. The first failure cancels gctx, which unblocks the other side
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.scan(gctx, e.old) })
	g.Go(func() error { return e.scan(gctx, e.new) })
	err := g.Wait()

	stopProgress()

	if err != nil {
		return nil, fault.NewEngine(err)
	}

	// Whatever is left in a table had no counterpart on the other side

	return &Result{
		OnlyOld:      e.old.table,
		OnlyNew:      e.new.table,
		ChangedOld:   e.old.changed,
		ChangedNew:   e.new.changed,
		OldLines:     e.old.lines.Load(),
		NewLines:     e.new.lines.Load(),
		PeakResident: e.peak,
	}, nil
}

func newSide(name string, src Source) *side {
	return &side{
		name:  name,
		src:   src,
		table: make(map[string]manifest.Entry),
		turn:  make(chan struct{}, 1),
	}
}

// scan drives one side. It marks the side finished before releasing the other
// side, on success and on failure alike.
func (e *engine) scan(ctx context.Context, s *side) error {
	log := e.log.With(zap.String("side", s.name), zap.String("location", s.src.Location()))
	log.Debug("Scanner started")

	// Publish finished before granting, so the other side never waits for us again
	defer func() {
		s.finished.Store(true)
		s.other.grant()
	}()

	// Wait for the first turn
	if err := s.acquire(ctx); err != nil {
		return err
	}

	inRound := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := s.src.Next()
		if errors.Is(err, io.EOF) {
			log.Debug("Scanner finished", zap.Int64("lines", s.lines.Load()))
			return nil
		}
		if err != nil {
			return err
		}
		s.lines.Store(int64(rec.Line))

		if err := e.reconcile(s, rec); err != nil {
			return err
		}

		// Yield after a full round, unless the other side has nothing left to read
		inRound++
		if inRound < e.opts.RoundSize || s.other.finished.Load() {
			continue
		}
		inRound = 0
		s.other.grant()
		if err := s.acquire(ctx); err != nil {
			return err
		}
	}
}

// reconcile matches rec against the other side. The caller holds the turn.
func (e *engine) reconcile(s *side, rec manifest.Record) error {
	// Path already seen on the other side: reconcile it and keep only changes
	if counter, ok := s.other.table[rec.Path]; ok {
		delete(s.other.table, rec.Path)
		if !counter.SameContent(rec.Entry) {
			s.changed = append(s.changed, rec.Entry)
			s.other.changed = append(s.other.changed, counter)
		}
		return nil
	}

	// Not seen yet: keep it until the other side reaches it (last write wins)
	if _, dup := s.table[rec.Path]; dup && e.opts.Duplicates == DuplicatesReject {
		return &fault.Error{
			Kind:     fault.Parse,
			Op:       "read",
			Location: s.src.Location(),
			Line:     rec.Line,
			Field:    "path",
			Value:    rec.Path,
			Err:      fault.ErrDuplicatePath,
		}
	}
	s.table[rec.Path] = rec.Entry

	// Track the high-water mark of unreconciled entries
	if resident := len(s.table) + len(s.other.table); resident > e.peak {
		e.peak = resident
	}
	return nil
}

// startProgress runs the progress ticker and returns a function that stops it
// and delivers the final report.
func (e *engine) startProgress() func() {
	if e.opts.Progress == nil {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(e.opts.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.opts.Progress(e.progress(false))
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
		e.opts.Progress(e.progress(true))
	}
}

func (e *engine) progress(done bool) Progress {
	return Progress{
		OldLines: e.old.lines.Load(),
		NewLines: e.new.lines.Load(),
		Done:     done,
	}
}
