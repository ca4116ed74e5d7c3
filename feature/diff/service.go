package diff

import (
	"context"
	"fmt"
	"time"

	"filelist-diff/core/fault"
	"filelist-diff/core/history"
	"filelist-diff/core/manifest"
	"filelist-diff/core/reconcile"
	"filelist-diff/core/report"
	"filelist-diff/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder stores finished runs. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// Request describes one comparison run.
type Request struct {
	// OldLocation and NewLocation are local paths or s3:// URIs.
	OldLocation string
	NewLocation string
	// OutputDir receives the four output files.
	OutputDir string
	// Overwrite allows replacing existing output files.
	Overwrite bool
	// Settings carries round size, delimiter, encoding and filters.
	Settings Config
	// Progress, if set, receives periodic progress reports.
	Progress func(reconcile.Progress)
}

// Outcome is the result of a successful run.
type Outcome struct {
	RunID     string
	Paths     report.Paths
	Summary   report.Summary
	OldLines  int64
	NewLines  int64
	Peak      int
	Published []string
	Elapsed   time.Duration
}

// Service runs comparisons.
type Service struct {
	client   storage.Client
	recorder Recorder
	logger   *zap.Logger
}

// NewService creates a diff service. client and recorder may be nil.
func NewService(client storage.Client, recorder Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		recorder: recorder,
		logger:   logger,
	}
}

// Run compares the two manifests of req and writes the outputs. The run is
// recorded whether it succeeds or not.
func (s *Service) Run(ctx context.Context, req Request) (*Outcome, error) {
	run := &history.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		OldSource: req.OldLocation,
		NewSource: req.NewLocation,
		OutputDir: req.OutputDir,
		RoundSize: req.Settings.RoundSize,
	}
	l := s.logger.With(zap.String("run_id", run.ID))

	out, err := s.run(ctx, req, l)

	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = history.StatusFailed
		run.Error = err.Error()
	} else {
		run.Status = history.StatusSucceeded
		run.SetSummary(out.Summary)
		out.RunID = run.ID
		out.Elapsed = run.FinishedAt.Sub(run.StartedAt)
	}

	if s.recorder != nil {
		// Record even when the run was interrupted.
		if rerr := s.recorder.Record(context.WithoutCancel(ctx), run); rerr != nil {
			l.Warn("Failed to record run", zap.Error(rerr))
		}
	}
	return out, err
}

func (s *Service) run(ctx context.Context, req Request, l *zap.Logger) (*Outcome, error) {
	// 1. Validate settings before touching any file
	cfg := req.Settings
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	delim, err := ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	filter, err := manifest.NewFilter(cfg.Exclude)
	if err != nil {
		return nil, err
	}
	if cfg.Publish != "" && s.client == nil {
		return nil, fault.NewArgument("publish", cfg.Publish, fmt.Errorf("%w: object storage is not configured", fault.ErrInvalidArgument))
	}

	// 2. Pre-flight: both inputs exist and no output would be clobbered
	opener := manifest.Opener{Storage: s.client, Encoding: cfg.Encoding}
	for _, loc := range []string{req.OldLocation, req.NewLocation} {
		if err := opener.Check(ctx, loc); err != nil {
			return nil, err
		}
	}

	paths := report.NewPaths(req.OutputDir, req.OldLocation, req.NewLocation)
	if err := report.Prepare(paths, req.Overwrite); err != nil {
		return nil, err
	}

	// 3. Open both record streams; the engine reads them but does not close them
	oldRecords, err := opener.Records(ctx, req.OldLocation, delim, filter)
	if err != nil {
		return nil, err
	}
	defer oldRecords.Close()

	newRecords, err := opener.Records(ctx, req.NewLocation, delim, filter)
	if err != nil {
		return nil, err
	}
	defer newRecords.Close()

	l.Info("Comparing manifests",
		zap.String("old", req.OldLocation),
		zap.String("new", req.NewLocation),
		zap.Int("round_size", cfg.RoundSize),
	)

	res, err := reconcile.Compare(ctx, oldRecords, newRecords, reconcile.Options{
		RoundSize:        cfg.RoundSize,
		Duplicates:       cfg.DuplicatePolicy(),
		Progress:         req.Progress,
		ProgressInterval: cfg.ProgressInterval(),
		Logger:           l,
	})
	if err != nil {
		return nil, err
	}

	// 4. Summarize before writing so an unreadable size leaves no outputs behind
	summary, err := report.Summarize(res)
	if err != nil {
		return nil, err
	}
	if err := report.Write(paths, res, delim); err != nil {
		return nil, err
	}

	out := &Outcome{
		Paths:    paths,
		Summary:  summary,
		OldLines: res.OldLines,
		NewLines: res.NewLines,
		Peak:     res.PeakResident,
	}

	// 5. Optionally upload the written files
	if cfg.Publish != "" {
		uris, err := report.NewPublisher(s.client, l).Publish(ctx, cfg.Publish, paths)
		if err != nil {
			return nil, err
		}
		out.Published = uris
	}

	l.Info("Comparison finished",
		zap.Int("missing", summary.Missing.Files),
		zap.Int("new", summary.New.Files),
		zap.Int("changed", summary.Changed.Files),
		zap.Int("peak_resident", res.PeakResident),
	)
	return out, nil
}
