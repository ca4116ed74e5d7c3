package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"filelist-diff/core/reconcile"
	"filelist-diff/core/storage"
	"filelist-diff/core/utils"
	"filelist-diff/feature/diff"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the compare (root) command
	forceOverwrite   bool
	roundSize        int
	delimiter        string
	encoding         string
	excludePatterns  []string
	rejectDuplicates bool
	publishTarget    string
	quiet            bool
)

func init() {
	flags := RootCmd.Flags()
	flags.BoolVarP(&forceOverwrite, "force", "f", false, "Overwrite existing output files")
	flags.IntVarP(&roundSize, "round-size", "l", reconcile.DefaultRoundSize, "Records each side reads per turn (positive)")
	flags.StringVarP(&delimiter, "delimiter", "d", "\t", `Field delimiter (single character, "\t" or "tab")`)
	flags.StringVar(&encoding, "encoding", "utf-8", "Input text encoding label (e.g. windows-1252)")
	flags.StringSliceVar(&excludePatterns, "exclude", nil, "Glob pattern of paths to ignore (repeatable)")
	flags.BoolVar(&rejectDuplicates, "reject-duplicates", false, "Fail when a path appears twice in one input")
	flags.StringVar(&publishTarget, "publish", "", "Upload outputs to s3://bucket/prefix")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
}

// compareSettings merges configuration with the flags set on the command line.
func compareSettings(cmd *cobra.Command, base diff.Config) diff.Config {
	flags := cmd.Flags()
	if flags.Changed("round-size") {
		base.RoundSize = roundSize
	}
	if flags.Changed("delimiter") {
		base.Delimiter = delimiter
	}
	if flags.Changed("encoding") {
		base.Encoding = encoding
	}
	if flags.Changed("exclude") {
		base.Exclude = excludePatterns
	}
	if flags.Changed("reject-duplicates") {
		base.RejectDuplicates = rejectDuplicates
	}
	if flags.Changed("publish") {
		base.Publish = publishTarget
	}
	return base
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := compareSettings(cmd, a.cfg.Compare)
	oldLocation, newLocation, outputDir := args[0], args[1], args[2]

	if storage.IsURI(oldLocation) || storage.IsURI(newLocation) || settings.Publish != "" {
		if err := a.openStorage(); err != nil {
			return err
		}
	}
	a.openHistory(ctx)

	req := diff.Request{
		OldLocation: oldLocation,
		NewLocation: newLocation,
		OutputDir:   outputDir,
		Overwrite:   forceOverwrite,
		Settings:    settings,
	}
	if !quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		req.Progress = progressPrinter(cmd.ErrOrStderr())
	}

	svc := diff.NewService(a.client, a.store, a.log)
	out, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	a.log.Debug("Run complete",
		zap.String("run_id", out.RunID),
		zap.Duration("elapsed", out.Elapsed),
		zap.Int("peak_resident", out.Peak),
	)
	for _, uri := range out.Published {
		a.log.Info("Published", zap.String("uri", uri))
	}

	fmt.Fprint(cmd.OutOrStdout(), out.Summary.String())
	return nil
}

// progressPrinter redraws a single status line on w.
func progressPrinter(w io.Writer) func(reconcile.Progress) {
	return func(p reconcile.Progress) {
		fmt.Fprintf(w, "\rRead %s lines of old and %s lines of new list",
			utils.FormatCount(int(p.OldLines)), utils.FormatCount(int(p.NewLines)))
		if p.Done {
			fmt.Fprintln(w)
		}
	}
}
