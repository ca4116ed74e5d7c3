package cmd

import (
	"fmt"
	"os"

	"filelist-diff/core/fault"
	"filelist-diff/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd compares two manifests when called without a subcommand.
var RootCmd = &cobra.Command{
	Use:   "filelist-diff [options] <old-file> <new-file> <output-dir>",
	Short: "Compare two file-tree manifests",
	Long: `filelist-diff compares two manifests of a file tree (one "type, hash, size, path"
record per line) and writes the paths that were removed, added or changed.

Inputs may be local files or s3://bucket/key objects, optionally .gz or .zst
compressed. Memory use grows with the difference between the lists, not their size.

Outputs, written to <output-dir>:
  onlyInOld___<old-file>.txt   missing files
  onlyInNew___<new-file>.txt   new files
  changedOld___<old-file>.txt  changed files, old entries
  changedNew___<new-file>.txt  changed files, new entries`,
	Args:          compareArgs,
	RunE:          runCompare,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config gives readable timestamps on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			fields := []zap.Field{zap.Error(err)}
			if kind, ok := fault.KindOf(err); ok {
				fields = append(fields, zap.Stringer("kind", kind))
			}
			if cause := fault.Cause(err); cause != nil && cause.Kind != fault.Engine {
				fields = append(fields, zap.Stringer("cause", cause.Kind))
			}
			l.Error("command failed", fields...)
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func compareArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		return fault.NewArgument("usage", "", fmt.Errorf("%w: expected <old-file> <new-file> <output-dir>, got %d arguments", fault.ErrInvalidArgument, len(args)))
	}
	return nil
}
