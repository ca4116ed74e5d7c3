package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"filelist-diff/core/history"
	"filelist-diff/core/utils"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recorded runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded comparison runs",
	Long: `Lists the most recent comparison runs stored in the run history database.

Requires DATABASE_DRIVER to be set to mysql or sqlite.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", history.DefaultLimit, "Maximum number of runs to list")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	a.openHistory(cmd.Context())
	runs, err := a.store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	return printRuns(cmd, runs)
}

func printRuns(cmd *cobra.Command, runs []history.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tMISSING\tNEW\tCHANGED\tOLD\tNEW LIST")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Status,
			utils.FormatCount(r.MissingFiles),
			utils.FormatCount(r.NewFiles),
			utils.FormatCount(r.ChangedFiles),
			r.OldSource,
			r.NewSource,
		)
	}
	return w.Flush()
}
