package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ccline/ccline/internal/config"
	"github.com/ccline/ccline/internal/history"
	"github.com/spf13/cobra"
)

// historyCmd lists recorded quota snapshots.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded quota snapshots",
	Long: `Display quota snapshots recorded on past successful fetches.
Recording is opt-in via the history_enabled option.

Examples:
  # Show the most recent snapshots
  ccline history

  # Show more rows, as JSON
  ccline history --limit 200 --json | jq '.'`,
	RunE: runHistory,
}

var historyFlags struct {
	Limit int
}

func init() {
	historyCmd.Flags().IntVar(&historyFlags.Limit, "limit", 50, "Maximum number of snapshots to show")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	opts, _, err := config.LoadQuotaOptions(globalFlags.Config)
	if err != nil {
		return err
	}

	path := opts.HistoryPath
	if path == "" {
		path, err = config.DefaultHistoryPath()
		if err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(os.Stdout, "no history recorded yet")
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := store.Recent(historyFlags.Limit)
	if err != nil {
		return err
	}

	if globalFlags.JSON {
		return json.NewEncoder(os.Stdout).Encode(snapshots)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FETCHED AT\tMODEL\tREMAINING\tAUTH TYPE")
	for _, snap := range snapshots {
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%s\n",
			snap.FetchedAt.Local().Format(time.RFC3339),
			snap.ModelID,
			snap.RemainingFraction*100,
			snap.AuthType,
		)
	}
	return w.Flush()
}
