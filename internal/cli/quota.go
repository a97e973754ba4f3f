package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ccline/ccline/internal/config"
	"github.com/ccline/ccline/internal/history"
	"github.com/ccline/ccline/internal/logging"
	"github.com/ccline/ccline/internal/segment"
	"github.com/spf13/cobra"
)

// quotaCmd renders the quota segment once and exits. When the segment
// has nothing to contribute it prints nothing and still exits 0 so the
// host statusline simply omits it.
var quotaCmd = &cobra.Command{
	Use:     "quota",
	Aliases: []string{"q"},
	Short:   "Render the quota segment once",
	Long: `Render the remote API quota segment: read the cache, fetch fresh
quota data through the management proxy when the cache is stale, and
print one colored, separator-joined line of per-model percentages.

Examples:
  # Render with the default config
  ccline quota

  # Render with an explicit config file
  ccline quota --config ~/.claude/ccline/config.yaml`,
	RunE: runQuota,
}

func init() {
	RootCmd.AddCommand(quotaCmd)
}

func runQuota(cmd *cobra.Command, args []string) error {
	text, ok, err := renderQuotaSegment(cmd.Context())
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(os.Stdout, text)
	}
	return nil
}

// renderQuotaSegment runs the whole pipeline once. The error return
// covers only boundary failures (unreadable or invalid config);
// pipeline failures degrade to ok=false.
func renderQuotaSegment(ctx context.Context) (string, bool, error) {
	opts, enabled, err := config.LoadQuotaOptions(globalFlags.Config)
	if err != nil {
		return "", false, err
	}
	if !enabled {
		return "", false, nil
	}

	logger := newLogger()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRenderID(ctx, logging.NewRenderID())

	var segOpts []segment.Option
	var store *history.Store
	if opts.HistoryEnabled {
		store, err = history.Open(opts.HistoryPath)
		if err != nil {
			// History must never block rendering.
			logger.WarnWithContext(ctx, "history unavailable", "error", err.Error())
		} else {
			defer store.Close()
			segOpts = append(segOpts, segment.WithRecorder(store))
		}
	}

	seg, err := segment.New(opts, logger, segOpts...)
	if err != nil {
		return "", false, err
	}
	text, ok := seg.Collect(ctx)
	return text, ok, nil
}
