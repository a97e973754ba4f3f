package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ccline/ccline/internal/quota"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchCmd re-renders the quota segment whenever the config file or
// the cache file changes, plus on a periodic ticker. Useful while
// tuning aliases and colors: another terminal shows the segment live.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the quota segment on config/cache changes",
	RunE:  runWatch,
}

var watchFlags struct {
	Interval time.Duration
}

func init() {
	watchCmd.Flags().DurationVar(&watchFlags.Interval, "interval", 30*time.Second, "Periodic re-render interval")
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watchDirOf := func(path string) {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err == nil {
			_ = watcher.Add(dir)
		}
	}
	watchDirOf(globalFlags.Config)
	if cachePath, err := quota.DefaultCachePath(); err == nil {
		watchDirOf(cachePath)
	}

	render := func() {
		text, ok, err := renderQuotaSegment(ctx)
		switch {
		case err != nil:
			fmt.Fprintln(os.Stderr, "render failed:", err)
		case ok:
			fmt.Fprintln(os.Stdout, text)
		default:
			fmt.Fprintln(os.Stdout, "(no quota data)")
		}
	}
	render()

	ticker := time.NewTicker(watchFlags.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				render()
			}
		case <-watcher.Errors:
			// Ignore watcher errors; the ticker still drives re-renders.
		case <-ticker.C:
			render()
		}
	}
}
