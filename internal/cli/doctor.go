package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ccline/ccline/internal/config"
	"github.com/ccline/ccline/internal/history"
	"github.com/ccline/ccline/internal/quota"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// doctorCmd diagnoses everything the quota segment depends on:
// configuration, the management proxy, the cache file, and the
// history database.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration, proxy, cache, and history state",
	RunE:  runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func statusLine(status lipgloss.Style, tag, message string) string {
	if globalFlags.NoColor {
		return fmt.Sprintf("[%s] %s", tag, message)
	}
	return fmt.Sprintf("[%s] %s", status.Render(tag), message)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Configuration
	opts, enabled, err := config.LoadQuotaOptions(globalFlags.Config)
	if err != nil {
		fmt.Fprintln(out, statusLine(failStyle, "FAIL", fmt.Sprintf("config: %v", err)))
		return nil
	}
	fmt.Fprintln(out, statusLine(okStyle, " OK ", fmt.Sprintf("config: %s", globalFlags.Config)))
	if !enabled {
		fmt.Fprintln(out, statusLine(warnStyle, "WARN", "quota segment is disabled in config"))
	}

	// Management proxy
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	fetcher := quota.NewFetcher(opts.Host, opts.Key, newLogger())
	entries, err := fetcher.ListAuthEntries(ctx)
	if err != nil {
		fmt.Fprintln(out, statusLine(failStyle, "FAIL", fmt.Sprintf("management proxy %s: %v", opts.Host, err)))
	} else {
		byType := make(map[string]int)
		disabled := 0
		for _, entry := range entries {
			if entry.Disabled {
				disabled++
				continue
			}
			byType[entry.Type]++
		}
		fmt.Fprintln(out, statusLine(okStyle, " OK ", fmt.Sprintf("management proxy %s: %d auth entries (%d antigravity, %d gemini-cli, %d disabled)",
			opts.Host, len(entries), byType[quota.AuthTypeAntigravity], byType[quota.AuthTypeGeminiCLI], disabled)))
	}

	// Cache
	cachePath, err := quota.DefaultCachePath()
	if err != nil {
		fmt.Fprintln(out, statusLine(failStyle, "FAIL", fmt.Sprintf("cache path: %v", err)))
	} else {
		cache := quota.NewCache(cachePath)
		snap, ok := cache.Load()
		switch {
		case !ok:
			fmt.Fprintln(out, statusLine(warnStyle, "WARN", fmt.Sprintf("cache: no readable snapshot at %s", cachePath)))
		case snap.IsValid(opts.CacheDuration, time.Now()):
			fmt.Fprintln(out, statusLine(okStyle, " OK ", fmt.Sprintf("cache: %d quotas, fresh (cached at %s)", len(snap.Quotas), snap.CachedAt)))
		default:
			fmt.Fprintln(out, statusLine(warnStyle, "WARN", fmt.Sprintf("cache: %d quotas, stale (cached at %s)", len(snap.Quotas), snap.CachedAt)))
		}
	}

	// History
	if !opts.HistoryEnabled {
		fmt.Fprintln(out, statusLine(okStyle, " OK ", "history: disabled"))
		return nil
	}
	if _, err := os.Stat(opts.HistoryPath); os.IsNotExist(err) {
		fmt.Fprintln(out, statusLine(warnStyle, "WARN", fmt.Sprintf("history: enabled but nothing recorded yet at %s", opts.HistoryPath)))
		return nil
	}
	store, err := history.Open(opts.HistoryPath)
	if err != nil {
		fmt.Fprintln(out, statusLine(failStyle, "FAIL", fmt.Sprintf("history: %v", err)))
		return nil
	}
	defer store.Close()
	count, err := store.Count()
	if err != nil {
		fmt.Fprintln(out, statusLine(failStyle, "FAIL", fmt.Sprintf("history: %v", err)))
		return nil
	}
	fmt.Fprintln(out, statusLine(okStyle, " OK ", fmt.Sprintf("history: %d snapshots at %s", count, opts.HistoryPath)))
	return nil
}
