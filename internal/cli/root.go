package cli

import (
	"runtime"

	"github.com/ccline/ccline/internal/config"
	"github.com/ccline/ccline/internal/logging"
	"github.com/spf13/cobra"
)

// GlobalFlags contains global flags available for all commands
type GlobalFlags struct {
	Config  string
	Verbose bool
	JSON    bool
	NoColor bool
}

var globalFlags GlobalFlags

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ccline",
	Short: "ccline - statusline segments for coding-assistant CLIs",
	Long: `ccline renders statusline segments for an interactive
coding-assistant CLI. This build focuses on the remote API quota
segment: it enumerates auth entries through a local management proxy,
fetches per-model remaining quota, and prints one colored line.

Available Commands:
  quota      Render the quota segment once
  watch      Re-render the quota segment on config/cache changes
  history    Show recorded quota snapshots
  doctor     Diagnose configuration, proxy, cache, and history state
  version    Print version information`,
	SilenceUsage: true,
}

// Execute sets up the root command and runs it
func Execute() error {
	InitRoot()
	return RootCmd.Execute()
}

// InitRoot initializes the root command with global flags
func InitRoot() {
	RootCmd.PersistentFlags().StringVar(&globalFlags.Config, "config", config.DefaultConfigPath(), "Path to statusline configuration file")
	RootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose (debug) logging on stderr")
	RootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "Output in JSON format where supported")
	RootCmd.PersistentFlags().BoolVar(&globalFlags.NoColor, "no-color", false, "Disable colored output")

	RootCmd.AddCommand(versionCmd)
}

func newLogger() *logging.Logger {
	level := logging.LevelWarn
	if globalFlags.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.WithLevel(level))
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ccline",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("ccline version:", version)
		cmd.Println("go version:", runtime.Version())
		cmd.Println("os/arch:", runtime.GOOS+"/"+runtime.GOARCH)
	},
}

var version = "0.1.0"
