// Package cmd wires the gitscope command-line surface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitscope/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "gitscope",
	Short: "Terminal git history viewer with resumable code reviews",
	Long: `Gitscope browses a repository's commit history in the terminal and
tracks code reviews across sessions. Reviews address a single commit or
a commit comparison and can be resumed from any registered repository.

Running gitscope with no subcommand opens the commit view.`,
	RunE:          runView,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
}

func initLogging() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("gitscope %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("gitscope %s\n", version)
}
