package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	logFormat  string
	outputFmt  string
	outputFile string
	noProgress bool
)

// exitInterrupted is the conventional status after SIGINT
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Interrupted.")
		return exitInterrupted
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
}

var rootCmd = &cobra.Command{
	Use:   "organize",
	Short: "Organize the files of a directory",
	Long: `File Organizer sorts the files of a directory into subfolders by file type,
by modification month, or moves duplicate files into a duplicates folder.

Run without arguments for the interactive menu.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.file_organizer/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every file moved")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	// Report flags
	for _, cmd := range []*cobra.Command{rootCmd, typeCmd, dateCmd, duplicatesCmd, runCmd} {
		cmd.Flags().StringVarP(&outputFmt, "output", "o", "summary", "report format (summary, table, json, yaml)")
		cmd.Flags().StringVar(&outputFile, "file", "", "save report to file")
		cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	}

	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(dateCmd)
	rootCmd.AddCommand(duplicatesCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
