package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fenilsonani/file-organizer/internal/config"
	"github.com/fenilsonani/file-organizer/internal/logging"
	"github.com/fenilsonani/file-organizer/internal/organizer"
	"github.com/fenilsonani/file-organizer/internal/progress"
	"github.com/fenilsonani/file-organizer/internal/reporter"
	"github.com/fenilsonani/file-organizer/internal/security"
	"github.com/fenilsonani/file-organizer/internal/ui"
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type <directory>",
	Short: "Move files into folders by file type",
	Long: `Moves every file directly inside the directory into a folder named after its
category (images, documents, ...). Unknown extensions go to "others".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return organizeCommand(cmd, organizer.PolicyType, args[0])
	},
}

var dateCmd = &cobra.Command{
	Use:   "date <directory>",
	Short: "Move files into folders by modification month",
	Long: `Moves every file directly inside the directory into a folder named after its
modification time, formatted with date_format (default "%Y-%m", e.g. 2024-03).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return organizeCommand(cmd, organizer.PolicyDate, args[0])
	},
}

var duplicatesCmd = &cobra.Command{
	Use:     "duplicates <directory>",
	Aliases: []string{"dupes"},
	Short:   "Move duplicate files into a duplicates folder",
	Long: `Hashes every file under the directory, subfolders included. The first file
found with a given content stays in place; every later copy is moved into the
duplicates folder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return organizeCommand(cmd, organizer.PolicyDuplicates, args[0])
	},
}

var runCmd = &cobra.Command{
	Use:   "run <directory>",
	Short: "Organize with the configured default method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := loadConfig(cmd.ErrOrStderr())
		policy, err := organizer.ParsePolicy(cfg.DefaultOrganizeMethod)
		if err != nil {
			return err
		}
		return organizeCommand(cmd, policy, args[0])
	},
}

// session holds what one invocation needs to run policies
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	validator *security.PathValidator
	format    reporter.OutputFormat
	out       io.Writer
	errOut    io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	format, err := reporter.ParseFormat(outputFmt)
	if err != nil {
		return nil, err
	}

	cfg, logger := loadConfig(cmd.ErrOrStderr())

	return &session{
		cfg:       cfg,
		logger:    logger,
		validator: security.NewPathValidator(),
		format:    format,
		out:       cmd.OutOrStdout(),
		errOut:    cmd.ErrOrStderr(),
	}, nil
}

func organizeCommand(cmd *cobra.Command, policy organizer.Policy, dir string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	root, err := s.validator.ValidateRoot(dir)
	if err != nil {
		return err
	}
	return s.organize(cmd.Context(), policy, root)
}

// organize runs one policy over an already validated root and renders the report
func (s *session) organize(ctx context.Context, policy organizer.Policy, root string) error {
	org := organizer.New(s.cfg)
	org.SetLogger(s.logger)

	pr := progress.NewReporter()
	org.SetProgressReporter(pr)

	live := ui.NewLiveProgress(s.errOut, !noProgress && isTerminalWriter(s.errOut))
	live.Attach(pr)

	fmt.Fprintf(s.errOut, "%s: %s\n", policy.Label(), root)
	report, err := org.Run(ctx, policy, root)
	live.Finish()

	if report == nil {
		return err
	}

	if renderErr := s.render(report); renderErr != nil {
		return renderErr
	}

	if report.Cancelled {
		fmt.Fprintf(s.errOut, "Cancelled: %d files were moved before the interrupt.\n", len(report.Moved()))
	}
	return err
}

func (s *session) render(report *organizer.Report) error {
	if outputFile != "" {
		if err := reporter.SaveToFile(report, outputFile, s.format); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Fprintf(s.errOut, "Report saved to: %s\n", outputFile)
		return nil
	}

	if err := reporter.New(s.out, s.format).Report(report); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	return nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	defaultPolicy, err := organizer.ParsePolicy(s.cfg.DefaultOrganizeMethod)
	if err != nil {
		defaultPolicy = organizer.PolicyType
	}

	validate := func(path string) (string, error) {
		return s.validator.ValidateRoot(path)
	}
	selector := ui.NewSelector(os.Stdin, os.Stdout, validate, defaultPolicy)

	return ui.RunInteractive(cmd.Context(), selector, s.out, func(ctx context.Context, sel ui.Selection) error {
		return s.organize(ctx, sel.Policy, sel.Root)
	})
}

// loadConfig reads the config file and builds the logger from it. Config
// errors are logged and the defaults are used instead.
func loadConfig(w io.Writer) (*config.Config, *slog.Logger) {
	bootstrap := slog.New(slog.NewTextHandler(w, nil))

	path, err := resolveConfigPath()
	if err != nil {
		bootstrap.Warn("using default configuration", "error", err)
		path = ""
	}

	cfg := config.GetDefault()
	if path != "" {
		cfg = config.LoadOrDefault(path, bootstrap)
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	logger, err := logging.NewFromConfig(cfg, w, verbose)
	if err != nil {
		bootstrap.Warn("falling back to text logging", "error", err)
		logger = bootstrap
	}
	return cfg, logger
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTerminal(f)
}
