package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"inkwell/internal/config"
	"inkwell/internal/domain"
)

// errCompletedWithWarnings signals a run that finished and wrote its
// output but collected warnings above info level. Commands return it
// after printing the summary so the exit code reflects the outcome.
var errCompletedWithWarnings = errors.New("completed with warnings")

// commandContext carries the state shared by every subcommand: the
// resolved configuration, the persistent flag values, and the logger
// built from them once flags are parsed.
type commandContext struct {
	cfg *config.Config

	logLevelFlag  string
	logFormatFlag string
	quiet         bool

	logger  *slog.Logger
	logFile *os.File
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	ctx := &commandContext{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:           "inkwell",
		Short:         "Import, export, and compile manuscript projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setupLogging(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.closeLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&ctx.logFormatFlag, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&ctx.quiet, "quiet", "q", false, "Suppress log and progress output")

	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newFormatsCommand())

	return rootCmd
}

// setupLogging applies flag overrides to the configuration and installs
// the shared logger. Logs go to stderr, to the log file when a log
// directory is configured, or to both; --quiet drops the stderr copy.
func (c *commandContext) setupLogging(cmd *cobra.Command) error {
	if c.logLevelFlag != "" {
		c.cfg.LogLevel = c.logLevelFlag
	}
	if c.logFormatFlag != "" {
		c.cfg.LogFormat = c.logFormatFlag
	}

	var writers []io.Writer
	if !c.quiet {
		writers = append(writers, cmd.ErrOrStderr())
	}
	if c.cfg.LogDir != "" {
		file, err := config.SetupLogFile(c.cfg.LogDir, c.cfg.LogMaxFiles)
		if err != nil {
			return err
		}
		c.logFile = file
		writers = append(writers, file)
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = io.Discard
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	c.logger = c.cfg.NewLogger(w)
	slog.SetDefault(c.logger)
	return nil
}

func (c *commandContext) closeLogging() {
	if c.logFile != nil {
		c.logFile.Close()
		c.logFile = nil
	}
}

// progress returns a callback that redraws a single status line on
// stderr. Off a terminal there is no progress display; the structured
// log already records the stage transitions.
func (c *commandContext) progress(cmd *cobra.Command) domain.ProgressFunc {
	out := cmd.ErrOrStderr()
	if c.quiet || !isTerminal(out) {
		return domain.NopProgress
	}
	return func(fraction float64, status string) {
		fmt.Fprintf(out, "\r\033[K%3.0f%% %s", fraction*100, status)
		if fraction >= 1 {
			fmt.Fprintln(out)
		}
	}
}
