package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"courtiq/internal/config"
	"courtiq/internal/model"
)

const (
	ExitOK           = 0
	ExitCLIError     = 1
	ExitInvalidFile  = 2
	ExitNetworkError = 3
	ExitServerError  = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "courtiq [videos...]",
		Short:         "Basketball video analysis from the command line",
		Long:          "CourtIQ uploads basketball footage to an analysis service that tracks player pose frame by frame, waits for processing to finish, and reports how much of the video shows jumping, shooting, and dribbling.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(getPersistentBool(cmd, "verbose", false))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation behaves like the analyze subcommand.
			return analyzeExecute(cmd, args, runMode{ForceTUI: false})
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().String("api-url", "", "Base URL of the analysis service (default http://localhost:5001)")
	root.PersistentFlags().StringP("out-dir", "o", "", "Output directory for exported results (default: the app data dir)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().Int("jobs", 2, "Max concurrent uploads in TUI")

	// Also bind analyze-specific flags on root, so `courtiq <video>` works.
	bindAnalyzeFlags(root.Flags())

	// Subcommands
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindAnalyzeFlags(fs *pflag.FlagSet) {
	fs.Bool("save-results", false, "Write the result JSON artifact after a successful analysis")
	fs.Duration("poll-interval", 0, "Status poll period (default 2s)")
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	_ = config.Init(root)
	return root.ExecuteContext(ctx)
}

func setupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// exitCodeFor maps a classified analysis error onto a process exit code.
// Unclassified errors fall back to the generic CLI code.
func exitCodeFor(err error) int {
	var ei *model.ErrorInfo
	if errors.As(err, &ei) {
		switch ei.Class {
		case model.ErrClientSetup:
			return ExitInvalidFile
		case model.ErrNetworkUnreachable:
			return ExitNetworkError
		case model.ErrServerRejected, model.ErrServerFailure:
			return ExitServerError
		}
	}
	return ExitCLIError
}

// Helpers
func getPersistentString(cmd *cobra.Command, name, def string) string {
	v, err := cmd.InheritedFlags().GetString(name)
	if err != nil || v == "" {
		return def
	}
	return v
}

func getPersistentBool(cmd *cobra.Command, name string, def bool) bool {
	fs := cmd.InheritedFlags()
	if cmd.PersistentFlags().Lookup(name) != nil {
		fs = cmd.PersistentFlags()
	}
	v, err := fs.GetBool(name)
	if err != nil {
		return def
	}
	return v
}

func getPersistentInt(cmd *cobra.Command, name string, def int) int {
	fs := cmd.InheritedFlags()
	if cmd.PersistentFlags().Lookup(name) != nil {
		fs = cmd.PersistentFlags()
	}
	v, err := fs.GetInt(name)
	if err != nil || v == 0 {
		return def
	}
	return v
}

func ensureDir(path string) error {
	if path == "" {
		path = "."
	}
	return os.MkdirAll(filepath.Clean(path), 0o755)
}
