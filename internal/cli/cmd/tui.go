package cmd

import (
	"github.com/spf13/cobra"
)

func newTuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tui [videos...]",
		Short:         "Force TUI mode for interactive analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PreRunE:       analyzePreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Force TUI; if stdout is not a terminal, ui.Run will error appropriately.
			return analyzeExecute(cmd, args, runMode{ForceTUI: true})
		},
	}
	bindAnalyzeFlags(cmd.Flags())
	// In TUI mode, '--no-ui' makes no sense, but keep flag for symmetry.
	if f := cmd.Flags().Lookup("no-ui"); f != nil {
		f.Hidden = true
	}
	return cmd
}
