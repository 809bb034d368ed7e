package cmd

import (
	"github.com/spf13/cobra"

	"courtiq/internal/history"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show aggregate statistics across all analyses",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := newClient(cmd).Stats(cmd.Context())
			if err != nil {
				return &ExitError{Code: exitCodeFor(err), Err: err}
			}
			history.RenderStats(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}
