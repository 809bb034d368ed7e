package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Check that the analysis service is reachable",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newClient(cmd)
			if err := client.Health(cmd.Context()); err != nil {
				return &ExitError{Code: exitCodeFor(err), Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Service: %s OK\n", client.BaseURL())
			return nil
		},
	}
}
