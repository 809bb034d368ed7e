package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"courtiq/internal/api"
	"courtiq/internal/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "history [result-id]",
		Short:         "List past analyses, or show one in full",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(cmd)
			if len(args) == 1 {
				res, err := client.GetResult(cmd.Context(), args[0])
				if err != nil {
					return &ExitError{Code: exitCodeFor(err), Err: err}
				}
				history.RenderResult(cmd.OutOrStdout(), res)
				return nil
			}
			limit, _ := cmd.Flags().GetInt("limit")
			search, _ := cmd.Flags().GetString("search")
			list, err := client.ListResults(cmd.Context(), limit, search)
			if err != nil {
				return &ExitError{Code: exitCodeFor(err), Err: err}
			}
			history.RenderResults(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Max results to list")
	cmd.Flags().String("search", "", "Filter results by video name")
	return cmd
}

// newClient builds an API client from persistent flags and config.
func newClient(cmd *cobra.Command) *api.Client {
	apiURL := getPersistentString(cmd, "api-url", "")
	if apiURL == "" {
		apiURL = viper.GetString("api_url")
	}
	if apiURL == "" {
		apiURL = api.DefaultBaseURL
	}
	return api.NewClient(apiURL)
}
