package cli

import (
	"poptique_list/internal/app"
	"poptique_list/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}
}

func runTUI(cmd *cobra.Command, a *App) error {
	closer := app.RedirectLogsForTUI()
	defer closer.Close()
	return tui.Run(cmd.Context(), a.service(), a.Config, a.Settings.ConfigPath)
}
