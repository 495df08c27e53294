// Package cli wires the shoplist commands: the terminal UI, the CORS proxy,
// the stand-in backend and two scriptable list commands.
package cli

import (
	"fmt"
	"strings"

	"poptique_list/internal/api"
	"poptique_list/internal/app"
	"poptique_list/internal/config"
	"poptique_list/internal/shopping"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// App is the state shared by every command once flags and environment
// have been read.
type App struct {
	Settings app.Settings
	Config   config.File
}

func (a *App) service() *shopping.Service {
	client := api.NewClient(a.Settings.APIBase, a.Settings.APIOrigin)
	log.Debug().Str("base", client.BaseURL()).Msg("Using list API")
	return shopping.NewService(client)
}

func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:          "shoplist",
		Short:        "Shared shopping list grouped by marketplace",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  shoplist

  # Run the CORS proxy in front of the list backend
  SCRIPT_URL=https://script.google.com/macros/s/.../exec shoplist proxy

  # Script against the list
  shoplist add "Glass vase" --platform Depop
  shoplist ls
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		a.Settings = app.LoadSettings()
		cfg, err := config.Load(a.Settings.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.Config = cfg
		return nil
	}

	cmd.AddCommand(
		newTUICmd(a),
		newProxyCmd(a),
		newBackendCmd(a),
		newLsCmd(a),
		newAddCmd(a),
	)
	return cmd
}
