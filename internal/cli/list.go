package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"poptique_list/internal/listview"
	"poptique_list/internal/shopping"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newLsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "Print the list grouped by platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.service().Load(cmd.Context())
			if err != nil {
				return err
			}
			writeGroups(cmd.OutOrStdout(), groups)
			return nil
		},
	}
}

func newAddCmd(a *App) *cobra.Command {
	var platform string
	cmd := &cobra.Command{
		Use:   "add <product>",
		Short: "Add a product to the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product := strings.TrimSpace(strings.Join(args, " "))
			_, err := a.service().Add(cmd.Context(), product, platform)
			if errors.Is(err, shopping.ErrReloadFailed) {
				log.Warn().Err(err).Msg("Added, but the list could not be reloaded")
			} else if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", product, platform)
			return nil
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", "eBay", "marketplace the product is for")
	return cmd
}

func writeGroups(w io.Writer, groups []listview.Group) {
	fmt.Fprint(w, listview.FormatList(groups, true))
}
