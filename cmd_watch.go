package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/phturb/domain-randomizer/model"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the roster every time the players service pushes an update",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			c, err := newClient()
			if err != nil {
				return err
			}
			err = c.Watch(ctx, func(ps []model.Player) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d players\n", len(ps))
				for _, p := range ps {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d characters\n", p.Name, len(p.Characters))
				}
			})
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		},
	}
}
