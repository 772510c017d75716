package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/phturb/domain-randomizer/catalog"
	"github.com/phturb/domain-randomizer/client"
	"github.com/phturb/domain-randomizer/internal"
	"github.com/phturb/domain-randomizer/randomizer"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFiles []string
	cmd := &cobra.Command{
		Use:   "domain-randomizer",
		Short: "Curate character rosters and draw random domain teams",
		Long: `domain-randomizer keeps a roster of owned characters per player, filters the
character catalog by element, weapon, gender and rarity, and draws random teams
out of the combined rosters of up to four players.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := internal.LoadConfig(envFiles...); err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: internal.Config().SlogLevel(),
			})))
			return nil
		},
	}
	cmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, ".env files to load (default .env)")
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newPlayersCmd())
	cmd.AddCommand(newTeamCmd())
	cmd.AddCommand(newWatchCmd())
	return cmd
}

func newClient() (*client.Client, error) {
	return client.New(internal.Config().Randomizer.PlayersAPIURL, nil)
}

// newApp builds the engine against the players service and waits for the
// first roster fetch.
func newApp(ctx context.Context, gen *randomizer.TeamGenerator) (*randomizer.App, *randomizer.Roster, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, nil, err
	}
	c, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	cfg := internal.Config()
	roster := randomizer.NewRoster(c)
	app, err := randomizer.NewApp(randomizer.AppConfig{
		Catalog:        cat,
		Roster:         roster,
		Generator:      gen,
		TeamSize:       cfg.Randomizer.TeamSize,
		MaxTeamPlayers: cfg.Randomizer.MaxTeamPlayers,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := app.LoadPlayers(ctx); err != nil {
		return nil, nil, err
	}
	return app, roster, nil
}

// flushSaves waits for the background saves of roster and reports every
// failure.
func flushSaves(roster *randomizer.Roster) error {
	roster.Wait()
	var errs []error
	for {
		select {
		case err := <-roster.SaveErrors():
			errs = append(errs, err)
		default:
			return errors.Join(errs...)
		}
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
