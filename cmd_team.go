package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/phturb/domain-randomizer/discord"
	"github.com/phturb/domain-randomizer/internal"
	"github.com/phturb/domain-randomizer/randomizer"
	"github.com/spf13/cobra"
)

// uniqueNames drops repeated names, keeping the first occurrence.
func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func newTeamCmd() *cobra.Command {
	var (
		names    []string
		seed     uint64
		announce bool
	)
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Draw a random team from the rosters of the given players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var gen *randomizer.TeamGenerator
			if cmd.Flags().Changed("seed") {
				gen = randomizer.NewSeededTeamGenerator(seed)
			}
			app, roster, err := newApp(cmd.Context(), gen)
			if err != nil {
				return err
			}
			for _, name := range uniqueNames(names) {
				if _, ok := roster.Find(name); !ok {
					slog.Warn(fmt.Sprintf("player '%s' has no roster, no characters drawn for them", name))
				}
				if !app.TogglePlayerForTeam(name) {
					slog.Warn(fmt.Sprintf("player '%s' left out of the draw", name))
				}
			}
			app.GenerateTeam()
			slots := app.TeamSlots()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Players: %s\n", strings.Join(app.PlayersForTeam(), ", "))
			for i, c := range slots {
				if c == nil {
					fmt.Fprintf(out, "%d. --\n", i+1)
					continue
				}
				fmt.Fprintf(out, "%d. %s (%s)\n", i+1, c.FullName, c.Stars)
			}
			if !announce {
				return nil
			}
			cfg := internal.Config()
			dm, err := discord.NewDiscordManager(cfg.Discord.Token, cfg.Discord.ChannelID)
			if err != nil {
				return err
			}
			return dm.AnnounceTeam(app.PlayersForTeam(), slots)
		},
	}
	cmd.Flags().StringSliceVarP(&names, "player", "p", nil, "players to draw from")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the draw for a reproducible team")
	cmd.Flags().BoolVar(&announce, "announce", false, "post the team to the configured discord channel")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}
