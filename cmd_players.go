package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/phturb/domain-randomizer/players"
	"github.com/spf13/cobra"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Manage player rosters through the players service",
	}
	cmd.AddCommand(newPlayersListCmd())
	cmd.AddCommand(newPlayersExportCmd())
	cmd.AddCommand(newPlayersImportCmd())
	cmd.AddCommand(newPlayersSaveCmd())
	return cmd
}

func newPlayersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List players and how many characters each owns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCHARACTERS")
			for _, p := range app.Players() {
				fmt.Fprintf(tw, "%s\t%d\n", p.Name, len(p.Characters))
			}
			fmt.Fprintf(tw, "Total Characters\t%d\n", app.TotalOwnedCharacters())
			return tw.Flush()
		},
	}
}

func newPlayersExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every roster as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			b, err := app.ExportPlayers()
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(b, '\n'))
				return err
			}
			return os.WriteFile(output, b, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")
	return cmd
}

func newPlayersImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Append the players of an exported document and push them to the service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			app, _, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if err := app.ImportPlayers(blob); err != nil {
				return err
			}
			imported, err := players.Decode(blob)
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			for _, p := range imported {
				if err := c.SavePlayer(cmd.Context(), p); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d players, %d players now listed\n", len(imported), len(app.Players()))
			return nil
		},
	}
}

func newPlayersSaveCmd() *cobra.Command {
	var (
		filter        filterFlags
		selectVisible bool
		clearSel      bool
		toggles       []string
	)
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Create or edit a player's roster",
		Long: `save opens NAME for editing (or a new roster when NAME is unknown), applies
the selection flags in order (--clear, --select-visible, --toggle) and saves it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := filter.state()
			if err != nil {
				return err
			}
			app, roster, err := newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			name := args[0]
			if _, ok := roster.Find(name); ok {
				if err := app.OpenPlayer(name); err != nil {
					return err
				}
			} else {
				app.OpenNewPlayer()
			}
			app.SetFilter(fs)
			if clearSel {
				if err := app.DeselectAll(); err != nil {
					return err
				}
			}
			if selectVisible {
				if err := app.SelectAllVisible(); err != nil {
					return err
				}
			}
			for _, id := range toggles {
				if err := app.ToggleCharacter(id); err != nil {
					return err
				}
			}
			selected := len(app.Selection())
			saved, err := app.SaveSession(cmd.Context(), name)
			if err != nil {
				return err
			}
			if err := flushSaves(roster); err != nil {
				return err
			}
			if saved {
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s with %d characters\n", name, selected)
			}
			return nil
		},
	}
	filter.register(cmd)
	cmd.Flags().BoolVar(&selectVisible, "select-visible", false, "select every character matching the filters")
	cmd.Flags().BoolVar(&clearSel, "clear", false, "start from an empty selection")
	cmd.Flags().StringSliceVar(&toggles, "toggle", nil, "character ids to toggle")
	return cmd
}
