package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/phturb/domain-randomizer/catalog"
	"github.com/phturb/domain-randomizer/randomizer"
	"github.com/spf13/cobra"
)

type filterFlags struct {
	elements []string
	weapons  []string
	genders  []string
	rarities []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.elements, "element", nil, "keep characters with any of these elements")
	cmd.Flags().StringSliceVar(&f.weapons, "weapon", nil, "keep characters using any of these weapons")
	cmd.Flags().StringSliceVar(&f.genders, "gender", nil, "keep characters of these genders")
	cmd.Flags().StringSliceVar(&f.rarities, "rarity", nil, "keep characters of these star counts (4, 5)")
}

func (f *filterFlags) state() (randomizer.FilterState, error) {
	var fs randomizer.FilterState
	for _, s := range f.elements {
		e, err := catalog.ParseElement(s)
		if err != nil {
			return fs, err
		}
		fs.ToggleElement(e)
	}
	for _, s := range f.weapons {
		w, err := catalog.ParseWeapon(s)
		if err != nil {
			return fs, err
		}
		fs.ToggleWeapon(w)
	}
	for _, s := range f.genders {
		g, err := catalog.ParseGender(s)
		if err != nil {
			return fs, err
		}
		fs.ToggleGender(g)
	}
	for _, s := range f.rarities {
		r, err := catalog.ParseRarity(s)
		if err != nil {
			return fs, err
		}
		fs.ToggleRarity(r)
	}
	return fs, nil
}

func newCatalogCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the characters matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := filter.state()
			if err != nil {
				return err
			}
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tELEMENTS\tWEAPON\tGENDER\tSTARS")
			for _, c := range fs.VisibleRecords(cat) {
				elements := make([]string, 0, len(c.Elements))
				for _, e := range c.Elements {
					elements = append(elements, string(e))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.FullName, strings.Join(elements, ","), c.Weapon, c.Gender, c.Stars)
			}
			return tw.Flush()
		},
	}
	filter.register(cmd)
	return cmd
}
