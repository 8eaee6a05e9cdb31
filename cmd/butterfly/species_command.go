package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSpeciesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "species",
		Short: "List the species in the reference catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ctx.ensureGuide()
			if err != nil {
				return err
			}
			profiles := g.species.List()
			if ctx.json() {
				return writeJSON(cmd, profiles)
			}

			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{p.Species.String(), p.Slug, p.Image, p.Fact})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Species", "Slug", "Image", "Fact"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
