package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "identify <description...>",
		Short: "Identify a butterfly from a description without recording it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ctx.ensureGuide()
			if err != nil {
				return err
			}
			src, err := domain.ParseInputSource(source)
			if err != nil {
				return err
			}

			ident := g.identifications.Classify(cmd.Context(), strings.Join(args, " "), src)
			if ident == nil {
				if ctx.json() {
					return writeJSON(cmd, map[string]bool{"identified": false})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to identify.")
				return nil
			}

			profile, err := g.species.Get(ident.Species)
			if err != nil {
				return err
			}
			if ctx.json() {
				return writeJSON(cmd, map[string]any{
					"identified":     true,
					"identification": ident,
					"profile":        profile,
				})
			}

			rows := [][]string{{
				ident.Species.String(),
				string(ident.Outcome),
				strconv.Itoa(ident.Score),
				profile.Fact,
			}}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Species", "Outcome", "Score", "Fact"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "text", "Input source (text, voice or upload)")
	return cmd
}
