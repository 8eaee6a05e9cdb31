package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

func newMigrationCommand(ctx *commandContext) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "migration <species>",
		Short: "Show a species' migration timeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := ctx.ensureGuide()
			if err != nil {
				return err
			}
			species, err := domain.ParseSpecies(strings.Join(args, " "))
			if err != nil {
				return err
			}

			var waypoints []domain.WaypointView
			var footer []string
			if strings.TrimSpace(month) != "" {
				wv, err := g.migration.WaypointAt(cmd.Context(), species, month)
				if err != nil {
					return err
				}
				if ctx.json() {
					return writeJSON(cmd, wv)
				}
				waypoints = []domain.WaypointView{*wv}
			} else {
				view, err := g.migration.Timeline(cmd.Context(), species)
				if err != nil {
					return err
				}
				if ctx.json() {
					return writeJSON(cmd, view)
				}
				waypoints = view.Waypoints
				footer = []string{"", "", "Total", "", "", formatKm(view.TotalDistanceKm)}
			}

			rows := make([][]string, 0, len(waypoints))
			for _, wv := range waypoints {
				rows = append(rows, []string{
					strconv.Itoa(wv.Index),
					string(wv.Month),
					wv.Place,
					strconv.FormatFloat(wv.Latitude, 'f', 2, 64),
					strconv.FormatFloat(wv.Longitude, 'f', 2, 64),
					formatKm(wv.DistanceFromPrevKm),
					wv.Reason,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), species.String())
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Month", "Place", "Lat", "Lon", "Leg km", "Reason"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				footer...,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Only show the waypoint for this month (e.g. Jun)")
	return cmd
}

func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 0, 64)
}
