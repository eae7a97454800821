package main

import (
	"fmt"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/spf13/cobra"
)

func getCoordsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "coords",
		Short: "Export gauge coordinates as CSV and a GeoJSON point layer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gauges, err := a.store.ReadGauges(a.country)
			if err != nil {
				return err
			}
			csvPath, geoPath, err := a.store.WriteGaugeCoords(a.country, gauges)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "wrote %s\nwrote %s\n", csvPath, geoPath)
			if len(gauges) > 0 {
				b := domain.Bounds(gauges)
				fmt.Fprintf(w, "bounds lon %.4f..%.4f lat %.4f..%.4f\n", b.Min.Lon(), b.Max.Lon(), b.Min.Lat(), b.Max.Lat())
			}
			return nil
		},
	}
}
