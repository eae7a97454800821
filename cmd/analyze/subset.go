package main

import (
	"fmt"
	"io"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/spf13/cobra"
)

func getSubsetCmd(a *app) *cobra.Command {
	var gauge, issueDate string

	cmd := &cobra.Command{
		Use:   "subset",
		Short: "Print the forecasts of one gauge for one issue date",
		Example: "  analyze subset --country Mali --from 2024-10-01 --to 2024-10-10 \\\n" +
			"    --gauge hybas_1120661040 --issue-date 2024-10-03",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseIssueTime(issueDate)
			if err != nil {
				return err
			}
			records, err := a.forecasts()
			if err != nil {
				return err
			}
			writeRecords(cmd.OutOrStdout(), domain.Subset(records, gauge, day))
			return nil
		},
	}
	cmd.Flags().StringVar(&gauge, "gauge", "", "gauge id")
	cmd.Flags().StringVar(&issueDate, "issue-date", "", "issue date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("gauge")
	_ = cmd.MarkFlagRequired("issue-date")
	return cmd
}

func writeRecords(w io.Writer, records []domain.ForecastRecord) {
	fmt.Fprintln(w, "gaugeId;issue_date;fc_date;fc_value")
	for _, r := range records {
		fmt.Fprintf(w, "%s;%s;%s;%g\n", r.GaugeID, domain.FormatDate(r.IssueDate), domain.FormatDate(r.ForecastDate), r.Value)
	}
}
