package main

import (
	"fmt"

	"github.com/couchcryptid/floodhub-etl/internal/domain"
	"github.com/spf13/cobra"
)

func getStatsCmd(a *app) *cobra.Command {
	var (
		gauge, issueDate, statName string
		delta                      int
		znorm                      bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate one gauge's forecasts per issue date",
		Long: `Stats reduces the forecasts of each of delta consecutive issue dates,
starting at --issue-date, to one value. The table must hold forecasts at
least delta+4 days past the issue time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stat, err := domain.ParseStatistic(statName)
			if err != nil {
				return err
			}
			issueTime, err := parseIssueTime(issueDate)
			if err != nil {
				return err
			}
			records, err := a.forecasts()
			if err != nil {
				return err
			}

			series, err := domain.Aggregate(records, issueTime, gauge, delta, stat)
			if err != nil {
				return err
			}
			values := domain.DatedValues(series)
			if znorm {
				values = domain.ZNormalize(values)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "issue_date;%s\n", stat)
			for i, d := range series {
				fmt.Fprintf(w, "%s;%g\n", domain.FormatDate(d.Date), values[i])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gauge, "gauge", "", "gauge id")
	cmd.Flags().StringVar(&issueDate, "issue-date", "", "first issue date, YYYY-MM-DD or RFC3339")
	cmd.Flags().IntVar(&delta, "delta", 1, "number of issue dates to aggregate")
	cmd.Flags().StringVar(&statName, "stat", string(domain.StatMean), "statistic: min, max, mean, dev, var, pdev, pvar")
	cmd.Flags().BoolVar(&znorm, "znorm", false, "z-normalise the aggregated series")
	_ = cmd.MarkFlagRequired("gauge")
	_ = cmd.MarkFlagRequired("issue-date")
	return cmd
}
