package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revlens-ai/revlens/pkg/models"
)

func newReportCmd() *cobra.Command {
	var flags statsFlags
	var by string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the pre-delivery pass-rate report",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			switch by {
			case "":
				overview, err := runFetch(ctx, func(ctx context.Context) (*models.PreDeliveryOverview, error) {
					return svc.PreDeliveryOverview(ctx)
				})
				if err != nil {
					return err
				}
				fmt.Printf("Conversations: %d\n\n", overview.ConversationCount)
				fmt.Print(formatPassRateTable("DIMENSION", rowsFromBreakdowns("", overview.QualityDimensions)))
				return nil

			case "reviewer":
				rows, err := runFetch(ctx, func(ctx context.Context) ([]models.PreDeliveryReviewerRow, error) {
					return svc.PreDeliveryByReviewer(ctx)
				})
				if err != nil {
					return err
				}
				var all []passRateRow
				for _, r := range rows {
					all = append(all, rowsFromBreakdowns(r.ReviewerName, r.QualityDimensions)...)
				}
				fmt.Print(formatPassRateTable("REVIEWER / DIMENSION", all))
				return nil

			case "trainer":
				rows, err := runFetch(ctx, func(ctx context.Context) ([]models.PreDeliveryTrainerRow, error) {
					return svc.PreDeliveryByTrainer(ctx)
				})
				if err != nil {
					return err
				}
				var all []passRateRow
				for _, r := range rows {
					all = append(all, rowsFromBreakdowns(r.TrainerName, r.QualityDimensions)...)
				}
				fmt.Print(formatPassRateTable("TRAINER / DIMENSION", all))
				return nil

			case "domain":
				rows, err := runFetch(ctx, func(ctx context.Context) ([]models.PreDeliveryDomainRow, error) {
					return svc.PreDeliveryByDomain(ctx)
				})
				if err != nil {
					return err
				}
				var all []passRateRow
				for _, r := range rows {
					all = append(all, rowsFromBreakdowns(r.Domain, r.QualityDimensions)...)
				}
				fmt.Print(formatPassRateTable("DOMAIN / DIMENSION", all))
				return nil

			default:
				return fmt.Errorf("invalid --by value %q (use reviewer, trainer, or domain)", by)
			}
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&flags.mock, "mock", false, "use the built-in mock backend")
	cmd.Flags().StringVar(&by, "by", "", "group by reviewer, trainer, or domain")
	return cmd
}

type passRateRow struct {
	label        string
	passCount    int
	notPassCount int
	averageScore float64
}

func rowsFromBreakdowns(prefix string, dims []models.DimensionBreakdown) []passRateRow {
	rows := make([]passRateRow, 0, len(dims))
	for _, d := range dims {
		label := d.Name
		if prefix != "" {
			label = prefix + " / " + d.Name
		}
		rows = append(rows, passRateRow{
			label:        label,
			passCount:    d.PassCount,
			notPassCount: d.NotPassCount,
			averageScore: d.AverageScore,
		})
	}
	return rows
}

func formatPassRateTable(header string, rows []passRateRow) string {
	if len(rows) == 0 {
		return "No pre-delivery data found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %8s %10s %10s %10s\n",
		header, "PASS", "NOT PASS", "PASS RATE", "AVG SCORE")
	b.WriteString(strings.Repeat("-", 82) + "\n")

	var totalPass, totalNotPass int
	for _, r := range rows {
		fmt.Fprintf(&b, "%-40s %8d %10d %9.1f%% %10.2f\n",
			r.label, r.passCount, r.notPassCount, rate(r.passCount, r.notPassCount), r.averageScore)
		totalPass += r.passCount
		totalNotPass += r.notPassCount
	}
	b.WriteString(strings.Repeat("-", 82) + "\n")
	fmt.Fprintf(&b, "%-40s %8d %10d %9.1f%%\n",
		"TOTAL:", totalPass, totalNotPass, rate(totalPass, totalNotPass))
	return b.String()
}

func rate(pass, notPass int) float64 {
	total := pass + notPass
	if total == 0 {
		return 0
	}
	return 100 * float64(pass) / float64(total)
}
