package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/revlens-ai/revlens/pkg/client"
	"github.com/revlens-ai/revlens/pkg/fetch"
	"github.com/revlens-ai/revlens/pkg/models"
)

type statsFlags struct {
	configPath   string
	mock         bool
	domain       string
	reviewer     string
	trainerLevel string
}

func (f statsFlags) filters() models.Filters {
	filters := models.Filters{}
	if f.domain != "" {
		filters["domain"] = f.domain
	}
	if f.reviewer != "" {
		filters["reviewer"] = f.reviewer
	}
	if f.trainerLevel != "" {
		filters["trainer_level"] = f.trainerLevel
	}
	return filters
}

func (f statsFlags) service() (client.Service, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return nil, err
	}
	return newService(cfg, f.mock), nil
}

// runFetch drives one producer through the fetch lifecycle and returns the
// settled data or error.
func runFetch[T any](ctx context.Context, producer fetch.Producer[T]) (T, error) {
	f := fetch.New[T]()
	defer f.Close()

	<-f.Fetch(ctx, producer)

	st := f.Snapshot()
	if st.Err != nil {
		var zero T
		return zero, st.Err
	}
	return st.Data, nil
}

func newStatsCmd() *cobra.Command {
	var flags statsFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review-quality statistics",
	}

	var watch time.Duration
	overviewCmd := &cobra.Command{
		Use:   "overview",
		Short: "Show the overall summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			producer := func(ctx context.Context) (*models.OverallAggregation, error) {
				return svc.Overall(ctx, flags.filters())
			}

			if watch <= 0 {
				agg, err := runFetch(cmd.Context(), producer)
				if err != nil {
					return err
				}
				return printOverview(agg)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			f := fetch.New[*models.OverallAggregation]()
			defer f.Close()
			ticker := time.NewTicker(watch)
			defer ticker.Stop()

			for {
				<-f.Fetch(ctx, producer)
				st := f.Snapshot()
				switch {
				case st.Err != nil:
					fmt.Fprintln(os.Stderr, "fetch:", st.Err.Detail)
				case st.Data != nil:
					if err := printOverview(st.Data); err != nil {
						return err
					}
					fmt.Println()
				}

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	overviewCmd.Flags().DurationVar(&watch, "watch", 0, "refresh on an interval (e.g. 30s)")

	byDomainCmd := &cobra.Command{
		Use:   "by-domain",
		Short: "Aggregate by task domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			aggs, err := runFetch(cmd.Context(), func(ctx context.Context) ([]models.DomainAggregation, error) {
				return svc.ByDomain(ctx, flags.filters())
			})
			if err != nil {
				return err
			}
			if len(aggs) == 0 {
				fmt.Println("No domain data found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DOMAIN\tCONVERSATIONS\tDIMENSIONS\tAVG SCORE")
			for _, a := range aggs {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
					a.Domain, a.ConversationCount, len(a.QualityDimensions), scoreStr(dimensionMean(a.QualityDimensions)))
			}
			return w.Flush()
		},
	}

	byReviewerCmd := &cobra.Command{
		Use:   "by-reviewer",
		Short: "Aggregate by reviewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			aggs, err := runFetch(cmd.Context(), func(ctx context.Context) ([]models.ReviewerAggregation, error) {
				return svc.ByReviewer(ctx, flags.filters())
			})
			if err != nil {
				return err
			}
			if len(aggs) == 0 {
				fmt.Println("No reviewer data found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REVIEWER\tID\tCONVERSATIONS\tAVG SCORE")
			for _, a := range aggs {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
					a.ReviewerName, a.ReviewerID, a.ConversationCount, scoreStr(dimensionMean(a.QualityDimensions)))
			}
			return w.Flush()
		},
	}

	byTrainerLevelCmd := &cobra.Command{
		Use:   "by-trainer-level",
		Short: "Aggregate by trainer level",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			aggs, err := runFetch(cmd.Context(), func(ctx context.Context) ([]models.TrainerLevelAggregation, error) {
				return svc.ByTrainerLevel(ctx, flags.filters())
			})
			if err != nil {
				return err
			}
			if len(aggs) == 0 {
				fmt.Println("No trainer level data found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TRAINER LEVEL\tCONVERSATIONS\tAVG SCORE")
			for _, a := range aggs {
				fmt.Fprintf(w, "%s\t%d\t%s\n",
					a.TrainerName, a.ConversationCount, scoreStr(dimensionMean(a.QualityDimensions)))
			}
			return w.Flush()
		},
	}

	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show the per-task drill-down",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := flags.service()
			if err != nil {
				return err
			}
			tasks, err := runFetch(cmd.Context(), func(ctx context.Context) ([]models.TaskLevelInfo, error) {
				return svc.TaskLevel(ctx, flags.filters())
			})
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No task data found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tANNOTATOR\tREVIEWER\tDIMENSIONS")
			for _, t := range tasks {
				dims := make([]string, 0, len(t.QualityDimensions))
				for _, d := range t.QualityDimensions {
					dims = append(dims, fmt.Sprintf("%s=%s", d.Name, scoreStr(d.Score)))
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					t.TaskID, t.AnnotatorName, t.ReviewerName, strings.Join(dims, " "))
			}
			return w.Flush()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&flags.mock, "mock", false, "use the built-in mock backend")
	cmd.PersistentFlags().StringVar(&flags.domain, "domain", "", "filter by task domain")
	cmd.PersistentFlags().StringVar(&flags.reviewer, "reviewer", "", "filter by reviewer")
	cmd.PersistentFlags().StringVar(&flags.trainerLevel, "trainer-level", "", "filter by trainer level")

	cmd.AddCommand(overviewCmd, byDomainCmd, byReviewerCmd, byTrainerLevelCmd, tasksCmd)
	return cmd
}

func printOverview(agg *models.OverallAggregation) error {
	fmt.Printf("Conversations: %d\n", agg.ConversationCount)
	fmt.Printf("Reviewers:     %d\n", agg.ReviewerCount)
	fmt.Printf("Trainers:      %d\n\n", agg.TrainerCount)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIMENSION\tAVG SCORE\tSCORES")
	for _, d := range agg.QualityDimensions {
		fmt.Fprintf(w, "%s\t%s\t%d\n", d.Name, scoreStr(d.AverageScore), d.ScoreCount)
	}
	return w.Flush()
}

func scoreStr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func dimensionMean(dims []models.QualityDimensionStats) *float64 {
	var sum float64
	var n int
	for _, d := range dims {
		if d.AverageScore != nil {
			sum += *d.AverageScore
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
