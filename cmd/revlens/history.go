package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/revlens-ai/revlens/pkg/history"
	"github.com/revlens-ai/revlens/pkg/models"
)

func newHistoryCmd() *cobra.Command {
	var (
		configPath string
		mock       bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record and inspect overview snapshots",
	}

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Fetch the overview and store a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			svc := newService(cfg, mock)

			agg, err := runFetch(cmd.Context(), func(ctx context.Context) (*models.OverallAggregation, error) {
				return svc.Overall(ctx, nil)
			})
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.History.DBPath)
			if err != nil {
				return fmt.Errorf("open history db: %w", err)
			}
			defer func() { _ = store.Close() }()

			source := "api"
			if mock || cfg.API.UseMock {
				source = "mock"
			}
			snap := history.FromOverview(agg, source, time.Now().UTC())
			if err := store.Record(cmd.Context(), snap); err != nil {
				return err
			}

			fmt.Printf("Recorded snapshot: %d conversations, %d dimensions.\n",
				snap.ConversationCount, snap.DimensionCount)
			return nil
		},
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.DBPath)
			if err != nil {
				return fmt.Errorf("open history db: %w", err)
			}
			defer func() { _ = store.Close() }()

			snaps, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Println("No snapshots recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FETCHED\tSOURCE\tCONVERSATIONS\tREVIEWERS\tTRAINERS\tDIMENSIONS\tAVG SCORE")
			for _, s := range snaps {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					s.FetchedAt.UTC().Format("2006-01-02T15:04:05"), s.Source,
					s.ConversationCount, s.ReviewerCount, s.TrainerCount, s.DimensionCount, scoreStr(s.AverageScore))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of snapshots (0 = all)")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&mock, "mock", false, "use the built-in mock backend")
	cmd.AddCommand(recordCmd, listCmd)
	return cmd
}
