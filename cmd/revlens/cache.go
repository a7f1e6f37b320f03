package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/revlens-ai/revlens/pkg/models"
)

// The cache lives inside the running proxy, so these commands talk to its
// admin endpoints instead of touching state directly.
func newCacheCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache of a running proxy",
	}

	httpClient := &http.Client{Timeout: 5 * time.Second}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := httpClient.Get(addr + "/internal/cache/stats")
			if err != nil {
				return fmt.Errorf("reach proxy: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return decodeAdminError(resp)
			}

			var stats models.CacheStats
			if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
				return err
			}
			fmt.Printf("Entries: %d\nHits:    %d\nMisses:  %d\n", stats.Entries, stats.Hits, stats.Misses)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := httpClient.Post(addr+"/internal/cache/clear", "application/json", nil)
			if err != nil {
				return fmt.Errorf("reach proxy: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusNoContent {
				return decodeAdminError(resp)
			}
			fmt.Println("All cache entries cleared.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8090", "address of the running proxy")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

func decodeAdminError(resp *http.Response) error {
	var apiErr models.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Detail != "" {
		return &apiErr
	}
	return fmt.Errorf("proxy returned HTTP %d", resp.StatusCode)
}
