package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/revlens-ai/revlens/pkg/cache"
	"github.com/revlens-ai/revlens/pkg/client"
	"github.com/revlens-ai/revlens/pkg/history"
	"github.com/revlens-ai/revlens/pkg/mcp"
)

func newMCPCmd() *cobra.Command {
	var (
		configPath string
		mock       bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve review-quality stats as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// Built by hand rather than via newService so the cache stats
			// tool observes the same cache the client reads through.
			var store *cache.Cache
			if cfg.Cache.Enabled {
				store = cache.New(cfg.Cache.TTL)
			}
			var svc client.Service
			if mock || cfg.API.UseMock {
				svc = client.NewMock()
			} else {
				svc = client.New(cfg.API.BaseURL, cfg.API.Timeout, store)
			}
			var statter mcp.CacheStatter
			if store != nil {
				statter = store
			}

			var hist *history.Store
			if cfg.History.DBPath != "" {
				hist, err = history.Open(cfg.History.DBPath)
				if err != nil {
					return fmt.Errorf("open history db: %w", err)
				}
				defer func() { _ = hist.Close() }()
			}

			srv := mcp.New(svc, statter, hist, version)
			return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&mock, "mock", false, "use the built-in mock backend")
	return cmd
}
