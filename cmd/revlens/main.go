package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/revlens-ai/revlens/pkg/cache"
	"github.com/revlens-ai/revlens/pkg/client"
	"github.com/revlens-ai/revlens/pkg/config"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "revlens",
		Short:   "Revlens — review-quality analytics for AI training data",
		Version: version,
	}

	root.AddCommand(
		newStatsCmd(),
		newReportCmd(),
		newServeCmd(),
		newCacheCmd(),
		newHistoryCmd(),
		newMCPCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig returns defaults when no config path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newService picks the mock or the real backend client based on config.
func newService(cfg *config.Config, forceMock bool) client.Service {
	if forceMock || cfg.API.UseMock {
		return client.NewMock()
	}
	var store *cache.Cache
	if cfg.Cache.Enabled {
		store = cache.New(cfg.Cache.TTL)
	}
	return client.New(cfg.API.BaseURL, cfg.API.Timeout, store)
}
