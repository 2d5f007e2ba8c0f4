package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/almanac/pkg/cache"
	"github.com/matzehuels/almanac/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the solve result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result and diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printWarning(out, "Caching is disabled (backend = none)")
				return nil
			}
			store, err := c.newCache(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %q cannot be cleared", cfg.Cache.Backend)
			}
			n, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo(out, "Cache is empty")
				return nil
			}
			printSuccess(out, "Cleared %d cached entries", n)
			printDetail(out, "Backend: %s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached results are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation describes the configured backend: the directory for file
// caches, redis://addr/db for Redis.
func cacheLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cfg.Redis.Addr, cfg.Redis.DB)
	case config.BackendNone:
		return "none"
	}
	return cfg.Cache.Dir
}
