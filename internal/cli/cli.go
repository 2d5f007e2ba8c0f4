package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/buildinfo"
	"github.com/matzehuels/almanac/pkg/cache"
	"github.com/matzehuels/almanac/pkg/config"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
	"github.com/matzehuels/almanac/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// redisConnectTimeout bounds the initial Redis ping.
const redisConnectTimeout = 3 * time.Second

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	config     *config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Almanac pushes seed ranges through chained remapping tables",
		Long: `Almanac reads a seed list and an ordered chain of remapping tables,
pushes every seed range through each table and reports the lowest value that
comes out the far end.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/almanac/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.splitCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "backend", cfg.Cache.Backend, "mode", cfg.Mode)
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

// newCache opens the configured backend. An unreachable Redis falls back
// to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			cache.WithDefaultTTL(cfg.Cache.TTL.Duration))
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", cfg.Redis.Addr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	return cache.NewFileCache(cfg.Cache.Dir)
}

// =============================================================================
// Input Helpers
// =============================================================================

// readAlmanac reads path ("-" for stdin) and picks its format. An explicit
// format overrides detection by extension.
func readAlmanac(cmd *cobra.Command, path, format string) ([]byte, almanac.Format, error) {
	f := almanac.DetectFormat(path)
	if format != "" {
		parsed, err := almanac.ParseFormat(format)
		if err != nil {
			return nil, "", err
		}
		f = parsed
	}

	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, f, err
	}
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return nil, "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "almanac file not found: %s", path)
	}
	return data, f, err
}

// resolveMode returns flag when set, else the configured mode.
func (c *CLI) resolveMode(flag string) (almanac.Mode, error) {
	if flag == "" {
		cfg, err := c.loadConfig()
		if err != nil {
			return "", err
		}
		flag = cfg.Mode
	}
	return almanac.ParseMode(flag)
}
