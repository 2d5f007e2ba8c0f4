// Package config loads the almanac configuration file.
//
// The file is TOML and every field is optional:
//
//	mode = "range"
//
//	[cache]
//	backend = "file"   # file | redis | none
//	dir     = ""       # defaults to $XDG_CACHE_HOME/almanac
//	ttl     = "168h"
//
//	[redis]
//	addr     = "localhost:6379"
//	password = ""
//	db       = 0
//
//	[server]
//	addr = ":8080"
//
// ALMANAC_REDIS_ADDR and ALMANAC_CACHE_DIR override the file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/almanac/pkg/almanac"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "almanac"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Defaults.
const (
	DefaultBackend    = BackendFile
	DefaultTTL        = 7 * 24 * time.Hour
	DefaultRedisAddr  = "localhost:6379"
	DefaultServerAddr = ":8080"
)

// Environment overrides.
const (
	EnvRedisAddr = "ALMANAC_REDIS_ADDR"
	EnvCacheDir  = "ALMANAC_CACHE_DIR"
)

// Config is the decoded configuration file.
type Config struct {
	Mode   string       `toml:"mode"`
	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
}

// RedisConfig locates the Redis server used by the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServerConfig configures "almanac serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads path, applies environment overrides and defaults, and
// validates the result. An empty path means DefaultPath; a missing default
// file is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	c := &Config{}
	md, err := toml.DecodeFile(path, c)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	c.applyEnv()
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
}

// SetDefaults fills every empty field.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = string(almanac.DefaultMode)
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultBackend
	}
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultTTL
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate reports the first invalid field as an INVALID_CONFIG error.
func (c *Config) Validate() error {
	if _, err := almanac.ParseMode(c.Mode); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "mode")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig,
			"cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.dir is required for the file backend")
	}
	if c.Redis.DB < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "redis.db must not be negative")
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/almanac/config.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns $XDG_CACHE_HOME/almanac, falling back to ~/.cache.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
