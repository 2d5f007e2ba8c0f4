package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	c := Default()

	if c.Mode != "range" || c.Cache.Backend != BackendFile || c.Cache.TTL.Duration != DefaultTTL {
		t.Errorf("Default() = %+v", c)
	}
	if c.Cache.Dir != filepath.Join("/tmp/xdg-cache", AppName) {
		t.Errorf("Cache.Dir = %q", c.Cache.Dir)
	}
	if c.Redis.Addr != DefaultRedisAddr || c.Server.Addr != DefaultServerAddr {
		t.Errorf("addresses = %q, %q", c.Redis.Addr, c.Server.Addr)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
mode = "point"

[cache]
backend = "redis"
ttl = "30m"

[redis]
addr = "redis:6380"
db = 2

[server]
addr = "127.0.0.1:9090"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Mode != "point" || c.Cache.Backend != BackendRedis {
		t.Errorf("mode/backend = %q/%q", c.Mode, c.Cache.Backend)
	}
	if c.Cache.TTL.Duration != 30*time.Minute {
		t.Errorf("TTL = %v", c.Cache.TTL)
	}
	if c.Redis.Addr != "redis:6380" || c.Redis.DB != 2 || c.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Redis = %+v, Server = %+v", c.Redis, c.Server)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvRedisAddr, "env-redis:6379")
	t.Setenv(EnvCacheDir, "/srv/almanac-cache")
	path := writeConfig(t, "[redis]\naddr = \"file-redis:6379\"\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Redis.Addr != "env-redis:6379" || c.Cache.Dir != "/srv/almanac-cache" {
		t.Errorf("overrides not applied: %+v %+v", c.Redis, c.Cache)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should fall back to defaults: %v", err)
	}
	if c.Cache.Backend != DefaultBackend {
		t.Errorf("Backend = %q", c.Cache.Backend)
	}

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: err = %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "mode = "},
		{"unknown key", "colour = \"red\"\n"},
		{"bad mode", "mode = \"both\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n"},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n"},
		{"negative db", "[redis]\ndb = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	if p, _ := DefaultPath(); p != filepath.Join("/tmp/cfg", AppName, "config.toml") {
		t.Errorf("DefaultPath = %q", p)
	}
	if d, _ := CacheDir(); d != filepath.Join("/tmp/cache", AppName) {
		t.Errorf("CacheDir = %q", d)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if d, _ := CacheDir(); d != filepath.Join(home, ".cache", AppName) {
		t.Errorf("CacheDir without XDG = %q", d)
	}
}
