package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
)

// isolate points the default config and cache locations at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Cache.Backend != CacheNone || cfg.Render.DPI != 300 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Render.ArtworkTimeout.Duration != 10*time.Second {
		t.Errorf("artwork timeout %v", cfg.Render.ArtworkTimeout)
	}
	if cfg.Cache.Dir != filepath.Join(dir, appName) {
		t.Errorf("cache dir %q", cfg.Cache.Dir)
	}
	if cfg.Storage.Enabled() {
		t.Error("storage should be disabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
addr = ":9000"

[cache]
backend = "redis"
redis_addr = "cache:6379"

[render]
artwork_timeout = "15s"
return_address = ["Nana", "PO Box 12"]

[batch]
concurrency = 8
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Render.ArtworkTimeout.Duration != 15*time.Second {
		t.Errorf("timeout %v", cfg.Render.ArtworkTimeout)
	}
	if strings.Join(cfg.Render.ReturnAddress, "|") != "Nana|PO Box 12" {
		t.Errorf("return address %q", cfg.Render.ReturnAddress)
	}
	if cfg.Batch.Concurrency != 8 || cfg.Render.DPI != 300 {
		t.Errorf("batch %d dpi %d", cfg.Batch.Concurrency, cfg.Render.DPI)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, appName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("[batch]\nconcurrency = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Batch.Concurrency != 2 {
		t.Errorf("default path not read: %d", cfg.Batch.Concurrency)
	}
}

func TestLoadErrors(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(bad, []byte("[render]\nartwork_timeout = \"soon\"\n"), 0o644)
	if _, err := Load(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad duration: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "7000")
	t.Setenv("WHISPERART_CACHE", "file")
	t.Setenv("WHISPERART_DPI", "150")
	t.Setenv("WHISPERART_ARTWORK_TIMEOUT", "3s")
	t.Setenv("WHISPERART_RETURN_ADDRESS", "Whispering Art | 1 Elm St |  ")
	t.Setenv("WHISPERART_S3_ENDPOINT", "http://minio:9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("PORT not applied: %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != CacheFile || cfg.Render.DPI != 150 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Render.ArtworkTimeout.Duration != 3*time.Second {
		t.Errorf("timeout %v", cfg.Render.ArtworkTimeout)
	}
	if got := strings.Join(cfg.Render.ReturnAddress, "|"); got != "Whispering Art|1 Elm St" {
		t.Errorf("return address %q", got)
	}
	if !cfg.Storage.Enabled() {
		t.Error("storage should be enabled by endpoint")
	}

	t.Setenv("WHISPERART_ADDR", "127.0.0.1:8081")
	cfg, _ = Load("")
	if cfg.Server.Addr != "127.0.0.1:8081" {
		t.Errorf("WHISPERART_ADDR should win over PORT: %q", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"dpi low", func(c *Config) { c.Render.DPI = 10 }},
		{"dpi high", func(c *Config) { c.Render.DPI = 1200 }},
		{"concurrency", func(c *Config) { c.Batch.Concurrency = 0 }},
		{"body", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate = %v", err)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestEnvBadNumber(t *testing.T) {
	isolate(t)
	t.Setenv("WHISPERART_CONCURRENCY", "many")
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestStringMasksSecrets(t *testing.T) {
	c := Default()
	c.Storage.SecretKey = "hunter2"
	c.Cache.RedisPassword = "swordfish"
	s := c.String()
	if strings.Contains(s, "hunter2") || strings.Contains(s, "swordfish") {
		t.Errorf("secrets leaked:\n%s", s)
	}
	if !strings.Contains(s, `artwork_timeout = "10s"`) {
		t.Errorf("duration not encoded as text:\n%s", s)
	}
	if c.Storage.SecretKey != "hunter2" {
		t.Error("String must not modify the config")
	}
}
