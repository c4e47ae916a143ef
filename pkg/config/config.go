// Package config loads Whispering Art settings.
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file (--config, or ~/.config/whisperart/config.toml when present)
//  3. Environment variables prefixed WHISPERART_, plus PORT. A .env file in
//     the working directory is loaded first and never overrides variables
//     that are already set.
//
// Example config.toml:
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[render]
//	artwork_timeout = "15s"
//	return_address = ["Whispering Art", "PO Box 12", "Portland, OR 97201"]
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
)

// appName names the config and cache directories.
const appName = "whisperart"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

var cacheBackends = []string{CacheNone, CacheFile, CacheRedis}

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Storage StorageConfig `toml:"storage"`
	Render  RenderConfig  `toml:"render"`
	Batch   BatchConfig   `toml:"batch"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// StorageConfig configures the S3-compatible object store used for s3://
// artwork and batch uploads.
type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// Enabled reports whether S3 access is configured at all.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" || s.AccessKey != ""
}

// RenderConfig configures the engine.
type RenderConfig struct {
	DPI            int      `toml:"dpi"`
	RSVGConvert    string   `toml:"rsvg_convert"`
	ArtworkTimeout Duration `toml:"artwork_timeout"`
	ArtworkRoot    string   `toml:"artwork_root"`
	Attribution    string   `toml:"attribution"`
	ReturnAddress  []string `toml:"return_address"`
}

// BatchConfig configures batch renders.
type BatchConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Duration is a time.Duration written as a string ("10s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
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

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			MaxBodyBytes:   10 << 20,
			RequestTimeout: Duration{60 * time.Second},
		},
		Cache: CacheConfig{
			Backend:   CacheNone,
			Dir:       DefaultCacheDir(),
			RedisAddr: "localhost:6379",
			Prefix:    appName + ":",
		},
		Storage: StorageConfig{Region: "us-east-1"},
		Render: RenderConfig{
			DPI:            300,
			ArtworkTimeout: Duration{10 * time.Second},
		},
		Batch: BatchConfig{Concurrency: 4},
	}
}

// Load builds the configuration. An explicit path must exist; with an empty
// path the default location is read only if present.
func Load(path string) (*Config, error) {
	loadDotEnv(".env")

	cfg := Default()
	if path == "" {
		if p := DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads files that exist; godotenv never overrides variables
// already present in the environment.
func loadDotEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// Validate rejects settings that would fail at first use.
func (c *Config) Validate() error {
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.Render.DPI < 72 || c.Render.DPI > 600 {
		return errors.New(errors.ErrCodeInvalidInput, "render dpi %d out of range (72-600)", c.Render.DPI)
	}
	if c.Batch.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "batch concurrency must be at least 1")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server max_body_bytes must be positive")
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		if v, ok := lookup(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", name)
			}
			*dst = n
		}
		return nil
	}
	duration := func(name string, dst *Duration) error {
		if v, ok := lookup(name); ok && v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", name)
			}
		}
		return nil
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Addr = ":" + port
	}
	str("WHISPERART_ADDR", &c.Server.Addr)
	str("WHISPERART_CACHE", &c.Cache.Backend)
	str("WHISPERART_CACHE_DIR", &c.Cache.Dir)
	str("WHISPERART_REDIS_ADDR", &c.Cache.RedisAddr)
	str("WHISPERART_REDIS_PASSWORD", &c.Cache.RedisPassword)
	str("WHISPERART_S3_ENDPOINT", &c.Storage.Endpoint)
	str("WHISPERART_S3_REGION", &c.Storage.Region)
	str("WHISPERART_S3_ACCESS_KEY", &c.Storage.AccessKey)
	str("WHISPERART_S3_SECRET_KEY", &c.Storage.SecretKey)
	str("WHISPERART_RSVG_CONVERT", &c.Render.RSVGConvert)
	str("WHISPERART_ARTWORK_ROOT", &c.Render.ArtworkRoot)
	str("WHISPERART_ATTRIBUTION", &c.Render.Attribution)
	if v, ok := lookup("WHISPERART_RETURN_ADDRESS"); ok && v != "" {
		c.Render.ReturnAddress = splitLines(v)
	}

	for _, err := range []error{
		integer("WHISPERART_REDIS_DB", &c.Cache.RedisDB),
		integer("WHISPERART_DPI", &c.Render.DPI),
		integer("WHISPERART_CONCURRENCY", &c.Batch.Concurrency),
		duration("WHISPERART_ARTWORK_TIMEOUT", &c.Render.ArtworkTimeout),
		duration("WHISPERART_REQUEST_TIMEOUT", &c.Server.RequestTimeout),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// splitLines splits a "|"-separated return address.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "|") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns ~/.config/whisperart/config.toml (XDG_CONFIG_HOME aware),
// or "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// DefaultCacheDir returns the cache directory using XDG standard
// (~/.cache/whisperart/).
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// String renders the configuration as TOML with secrets masked.
func (c *Config) String() string {
	masked := *c
	if masked.Cache.RedisPassword != "" {
		masked.Cache.RedisPassword = "****"
	}
	if masked.Storage.SecretKey != "" {
		masked.Storage.SecretKey = "****"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
