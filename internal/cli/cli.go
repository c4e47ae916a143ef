// Package cli implements the whisperart command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/artwork"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/buildinfo"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/cache"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/config"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/pipeline"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/render"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/storage"
)

// appName is the application name used for display.
const appName = "whisperart"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty means the default location.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Whispering Art renders greeting cards and envelopes for print",
		Long: `whisperart turns finished card designs into print-ready files: a two-page
5x7" card (front artwork, inside message) and a #7 envelope, as PDF, SVG or
PNG. It also renders whole order batches and serves the storefront API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				enableDebugHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/whisperart/config.toml)")

	root.AddCommand(c.cardCommand())
	root.AddCommand(c.envelopeCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOptions select what a command's runner may touch.
type runnerOptions struct {
	noCache    bool
	localFiles bool // resolve bare paths and file:// artwork references
}

// newRunner creates a pipeline runner from the loaded configuration.
func (c *CLI) newRunner(ctx context.Context, ro runnerOptions) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	cc, err := newCache(ctx, cfg, ro.noCache)
	if err != nil {
		return nil, err
	}

	opts := []render.EngineOption{
		render.WithLogger(c.Logger),
		render.WithDPI(cfg.Render.DPI),
		render.WithConverter(&render.Converter{Path: cfg.Render.RSVGConvert}),
	}
	if cfg.Render.Attribution != "" {
		opts = append(opts, render.WithAttribution(cfg.Render.Attribution))
	}
	if len(cfg.Render.ReturnAddress) > 0 {
		opts = append(opts, render.WithReturnAddress(cfg.Render.ReturnAddress...))
	}
	engine := render.NewEngine(newArtworkSource(cfg, ro.localFiles), opts...)
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(engine, cc, keyer, c.Logger), nil
}

// newArtworkSource builds the artwork router. The HTTP server never reads
// local files; the CLI does.
func newArtworkSource(cfg *config.Config, localFiles bool) *artwork.Router {
	r := artwork.NewRouter()
	r.HTTP = artwork.NewHTTPSource(cfg.Render.ArtworkTimeout.Duration)
	if cfg.Storage.Enabled() {
		r.S3 = artwork.S3Source{Client: newStorage(cfg)}
	}
	if localFiles {
		r.File = artwork.FileSource{Root: cfg.Render.ArtworkRoot}
	}
	return r
}

func newStorage(cfg *config.Config) *storage.Client {
	return storage.New(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheFile:
		return cache.NewFileCache(cfg.Cache.Dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.Prefix,
		})
	}
	return cache.NewNullCache(), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderOptions builds pipeline options from the shared render flags.
func (c *CLI) renderOptions(formats string, dpi int, refresh bool) (pipeline.Options, error) {
	fs, err := pipeline.ParseFormats(formats)
	if err != nil {
		return pipeline.Options{}, err
	}
	if dpi == 0 && c.cfg != nil {
		dpi = c.cfg.Render.DPI
	}
	opts := pipeline.Options{
		Formats: fs,
		DPI:     dpi,
		Refresh: refresh,
		Logger:  c.Logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}
