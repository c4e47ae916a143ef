package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/cache"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached PDFs, SVGs and PNGs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	switch cfg.Cache.Backend {
	case config.CacheFile:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		if err := fc.Clear(); err != nil {
			return fmt.Errorf("clear %s: %w", fc.Dir(), err)
		}
		printSuccess("Cleared file cache")
		printDetail("Directory: %s", fc.Dir())
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.Prefix,
		})
		if err != nil {
			return err
		}
		defer rc.Close()
		n, err := rc.Clear(ctx)
		if err != nil {
			return err
		}
		printSuccess("Cleared %d cached entries", n)
		printDetail("Redis: %s (prefix %q)", cfg.Cache.RedisAddr, cfg.Cache.Prefix)
	default:
		printInfo("Cache is disabled")
		printNextStep("Enable it", "WHISPERART_CACHE=file")
	}
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after merging defaults, the config file, .env and
environment variables. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if p := c.ConfigPath; p != "" {
				printDetail("# %s", p)
			} else if p := config.DefaultPath(); p != "" {
				printDetail("# %s", p)
			}
			fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}
}
