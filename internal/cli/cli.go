package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/buildinfo"
	"github.com/matzehuels/antnest/pkg/cache"
	"github.com/matzehuels/antnest/pkg/config"
	"github.com/matzehuels/antnest/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "antnest"

	// cacheKeyPrefix scopes cache keys to the current report encoding.
	cacheKeyPrefix = "v1:"
)

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

	// Config is loaded from --config (or the default location) before any
	// subcommand runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Antnest simulates ant colonies crossing a nest",
		Long: `Antnest moves a colony of ants from the source room of a nest to its sink,
one simultaneous step at a time, and reports every move it made.

Nests are plain text files: an "f=<ants>" header, one room per line and one
tunnel per "A - B" line.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/antnest/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The archive store is only
// opened when withArchive is set.
func (c *CLI) newRunner(ctx context.Context, noCache, withArchive bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var store archive.Store
	if withArchive {
		if store, err = c.newArchive(ctx); err != nil {
			ch.Close()
			return nil, err
		}
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheKeyPrefix)
	r := pipeline.NewRunner(cache.Instrument(ch), keyer, store, c.Logger)
	r.TTL = time.Duration(c.Config.Cache.TTL)
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", c.Config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newArchive opens the configured run archive. It returns nil when archiving
// is disabled.
func (c *CLI) newArchive(ctx context.Context) (archive.Store, error) {
	switch c.Config.Archive.Backend {
	case config.BackendNone:
		return nil, nil
	case config.BackendMongo:
		return archive.NewMongoStore(ctx, c.Config.Archive.MongoURI, c.Config.Archive.MongoDatabase)
	}
	return archive.NewFileStore(c.Config.Archive.Dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to cacheDir.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/antnest/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applySimDefaults fills simulation options the user left unset from the
// config file.
func (c *CLI) applySimDefaults(cmd *cobra.Command, opts *pipeline.Options) {
	if !cmd.Flags().Changed("max-steps") {
		opts.MaxSteps = c.Config.Sim.MaxSteps
	}
	if !cmd.Flags().Changed("no-regress") {
		opts.SuppressRegressive = c.Config.Sim.SuppressRegressive
	}
}

// addSimFlags registers the flags shared by every command that runs a
// simulation.
func addSimFlags(cmd *cobra.Command, opts *pipeline.Options, noCache *bool) {
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "step limit (0 derives one from the nest size)")
	cmd.Flags().BoolVar(&opts.SuppressRegressive, "no-regress", false, "never move an ant further from the sink")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached runs")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject nests whose sink is unreachable")
	cmd.Flags().BoolVar(noCache, "no-cache", false, "disable caching")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
