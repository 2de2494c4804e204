package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vegabundle/pkg/cache"
	"github.com/matzehuels/vegabundle/pkg/pipeline"
	"github.com/matzehuels/vegabundle/pkg/server"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr       string
	redisURL   string
	cacheSize  int
	resolveDir string
	maxBody    int64
	metrics    bool
}

// serveCommand creates the serve command, which runs the HTTP bundle service.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      ":8080",
		redisURL:  os.Getenv(envRedisURL),
		cacheSize: cache.DefaultMemoryEntries,
		maxBody:   server.DefaultMaxBodyBytes,
		metrics:   true,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bundle HTTP service",
		Long: `Run the bundle HTTP service.

Routes:
  GET  /healthz        liveness and version
  GET  /metrics        Prometheus metrics (disable with --metrics=false)
  GET  /v1/transforms  the transform module index
  POST /v1/codegen     generated entry source
  POST /v1/bundle      compiled bundle

Results are cached in memory, or in Redis when --redis-url (or
` + envRedisURL + `) is set so several instances share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", opts.redisURL, "Redis URL for a shared cache (env "+envRedisURL+")")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", opts.cacheSize, "entries in the in-memory cache")
	cmd.Flags().StringVar(&opts.resolveDir, "resolve-dir", "", "directory with the installed vega packages (default: cwd)")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body in bytes")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "serve Prometheus metrics at /metrics")

	return cmd
}

// runServe builds the runner over the configured cache and serves until ctx
// is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, keyer, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	srv := server.New(runner, c.Logger)
	srv.ResolveDir = opts.resolveDir
	srv.MaxBodyBytes = opts.maxBody
	if opts.metrics {
		srv.Metrics = server.NewMetrics(nil)
		srv.Metrics.Register()
	}

	printInfo("Serving on %s", opts.addr)
	printKeyValue("resolve dir", orDefault(opts.resolveDir, "."))
	printKeyValue("max body", formatBytes(int(opts.maxBody)))
	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCache returns the Redis cache when a URL is configured and an LRU
// memory cache otherwise. Redis keys are scoped to the application.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, cache.Keyer, error) {
	if opts.redisURL == "" {
		mem, err := cache.NewMemoryCache(opts.cacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("memory cache: %w", err)
		}
		printKeyValue("cache", fmt.Sprintf("memory (%d entries)", opts.cacheSize))
		return mem, cache.NewDefaultKeyer(), nil
	}

	rc, err := cache.NewRedisCache(ctx, opts.redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	printKeyValue("cache", "redis")
	return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
