package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblechart/pkg/api"
	"github.com/matzehuels/bubblechart/pkg/cache"
	"github.com/matzehuels/bubblechart/pkg/pipeline"
	"github.com/matzehuels/bubblechart/pkg/session"
	"github.com/matzehuels/bubblechart/pkg/store"
)

const (
	defaultMongoDatabase = appName
	redisKeyPrefix       = appName + ":"
	sessionCleanupEvery  = time.Minute
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var sessionDir string
	settings := serveSettings{
		addr:       api.DefaultAddr,
		mongoDB:    defaultMongoDatabase,
		sessionTTL: session.DefaultTTL,
	}
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts and drill-down sessions over HTTP",
		Long: `Serve charts and drill-down sessions over HTTP.

Charts are kept in memory unless --mongo is given. With --redis, layouts and
rendered SVGs are cached in Redis and sessions are shared through it, so
several instances can serve the same viewers. The built-in samples are
seeded on startup without overwriting stored charts.`,
		Example: `  bubblechart serve
  bubblechart serve --addr :9000 --redis redis://localhost:6379/0
  bubblechart serve --mongo mongodb://localhost:27017 --mongo-db charts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyServeConfig(cmd, &settings); err != nil {
				return err
			}
			if err := c.applyLayoutConfig(cmd, &opts); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), settings, sessionDir, opts)
		},
	}

	cmd.Flags().StringVar(&settings.addr, "addr", settings.addr, "listen address")
	cmd.Flags().StringVar(&settings.redisURL, "redis", "", "Redis URL for the cache and sessions")
	cmd.Flags().StringVar(&settings.mongoURI, "mongo", "", "MongoDB URI for chart storage")
	cmd.Flags().StringVar(&settings.mongoDB, "mongo-db", settings.mongoDB, "MongoDB database name")
	cmd.Flags().DurationVar(&settings.sessionTTL, "session-ttl", settings.sessionTTL, "idle lifetime of drill-down sessions")
	cmd.Flags().StringVar(&sessionDir, "session-dir", "", "store sessions as files in this directory (ignored with --redis)")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, s serveSettings, sessionDir string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	registerLogHooks(logger)

	opts.Logger = logger
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	charts, err := c.openChartStore(ctx, s)
	if err != nil {
		return err
	}

	runnerCache, sessions, err := c.openSharedState(ctx, s, sessionDir)
	if err != nil {
		_ = charts.Close()
		return err
	}

	prog := newProgress(logger)
	if err := store.SeedSamples(ctx, charts); err != nil {
		logger.Warn("seed samples", "err", err)
	} else {
		prog.done("Seeded sample charts")
	}

	srv := api.New(api.Config{
		Charts:     charts,
		Sessions:   sessions,
		Runner:     pipeline.NewRunner(runnerCache, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api"), logger),
		Logger:     logger,
		SessionTTL: s.sessionTTL,
		Options:    opts,
	})
	defer srv.Close()

	go cleanupSessions(ctx, sessions)

	printInfo("Serving on %s", StyleHighlight.Render(s.addr))
	return srv.ListenAndServe(ctx, s.addr)
}

// openChartStore connects to MongoDB when configured, else keeps charts in memory.
func (c *CLI) openChartStore(ctx context.Context, s serveSettings) (store.Store, error) {
	if s.mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	charts, err := store.NewMongoStore(ctx, s.mongoURI, s.mongoDB)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	c.Logger.Debug("chart store", "backend", "mongo", "database", s.mongoDB)
	return charts, nil
}

// openSharedState returns the runner cache and session store. Redis backs
// both when configured, sharing one connection pool.
func (c *CLI) openSharedState(ctx context.Context, s serveSettings, sessionDir string) (cache.Cache, session.Store, error) {
	if s.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, s.redisURL, redisKeyPrefix+"cache:")
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Debug("shared state", "backend", "redis")
		return rc, session.NewRedisStore(rc.Client(), redisKeyPrefix+"session:"), nil
	}

	if sessionDir != "" {
		fs, err := session.NewFileStore(sessionDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open session dir: %w", err)
		}
		return cache.NewNullCache(), fs, nil
	}
	return cache.NewNullCache(), session.NewMemoryStore(), nil
}

// cleanupSessions prunes expired sessions until ctx is done.
func cleanupSessions(ctx context.Context, sessions session.Store) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.Cleanup(ctx); err != nil {
				loggerFromContext(ctx).Warn("session cleanup", "err", err)
			}
		}
	}
}
