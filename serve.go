package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/the100/internal/config"
	"github.com/robalobadob/the100/internal/database"
	"github.com/robalobadob/the100/internal/httpserver"
	"github.com/robalobadob/the100/internal/metrics"
	"github.com/robalobadob/the100/internal/store"
	"github.com/robalobadob/the100/internal/topics"
)

// newLoader builds the topic loader; a Redis cache is used when REDIS_ADDR is set.
func newLoader(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*topics.Loader, func(), error) {
	catalog, err := topics.LoadCatalog(cfg.TopicsFile)
	if err != nil {
		return nil, nil, err
	}
	opts := topics.LoaderOptions{
		TTL:        cfg.TopicCacheTTL,
		Client:     &http.Client{Timeout: cfg.FetchTimeout},
		MaxRetries: cfg.FetchMaxRetries,
	}
	if m != nil {
		opts.OnFetch = m.ObserveFetch
	}
	cleanup := func() {}
	if cfg.RedisAddr != "" {
		client, err := topics.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisMaxRetries)
		if err != nil {
			return nil, nil, err
		}
		opts.Cache = topics.NewRedisCache(client)
		cleanup = func() { _ = client.Close() }
		log.Info().Str("addr", cfg.RedisAddr).Msg("topic cache: redis")
	}
	return topics.NewLoader(catalog, opts), cleanup, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	m := metrics.New()
	loader, closeCache, err := newLoader(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer closeCache()

	db, err := database.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	mem := store.NewMemoryStore()
	go mem.Reap(ctx, cfg.SessionIdleTimeout)

	srv := httpserver.New(httpserver.Deps{
		Config:  cfg,
		Store:   mem,
		DB:      db,
		Loader:  loader,
		Metrics: m,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Int("topics", len(loader.Catalog().Topics)).Msg("starting the100 server")
	return srv.Start(ctx, addr)
}
