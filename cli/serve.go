package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"loan-amortizer/config"
	httpLayer "loan-amortizer/http"
	"loan-amortizer/logging"
	"loan-amortizer/repository"
	"loan-amortizer/service"
)

func serveCmd() *cobra.Command {
	var configPath string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level)))
		},
	}

	c.Flags().StringVarP(&configPath, "config", "c", "", "Config file (yaml, toml or json); env vars prefixed "+config.EnvPrefix+"_ override it")
	return c
}

func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.CacheRepository, func(), error) {
	if cfg.Redis.Addr == "" {
		logger.Info("using in-memory recommendation cache", "ttl", cfg.Cache.TTL, "max_entries", cfg.Cache.MaxEntries)
		return repository.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.MaxEntries), func() {}, nil
	}

	cache := repository.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.TTL)
	if err := cache.Ping(ctx); err != nil {
		_ = cache.Close()
		return nil, nil, err
	}
	logger.Info("using redis recommendation cache", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
	return cache, func() {
		if err := cache.Close(); err != nil {
			logger.Warn("closing redis", "error", err)
		}
	}, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	cache, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer closeCache()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := httpLayer.NewMetrics(registry)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterDeps{
		Loans:    httpLayer.NewLoanHandler(service.NewLoanService(logger), metrics, logger),
		Terms:    httpLayer.NewTermRecommendationHandler(service.NewTermRecommendationService(cache, logger), metrics, logger),
		Limiter:  rateLimiter,
		Metrics:  metrics,
		Gatherer: registry,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("start server: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
