package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-advisor/config"
	"loan-advisor/finance"
	httpLayer "loan-advisor/http"
	"loan-advisor/logger"
	"loan-advisor/repository"
	"loan-advisor/service"
)

const loanHistoryLimit = 1000

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)

	defaults, err := cfg.LoanDefaults()
	if err != nil {
		logger.L.Error("failed to load loan defaults", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	analysisRepo, closeRepo, err := openAnalysisRepository(ctx, cfg)
	cancel()
	if err != nil {
		logger.L.Error("failed to open analysis store", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	cache, closeCache := openCache(cfg)
	defer closeCache()

	loanService := service.NewLoanService(repository.NewLoanRepositoryMemory(loanHistoryLimit), defaults)
	narrator := service.NewAIService(cfg.OpenAIAPIKey)
	termRecommendationService := service.NewTermRecommendationService(loanService, narrator)
	analysisService := service.NewAnalysisService(analysisRepo, cache, narrator, finance.ReportOptions{
		Defaults:    defaults,
		MinimumDSCR: cfg.MinimumDSCR,
	})

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Loan:     httpLayer.NewLoanHandler(loanService),
		Terms:    httpLayer.NewTermRecommendationHandler(termRecommendationService),
		Analyses: httpLayer.NewAnalysisHandler(analysisService),
	}, rateLimiter, httpLayer.RouterOptions{TrustProxyHeaders: cfg.TrustProxyHeaders})

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.L.Info("API listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.L.Error("error starting server", "error", err)
		return
	case <-quit:
		logger.L.Info("shutting down server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("error during server shutdown", "error", err)
	}

	logger.L.Info("server exited")
}

func openAnalysisRepository(ctx context.Context, cfg *config.Config) (repository.AnalysisRepository, func(), error) {
	switch {
	case cfg.UsesPostgres():
		pool, err := repository.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewPostgresAnalysisRepository(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.L.Info("analysis store: postgres")
		return repo, pool.Close, nil

	case cfg.DatabaseURL != "":
		db, err := repository.OpenSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewSQLiteAnalysisRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.L.Info("analysis store: sqlite", "path", cfg.DatabaseURL)
		return repo, func() { db.Close() }, nil
	}

	logger.L.Warn("DATABASE_URL not set, analyses are kept in memory")
	return repository.NewAnalysisRepositoryMemory(), func() {}, nil
}

// openCache prefers Redis and falls back to an in-process cache when Redis
// is not configured or not reachable.
func openCache(cfg *config.Config) (repository.CacheRepository, func()) {
	if cfg.RedisAddr != "" {
		redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := redisCache.Ping(ctx)
		if err == nil {
			logger.L.Info("report cache: redis", "addr", cfg.RedisAddr)
			return redisCache, func() { redisCache.Close() }
		}
		logger.L.Warn("redis unreachable, using in-process cache", "addr", cfg.RedisAddr, "error", err)
		redisCache.Close()
	}
	return repository.NewMemoryCache(cfg.CacheTTL, 10*time.Minute), func() {}
}
