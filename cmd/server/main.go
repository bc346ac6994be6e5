package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"plantao-ops/internal/cache"
	"plantao-ops/internal/config"
	"plantao-ops/internal/db"
	"plantao-ops/internal/handlers"
	"plantao-ops/internal/logging"
	"plantao-ops/internal/models"
)

func main() {
	cfg := config.Load()
	logger := logging.Must(cfg.Debug)
	defer logger.Sync()
	cfg.SetLogger(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	if err := db.Connect(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, db.DB, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	repo := models.NewRepository(db.DB)

	// Seed admin user if it doesn't exist
	created, err := repo.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword, models.RoleAdmin)
	if err != nil {
		logger.Warn("failed to seed admin user", zap.Error(err))
	} else if created {
		logger.Info("created default admin user", zap.String("username", cfg.AdminUsername))
	}

	ns := cache.NewNamespace(dashboardStore(ctx, cfg, logger), "dashboard", cfg.CacheTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(cfg, repo, logger, ns),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// dashboardStore uses redis when REDIS_ADDR answers a ping and falls back to
// process memory otherwise.
func dashboardStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.Store {
	if cfg.RedisAddr == "" {
		return cache.NewMemory()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, caching dashboards in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		client.Close()
		return cache.NewMemory()
	}
	logger.Info("caching dashboards in redis", zap.String("addr", cfg.RedisAddr))
	return cache.NewRedis(client)
}
