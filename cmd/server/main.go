package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/repository"
	"github.com/example/storefront/pkg/service"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := newLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront server",
		zap.String("name", cfg.Server.Name),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	// Connect to MongoDB
	store, err := repository.NewStore(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Ping(ctx); err != nil {
		cancel()
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		cancel()
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}
	cancel()

	// Connect to Redis; the server degrades gracefully without it
	cache := repository.NewCache(&cfg.Redis)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		logger.Warn("Failed to ping Redis, caching and rate limiting degraded", zap.Error(err))
	}
	pingCancel()

	// Repositories
	users := repository.NewUserRepository(store)
	products := repository.NewProductRepository(store)
	categories := repository.NewCategoryRepository(store)
	carts := repository.NewCartRepository(store)
	orders := repository.NewOrderRepository(store)
	sequences := repository.NewSequenceRepository(store)

	// Services
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)
	userService := service.NewUserService(users, tokens, logger)
	catalogService := service.NewCatalogService(products, categories, cache, logger)
	cartService := service.NewCartService(carts, products, logger)
	orderService := service.NewOrderService(orders, products, carts, sequences, logger)

	server := api.NewServer(api.Deps{
		Config:  cfg,
		Logger:  logger,
		Tokens:  tokens,
		Cache:   cache,
		Users:   userService,
		Catalog: catalogService,
		Carts:   cartService,
		Orders:  orderService,
	})

	// Start server in goroutine
	srvErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			srvErr <- err
		}
	}()

	logger.Info("Server started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-srvErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := store.Close(closeCtx); err != nil {
		logger.Warn("Failed to close MongoDB connection", zap.Error(err))
	}
	if err := cache.Close(); err != nil {
		logger.Warn("Failed to close Redis connection", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = level
	}
	if cfg.Encoding != "" {
		zapCfg.Encoding = cfg.Encoding
	}
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}
	return zapCfg.Build()
}
