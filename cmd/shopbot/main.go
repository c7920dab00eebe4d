package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lpj-studios/shop-assistant-go/internal/config"
	"github.com/lpj-studios/shop-assistant-go/internal/handler"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/cache"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/client"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/observability"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/resilience"
	"github.com/lpj-studios/shop-assistant-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_domain", cfg.ShopifyStoreDomain),
		zap.String("shopify_api_version", cfg.ShopifyAPIVersion),
		zap.String("gemini_model", cfg.GeminiModel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "lpj-shop-assistant")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	shopifyCB := resilience.NewCircuitBreaker("shopify")
	geminiCB := resilience.NewCircuitBreaker("gemini")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	shopifyClient := client.NewShopifyClient(
		httpClient,
		cfg.ShopifyStoreDomain,
		cfg.ShopifyStorefrontToken,
		cfg.ShopifyAPIVersion,
		cfg.CatalogPageSize,
		shopifyCB,
		resilienceCfg,
	)
	geminiClient := client.NewGeminiClient(
		httpClient,
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		geminiCB,
		resilienceCfg,
	)

	// --- Catalog cache ---
	catalog := cache.NewCatalog(shopifyClient, cfg.CacheTTL, metrics, logger)
	catalog.WarmUp()

	// --- Services ---
	composer := service.NewComposer(cfg.ShopifyStoreDomain)
	chatSvc := service.NewChatService(catalog, geminiClient, composer, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(chatSvc, catalog, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
