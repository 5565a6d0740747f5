package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitechat-backend/internal/config"
	"sitechat-backend/internal/handlers"
	"sitechat-backend/internal/logging"
	"sitechat-backend/internal/metrics"
	"sitechat-backend/internal/middleware"
	"sitechat-backend/internal/router"
	"sitechat-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Sitechat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// ──── Step 2: Load Model Catalog ────
	catalog, err := services.LoadCatalog()
	if err != nil {
		log.Fatalf("✗ Model catalog invalid: %v", err)
	}
	log.Println("✓ Model catalog loaded")

	// ──── Step 3: Initialize Provider Adapters ────
	upstreamClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	gemini, err := services.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer func() {
		if err := gemini.Close(); err != nil {
			logger.Warn("gemini client close failed", "error", err)
		}
	}()

	providers := &services.Providers{
		Gemini:     gemini,
		OpenAI:     services.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, upstreamClient),
		DeepSeek:   services.NewDeepSeekProvider(cfg.DeepSeekAPIKey, cfg.DeepSeekAPIURL, upstreamClient),
		OpenRouter: services.NewOpenRouterProvider(cfg.OpenRouterAPIKey, cfg.OpenRouterAPIURL, cfg.OpenRouterReferer, cfg.OpenRouterTitle, upstreamClient),
	}
	for _, kind := range services.AllKinds {
		if providers.For(kind).Configured() {
			log.Printf("✓ %s provider configured", kind.DisplayName())
		} else {
			logger.Warn("provider has no API key; real calls disabled", "provider", kind.ID())
		}
	}

	// ──── Initialize Services ────
	m := metrics.New()
	chatService := services.NewChatService(providers, catalog, m, logger, cfg.MockLatency)

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(chatService, m, logger, cfg.EnforceModelCatalog)
	catalogHandler := handlers.NewCatalogHandler(catalog)
	healthHandler := handlers.NewHealthHandler(chatService)

	var chatLimiter *middleware.RateLimiter
	if cfg.ChatRateLimit > 0 {
		chatLimiter = middleware.NewRateLimiter(cfg.ChatRateLimit, time.Minute)
		defer chatLimiter.Stop()
		log.Printf("✓ Chat rate limit: %d req/min per IP", cfg.ChatRateLimit)
	}

	// ──── Step 4: Start HTTP Server ────
	r := router.New(
		chatHandler,
		catalogHandler,
		healthHandler,
		m.Handler(),
		chatLimiter,
		cfg.FrontendURL,
		cfg.TrustProxyHeaders,
	)

	// No WriteTimeout: upstream calls are bounded only by UPSTREAM_TIMEOUT_SECONDS.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
		close(idle)
	}()

	log.Printf("✓ Sitechat Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	<-idle
}
