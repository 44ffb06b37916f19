package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/velocityautos/concierge-ai/cmd/mainconfig"
	"github.com/velocityautos/concierge-ai/internal/api/router"
	appconfig "github.com/velocityautos/concierge-ai/internal/config"
	"github.com/velocityautos/concierge-ai/internal/conversation"
	"github.com/velocityautos/concierge-ai/internal/forms"
	"github.com/velocityautos/concierge-ai/internal/observability/metrics"
	"github.com/velocityautos/concierge-ai/internal/webchat"
	"github.com/velocityautos/concierge-ai/pkg/logging"
)

// timeoutLLM bounds every provider call so a hung provider degrades to
// the fallback cascade instead of stalling the turn.
type timeoutLLM struct {
	inner   conversation.LLMClient
	timeout time.Duration
}

func (c timeoutLLM) Complete(ctx context.Context, req conversation.LLMRequest) (conversation.LLMResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.inner.Complete(ctx, req)
}

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting concierge-ai API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Postgres is optional; without it the service runs on the in-memory
	// store, which suits demos and local development.
	var store conversation.Store
	var knowledge conversation.KnowledgeStore
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		store = conversation.NewPostgresStore(pool)
		knowledge = conversation.NewPostgresKnowledge(pool)
		logger.Info("using postgres conversation store")
	} else {
		store = conversation.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory conversation store")
	}

	// Redis backs the per-session turn lock; without it turns race and the
	// last write wins.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, turn locking disabled", "error", err)
			redisClient = nil
		}
	}
	turnLock := conversation.NewTurnLock(redisClient, cfg.TurnLockTTL, cfg.TurnLockWait)

	llm, model := buildLLMClient(ctx, cfg, logger)
	if llm == nil {
		logger.Warn("no LLM provider configured, all turns route through the rule-based responder")
	} else if cfg.LLMTimeout > 0 {
		llm = timeoutLLM{inner: llm, timeout: cfg.LLMTimeout}
	}

	convMetrics := metrics.NewConversationMetrics(nil)

	agent := conversation.NewAgent(conversation.AgentConfig{
		LLM:         llm,
		Model:       model,
		Catalog:     forms.DefaultCatalog(),
		MaxTokens:   int32(cfg.LLMMaxTokens),
		Temperature: float32(cfg.LLMTemperature),
		Knowledge:   knowledge,
		Metrics:     convMetrics,
		Logger:      logger.Logger,
	})

	chatHandler := webchat.NewHandler(store, agent, turnLock, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Webchat:            chatHandler,
		MetricsHandler:     promhttp.Handler(),
		OperatorAuthSecret: cfg.OperatorJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if pool != nil {
		pool.Close()
	}

	logger.Info("server stopped")
}

// buildLLMClient assembles the provider stack: Bedrock primary, Gemini
// fallback, either alone when only one is configured.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (conversation.LLMClient, string) {
	var primary conversation.LLMClient
	model := cfg.BedrockModelID

	if cfg.BedrockModelID != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
		} else {
			primary = conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
			logger.Info("bedrock provider configured", "model", cfg.BedrockModelID)
		}
	}

	var fallback conversation.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
		} else {
			fallback = gemini
			logger.Info("gemini provider configured", "model", cfg.GeminiModelID)
		}
	}

	switch {
	case primary != nil && fallback != nil:
		return conversation.NewFallbackLLMClient(primary, fallback, logger.Logger), model
	case primary != nil:
		return primary, model
	case fallback != nil:
		return fallback, cfg.GeminiModelID
	default:
		return nil, ""
	}
}
