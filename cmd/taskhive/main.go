package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/db"
	dbRedis "github.com/taskhive/taskhive/internal/db/redis"
	"github.com/taskhive/taskhive/internal/domain"
	logpkg "github.com/taskhive/taskhive/internal/logger"
	"github.com/taskhive/taskhive/internal/metrics"
	"github.com/taskhive/taskhive/internal/repository/embcache"
	taskrepo "github.com/taskhive/taskhive/internal/repository/task"
	chiTransport "github.com/taskhive/taskhive/internal/transport/chi"
	"github.com/taskhive/taskhive/internal/transport/langchain"
	openaiEmb "github.com/taskhive/taskhive/internal/transport/openai"
	healthuc "github.com/taskhive/taskhive/internal/usecase/health"
	searchuc "github.com/taskhive/taskhive/internal/usecase/search"
	taskuc "github.com/taskhive/taskhive/internal/usecase/task"
	"github.com/taskhive/taskhive/internal/usecase/vectorizer"
	"github.com/taskhive/taskhive/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting taskhive API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.Register()

	// Build embedder chain — composition root. No API key means the
	// service runs without semantic search: writes skip vectorization and
	// semantic queries fall back to keyword matching.
	embedder, healthChecker := buildEmbedder(cfg.Embedding, store, logger)

	vec, err := vectorizer.New(embedder, cfg.Embedding.PoolSize, logger)
	if err != nil {
		logger.Fatal("Failed to create vectorizer", zap.Error(err))
	}
	defer vec.Release()

	// Chat assistant is optional as well. Pass nil interface (not typed
	// nil pointer!) when not configured.
	var searchAssistant searchuc.Assistant
	var taskAssistant taskuc.Assistant
	assistantConfigured := false
	if cfg.Assistant.APIKey != "" {
		assistant, err := langchain.New(&langchain.Config{
			APIKey:  cfg.Assistant.APIKey,
			BaseURL: cfg.Assistant.BaseURL,
			Model:   cfg.Assistant.Model,
			Timeout: time.Duration(cfg.Assistant.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		if err != nil {
			logger.Fatal("Failed to create assistant", zap.Error(err))
		}
		searchAssistant = assistant
		taskAssistant = assistant
		assistantConfigured = true
		logger.Info("Assistant created", zap.String("model", cfg.Assistant.Model))
	}

	repo := taskrepo.New(store)

	taskSvc := taskuc.New(repo, vec, taskAssistant, logger)
	searchSvc := searchuc.New(repo, vec, searchAssistant, logger)
	healthSvc := healthuc.New(store, healthChecker, assistantConfigured)

	server := chiTransport.NewServer(taskSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the embedder decorator chain: OpenAI -> Cached.
// Returns nil embedder when no API key is configured.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	store db.Store,
	logger *zap.Logger,
) (domain.Embedder, healthuc.EmbeddingChecker) {
	if cfg.APIKey == "" {
		logger.Warn("No embedding API key configured, semantic search disabled")
		return nil, nil
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.CacheTTLHours > 0 {
		ttl := time.Duration(cfg.CacheTTLHours) * time.Hour
		embedder = embcache.New(base, store, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	logger.Info("Embedder created",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Int("dimensions", cfg.Dimensions),
		zap.Int("cache_ttl_hours", cfg.CacheTTLHours),
	)

	// The base embedder carries the health check; cache layers do not.
	return embedder, base
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
