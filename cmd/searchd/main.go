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

	"github.com/interactly/searchd/internal/catalog"
	"github.com/interactly/searchd/internal/config"
	dbMongo "github.com/interactly/searchd/internal/db/mongo"
	logpkg "github.com/interactly/searchd/internal/logger"
	"github.com/interactly/searchd/internal/metrics"
	indexrepo "github.com/interactly/searchd/internal/repository/index"
	searchrepo "github.com/interactly/searchd/internal/repository/search"
	chiTransport "github.com/interactly/searchd/internal/transport/chi"
	healthuc "github.com/interactly/searchd/internal/usecase/health"
	searchuc "github.com/interactly/searchd/internal/usecase/search"
	"github.com/interactly/searchd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, logLevel, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_name", cfg.Database.Name),
	)

	if !cfg.IsAtlasURI() {
		logger.Warn("database.uri is not a mongodb+srv:// Atlas URI; " +
			"search indexes require Atlas or a local Atlas deployment")
	}

	ctx := context.Background()
	store, err := dbMongo.NewStore(ctx, dbMongo.Config{
		URI:      cfg.Database.URI,
		Database: cfg.Database.Name,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("Error closing database store", zap.Error(err))
		}
	}()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// The search catalog is static, compiled-in configuration; a broken
	// catalog panics inside Default() before anything serves.
	cat := catalog.Default()

	// Provision search indexes once at startup. Per-collection failures are
	// independent; zero successes among enabled collections blocks startup.
	indexes := indexrepo.New(store, cat)
	if err := provisionIndexes(ctx, indexes, logger); err != nil {
		logger.Fatal("Search index provisioning failed", zap.Error(err))
	}

	repo := searchrepo.New(store, indexes, cat)
	searchSvc := searchuc.New(repo, cat, logger).
		WithCategoryTimeout(time.Duration(cfg.Search.CategoryTimeoutSec) * time.Second)
	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(searchSvc, healthSvc, logLevel, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Mount(r)

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

// provisionIndexes runs the startup index ensure pass, logs every outcome,
// and fails only when not a single enabled collection ended up with a
// resolvable index.
func provisionIndexes(ctx context.Context, indexes *indexrepo.Manager, logger *zap.Logger) error {
	outcomes := indexes.EnsureAll(ctx)

	succeeded, attempted := 0, 0
	for _, o := range outcomes {
		metrics.IndexProvisionOutcomes.WithLabelValues(o.Collection, string(o.Status)).Inc()
		switch o.Status {
		case indexrepo.StatusSkipped:
			logger.Info("Search index skipped (disabled)", zap.String("collection", o.Collection))
		case indexrepo.StatusFailed:
			attempted++
			logger.Error("Search index provisioning failed",
				zap.String("collection", o.Collection),
				zap.String("index", o.Index),
				zap.Error(o.Err),
			)
		case indexrepo.StatusCreated, indexrepo.StatusExists:
			attempted++
			succeeded++
			logger.Info("Search index ready",
				zap.String("collection", o.Collection),
				zap.String("index", o.Index),
				zap.String("status", string(o.Status)),
			)
		}
	}

	if attempted > 0 && succeeded == 0 {
		return fmt.Errorf("no search index could be provisioned (%d attempted)", attempted)
	}
	return nil
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
