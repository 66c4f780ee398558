package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"libraryapi/internal/book"
	"libraryapi/internal/cache"
	"libraryapi/internal/config"
	"libraryapi/internal/events"
	"libraryapi/internal/httpx"
	"libraryapi/internal/loan"
	"libraryapi/internal/member"
	"libraryapi/internal/metrics"
)

func main() {
	_ = godotenv.Load(".env.local")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	dbPool := mustOpenDB(cfg.DB, logger)
	defer dbPool.Close()

	recorder := newRecorder(cfg.Statsd, logger)
	defer recorder.Close()

	bookCache := newBookCache(cfg.Cache, logger, recorder)
	publisher := newPublisher(cfg.Events, logger)

	loanRepo := loan.NewPostgresRepo(dbPool, cfg.DB.QueryTimeout)
	fineEngine := loan.NewFineEngine(cfg.Fines.DailyRate)

	bookService := book.NewService(book.NewPostgresRepo(dbPool, cfg.DB.QueryTimeout), bookCache, recorder)
	memberService := member.NewService(member.NewPostgresRepo(dbPool, cfg.DB.QueryTimeout), loanRepo)
	loanService := loan.NewService(loanRepo, bookCache, publisher, fineEngine, logger, recorder)

	bookHandler := book.NewHTTPHandler(bookService)
	memberHandler := member.NewHTTPHandler(memberService)
	loanHandler := loan.NewHTTPHandler(loanService)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /books", bookHandler.List)
	router.HandleFunc("POST /books", bookHandler.Create)
	router.HandleFunc("PUT /books/{id}", bookHandler.Update)
	router.HandleFunc("DELETE /books/{id}", bookHandler.Delete)

	router.HandleFunc("GET /members", memberHandler.List)
	router.HandleFunc("POST /members", memberHandler.Create)
	router.HandleFunc("PUT /members/{id}", memberHandler.Update)
	router.HandleFunc("DELETE /members/{id}", memberHandler.Delete)

	router.HandleFunc("GET /loans", loanHandler.List)
	router.HandleFunc("POST /loans", loanHandler.Checkout)
	router.HandleFunc("PUT /loans/{id}", loanHandler.Update)

	handler := httpx.RequestIDMiddleware(
		httpx.AccessLogMiddleware(logger)(
			httpx.RecoveryMiddleware(logger)(router)))

	httpServer := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}

	logger.Info("starting server", "addr", cfg.App.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func mustOpenDB(cfg config.DBConfig, logger *slog.Logger) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		logger.Error("cannot create db pool", "error", err)
		os.Exit(1)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Error("cannot ping database", "dsn", redactDSN(cfg.DSN), "error", err)
		os.Exit(1)
	}
	logger.Info("database connection OK")
	return pool
}

func newRecorder(cfg config.StatsdConfig, logger *slog.Logger) metrics.Recorder {
	if cfg.Addr == "" {
		return metrics.NoOp{}
	}
	recorder, err := metrics.NewStatsdRecorder(cfg.Addr, cfg.Namespace, logger)
	if err != nil {
		logger.Warn("statsd unavailable, metrics disabled", "error", err)
		return metrics.NoOp{}
	}
	return recorder
}

func newBookCache(cfg config.CacheConfig, logger *slog.Logger, recorder metrics.Recorder) *cache.BookCache {
	var store cache.Store
	switch cfg.Backend {
	case "redis":
		store = cache.NewRedisStore(cfg, logger)
	case "memory":
		memStore, err := cache.NewMemoryStore(cfg.TTL)
		if err != nil {
			logger.Warn("memory cache unavailable, caching disabled", "error", err)
			store = cache.NewDisabledStore()
		} else {
			store = memStore
		}
	default:
		logger.Info("no cache backend configured, caching disabled")
		store = cache.NewDisabledStore()
	}
	return cache.NewBookCache(store, cfg.TTL, cfg.OpTimeout, logger, recorder)
}

func newPublisher(cfg config.EventsConfig, logger *slog.Logger) events.Publisher {
	if cfg.RedisAddr == "" {
		logger.Info("no event bus configured, publishing disabled")
		return events.NoOpPublisher{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.RedisAddr,
		MaxRetries: 1,
	})
	return events.NewRedisPublisher(client, cfg.Channel)
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
