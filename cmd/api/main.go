package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/view"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	loadEnvFiles()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	dbPool, err := openDB(cfg.dsn)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	logger.Info("database connection OK")

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("load views: %w", err)
	}

	bookRepository := book.NewPostgresRepo(dbPool, cfg.dbTimeout)
	bookHandler := book.NewHTTPHandler(book.NewService(bookRepository), renderer)

	rateLimit := httpx.NewRateLimitMiddleware(cfg.rateRPS, cfg.rateBurst, renderer)
	done := make(chan struct{})
	defer close(done)
	go rateLimit.Run(done)

	handler := newRouter(routerDeps{
		books:     bookHandler,
		renderer:  renderer,
		db:        dbPool,
		metrics:   httpx.NewMetrics("bookcatalog"),
		rateLimit: rateLimit,
		logger:    logger,
		cfg:       cfg,
	})

	httpServer := &http.Server{
		Addr:         cfg.addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return serve(httpServer, logger)
}

func openDB(dsn string) (*pgxpool.Pool, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}
