package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
)

// pinger reports whether the database accepts connections.
type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	books     *book.HTTPHandler
	renderer  httpx.ErrorRenderer
	db        pinger
	metrics   *httpx.Metrics
	rateLimit *httpx.RateLimitMiddleware
	logger    *slog.Logger
	cfg       config
}

func newRouter(d routerDeps) http.Handler {
	boundary := httpx.NewBoundary(d.renderer, d.logger)
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", d.metrics.Handler())

	router.Handle("GET /{$}", boundary.Handle(d.books.Home))
	router.Handle("GET /books", boundary.Handle(d.books.List))
	router.Handle("GET /books/search", boundary.Handle(d.books.Search))
	router.Handle("GET /books/new", boundary.Handle(d.books.New))
	router.Handle("POST /books/new", boundary.Handle(d.books.Create))
	router.Handle("GET /books/{id}", boundary.Handle(d.books.Show))
	router.Handle("POST /books/{id}", boundary.Handle(d.books.Update))
	router.Handle("POST /books/{id}/delete", boundary.Handle(d.books.Delete))

	router.HandleFunc("/", boundary.NotFound)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.logger),
		httpx.RecoveryMiddleware(d.renderer, d.logger),
		d.metrics.Middleware,
		httpx.SecurityHeadersMiddleware(d.cfg.enableHSTS),
		d.rateLimit.Middleware,
		httpx.RequestSizeLimitMiddleware(d.cfg.maxBodyBytes, d.renderer),
	)
}
