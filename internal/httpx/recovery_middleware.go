package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware answers a panicking handler with the generic error page,
// unless the handler had already started its response.
func RecoveryMiddleware(renderer ErrorRenderer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrapResponseWriter(w)
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						slog.String("request_id", RequestIDFrom(r)),
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
					)

					if !rw.wroteHeader() {
						rw.Header().Set("Connection", "close")
						renderer.RenderError(rw, http.StatusInternalServerError, genericErrorMessage)
					}
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
