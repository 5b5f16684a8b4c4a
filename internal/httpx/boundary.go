package httpx

import (
	"errors"
	"log/slog"
	"net/http"
)

const (
	genericErrorMessage = "Sorry! There was an unexpected error on the server."
	pageNotFoundMessage = "Sorry! We couldn't find the page you were looking for."
	rateLimitedMessage  = "Too many requests. Please slow down and try again."
	bodyTooLargeMessage = "The submitted form is too large."
)

// ErrorRenderer writes a user-facing error page.
type ErrorRenderer interface {
	RenderError(w http.ResponseWriter, status int, message string)
}

// HandlerFunc is an HTTP handler that hands every failure it does not recover
// from back to the Boundary instead of writing a response itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// StatusError is implemented by faults that carry their own HTTP status.
// Their message is shown to the user.
type StatusError interface {
	error
	StatusCode() int
}

// Error is a fault with an explicit status and user-facing message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) StatusCode() int { return e.Status }

// NewError returns a fault rendered with the given status and message.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Boundary is the single place where unrecovered handler errors become
// responses.
type Boundary struct {
	renderer ErrorRenderer
	logger   *slog.Logger
}

func NewBoundary(renderer ErrorRenderer, logger *slog.Logger) *Boundary {
	return &Boundary{renderer: renderer, logger: logger}
}

// Handle adapts fn to http.Handler, routing its error to Fail.
func (b *Boundary) Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			b.Fail(w, r, err)
		}
	})
}

// Fail renders err. Faults with a status below 500 show their own message;
// everything else is logged and answered with the generic error page.
func (b *Boundary) Fail(w http.ResponseWriter, r *http.Request, err error) {
	var se StatusError
	if errors.As(err, &se) && se.StatusCode() < http.StatusInternalServerError {
		b.renderer.RenderError(w, se.StatusCode(), se.Error())
		return
	}

	b.logger.Error("request failed",
		slog.String("request_id", RequestIDFrom(r)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	b.renderer.RenderError(w, http.StatusInternalServerError, genericErrorMessage)
}

// NotFound answers requests that matched no route.
func (b *Boundary) NotFound(w http.ResponseWriter, r *http.Request) {
	b.Fail(w, r, NewError(http.StatusNotFound, pageNotFoundMessage))
}
