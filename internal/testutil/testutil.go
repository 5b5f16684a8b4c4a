package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// BookForm returns the form values a browser posts for the book form.
func BookForm(title, author, genre, year string) url.Values {
	return url.Values{
		"title":  {title},
		"author": {author},
		"genre":  {genre},
		"year":   {year},
	}
}

// NewFormRequest creates an url-encoded form submission for testing
func NewFormRequest(method, path string, values url.Values) *http.Request {
	r := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// Rendered is one call recorded by RecordingRenderer.
type Rendered struct {
	Status int
	Name   string
	Data   any
}

// RecordingRenderer stands in for the HTML renderer. It writes the status and
// view name to the response and keeps every call for inspection.
type RecordingRenderer struct {
	mu    sync.Mutex
	calls []Rendered

	// Err, when set, is returned from Render without writing anything.
	Err error
}

func (r *RecordingRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	r.calls = append(r.calls, Rendered{Status: status, Name: name, Data: data})
	r.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := io.WriteString(w, name)
	return err
}

func (r *RecordingRenderer) RenderError(w http.ResponseWriter, status int, message string) {
	r.mu.Lock()
	r.calls = append(r.calls, Rendered{Status: status, Name: "error", Data: message})
	r.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "%d %s", status, message)
}

// Last returns the most recent call, ok is false when nothing was rendered.
func (r *RecordingRenderer) Last() (Rendered, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Rendered{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Calls returns the number of recorded renders.
func (r *RecordingRenderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
