// Package view renders the server-side HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile = "templates/layout.html"
	formFile   = "templates/form.html"
)

// ErrorPage is the data context of the not-found and generic error views.
type ErrorPage struct {
	Title   string
	Status  int
	Message string
}

// Renderer executes named page templates wrapped in the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every embedded page once.
func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile || file == formFile {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
		t, err := template.New(name).ParseFS(templateFS, layoutFile, formFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named view with the given status. Only lookup and
// template failures are returned, and nothing has been written when they are,
// so the caller can still send an error page. Once the header is out a failed
// write means the client is gone and is not reported.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view %q does not exist", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render view %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// RenderError writes the not-found page for 404 and the generic error page
// for every other status. It falls back to plain text if rendering fails.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	name, title := "error", "Server Error"
	switch {
	case status == http.StatusNotFound:
		name, title = "page-not-found", "Page Not Found"
	case status < http.StatusInternalServerError:
		title = http.StatusText(status)
	}

	page := ErrorPage{Title: title, Status: status, Message: message}
	if err := r.Render(w, status, name, page); err != nil {
		http.Error(w, message, status)
	}
}
