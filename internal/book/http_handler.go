package book

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"

	"github.com/go-playground/form/v4"
)

const (
	viewIndex  = "index"
	viewNew    = "new-book"
	viewUpdate = "update-book"

	listPath      = "/books"
	firstPagePath = "/books?page=1"
)

// Renderer renders a named view with a data context.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// ListPage is the data context of the index view. Term is set for search
// results, the page fields for the paged listing.
type ListPage struct {
	Title    string
	Books    []Book
	Term     string
	Page     int
	PrevPage int
	NextPage int
	HasNext  bool
}

// FormPage is the data context of the new-book and update-book views.
type FormPage struct {
	Title  string
	Action string
	Submit string
	Book   Draft
	Errors []FieldError
}

type HTTPHandler struct {
	service  *Service
	renderer Renderer
	decoder  *form.Decoder
}

func NewHTTPHandler(service *Service, renderer Renderer) *HTTPHandler {
	return &HTTPHandler{
		service:  service,
		renderer: renderer,
		decoder:  form.NewDecoder(),
	}
}

// Home handles GET /
func (h *HTTPHandler) Home(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, listPath, http.StatusFound)
	return nil
}

// List handles GET /books?page=N
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) error {
	page, ok := ParsePage(r.URL.Query().Get("page"))
	if !ok {
		http.Redirect(w, r, firstPagePath, http.StatusFound)
		return nil
	}

	books, err := h.service.List(r.Context(), PageQuery(page))
	if err != nil {
		return fmt.Errorf("list page %d: %w", page, err)
	}

	// A page past the end goes back to the start. An empty first page is
	// rendered as is, redirecting it would loop.
	if len(books) == 0 && page > 1 {
		http.Redirect(w, r, firstPagePath, http.StatusFound)
		return nil
	}

	return h.renderer.Render(w, http.StatusOK, viewIndex, ListPage{
		Title:    "Books",
		Books:    books,
		Page:     page,
		PrevPage: page - 1,
		NextPage: page + 1,
		HasNext:  len(books) == PageSize,
	})
}

// Search handles GET /books/search?term=T
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) error {
	q := SearchQuery(r.URL.Query().Get("term"))
	if !q.Search() {
		http.Redirect(w, r, firstPagePath, http.StatusFound)
		return nil
	}

	books, err := h.service.List(r.Context(), q)
	if err != nil {
		return fmt.Errorf("search %q: %w", q.Term, err)
	}

	return h.renderer.Render(w, http.StatusOK, viewIndex, ListPage{
		Title: "Books",
		Books: books,
		Term:  q.Term,
	})
}

// New handles GET /books/new
func (h *HTTPHandler) New(w http.ResponseWriter, r *http.Request) error {
	return h.renderer.Render(w, http.StatusOK, viewNew, newBookPage(Draft{}, nil))
}

// Create handles POST /books/new
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) error {
	fields, err := h.decodeFields(r)
	if err != nil {
		return err
	}

	result, err := h.service.Create(r.Context(), fields)
	if err != nil {
		return err
	}

	switch result.Kind {
	case ResultInvalid:
		return h.renderer.Render(w, http.StatusUnprocessableEntity, viewNew, newBookPage(result.Draft, result.Errors))
	default:
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return nil
	}
}

// Show handles GET /books/{id}
func (h *HTTPHandler) Show(w http.ResponseWriter, r *http.Request) error {
	id, ok := parseID(r)
	if !ok {
		return &NotFoundError{ID: r.PathValue("id")}
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		return err
	}

	return h.renderer.Render(w, http.StatusOK, viewUpdate, updateBookPage(Draft{ID: &b.ID, Fields: b.Fields()}, nil))
}

// Update handles POST /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id, ok := parseID(r)
	if !ok {
		return &NotFoundError{ID: r.PathValue("id")}
	}

	fields, err := h.decodeFields(r)
	if err != nil {
		return err
	}

	result, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		return err
	}

	switch result.Kind {
	case ResultInvalid:
		return h.renderer.Render(w, http.StatusUnprocessableEntity, viewUpdate, updateBookPage(result.Draft, result.Errors))
	default:
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return nil
	}
}

// Delete handles POST /books/{id}/delete. Unlike show and update, an unknown
// id is answered with a bare 404.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, ok := parseID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return nil
		}
		return err
	}

	http.Redirect(w, r, listPath, http.StatusSeeOther)
	return nil
}

func (h *HTTPHandler) decodeFields(r *http.Request) (Fields, error) {
	var f Fields
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return f, httpx.NewError(http.StatusRequestEntityTooLarge, "The submitted form is too large.")
		}
		return f, httpx.NewError(http.StatusBadRequest, "The submitted form could not be read.")
	}
	if err := h.decoder.Decode(&f, r.PostForm); err != nil {
		return f, httpx.NewError(http.StatusBadRequest, "The submitted form could not be read.")
	}
	return f, nil
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func newBookPage(d Draft, errs []FieldError) FormPage {
	return FormPage{
		Title:  "New Book",
		Action: "/books/new",
		Submit: "Create New Book",
		Book:   d,
		Errors: errs,
	}
}

func updateBookPage(d Draft, errs []FieldError) FormPage {
	action := listPath
	if d.ID != nil {
		action = fmt.Sprintf("/books/%d", *d.ID)
	}
	return FormPage{
		Title:  "Edit Book",
		Action: action,
		Submit: "Update Book",
		Book:   d,
		Errors: errs,
	}
}
