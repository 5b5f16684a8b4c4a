package book

import (
	"math"
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

// PageSize is the number of books shown on one listing page.
const PageSize = 10

// maxPage is the last page whose offset still fits in an int.
const maxPage = math.MaxInt/PageSize + 1

const (
	tableBooks      = "books"
	colID           = "id"
	colTitle        = "title"
	colAuthor       = "author"
	colGenre        = "genre"
	colYear         = "year"
	colCreatedAt    = "created_at"
	colUpdatedAt    = "updated_at"
	dialectPostgres = "postgres"
)

var bookColumns = []any{colID, colTitle, colAuthor, colGenre, colYear, colCreatedAt, colUpdatedAt}

// ListQuery describes one read of the listing. A query carries either a page
// window or a search term, never both.
type ListQuery struct {
	Term   string
	Limit  int
	Offset int
}

// Search reports whether q is a search query. A term of only whitespace
// does not count.
func (q ListQuery) Search() bool { return strings.TrimSpace(q.Term) != "" }

// ParsePage reads the page query parameter. ok is false when the value is
// absent, not a number, below 1, or so large that its offset would overflow;
// callers redirect to the first page then.
func ParsePage(raw string) (page int, ok bool) {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 || page > maxPage {
		return 0, false
	}
	return page, true
}

// PageQuery returns the query for a 1-based page ordered by ascending id.
func PageQuery(page int) ListQuery {
	switch {
	case page < 1:
		page = 1
	case page > maxPage:
		page = maxPage
	}
	return ListQuery{
		Limit:  PageSize,
		Offset: (page - 1) * PageSize,
	}
}

// SearchQuery returns an unpaginated query matching term against title,
// author, genre and year. The term is matched as typed, surrounding spaces
// included.
func SearchQuery(term string) ListQuery {
	return ListQuery{Term: term}
}

// BuildSelect renders q as a prepared postgres statement.
func BuildSelect(q ListQuery) (string, []any, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Prepared(true).
		Select(bookColumns...).
		Order(goqu.I(colID).Asc())

	if q.Search() {
		stmt = stmt.Where(searchPredicate(q.Term))
	} else {
		stmt = stmt.Limit(uint(q.Limit)).Offset(uint(q.Offset))
	}

	return stmt.ToSQL()
}

// searchPredicate matches term as a case-insensitive substring of any of the
// searchable columns. year is compared through its text form.
func searchPredicate(term string) exp.ExpressionList {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	columns := []exp.Expression{
		goqu.I(colTitle),
		goqu.I(colAuthor),
		goqu.I(colGenre),
		goqu.Cast(goqu.I(colYear), "TEXT"),
	}

	ors := make([]exp.Expression, 0, len(columns))
	for _, col := range columns {
		ors = append(ors, goqu.L(`LOWER(?) LIKE ? ESCAPE '\'`, col, pattern))
	}
	return goqu.Or(ors...)
}

// escapeLike makes LIKE metacharacters in s match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
