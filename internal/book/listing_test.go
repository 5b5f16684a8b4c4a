package book

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		page int
		ok   bool
	}{
		{"1", 1, true},
		{"7", 7, true},
		{" 3 ", 3, true},
		{"", 0, false},
		{"0", 0, false},
		{"-2", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{strconv.Itoa(maxPage), maxPage, true},
		{strconv.Itoa(maxPage + 1), 0, false},
		{"1000000000000000000", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			page, ok := ParsePage(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.page, page)
		})
	}
}

func TestPageQuery(t *testing.T) {
	assert.Equal(t, ListQuery{Limit: 10, Offset: 0}, PageQuery(1))
	assert.Equal(t, ListQuery{Limit: 10, Offset: 20}, PageQuery(3))
	assert.Equal(t, ListQuery{Limit: 10, Offset: 0}, PageQuery(0))
	assert.False(t, PageQuery(2).Search())
}

func TestPageQuery_LargestPageKeepsOffsetPositive(t *testing.T) {
	page, ok := ParsePage(strconv.Itoa(maxPage))
	require.True(t, ok)

	q := PageQuery(page)
	assert.GreaterOrEqual(t, q.Offset, 0)
	assert.Equal(t, (maxPage-1)*PageSize, q.Offset)

	_, args, err := BuildSelect(q)
	require.NoError(t, err)
	for _, a := range args {
		assert.NotContains(t, fmt.Sprint(a), "-")
	}

	assert.Equal(t, q, PageQuery(math.MaxInt))
}

func TestSearchQuery(t *testing.T) {
	q := SearchQuery(" 19")
	assert.Equal(t, " 19", q.Term)
	assert.True(t, q.Search())
	assert.Zero(t, q.Limit)

	assert.False(t, SearchQuery("   ").Search())
	assert.False(t, SearchQuery("").Search())
}

func TestBuildSelect_SearchKeepsSurroundingSpaces(t *testing.T) {
	_, args, err := BuildSelect(SearchQuery(" 19"))
	require.NoError(t, err)
	require.NotEmpty(t, args)
	assert.Equal(t, "% 19%", args[0])
}

func TestBuildSelect_Page(t *testing.T) {
	query, args, err := BuildSelect(PageQuery(2))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, `SELECT "id", "title", "author", "genre", "year", "created_at", "updated_at" FROM "books"`), query)
	assert.Contains(t, query, `ORDER BY "id" ASC`)
	assert.Contains(t, query, "LIMIT")
	assert.Contains(t, query, "OFFSET")
	assert.NotContains(t, query, "LIKE")
	assert.Len(t, args, 2)
}

func TestBuildSelect_Search(t *testing.T) {
	query, args, err := BuildSelect(SearchQuery("Dune"))
	require.NoError(t, err)

	assert.Contains(t, query, `LOWER("title") LIKE`)
	assert.Contains(t, query, `LOWER("author") LIKE`)
	assert.Contains(t, query, `LOWER("genre") LIKE`)
	assert.Contains(t, query, `CAST("year" AS TEXT)`)
	assert.Contains(t, query, " OR ")
	assert.Contains(t, query, `ORDER BY "id" ASC`)
	assert.NotContains(t, query, "LIMIT")
	require.NotEmpty(t, args)
	for _, a := range args {
		assert.Equal(t, "%dune%", a)
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
