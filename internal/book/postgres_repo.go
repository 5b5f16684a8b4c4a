package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgCheckViolation = "23514"

// constraintErrors maps table CHECK constraints to the field error they stand for.
var constraintErrors = map[string]FieldError{
	"books_title_not_blank":  {Field: colTitle, Message: fmt.Sprintf("Please provide a value for %q", colTitle)},
	"books_author_not_blank": {Field: colAuthor, Message: fmt.Sprintf("Please provide a value for %q", colAuthor)},
	"books_year_range":       {Field: colYear, Message: fmt.Sprintf("%q must be a whole number between %d and %d", colYear, minYear, maxYear)},
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context, q ListQuery) ([]Book, error) {
	query, args, err := BuildSelect(q)
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	query, args, err := goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Prepared(true).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build get query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, f Fields) (Book, error) {
	rec, err := record(f)
	if err != nil {
		return Book{}, err
	}

	query, args, err := goqu.Dialect(dialectPostgres).
		Insert(tableBooks).
		Prepared(true).
		Rows(rec).
		Returning(bookColumns...).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build insert query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		return Book{}, checkViolation(err)
	}
	return b, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, f Fields) (Book, error) {
	rec, err := record(f)
	if err != nil {
		return Book{}, err
	}
	rec[colUpdatedAt] = goqu.L("NOW()")

	query, args, err := goqu.Dialect(dialectPostgres).
		Update(tableBooks).
		Prepared(true).
		Set(rec).
		Where(goqu.C(colID).Eq(id)).
		Returning(bookColumns...).
		ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build update query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, checkViolation(err)
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := goqu.Dialect(dialectPostgres).
		Delete(tableBooks).
		Prepared(true).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// record validates f and converts it to the column values written on insert
// and update.
func record(f Fields) (goqu.Record, error) {
	if errs := Validate(f); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	year, err := parseYear(f.Year)
	if err != nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: colYear, Message: err.Error()}}}
	}

	var yearValue any
	if year != nil {
		yearValue = *year
	}

	return goqu.Record{
		colTitle:  strings.TrimSpace(f.Title),
		colAuthor: strings.TrimSpace(f.Author),
		colGenre:  strings.TrimSpace(f.Genre),
		colYear:   yearValue,
	}, nil
}

// checkViolation turns a CHECK constraint failure raised by the database into
// a validation error; any other error is returned unchanged.
func checkViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
		if fe, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return &ValidationError{Errors: []FieldError{fe}}
		}
	}
	return err
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Year, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
