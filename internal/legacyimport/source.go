package legacyimport

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source streams legacy rows for one mapped table.
type Source interface {
	Each(ctx context.Context, tm TableMapping, limit int, fn func(Row) error) error
}

// PgxSource reads the legacy Postgres database through a pgx pool.
type PgxSource struct {
	pool *pgxpool.Pool
}

func NewPgxSource(ctx context.Context, dsn string) (*PgxSource, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("missing legacy database url")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open legacy pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping legacy database: %w", err)
	}
	return &PgxSource{pool: pool}, nil
}

func (s *PgxSource) Close() { s.pool.Close() }

func (s *PgxSource) Each(ctx context.Context, tm TableMapping, limit int, fn func(Row) error) error {
	query := SelectSQL(tm, limit)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query %s: %w", tm.Source, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("scan %s: %w", tm.Source, err)
		}
		row := make(Row, len(values))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SelectSQL builds the aliased SELECT for tm. Identifiers are quoted so the
// legacy mixed-case names survive.
func SelectSQL(tm TableMapping, limit int) string {
	dests := tm.DestColumns()
	cols := make([]string, 0, len(dests))
	for _, dest := range dests {
		cols = append(cols, pgx.Identifier{tm.Columns[dest]}.Sanitize()+" AS "+pgx.Identifier{dest}.Sanitize())
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(pgx.Identifier{tm.Source}.Sanitize())
	if order := strings.TrimSpace(tm.OrderBy); order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(pgx.Identifier{order}.Sanitize())
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	return b.String()
}
