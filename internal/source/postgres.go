package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultQuery selects the catalog from a courses table whose prerequisites
// column is a text[].
const DefaultQuery = `SELECT id, title, prerequisites FROM courses ORDER BY id`

// Querier is the read side of a pgx connection.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads the catalog from a PostgreSQL query returning
// (id text, title text, prerequisites text[]) rows.
type Postgres struct {
	DB    Querier
	Query string // Defaults to DefaultQuery
}

// Name returns "postgres".
func (p *Postgres) Name() string {
	return "postgres"
}

// Read runs the catalog query and stages every row.
// Rows with a NULL or blank id or title are skipped; row numbers are 1-indexed.
func (p *Postgres) Read(ctx context.Context) (*Batch, error) {
	if p.DB == nil {
		return nil, ErrSourceRequired
	}

	query := p.Query
	if query == "" {
		query = DefaultQuery
	}

	rows, err := p.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query catalog: %w", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	batch := &Batch{}
	for n := 1; rows.Next(); n++ {
		if err := checkContext(ctx, n); err != nil {
			return nil, fmt.Errorf("read cancelled: %w", err)
		}

		var (
			id      pgtype.Text
			title   pgtype.Text
			prereqs []pgtype.Text
		)
		if err := rows.Scan(&id, &title, &prereqs); err != nil {
			batch.Skipped = append(batch.Skipped, SkippedLine{Line: n, Reason: err.Error()})
			continue
		}

		raw := make([]string, 0, len(prereqs))
		for _, pr := range prereqs {
			if pr.Valid {
				raw = append(raw, pr.String)
			}
		}

		course, ok := buildCourse(id.String, title.String, raw)
		if !ok {
			batch.Skipped = append(batch.Skipped, SkippedLine{Line: n, Reason: ReasonMissingID})
			continue
		}
		batch.Courses = append(batch.Courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read catalog rows: %w", ErrSourceUnavailable, err)
	}

	return batch, nil
}
