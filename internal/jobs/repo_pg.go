package jobs

import (
	"context"
	"database/sql"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-ats/internal/shared/tracing"
)

var pgTracer = otel.Tracer("resume-ats/jobs/pg")

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return pgTracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", "job_postings"),
		))
}

// Create inserts a new posting.
func (r *PGRepo) Create(ctx context.Context, posting Posting) error {
	ctx, span := startSpan(ctx, "PG.CreateJobPosting", "INSERT")
	defer span.End()

	const query = `
INSERT INTO job_postings (id, title, description, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query,
		posting.ID,
		posting.Title,
		posting.Description,
		posting.CreatedAt,
	)
	tracing.RecordError(span, err, tracing.ErrorTypeDB)
	return err
}

// GetByID returns a posting by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Posting, error) {
	ctx, span := startSpan(ctx, "PG.GetJobPosting", "SELECT")
	defer span.End()

	const query = `
SELECT id, title, description, created_at
FROM job_postings
WHERE id = $1
LIMIT 1`
	var p Posting
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Posting{}, ErrNotFound
	}
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return Posting{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// List returns postings newest first, with limit/offset.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Posting, error) {
	ctx, span := startSpan(ctx, "PG.ListJobPostings", "SELECT")
	defer span.End()

	const query = `
SELECT id, title, description, created_at
FROM job_postings
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, err
	}
	defer rows.Close()

	out := []Posting{}
	for rows.Next() {
		var p Posting
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeDB)
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, err
	}
	span.SetAttributes(attribute.Int("db.rows", len(out)))
	return out, nil
}
