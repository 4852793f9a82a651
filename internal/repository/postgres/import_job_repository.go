package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ordersight/backend-go/internal/domain"
	"github.com/ordersight/backend-go/internal/repository"
)

type importJobRepository struct {
	db *DB
}

func NewImportJobRepository(db *DB) repository.ImportJobRepository {
	return &importJobRepository{db: db}
}

func (r *importJobRepository) Create(ctx context.Context, job *domain.ImportJob) error {
	query := `
		INSERT INTO import_jobs (file_name, total_rows, status, started_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, started_at
	`
	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowxContext(ctx, query, job.FileName, job.TotalRows, domain.ImportStatusFailed).
		Scan(&job.ID, &job.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}
	return nil
}

// Finish writes the job's one and only update; the row is immutable after.
func (r *importJobRepository) Finish(ctx context.Context, job *domain.ImportJob) error {
	query := `
		UPDATE import_jobs
		SET total_rows = $2, inserted = $3, skipped = $4, errors = $5,
		    status = $6, finished_at = NOW()
		WHERE id = $1
	`
	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query,
		job.ID, job.TotalRows, job.Inserted, job.Skipped, job.Errors, job.Status,
	); err != nil {
		return fmt.Errorf("failed to finish import job: %w", err)
	}
	return nil
}

func (r *importJobRepository) List(ctx context.Context, limit, offset int) ([]domain.ImportJob, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := r.db.QueryTimeout(ctx)
	defer cancel()

	var jobs []domain.ImportJob
	query := `SELECT * FROM import_jobs ORDER BY started_at DESC LIMIT $1 OFFSET $2`
	if err := sqlx.SelectContext(ctx, r.db, &jobs, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list import jobs: %w", err)
	}
	return jobs, nil
}
