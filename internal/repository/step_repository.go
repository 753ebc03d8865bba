package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskops/service-desk/internal/domain"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

// StepBatchEntry is one candidate in a bulk step edit. A present ID updates
// the existing row; an absent ID inserts a new one.
type StepBatchEntry struct {
	ID          *string
	StepNumber  int
	Description string
	CreatedByID string
}

// StepRepository encapsulates resolution-step persistence.
type StepRepository interface {
	Create(ctx context.Context, step *domain.ResolutionStep) error
	GetByID(ctx context.Context, id string) (*domain.ResolutionStep, error)
	ListByRequest(ctx context.Context, requestID string) ([]domain.ResolutionStep, error)
	Delete(ctx context.Context, requestID, stepID string) error
	Replace(ctx context.Context, requestID string, deleteIDs []string, entries []StepBatchEntry) error
}

type stepRepository struct {
	pool *pgxpool.Pool
}

// NewStepRepository builds repository.
func NewStepRepository(pool *pgxpool.Pool) StepRepository {
	return &stepRepository{pool: pool}
}

func (r *stepRepository) Create(ctx context.Context, step *domain.ResolutionStep) error {
	const query = `
        INSERT INTO resolution_steps (request_id, step_number, description, created_by_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		step.RequestID,
		step.StepNumber,
		step.Description,
		step.CreatedByID,
	).Scan(&step.ID, &step.CreatedAt, &step.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewDuplicateStep(step.StepNumber)
	}
	return err
}

func (r *stepRepository) GetByID(ctx context.Context, id string) (*domain.ResolutionStep, error) {
	const query = `
        SELECT id, request_id, step_number, description, created_by_id, created_at, updated_at
        FROM resolution_steps WHERE id=$1`
	var step domain.ResolutionStep
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&step.ID,
		&step.RequestID,
		&step.StepNumber,
		&step.Description,
		&step.CreatedByID,
		&step.CreatedAt,
		&step.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *stepRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.ResolutionStep, error) {
	const query = `
        SELECT id, request_id, step_number, description, created_by_id, created_at, updated_at
        FROM resolution_steps WHERE request_id=$1 ORDER BY step_number ASC`
	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ResolutionStep
	for rows.Next() {
		var step domain.ResolutionStep
		if err := rows.Scan(
			&step.ID,
			&step.RequestID,
			&step.StepNumber,
			&step.Description,
			&step.CreatedByID,
			&step.CreatedAt,
			&step.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, step)
	}
	return result, rows.Err()
}

func (r *stepRepository) Delete(ctx context.Context, requestID, stepID string) error {
	const query = `DELETE FROM resolution_steps WHERE id=$1 AND request_id=$2`
	cmd, err := r.pool.Exec(ctx, query, stepID, requestID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Replace applies a bulk edit atomically: deletions first, then updates and
// inserts. Any uniqueness violation rolls the whole batch back.
func (r *stepRepository) Replace(ctx context.Context, requestID string, deleteIDs []string, entries []StepBatchEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, id := range deleteIDs {
		if _, err := tx.Exec(ctx, `DELETE FROM resolution_steps WHERE id=$1 AND request_id=$2`, id, requestID); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if entry.ID != nil {
			cmd, err := tx.Exec(ctx,
				`UPDATE resolution_steps SET step_number=$1, description=$2, updated_at=NOW() WHERE id=$3 AND request_id=$4`,
				entry.StepNumber, entry.Description, *entry.ID, requestID)
			if isUniqueViolation(err) {
				return apperrors.NewDuplicateStep(entry.StepNumber)
			}
			if err != nil {
				return err
			}
			if cmd.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO resolution_steps (request_id, step_number, description, created_by_id) VALUES ($1,$2,$3,$4)`,
			requestID, entry.StepNumber, entry.Description, entry.CreatedByID)
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateStep(entry.StepNumber)
		}
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
