package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskops/service-desk/internal/domain"
)

// ProfileRepository stores per-user profile attributes.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository builds repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (user_id, department)
        VALUES ($1,$2)
        ON CONFLICT (user_id) DO UPDATE SET department=EXCLUDED.department, updated_at=NOW()
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.Department,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	const query = `
        SELECT user_id, department, created_at, updated_at
        FROM profiles WHERE user_id=$1`
	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Department,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
