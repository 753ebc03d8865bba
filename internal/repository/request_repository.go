package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskops/service-desk/internal/domain"
)

// RequestFilter captures listing parameters. A nil RequesterID means no
// ownership scoping (staff view).
type RequestFilter struct {
	RequesterID *string
	Status      *domain.RequestStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Category domain.RequestCategory
	Count    int64
}

// MonthCount is one calendar-month bucket of the monthly trend.
type MonthCount struct {
	Month string // YYYY-MM
	Count int64
}

// RequestRepository encapsulates service-request persistence.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.ServiceRequest) error
	UpdateStatus(ctx context.Context, req *domain.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.ServiceRequest, error)

	CountByStatus(ctx context.Context, requesterID *string) (map[domain.RequestStatus]int64, error)
	CountCreatedSince(ctx context.Context, requesterID *string, since time.Time) (int64, error)
	CategoryCounts(ctx context.Context, requesterID *string) ([]CategoryCount, error)
	MonthlyCounts(ctx context.Context, requesterID *string, since time.Time) ([]MonthCount, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, requester_user_id, requester_name, department, category, description,
               status, created_at, updated_at, resolved_at, resolved_by_id`

func (r *requestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	const query = `
        INSERT INTO service_requests (requester_user_id, requester_name, department, category, description, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.RequesterID,
		req.RequesterName,
		req.Department,
		req.Category,
		req.Description,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

// UpdateStatus writes the status and its resolved fields in one statement so
// a transition commits as a single atomic unit.
func (r *requestRepository) UpdateStatus(ctx context.Context, req *domain.ServiceRequest) error {
	const query = `
        UPDATE service_requests SET status=$1, resolved_at=$2, resolved_by_id=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		req.Status,
		req.ResolvedAt,
		req.ResolvedByID,
		req.ID,
	).Scan(&req.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM service_requests WHERE id=$1`, requestColumns)
	var req domain.ServiceRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.RequesterID,
		&req.RequesterName,
		&req.Department,
		&req.Category,
		&req.Description,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.ResolvedAt,
		&req.ResolvedByID,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.ServiceRequest, error) {
	base := fmt.Sprintf(`SELECT %s FROM service_requests`, requestColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) CountByStatus(ctx context.Context, requesterID *string) (map[domain.RequestStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM service_requests`
	args := []any{}
	if requesterID != nil {
		query += ` WHERE requester_user_id=$1`
		args = append(args, *requesterID)
	}
	query += ` GROUP BY status`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.RequestStatus]int64)
	for rows.Next() {
		var status domain.RequestStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *requestRepository) CountCreatedSince(ctx context.Context, requesterID *string, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM service_requests WHERE created_at >= $1`
	args := []any{since}
	if requesterID != nil {
		args = append(args, *requesterID)
		query += fmt.Sprintf(` AND requester_user_id=$%d`, len(args))
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *requestRepository) CategoryCounts(ctx context.Context, requesterID *string) ([]CategoryCount, error) {
	query := `SELECT category, COUNT(*) FROM service_requests`
	args := []any{}
	if requesterID != nil {
		query += ` WHERE requester_user_id=$1`
		args = append(args, *requesterID)
	}
	query += ` GROUP BY category ORDER BY COUNT(*) DESC, category ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var entry CategoryCount
		if err := rows.Scan(&entry.Category, &entry.Count); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *requestRepository) MonthlyCounts(ctx context.Context, requesterID *string, since time.Time) ([]MonthCount, error) {
	query := `SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*)
        FROM service_requests WHERE created_at >= $1`
	args := []any{since}
	if requesterID != nil {
		args = append(args, *requesterID)
		query += fmt.Sprintf(` AND requester_user_id=$%d`, len(args))
	}
	query += ` GROUP BY 1 ORDER BY 1 ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthCount
	for rows.Next() {
		var entry MonthCount
		if err := rows.Scan(&entry.Month, &entry.Count); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanRequests(rows pgx.Rows) ([]domain.ServiceRequest, error) {
	var result []domain.ServiceRequest
	for rows.Next() {
		var req domain.ServiceRequest
		if err := rows.Scan(
			&req.ID,
			&req.RequesterID,
			&req.RequesterName,
			&req.Department,
			&req.Category,
			&req.Description,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
			&req.ResolvedAt,
			&req.ResolvedByID,
		); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}
