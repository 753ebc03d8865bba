package service

import (
	"context"
	"time"

	"github.com/deskops/service-desk/internal/domain"
	"github.com/deskops/service-desk/internal/repository"
)

const (
	recentWindow = 7 * 24 * time.Hour
	trendWindow  = 180 * 24 * time.Hour
)

// DashboardStats aggregates the scoped request set for one caller.
type DashboardStats struct {
	Total             int64                      `json:"total"`
	PendingCount      int64                      `json:"pending_count"`
	InProgressCount   int64                      `json:"in_progress_count"`
	ResolvedCount     int64                      `json:"resolved_count"`
	RecentCount       int64                      `json:"recent_count"`
	HighPriorityCount int64                      `json:"high_priority_count"`
	CategoryBreakdown []repository.CategoryCount `json:"category_breakdown"`
	MonthlyTrend      []repository.MonthCount    `json:"monthly_trend"`
}

// DashboardService computes per-role statistics. Read-only; every call
// recomputes from the store.
type DashboardService struct {
	requests repository.RequestRepository
	now      func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(requests repository.RequestRepository, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{requests: requests, now: now}
}

// Overview returns the dashboard aggregates for the caller's scoped set:
// all requests for staff, the caller's own requests otherwise.
func (s *DashboardService) Overview(ctx context.Context, caller *domain.User) (*DashboardStats, error) {
	var scope *string
	if !caller.IsStaff {
		requesterID := caller.ID
		scope = &requesterID
	}

	counts, err := s.requests.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := s.now()
	recent, err := s.requests.CountCreatedSince(ctx, scope, now.Add(-recentWindow))
	if err != nil {
		return nil, err
	}

	categories, err := s.requests.CategoryCounts(ctx, scope)
	if err != nil {
		return nil, err
	}

	trend, err := s.requests.MonthlyCounts(ctx, scope, now.Add(-trendWindow))
	if err != nil {
		return nil, err
	}

	pending := counts[domain.RequestStatusPending]
	inProgress := counts[domain.RequestStatusInProgress]
	resolved := counts[domain.RequestStatusResolved]

	return &DashboardStats{
		Total:             pending + inProgress + resolved,
		PendingCount:      pending,
		InProgressCount:   inProgress,
		ResolvedCount:     resolved,
		RecentCount:       recent,
		HighPriorityCount: pending + inProgress,
		CategoryBreakdown: categories,
		MonthlyTrend:      trend,
	}, nil
}
