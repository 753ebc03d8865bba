package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskops/service-desk/internal/domain"
	"github.com/deskops/service-desk/internal/repository"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

type fakeRequestRepo struct {
	mu    sync.Mutex
	items map[string]*domain.ServiceRequest
	now   func() time.Time
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		items: map[string]*domain.ServiceRequest{},
		now:   time.Now,
	}
}

func (r *fakeRequestRepo) seed(req domain.ServiceRequest) *domain.ServiceRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	stored := req
	r.items[req.ID] = &stored
	return &stored
}

func (r *fakeRequestRepo) Create(_ context.Context, req *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.NewString()
	req.CreatedAt = r.now()
	req.UpdatedAt = req.CreatedAt
	stored := *req
	r.items[req.ID] = &stored
	return nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, req *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[req.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = req.Status
	stored.ResolvedAt = req.ResolvedAt
	stored.ResolvedByID = req.ResolvedByID
	stored.UpdatedAt = r.now()
	req.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter repository.RequestFilter) ([]domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ServiceRequest
	for _, req := range r.items {
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		result = append(result, *req)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeRequestRepo) scoped(requesterID *string) []*domain.ServiceRequest {
	var result []*domain.ServiceRequest
	for _, req := range r.items {
		if requesterID != nil && req.RequesterID != *requesterID {
			continue
		}
		result = append(result, req)
	}
	return result
}

func (r *fakeRequestRepo) CountByStatus(_ context.Context, requesterID *string) (map[domain.RequestStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.RequestStatus]int64{}
	for _, req := range r.scoped(requesterID) {
		counts[req.Status]++
	}
	return counts, nil
}

func (r *fakeRequestRepo) CountCreatedSince(_ context.Context, requesterID *string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, req := range r.scoped(requesterID) {
		if !req.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequestRepo) CategoryCounts(_ context.Context, requesterID *string) ([]repository.CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.RequestCategory]int64{}
	for _, req := range r.scoped(requesterID) {
		counts[req.Category]++
	}
	result := make([]repository.CategoryCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, repository.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (r *fakeRequestRepo) MonthlyCounts(_ context.Context, requesterID *string, since time.Time) ([]repository.MonthCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, req := range r.scoped(requesterID) {
		if req.CreatedAt.Before(since) {
			continue
		}
		counts[req.CreatedAt.Format("2006-01")]++
	}
	result := make([]repository.MonthCount, 0, len(counts))
	for month, count := range counts {
		result = append(result, repository.MonthCount{Month: month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})
	return result, nil
}

type fakeStepRepo struct {
	mu    sync.Mutex
	items map[string]*domain.ResolutionStep
}

func newFakeStepRepo() *fakeStepRepo {
	return &fakeStepRepo{items: map[string]*domain.ResolutionStep{}}
}

func (r *fakeStepRepo) hasNumber(requestID string, number int, exceptID string) bool {
	for _, step := range r.items {
		if step.RequestID == requestID && step.StepNumber == number && step.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *fakeStepRepo) Create(_ context.Context, step *domain.ResolutionStep) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasNumber(step.RequestID, step.StepNumber, "") {
		return apperrors.NewDuplicateStep(step.StepNumber)
	}
	step.ID = uuid.NewString()
	step.CreatedAt = time.Now()
	step.UpdatedAt = step.CreatedAt
	stored := *step
	r.items[step.ID] = &stored
	return nil
}

func (r *fakeStepRepo) GetByID(_ context.Context, id string) (*domain.ResolutionStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeStepRepo) ListByRequest(_ context.Context, requestID string) ([]domain.ResolutionStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ResolutionStep
	for _, step := range r.items {
		if step.RequestID == requestID {
			result = append(result, *step)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StepNumber < result[j].StepNumber
	})
	return result, nil
}

func (r *fakeStepRepo) Delete(_ context.Context, requestID, stepID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[stepID]
	if !ok || stored.RequestID != requestID {
		return pgx.ErrNoRows
	}
	delete(r.items, stepID)
	return nil
}

func (r *fakeStepRepo) Replace(_ context.Context, requestID string, deleteIDs []string, entries []repository.StepBatchEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// work on a copy so a failed batch leaves state untouched
	next := make(map[string]*domain.ResolutionStep, len(r.items))
	for id, step := range r.items {
		copied := *step
		next[id] = &copied
	}
	for _, id := range deleteIDs {
		if step, ok := next[id]; ok && step.RequestID == requestID {
			delete(next, id)
		}
	}
	for _, entry := range entries {
		if entry.ID != nil {
			step, ok := next[*entry.ID]
			if !ok || step.RequestID != requestID {
				return pgx.ErrNoRows
			}
			step.StepNumber = entry.StepNumber
			step.Description = entry.Description
			step.UpdatedAt = time.Now()
			continue
		}
		step := &domain.ResolutionStep{
			ID:          uuid.NewString(),
			RequestID:   requestID,
			StepNumber:  entry.StepNumber,
			Description: entry.Description,
			CreatedByID: entry.CreatedByID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		next[step.ID] = step
	}

	seen := map[int]bool{}
	for _, step := range next {
		if step.RequestID != requestID {
			continue
		}
		if seen[step.StepNumber] {
			return apperrors.NewDuplicateStep(step.StepNumber)
		}
		seen[step.StepNumber] = true
	}

	r.items = next
	return nil
}

type fakeProfileRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{items: map[string]*domain.Profile{}}
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *profile
	stored.UpdatedAt = time.Now()
	if existing, ok := r.items[profile.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = stored.UpdatedAt
	}
	r.items[profile.UserID] = &stored
	return nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	items map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Username == user.Username {
			return apperrors.NewValidationError("username already taken", map[string]any{"username": user.Username})
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.items[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.items[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.items {
		if stored.Username == username {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func isCode(err error, code string) bool {
	return apperrors.IsCode(err, code)
}

func staffUser() *domain.User {
	return &domain.User{
		ID:        uuid.NewString(),
		Username:  "agent",
		FirstName: "Dana",
		LastName:  "Ops",
		IsStaff:   true,
	}
}

func regularUser() *domain.User {
	return &domain.User{
		ID:        uuid.NewString(),
		Username:  "jdoe",
		FirstName: "Jane",
		LastName:  "Doe",
		IsStaff:   false,
	}
}
