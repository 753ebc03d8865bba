package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskops/service-desk/internal/auth"
	"github.com/deskops/service-desk/internal/domain"
	"github.com/deskops/service-desk/internal/events"
	"github.com/deskops/service-desk/internal/repository"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

// RequestService coordinates the service-request lifecycle.
type RequestService struct {
	requests   repository.RequestRepository
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// RequestDependencies bundles collaborators for the request service.
type RequestDependencies struct {
	RequestRepo repository.RequestRepository
	ProfileRepo repository.ProfileRepository
	Dispatcher  events.Dispatcher
	Now         func() time.Time
}

// SubmitInput describes a request submission payload.
type SubmitInput struct {
	Department  string
	Category    domain.RequestCategory
	Description string
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		requests:   deps.RequestRepo,
		profiles:   deps.ProfileRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// Submit creates a new request for the caller. The requester name is
// snapshotted from the caller's display name; a blank department falls back
// to the caller's profile department, or stays empty without a profile.
func (s *RequestService) Submit(ctx context.Context, caller *domain.User, input SubmitInput) (*domain.ServiceRequest, error) {
	fields := map[string]any{}
	if !domain.ValidCategory(input.Category) {
		fields["category"] = "category is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = "description is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid submission", fields)
	}

	department := strings.TrimSpace(input.Department)
	if department == "" {
		profile, err := s.profiles.GetByUserID(ctx, caller.ID)
		switch {
		case err == nil:
			department = profile.Department
		case errors.Is(err, pgx.ErrNoRows):
			// no profile yet, department stays empty
		default:
			return nil, err
		}
	}

	req := &domain.ServiceRequest{
		RequesterID:   caller.ID,
		RequesterName: caller.DisplayName(),
		Department:    department,
		Category:      input.Category,
		Description:   strings.TrimSpace(input.Description),
		Status:        domain.RequestStatusPending,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: req.ID,
		ActorID:   caller.ID,
		Payload: events.RequestCreatedPayload{
			RequesterName: req.RequesterName,
			Department:    req.Department,
			Category:      req.Category,
			Description:   req.Description,
			Status:        req.Status,
		},
	})
	return req, nil
}

// TransitionStatus moves a request to the target status. Staff only; any
// status may move to any other. Transitioning to Resolved stamps
// resolved_at/resolved_by with the caller; leaving Resolved clears both, so
// the resolved fields are non-null exactly when the status is Resolved.
func (s *RequestService) TransitionStatus(ctx context.Context, caller *domain.User, requestID string, target domain.RequestStatus) (*domain.ServiceRequest, error) {
	if err := auth.Authorize(caller, auth.ActionTransitionStatus); err != nil {
		return nil, err
	}
	if !domain.ValidStatus(target) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(target)})
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if target == domain.RequestStatusResolved {
		resolvedAt := s.now()
		resolvedBy := caller.ID
		req.ResolvedAt = &resolvedAt
		req.ResolvedByID = &resolvedBy
	} else {
		req.ResolvedAt = nil
		req.ResolvedByID = nil
	}
	req.Status = target

	if err := s.requests.UpdateStatus(ctx, req); err != nil {
		return nil, err
	}

	if target == domain.RequestStatusResolved {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventRequestResolved,
			RequestID: req.ID,
			ActorID:   caller.ID,
			Payload: events.RequestResolvedPayload{
				RequesterName: req.RequesterName,
				Category:      req.Category,
				ResolvedByID:  caller.ID,
			},
		})
	}
	return req, nil
}

// GetForCaller fetches a request, enforcing visibility: staff see any
// request, others only their own. A denied view is an explicit forbidden
// result, distinct from not-found.
func (s *RequestService) GetForCaller(ctx context.Context, caller *domain.User, requestID string) (*domain.ServiceRequest, error) {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff && req.RequesterID != caller.ID {
		return nil, apperrors.NewForbidden("not your request")
	}
	return req, nil
}

// ListForCaller returns the scoped request set, newest first. Staff may
// filter by status.
func (s *RequestService) ListForCaller(ctx context.Context, caller *domain.User, status *domain.RequestStatus, limit, offset int) ([]domain.ServiceRequest, error) {
	filter := repository.RequestFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	}
	if !caller.IsStaff {
		requesterID := caller.ID
		filter.RequesterID = &requesterID
	}
	return s.requests.List(ctx, filter)
}

func (s *RequestService) getRequest(ctx context.Context, requestID string) (*domain.ServiceRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", nil)
		}
		return nil, err
	}
	return req, nil
}

func (s *RequestService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
