package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/deskops/service-desk/internal/auth"
	"github.com/deskops/service-desk/internal/domain"
	"github.com/deskops/service-desk/internal/repository"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

// StepService maintains the ordered resolution-step ledger of a request.
type StepService struct {
	steps    repository.StepRepository
	requests repository.RequestRepository
}

// StepDependencies bundles collaborators for the step service.
type StepDependencies struct {
	StepRepo    repository.StepRepository
	RequestRepo repository.RequestRepository
}

// StepBatchInput is one entry of a bulk step edit.
type StepBatchInput struct {
	ID          *string
	StepNumber  int
	Description string
	Delete      bool
}

// NewStepService constructs the service.
func NewStepService(deps StepDependencies) *StepService {
	return &StepService{steps: deps.StepRepo, requests: deps.RequestRepo}
}

// AddStep appends a step to a request's ledger. Staff only. The step number
// must be positive and unique within the request; the storage constraint
// backs the pre-check so concurrent duplicates still surface as the same
// error code. Adding a step never changes the request status.
func (s *StepService) AddStep(ctx context.Context, caller *domain.User, requestID string, stepNumber int, description string) (*domain.ResolutionStep, error) {
	if err := auth.Authorize(caller, auth.ActionManageSteps); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if stepNumber < 1 {
		fields["step_number"] = "step number must be a positive integer"
	}
	if strings.TrimSpace(description) == "" {
		fields["description"] = "description is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid step", fields)
	}

	if err := s.ensureRequestExists(ctx, requestID); err != nil {
		return nil, err
	}

	existing, err := s.steps.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	for _, step := range existing {
		if step.StepNumber == stepNumber {
			return nil, apperrors.NewDuplicateStep(stepNumber)
		}
	}

	step := &domain.ResolutionStep{
		RequestID:   requestID,
		StepNumber:  stepNumber,
		Description: strings.TrimSpace(description),
		CreatedByID: caller.ID,
	}
	if err := s.steps.Create(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// DeleteStep removes a step from a request's ledger. Staff only. Remaining
// steps keep their numbers.
func (s *StepService) DeleteStep(ctx context.Context, caller *domain.User, requestID, stepID string) error {
	if err := auth.Authorize(caller, auth.ActionManageSteps); err != nil {
		return err
	}
	if err := s.steps.Delete(ctx, requestID, stepID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("step", nil)
		}
		return err
	}
	return nil
}

// ListSteps returns a request's steps ordered ascending by step number.
func (s *StepService) ListSteps(ctx context.Context, requestID string) ([]domain.ResolutionStep, error) {
	return s.steps.ListByRequest(ctx, requestID)
}

// ValidateBatch checks a bulk edit for duplicate step numbers among the
// entries not marked for deletion. The result maps entry index to a
// field-level message, so a bad batch reports the offending rows instead of
// failing opaquely.
func ValidateBatch(entries []StepBatchInput) map[int]string {
	problems := map[int]string{}
	seen := map[int]bool{}
	for i, entry := range entries {
		if entry.Delete {
			continue
		}
		if entry.StepNumber < 1 {
			problems[i] = "step number must be a positive integer"
			continue
		}
		if seen[entry.StepNumber] {
			problems[i] = "step numbers must be unique"
			continue
		}
		seen[entry.StepNumber] = true
	}
	return problems
}

// ReplaceSteps applies a bulk step edit atomically: entries marked for
// deletion are removed, the rest are inserted or updated. Staff only.
func (s *StepService) ReplaceSteps(ctx context.Context, caller *domain.User, requestID string, entries []StepBatchInput) error {
	if err := auth.Authorize(caller, auth.ActionManageSteps); err != nil {
		return err
	}
	if problems := ValidateBatch(entries); len(problems) > 0 {
		details := map[string]any{}
		for idx, msg := range problems {
			details[fmt.Sprintf("steps[%d].step_number", idx)] = msg
		}
		return apperrors.NewValidationError("invalid step batch", details)
	}
	if err := s.ensureRequestExists(ctx, requestID); err != nil {
		return err
	}

	var deleteIDs []string
	var upserts []repository.StepBatchEntry
	for _, entry := range entries {
		if entry.Delete {
			if entry.ID != nil {
				deleteIDs = append(deleteIDs, *entry.ID)
			}
			continue
		}
		if strings.TrimSpace(entry.Description) == "" {
			return apperrors.NewValidationError("invalid step batch", map[string]any{"description": "description is required"})
		}
		upserts = append(upserts, repository.StepBatchEntry{
			ID:          entry.ID,
			StepNumber:  entry.StepNumber,
			Description: strings.TrimSpace(entry.Description),
			CreatedByID: caller.ID,
		})
	}

	if err := s.steps.Replace(ctx, requestID, deleteIDs, upserts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("step", nil)
		}
		return err
	}
	return nil
}

func (s *StepService) ensureRequestExists(ctx context.Context, requestID string) error {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("request", nil)
		}
		return err
	}
	return nil
}
