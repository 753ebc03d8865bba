package dto

import (
	"time"

	"github.com/deskops/service-desk/internal/domain"
)

// SubmitRequestRequest payload.
type SubmitRequestRequest struct {
	Department  string                 `json:"department"`
	Category    domain.RequestCategory `json:"category"`
	Description string                 `json:"description"`
}

// TransitionStatusRequest payload.
type TransitionStatusRequest struct {
	Status domain.RequestStatus `json:"status"`
}

// AddStepRequest payload.
type AddStepRequest struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
}

// BatchStepEntry is one entry of a bulk step edit payload.
type BatchStepEntry struct {
	ID          *string `json:"id"`
	StepNumber  int     `json:"step_number"`
	Description string  `json:"description"`
	Delete      bool    `json:"delete"`
}

// BatchStepsRequest payload.
type BatchStepsRequest struct {
	Steps []BatchStepEntry `json:"steps"`
}

// RequestSummary response.
type RequestSummary struct {
	ID            string                 `json:"id"`
	RequesterName string                 `json:"requester_name"`
	Department    string                 `json:"department"`
	Category      domain.RequestCategory `json:"category"`
	Status        domain.RequestStatus   `json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// RequestDetailResponse provides full request info including steps.
type RequestDetailResponse struct {
	ID            string                 `json:"id"`
	RequesterName string                 `json:"requester_name"`
	Department    string                 `json:"department"`
	Category      domain.RequestCategory `json:"category"`
	Description   string                 `json:"description"`
	Status        domain.RequestStatus   `json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	ResolvedAt    *time.Time             `json:"resolved_at"`
	ResolvedByID  *string                `json:"resolved_by_id"`
	Steps         []StepResponse         `json:"steps"`
}

// StepResponse represents one resolution step.
type StepResponse struct {
	ID          string    `json:"id"`
	StepNumber  int       `json:"step_number"`
	Description string    `json:"description"`
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}
