package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/service-desk/internal/api/dto"
	"github.com/deskops/service-desk/internal/auth"
	"github.com/deskops/service-desk/internal/domain"
	"github.com/deskops/service-desk/internal/service"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

// StaffRequestsHandler manages staff triage endpoints.
type StaffRequestsHandler struct {
	requests *service.RequestService
	steps    *service.StepService
}

// NewStaffRequestsHandler constructs handler.
func NewStaffRequestsHandler(requests *service.RequestService, steps *service.StepService) *StaffRequestsHandler {
	return &StaffRequestsHandler{requests: requests, steps: steps}
}

// List GET /staff/requests.
func (h *StaffRequestsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var status *domain.RequestStatus
	if raw := c.Query("status"); raw != "" {
		candidate := domain.RequestStatus(raw)
		if !domain.ValidStatus(candidate) {
			return apperrors.NewValidationError("invalid status filter", map[string]any{"status": raw})
		}
		status = &candidate
	}
	limit, offset := parsePagination(c)
	items, err := h.requests.ListForCaller(c.Context(), principal.User, status, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestSummaries(items)})
}

// Get GET /staff/requests/:id.
func (h *StaffRequestsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	req, err := h.requests.GetForCaller(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	steps, err := h.steps.ListSteps(c.Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(req, steps)})
}

// TransitionStatus PATCH /staff/requests/:id/status.
func (h *StaffRequestsHandler) TransitionStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.requests.TransitionStatus(c.Context(), principal.User, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestSummary(updated)})
}

// AddStep POST /staff/requests/:id/steps.
func (h *StaffRequestsHandler) AddStep(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddStepRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	step, err := h.steps.AddStep(c.Context(), principal.User, c.Params("id"), req.StepNumber, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.StepResponse{
		ID:          step.ID,
		StepNumber:  step.StepNumber,
		Description: step.Description,
		CreatedByID: step.CreatedByID,
		CreatedAt:   step.CreatedAt,
	}})
}

// ReplaceSteps PUT /staff/requests/:id/steps.
func (h *StaffRequestsHandler) ReplaceSteps(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.BatchStepsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entries := make([]service.StepBatchInput, 0, len(req.Steps))
	for _, entry := range req.Steps {
		entries = append(entries, service.StepBatchInput{
			ID:          entry.ID,
			StepNumber:  entry.StepNumber,
			Description: entry.Description,
			Delete:      entry.Delete,
		})
	}
	if err := h.steps.ReplaceSteps(c.Context(), principal.User, c.Params("id"), entries); err != nil {
		return err
	}
	steps, err := h.steps.ListSteps(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	responses := make([]dto.StepResponse, 0, len(steps))
	for _, step := range steps {
		responses = append(responses, dto.StepResponse{
			ID:          step.ID,
			StepNumber:  step.StepNumber,
			Description: step.Description,
			CreatedByID: step.CreatedByID,
			CreatedAt:   step.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": responses})
}

// DeleteStep DELETE /staff/requests/:id/steps/:stepID.
func (h *StaffRequestsHandler) DeleteStep(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.steps.DeleteStep(c.Context(), principal.User, c.Params("id"), c.Params("stepID")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
