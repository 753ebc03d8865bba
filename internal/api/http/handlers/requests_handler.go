package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/service-desk/internal/api/dto"
	"github.com/deskops/service-desk/internal/auth"
	"github.com/deskops/service-desk/internal/domain"
	"github.com/deskops/service-desk/internal/service"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

// RequestsHandler manages end-user request endpoints.
type RequestsHandler struct {
	requests *service.RequestService
	steps    *service.StepService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requests *service.RequestService, steps *service.StepService) *RequestsHandler {
	return &RequestsHandler{requests: requests, steps: steps}
}

// Submit POST /requests.
func (h *RequestsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubmitRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	created, err := h.requests.Submit(c.Context(), principal.User, service.SubmitInput{
		Department:  req.Department,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestSummary(created)})
}

// ListMine GET /requests.
func (h *RequestsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := parsePagination(c)
	items, err := h.requests.ListForCaller(c.Context(), principal.User, nil, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestSummaries(items)})
}

// Get GET /requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
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

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func requestSummary(req *domain.ServiceRequest) dto.RequestSummary {
	return dto.RequestSummary{
		ID:            req.ID,
		RequesterName: req.RequesterName,
		Department:    req.Department,
		Category:      req.Category,
		Status:        req.Status,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
}

func requestSummaries(items []domain.ServiceRequest) []dto.RequestSummary {
	result := make([]dto.RequestSummary, 0, len(items))
	for i := range items {
		result = append(result, requestSummary(&items[i]))
	}
	return result
}

func requestDetail(req *domain.ServiceRequest, steps []domain.ResolutionStep) dto.RequestDetailResponse {
	stepResponses := make([]dto.StepResponse, 0, len(steps))
	for _, step := range steps {
		stepResponses = append(stepResponses, dto.StepResponse{
			ID:          step.ID,
			StepNumber:  step.StepNumber,
			Description: step.Description,
			CreatedByID: step.CreatedByID,
			CreatedAt:   step.CreatedAt,
		})
	}
	return dto.RequestDetailResponse{
		ID:            req.ID,
		RequesterName: req.RequesterName,
		Department:    req.Department,
		Category:      req.Category,
		Description:   req.Description,
		Status:        req.Status,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
		ResolvedAt:    req.ResolvedAt,
		ResolvedByID:  req.ResolvedByID,
		Steps:         stepResponses,
	}
}
