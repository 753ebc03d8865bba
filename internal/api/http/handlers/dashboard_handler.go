package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskops/service-desk/internal/auth"
	"github.com/deskops/service-desk/internal/service"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

// DashboardHandler serves the role-scoped dashboard aggregates.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview GET /dashboard.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.dashboard.Overview(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
