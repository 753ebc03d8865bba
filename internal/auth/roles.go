package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskops/service-desk/internal/domain"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

// Action names a privileged operation subject to an authorization check.
type Action string

const (
	ActionTransitionStatus Action = "request.transition_status"
	ActionManageSteps      Action = "request.manage_steps"
	ActionViewAllRequests  Action = "request.view_all"
	ActionRegisterUsers    Action = "user.register"
)

// staffActions lists the operations reserved for staff callers.
var staffActions = map[Action]struct{}{
	ActionTransitionStatus: {},
	ActionManageSteps:      {},
	ActionViewAllRequests:  {},
	ActionRegisterUsers:    {},
}

// Authorize performs the capability check for a caller and action, returning
// a typed forbidden error on denial. Every privileged handler calls this once
// at its boundary instead of branching on is-staff inline.
func Authorize(user *domain.User, action Action) error {
	if user == nil {
		return apperrors.NewForbidden("authentication required")
	}
	if _, staffOnly := staffActions[action]; staffOnly && !user.IsStaff {
		return apperrors.NewForbidden("staff privileges required")
	}
	return nil
}

// RequireStaff ensures the authenticated principal is a staff member.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsStaff() {
			return apperrors.NewForbidden("staff privileges required")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
