package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deskops/service-desk/internal/domain"
	apperrors "github.com/deskops/service-desk/pkg/util"
)

func TestAuthorize_NilUserIsForbidden(t *testing.T) {
	err := Authorize(nil, ActionTransitionStatus)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAuthorize_StaffActionsRequireStaff(t *testing.T) {
	regular := &domain.User{ID: "u1", Username: "jdoe"}
	staff := &domain.User{ID: "u2", Username: "agent", IsStaff: true}

	for _, action := range []Action{ActionTransitionStatus, ActionManageSteps, ActionViewAllRequests, ActionRegisterUsers} {
		assert.True(t, apperrors.IsCode(Authorize(regular, action), "FORBIDDEN"), "action %s", action)
		assert.NoError(t, Authorize(staff, action), "action %s", action)
	}
}

func TestAuthorize_UnlistedActionAllowsAnyAuthenticatedUser(t *testing.T) {
	regular := &domain.User{ID: "u1", Username: "jdoe"}
	assert.NoError(t, Authorize(regular, Action("request.read_own")))
}
