package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskops/service-desk/internal/domain"
)

func newStepFixture(t *testing.T) (*StepService, *fakeStepRepo, *domain.ServiceRequest) {
	t.Helper()
	requests := newFakeRequestRepo()
	steps := newFakeStepRepo()
	req := requests.seed(domain.ServiceRequest{
		RequesterID: "owner",
		Status:      domain.RequestStatusPending,
	})
	svc := NewStepService(StepDependencies{StepRepo: steps, RequestRepo: requests})
	return svc, steps, req
}

func TestAddStep_RequiresStaff(t *testing.T) {
	svc, _, req := newStepFixture(t)
	_, err := svc.AddStep(context.Background(), regularUser(), req.ID, 1, "Replaced toner")
	require.Error(t, err)
	assert.True(t, isCode(err, "FORBIDDEN"))
}

func TestAddStep_ValidatesInput(t *testing.T) {
	svc, _, req := newStepFixture(t)
	staff := staffUser()

	_, err := svc.AddStep(context.Background(), staff, req.ID, 0, "zeroed")
	require.Error(t, err)
	assert.True(t, isCode(err, "VALIDATION_FAILED"))

	_, err = svc.AddStep(context.Background(), staff, req.ID, 1, "   ")
	require.Error(t, err)
	assert.True(t, isCode(err, "VALIDATION_FAILED"))
}

func TestAddStep_MissingRequest(t *testing.T) {
	svc, _, _ := newStepFixture(t)
	_, err := svc.AddStep(context.Background(), staffUser(), "missing", 1, "first")
	require.Error(t, err)
	assert.True(t, isCode(err, "NOT_FOUND"))
}

func TestAddStep_DuplicateNumberFails(t *testing.T) {
	svc, _, req := newStepFixture(t)
	staff := staffUser()

	first, err := svc.AddStep(context.Background(), staff, req.ID, 1, "Replaced toner")
	require.NoError(t, err)

	_, err = svc.AddStep(context.Background(), staff, req.ID, 1, "Rebooted printer")
	require.Error(t, err)
	assert.True(t, isCode(err, "DUPLICATE_STEP"))

	// the existing step is left unmodified
	listed, err := svc.ListSteps(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, "Replaced toner", listed[0].Description)
}

func TestListSteps_SortedAscending(t *testing.T) {
	svc, _, req := newStepFixture(t)
	staff := staffUser()

	for _, number := range []int{3, 1, 2} {
		_, err := svc.AddStep(context.Background(), staff, req.ID, number, "step")
		require.NoError(t, err)
	}

	listed, err := svc.ListSteps(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i, step := range listed {
		assert.Equal(t, i+1, step.StepNumber)
	}
}

func TestDeleteStep_DoesNotRenumber(t *testing.T) {
	svc, _, req := newStepFixture(t)
	staff := staffUser()

	_, err := svc.AddStep(context.Background(), staff, req.ID, 1, "first")
	require.NoError(t, err)
	second, err := svc.AddStep(context.Background(), staff, req.ID, 2, "second")
	require.NoError(t, err)
	_, err = svc.AddStep(context.Background(), staff, req.ID, 3, "third")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStep(context.Background(), staff, req.ID, second.ID))

	listed, err := svc.ListSteps(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 1, listed[0].StepNumber)
	assert.Equal(t, 3, listed[1].StepNumber)
}

func TestDeleteStep_WrongRequestIsNotFound(t *testing.T) {
	svc, _, req := newStepFixture(t)
	staff := staffUser()

	step, err := svc.AddStep(context.Background(), staff, req.ID, 1, "first")
	require.NoError(t, err)

	err = svc.DeleteStep(context.Background(), staff, "other-request", step.ID)
	require.Error(t, err)
	assert.True(t, isCode(err, "NOT_FOUND"))
}

func TestDeleteStep_RequiresStaff(t *testing.T) {
	svc, _, req := newStepFixture(t)
	err := svc.DeleteStep(context.Background(), regularUser(), req.ID, "any")
	require.Error(t, err)
	assert.True(t, isCode(err, "FORBIDDEN"))
}

func TestValidateBatch_FlagsOffendingEntries(t *testing.T) {
	problems := ValidateBatch([]StepBatchInput{
		{StepNumber: 1, Description: "a"},
		{StepNumber: 2, Description: "b"},
		{StepNumber: 1, Description: "c"},
		{StepNumber: 0, Description: "d"},
	})
	assert.Len(t, problems, 2)
	assert.Contains(t, problems[2], "unique")
	assert.Contains(t, problems[3], "positive")
}

func TestValidateBatch_IgnoresDeletedEntries(t *testing.T) {
	problems := ValidateBatch([]StepBatchInput{
		{StepNumber: 1, Description: "keep"},
		{StepNumber: 1, Description: "drop", Delete: true},
	})
	assert.Empty(t, problems)
}

func TestReplaceSteps_AppliesBatch(t *testing.T) {
	svc, _, req := newStepFixture(t)
	staff := staffUser()

	first, err := svc.AddStep(context.Background(), staff, req.ID, 1, "first")
	require.NoError(t, err)
	second, err := svc.AddStep(context.Background(), staff, req.ID, 2, "second")
	require.NoError(t, err)

	err = svc.ReplaceSteps(context.Background(), staff, req.ID, []StepBatchInput{
		{ID: &first.ID, StepNumber: 1, Description: "first, revised"},
		{ID: &second.ID, Delete: true},
		{StepNumber: 5, Description: "fifth"},
	})
	require.NoError(t, err)

	listed, err := svc.ListSteps(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "first, revised", listed[0].Description)
	assert.Equal(t, 5, listed[1].StepNumber)
}

func TestReplaceSteps_DuplicateBatchRejectedWithFieldErrors(t *testing.T) {
	svc, steps, req := newStepFixture(t)
	staff := staffUser()

	err := svc.ReplaceSteps(context.Background(), staff, req.ID, []StepBatchInput{
		{StepNumber: 1, Description: "a"},
		{StepNumber: 1, Description: "b"},
	})
	require.Error(t, err)
	assert.True(t, isCode(err, "VALIDATION_FAILED"))

	listed, listErr := steps.ListByRequest(context.Background(), req.ID)
	require.NoError(t, listErr)
	assert.Empty(t, listed)
}
