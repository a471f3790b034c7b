package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmms-backend/internal/entities"
	"cmms-backend/internal/workflow"
	"cmms-backend/pkg/contextkeys"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/utils"
)

func ctxWithActor(name, role string) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, "user-1")
	ctx = context.WithValue(ctx, contextkeys.UserNameKey, name)
	return context.WithValue(ctx, contextkeys.UserRoleKey, role)
}

func TestActorFromCtx(t *testing.T) {
	role, name, err := actorFromCtx(ctxWithActor("Алексей", "Admin"))
	require.NoError(t, err)
	assert.Equal(t, workflow.RoleAdmin, role)
	assert.Equal(t, "Алексей", name)
}

func TestActorFromCtx_UnknownRole(t *testing.T) {
	_, _, err := actorFromCtx(ctxWithActor("Алексей", "Stakeholder"))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestActorFromCtx_MissingContext(t *testing.T) {
	_, _, err := actorFromCtx(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFoundInContext)
}

func TestActionForTransition(t *testing.T) {
	testCases := []struct {
		from, to workflow.Status
		expected []string
	}{
		{workflow.StatusInProgress, workflow.StatusPending, []string{workflow.ActionCompleted}},
		{workflow.StatusPending, workflow.StatusCompleted, []string{workflow.ActionApproved}},
		{workflow.StatusPending, workflow.StatusInProgress, []string{workflow.ActionRejected}},
		{workflow.StatusCompleted, workflow.StatusClosed, []string{workflow.ActionClosed}},
		{workflow.StatusOpen, workflow.StatusInProgress, nil},
		{workflow.StatusOpen, workflow.StatusOpen, nil},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, actionForTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplyStatusAudit(t *testing.T) {
	wo := &entities.WorkOrder{Status: string(workflow.StatusPending)}

	applyStatusAudit(wo, workflow.StatusCompleted, "Мария")
	require.NotNil(t, wo.ApprovedBy)
	assert.Equal(t, "Мария", *wo.ApprovedBy)
	assert.NotNil(t, wo.ApprovedAt)
	assert.Nil(t, wo.ClosedBy)

	applyStatusAudit(wo, workflow.StatusClosed, "Админ")
	require.NotNil(t, wo.ClosedBy)
	assert.Equal(t, "Админ", *wo.ClosedBy)
}

// Техник меняет статус только своего наряда — и через общий PATCH,
// и через выделенные операции.
func TestTechnicianAssignmentOK(t *testing.T) {
	wo := &entities.WorkOrder{
		Status:     string(workflow.StatusInProgress),
		AssignedTo: utils.ToPtr("Игорь"),
	}

	assert.True(t, technicianAssignmentOK(workflow.RoleTechnician, wo, "Игорь"))
	assert.False(t, technicianAssignmentOK(workflow.RoleTechnician, wo, "Павел"))

	// Остальным ролям назначение не мешает.
	assert.True(t, technicianAssignmentOK(workflow.RoleAdmin, wo, "Павел"))
	assert.True(t, technicianAssignmentOK(workflow.RoleHeadTechnician, wo, "Павел"))

	// Неназначенный наряд чужой для любого техника.
	wo.AssignedTo = nil
	assert.False(t, technicianAssignmentOK(workflow.RoleTechnician, wo, "Игорь"))
}

func TestMergeImageIDs(t *testing.T) {
	merged := mergeImageIDs([]string{"img-1", "img-2"}, []string{"img-2", "img-3"})
	assert.Equal(t, []string{"img-1", "img-2", "img-3"}, merged)

	assert.Equal(t, []string{"img-1"}, mergeImageIDs(nil, []string{"img-1", "img-1"}))
	assert.Equal(t, []string{"img-1"}, mergeImageIDs([]string{"img-1"}, nil))
}

func TestToWorkOrderDTO_Permissions(t *testing.T) {
	now := time.Now()
	wo := &entities.WorkOrder{
		ID:         "WO-AB12CD34",
		Title:      "Замена подшипника",
		Status:     string(workflow.StatusInProgress),
		AssignedTo: utils.ToPtr("Игорь"),
		ImageIDs:   []string{},
	}
	wo.CreatedAt = now

	// Назначенный техник видит свои права.
	out := toWorkOrderDTO(wo, workflow.RoleTechnician, "Игорь")
	assert.True(t, out.Permissions.CanEdit)
	assert.True(t, out.Permissions.CanChangeStatus)
	assert.False(t, out.Permissions.CanDelete)

	// Чужой техник — только просмотр.
	other := toWorkOrderDTO(wo, workflow.RoleTechnician, "Павел")
	assert.False(t, other.Permissions.CanEdit)
	assert.False(t, other.Permissions.CanChangeStatus)
	assert.True(t, other.Permissions.CanView)

	assert.Equal(t, now.Format(timeFormat), out.CreatedAt)
	assert.Empty(t, out.ClosedAt)
}
