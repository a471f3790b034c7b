package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsFor_Admin(t *testing.T) {
	open := PermissionsFor(StatusOpen, RoleAdmin, "", "")
	assert.True(t, open.CanEdit)
	assert.True(t, open.CanChangeStatus)
	assert.True(t, open.CanAssign)
	assert.True(t, open.CanDelete)
	assert.True(t, open.CanView)

	closed := PermissionsFor(StatusClosed, RoleAdmin, "", "")
	assert.False(t, closed.CanEdit)
	assert.True(t, closed.CanChangeStatus)
	assert.True(t, closed.CanAssign)
	assert.False(t, closed.CanDelete)

	canceled := PermissionsFor(StatusCanceled, RoleAdmin, "", "")
	assert.False(t, canceled.CanEdit)
	assert.False(t, canceled.CanDelete)
}

func TestPermissionsFor_HeadTechnician(t *testing.T) {
	pending := PermissionsFor(StatusPending, RoleHeadTechnician, "", "")
	assert.True(t, pending.CanEdit)
	assert.True(t, pending.CanChangeStatus)
	assert.False(t, pending.CanAssign)
	assert.False(t, pending.CanDelete)

	// Вне Pending у Head Technician полномочий нет
	for _, status := range []Status{StatusOpen, StatusInProgress, StatusCompleted, StatusClosed, StatusCanceled} {
		perms := PermissionsFor(status, RoleHeadTechnician, "", "")
		assert.False(t, perms.CanEdit, "CanEdit должен быть false на статусе %s", status)
		assert.False(t, perms.CanChangeStatus, "CanChangeStatus должен быть false на статусе %s", status)
	}
}

func TestPermissionsFor_Requester(t *testing.T) {
	open := PermissionsFor(StatusOpen, RoleRequester, "", "")
	assert.True(t, open.CanEdit)
	assert.False(t, open.CanChangeStatus)
	assert.False(t, open.CanAssign)
	assert.True(t, open.CanDelete)

	inProgress := PermissionsFor(StatusInProgress, RoleRequester, "", "")
	assert.False(t, inProgress.CanEdit)
	assert.False(t, inProgress.CanDelete)
}

func TestPermissionsFor_TechnicianAssignmentGating(t *testing.T) {
	assigned := PermissionsFor(StatusInProgress, RoleTechnician, "alice", "alice")
	assert.True(t, assigned.CanEdit)
	assert.True(t, assigned.CanChangeStatus)
	assert.False(t, assigned.CanAssign)
	assert.False(t, assigned.CanDelete)

	notAssigned := PermissionsFor(StatusInProgress, RoleTechnician, "alice", "bob")
	assert.False(t, notAssigned.CanEdit)
	assert.False(t, notAssigned.CanChangeStatus)
	assert.True(t, notAssigned.CanView)

	// Имена сравниваются с учётом регистра, без нормализации
	caseMismatch := PermissionsFor(StatusInProgress, RoleTechnician, "Alice", "alice")
	assert.False(t, caseMismatch.CanEdit)

	// Назначенный техник вне In Progress тоже бесправен
	for _, status := range []Status{StatusOpen, StatusPending, StatusCompleted, StatusClosed, StatusCanceled} {
		perms := PermissionsFor(status, RoleTechnician, "alice", "alice")
		assert.False(t, perms.CanEdit, "CanEdit должен быть false на статусе %s", status)
		assert.False(t, perms.CanChangeStatus, "CanChangeStatus должен быть false на статусе %s", status)
	}
}

// Удалять наряд можно только пока он Open, и только Admin или Requester.
func TestPermissionsFor_DeleteWindow(t *testing.T) {
	for _, status := range AllStatuses() {
		for _, role := range AllRoles() {
			perms := PermissionsFor(status, role, "alice", "alice")
			expected := status == StatusOpen && (role == RoleAdmin || role == RoleRequester)
			assert.Equal(t, expected, perms.CanDelete,
				"CanDelete(%s, %s) должен быть %v", status, role, expected)
		}
	}
}

func TestPermissionsFor_UnknownRole(t *testing.T) {
	perms := PermissionsFor(StatusOpen, Role("Manager"), "", "")
	assert.False(t, perms.CanEdit)
	assert.False(t, perms.CanChangeStatus)
	assert.False(t, perms.CanAssign)
	assert.False(t, perms.CanDelete)
	assert.True(t, perms.CanView)
}

func TestPermissionsFor_ViewNeverDenied(t *testing.T) {
	for _, status := range AllStatuses() {
		for _, role := range AllRoles() {
			assert.True(t, PermissionsFor(status, role, "x", "y").CanView)
		}
	}
}

func TestPermissionsFor_Idempotent(t *testing.T) {
	first := PermissionsFor(StatusInProgress, RoleTechnician, "alice", "alice")
	second := PermissionsFor(StatusInProgress, RoleTechnician, "alice", "alice")
	assert.Equal(t, first, second)
}
