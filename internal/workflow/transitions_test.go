package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTransitionAllowed_ValidTransitions(t *testing.T) {
	assert.True(t, IsTransitionAllowed(StatusOpen, StatusInProgress, RoleAdmin))

	assert.True(t, IsTransitionAllowed(StatusInProgress, StatusPending, RoleTechnician))
	assert.True(t, IsTransitionAllowed(StatusInProgress, StatusPending, RoleAdmin))

	assert.True(t, IsTransitionAllowed(StatusPending, StatusCompleted, RoleHeadTechnician))
	assert.True(t, IsTransitionAllowed(StatusPending, StatusInProgress, RoleHeadTechnician))

	assert.True(t, IsTransitionAllowed(StatusCompleted, StatusClosed, RoleAdmin))
	assert.True(t, IsTransitionAllowed(StatusCompleted, StatusInProgress, RoleAdmin))

	assert.True(t, IsTransitionAllowed(StatusOpen, StatusCanceled, RoleAdmin))
	assert.True(t, IsTransitionAllowed(StatusOpen, StatusOpen, RoleRequester))
}

func TestIsTransitionAllowed_InvalidTransitions(t *testing.T) {
	// Requester не может двигать наряд в работу
	assert.False(t, IsTransitionAllowed(StatusOpen, StatusInProgress, RoleRequester))

	// Техник не может закрывать наряд
	assert.False(t, IsTransitionAllowed(StatusCompleted, StatusClosed, RoleTechnician))

	// Из терминальных статусов переходов нет ни у кого
	for _, role := range AllRoles() {
		for _, to := range AllStatuses() {
			assert.False(t, IsTransitionAllowed(StatusClosed, to, role),
				"Closed → %s не должен быть разрешён для %s", to, role)
			assert.False(t, IsTransitionAllowed(StatusCanceled, to, role),
				"Canceled → %s не должен быть разрешён для %s", to, role)
		}
	}
}

// Любая пара (from, to), отсутствующая в таблице, запрещена для всех ролей.
func TestIsTransitionAllowed_DefaultDeny(t *testing.T) {
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			if _, defined := statusTransitions[transitionKey{from, to}]; defined {
				continue
			}
			for _, role := range AllRoles() {
				assert.False(t, IsTransitionAllowed(from, to, role),
					"неописанный переход %s → %s должен быть запрещён для %s", from, to, role)
			}
		}
	}

	// Неизвестная роль тоже ничего не может
	for key := range statusTransitions {
		assert.False(t, IsTransitionAllowed(key.From, key.To, Role("Intern")))
	}
}

// Таблица переходов и вычислитель прав не должны противоречить друг другу:
// если переход разрешён, у роли должно быть право менять статус в исходном
// статусе. Исключение — Open→Open: это правка открытого наряда, а не смена
// статуса, поэтому Requester проходит по таблице без CanChangeStatus.
func TestTransitionTableAgreesWithPermissions(t *testing.T) {
	for key, roles := range statusTransitions {
		for role := range roles {
			if key.From == StatusOpen && key.To == StatusOpen {
				continue
			}
			perms := PermissionsFor(key.From, role, "tech1", "tech1")
			assert.True(t, perms.CanChangeStatus,
				"переход %s → %s разрешён роли %s, но CanChangeStatus = false", key.From, key.To, role)
		}
	}
}

func TestAllowedNextStatuses_RespectsRole(t *testing.T) {
	adminNext := AllowedNextStatuses(StatusOpen, RoleAdmin)
	assert.ElementsMatch(t, []Status{StatusOpen, StatusInProgress, StatusCanceled}, adminNext)

	requesterNext := AllowedNextStatuses(StatusOpen, RoleRequester)
	assert.Equal(t, []Status{StatusOpen}, requesterNext)

	headNext := AllowedNextStatuses(StatusPending, RoleHeadTechnician)
	assert.ElementsMatch(t, []Status{StatusInProgress, StatusCompleted}, headNext)

	// Никто, кроме Head Technician, наряд в Pending не трогает
	assert.Empty(t, AllowedNextStatuses(StatusPending, RoleTechnician))
	assert.Empty(t, AllowedNextStatuses(StatusPending, RoleAdmin))
	assert.Empty(t, AllowedNextStatuses(StatusPending, RoleRequester))
}

func TestAllowedNextStatuses_Idempotent(t *testing.T) {
	first := AllowedNextStatuses(StatusOpen, RoleAdmin)
	second := AllowedNextStatuses(StatusOpen, RoleAdmin)
	assert.Equal(t, first, second)
}

func TestValidateStatusTransition(t *testing.T) {
	require.NoError(t, ValidateStatusTransition(StatusOpen, StatusInProgress, RoleAdmin))

	err := ValidateStatusTransition(StatusOpen, StatusClosed, RoleRequester)
	require.Error(t, err)

	var transitionErr *TransitionNotAllowedError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusOpen, transitionErr.From)
	assert.Equal(t, StatusClosed, transitionErr.To)
	assert.Equal(t, RoleRequester, transitionErr.Role)
	assert.Contains(t, transitionErr.Error(), "'Open'")
	assert.Contains(t, transitionErr.Error(), "'Closed'")
	assert.Contains(t, transitionErr.Error(), "'Requester'")
}

// Полный жизненный цикл наряда: Open → In Progress → Pending → Completed →
// Closed. По пути проверяем, что чужие роли на каждом шаге отсекаются.
func TestWorkOrderLifecycle_HappyPath(t *testing.T) {
	steps := []struct {
		from, to Status
		role     Role
		denied   []Role
	}{
		{StatusOpen, StatusInProgress, RoleAdmin, []Role{RoleRequester, RoleTechnician, RoleHeadTechnician}},
		{StatusInProgress, StatusPending, RoleTechnician, []Role{RoleRequester, RoleHeadTechnician}},
		{StatusPending, StatusCompleted, RoleHeadTechnician, []Role{RoleRequester, RoleTechnician, RoleAdmin}},
		{StatusCompleted, StatusClosed, RoleAdmin, []Role{RoleRequester, RoleTechnician, RoleHeadTechnician}},
	}

	for _, step := range steps {
		require.NoError(t, ValidateStatusTransition(step.from, step.to, step.role),
			"%s → %s должен быть разрешён роли %s", step.from, step.to, step.role)

		for _, denied := range step.denied {
			err := ValidateStatusTransition(step.from, step.to, denied)
			var transitionErr *TransitionNotAllowedError
			require.ErrorAs(t, err, &transitionErr,
				"%s → %s должен быть запрещён роли %s", step.from, step.to, denied)
		}
	}
}

// Цикл отклонения: вернуть наряд из Pending в работу может только Head Technician.
func TestWorkOrderLifecycle_RejectLoop(t *testing.T) {
	require.NoError(t, ValidateStatusTransition(StatusPending, StatusInProgress, RoleHeadTechnician))

	for _, role := range []Role{RoleTechnician, RoleAdmin, RoleRequester} {
		err := ValidateStatusTransition(StatusPending, StatusInProgress, role)
		assert.Error(t, err, "Pending → In Progress должен быть запрещён роли %s", role)
	}
}

func TestParseStatusAndRole(t *testing.T) {
	assert.Equal(t, StatusInProgress, ParseStatus("In Progress"))
	assert.Equal(t, Status(""), ParseStatus("in progress"))
	assert.Equal(t, Status(""), ParseStatus("Archived"))

	assert.Equal(t, RoleHeadTechnician, ParseRole("Head Technician"))
	assert.Equal(t, Role(""), ParseRole("Manager"))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusClosed.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.False(t, StatusOpen.IsTerminal())
	assert.False(t, StatusCompleted.IsTerminal())
}
