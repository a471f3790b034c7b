package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationRecipients_Mapping(t *testing.T) {
	assert.Equal(t, []Role{RoleAdmin}, NotificationRecipients(ActionCreated))
	assert.Equal(t, []Role{RoleTechnician}, NotificationRecipients(ActionAssigned))
	assert.Equal(t, []Role{RoleHeadTechnician}, NotificationRecipients(ActionCompleted))
	assert.Equal(t, []Role{RoleTechnician}, NotificationRecipients(ActionRejected))
	assert.Equal(t, []Role{RoleRequester, RoleTechnician}, NotificationRecipients(ActionApproved))
	assert.Equal(t, []Role{RoleRequester}, NotificationRecipients(ActionClosed))
}

func TestNotificationRecipients_AllActionsCovered(t *testing.T) {
	actions := []string{
		ActionCreated, ActionAssigned, ActionCompleted,
		ActionRejected, ActionApproved, ActionClosed,
	}
	for _, action := range actions {
		assert.NotEmpty(t, NotificationRecipients(action), "действие %q без адресатов", action)
	}
}

func TestNotificationRecipients_UnknownAction(t *testing.T) {
	assert.Empty(t, NotificationRecipients("bogus"))
	assert.Empty(t, NotificationRecipients(""))
}

// Возвращаемый срез — копия: его изменение не должно портить таблицу.
func TestNotificationRecipients_ReturnsCopy(t *testing.T) {
	first := NotificationRecipients(ActionApproved)
	first[0] = RoleAdmin

	second := NotificationRecipients(ActionApproved)
	assert.Equal(t, []Role{RoleRequester, RoleTechnician}, second)
}
