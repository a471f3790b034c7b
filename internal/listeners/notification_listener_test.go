package listeners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	appevents "cmms-backend/internal/events"
	"cmms-backend/internal/workflow"
	"cmms-backend/pkg/utils"
)

type fakeNotificationRepo struct {
	created []entities.Notification
}

func (r *fakeNotificationRepo) GetForRecipient(ctx context.Context, role, userName string, limit int) ([]entities.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, role, userName string) (int, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, n entities.Notification) error {
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error { return nil }

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, role, userName string) error {
	return nil
}

func (r *fakeNotificationRepo) DeleteNotification(ctx context.Context, id string) error { return nil }

func (r *fakeNotificationRepo) DeleteRead(ctx context.Context, role, userName string) (int64, error) {
	return 0, nil
}

func rolesOf(notifications []entities.Notification) []workflow.Role {
	var roles []workflow.Role
	for _, n := range notifications {
		roles = append(roles, workflow.Role(n.RecipientRole))
	}
	return roles
}

// На каждое действие слушатель создаёт ровно одну запись на каждую
// роль-адресата из таблицы рассылки.
func TestNotificationListener_RecipientsPerAction(t *testing.T) {
	actions := []string{
		workflow.ActionCreated,
		workflow.ActionAssigned,
		workflow.ActionCompleted,
		workflow.ActionRejected,
		workflow.ActionApproved,
		workflow.ActionClosed,
	}

	for _, action := range actions {
		t.Run(action, func(t *testing.T) {
			repo := &fakeNotificationRepo{}
			listener := NewNotificationListener(repo, zap.NewNop())

			event := appevents.WorkOrderActionEvent{
				Action:         action,
				WorkOrderID:    "WO-AB12CD34",
				WorkOrderTitle: "Замена подшипника",
				TriggeredBy:    "Админ",
			}
			require.NoError(t, listener.Handle(context.Background(), event))

			expected := workflow.NotificationRecipients(action)
			assert.ElementsMatch(t, expected, rolesOf(repo.created))
		})
	}
}

func TestNotificationListener_Personalization(t *testing.T) {
	repo := &fakeNotificationRepo{}
	listener := NewNotificationListener(repo, zap.NewNop())

	assignedTo := "Игорь"
	createdBy := "Мария"
	event := appevents.WorkOrderActionEvent{
		Action:         workflow.ActionApproved,
		WorkOrderID:    "WO-AB12CD34",
		WorkOrderTitle: "Замена подшипника",
		TriggeredBy:    "Админ",
		AssignedTo:     &assignedTo,
		CreatedBy:      &createdBy,
	}
	require.NoError(t, listener.Handle(context.Background(), event))

	byRole := map[string]entities.Notification{}
	for _, n := range repo.created {
		byRole[n.RecipientRole] = n
	}

	tech, ok := byRole[string(workflow.RoleTechnician)]
	require.True(t, ok, "техник должен получать уведомление о подтверждении")
	assert.Equal(t, "Игорь", utils.SafeDeref(tech.RecipientName))

	req, ok := byRole[string(workflow.RoleRequester)]
	require.True(t, ok)
	assert.Equal(t, "Мария", utils.SafeDeref(req.RecipientName))

	// Уведомление о создании адресовано всей роли админов без персонализации.
	createdRepo := &fakeNotificationRepo{}
	createdListener := NewNotificationListener(createdRepo, zap.NewNop())
	event.Action = workflow.ActionCreated
	require.NoError(t, createdListener.Handle(context.Background(), event))
	require.Len(t, createdRepo.created, 1)
	assert.Equal(t, string(workflow.RoleAdmin), createdRepo.created[0].RecipientRole)
	assert.Nil(t, createdRepo.created[0].RecipientName)
}

func TestNotificationListener_UnknownEventType(t *testing.T) {
	repo := &fakeNotificationRepo{}
	listener := NewNotificationListener(repo, zap.NewNop())

	err := listener.Handle(context.Background(), stubEvent{})
	assert.Error(t, err)
	assert.Empty(t, repo.created)
}

type stubEvent struct{}

func (stubEvent) Name() string { return "stub" }
