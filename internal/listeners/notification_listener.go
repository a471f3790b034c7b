package listeners

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	appevents "cmms-backend/internal/events"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	"cmms-backend/pkg/eventbus"
)

// NotificationListener превращает события рабочего процесса в записи
// уведомлений. Роли-адресаты определяет workflow.NotificationRecipients;
// слушатель добавляет персонализацию (назначенный техник, автор заявки).
type NotificationListener struct {
	notificationRepo repositories.NotificationRepositoryInterface
	logger           *zap.Logger
}

func NewNotificationListener(
	notificationRepo repositories.NotificationRepositoryInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{notificationRepo: notificationRepo, logger: logger}
}

// Register подписывает слушателя на все события нарядов.
func (l *NotificationListener) Register(bus *eventbus.Bus) {
	for _, name := range appevents.EventNames() {
		bus.Subscribe(name, l.Handle)
	}
}

func (l *NotificationListener) Handle(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(appevents.WorkOrderActionEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}

	roles := workflow.NotificationRecipients(e.Action)
	for _, role := range roles {
		n := entities.Notification{
			ID:             uuid.New().String(),
			Type:           e.Action,
			WorkOrderID:    e.WorkOrderID,
			WorkOrderTitle: e.WorkOrderTitle,
			Message:        messageFor(e),
			RecipientRole:  string(role),
			RecipientName:  personalRecipient(role, e),
			TriggeredBy:    e.TriggeredBy,
		}
		if err := l.notificationRepo.CreateNotification(ctx, n); err != nil {
			return err
		}
	}

	l.logger.Debug("уведомления созданы",
		zap.String("action", e.Action),
		zap.String("work_order_id", e.WorkOrderID),
		zap.Int("recipients", len(roles)),
	)
	return nil
}

// personalRecipient сужает уведомление до конкретного пользователя, когда
// адресат известен: техник — тот, кто назначен, заявитель — автор наряда.
// nil означает «всем пользователям роли».
func personalRecipient(role workflow.Role, e appevents.WorkOrderActionEvent) *string {
	switch role {
	case workflow.RoleTechnician:
		return e.AssignedTo
	case workflow.RoleRequester:
		return e.CreatedBy
	default:
		return nil
	}
}

func messageFor(e appevents.WorkOrderActionEvent) string {
	switch e.Action {
	case workflow.ActionCreated:
		return fmt.Sprintf("Создан новый наряд «%s»", e.WorkOrderTitle)
	case workflow.ActionAssigned:
		return fmt.Sprintf("Вам назначен наряд «%s»", e.WorkOrderTitle)
	case workflow.ActionCompleted:
		return fmt.Sprintf("Наряд «%s» завершён и ожидает проверки", e.WorkOrderTitle)
	case workflow.ActionRejected:
		return fmt.Sprintf("Наряд «%s» отклонён и возвращён в работу", e.WorkOrderTitle)
	case workflow.ActionApproved:
		return fmt.Sprintf("Наряд «%s» подтверждён", e.WorkOrderTitle)
	case workflow.ActionClosed:
		return fmt.Sprintf("Наряд «%s» закрыт", e.WorkOrderTitle)
	default:
		return fmt.Sprintf("Наряд «%s»: %s", e.WorkOrderTitle, e.Action)
	}
}
