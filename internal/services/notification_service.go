package services

import (
	"context"

	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	"cmms-backend/internal/repositories"
)

type NotificationServiceInterface interface {
	GetMyNotifications(ctx context.Context, limit int) ([]dto.NotificationDTO, int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteRead(ctx context.Context) (int64, error)
}

type NotificationService struct {
	notificationRepo repositories.NotificationRepositoryInterface
	logger           *zap.Logger
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepositoryInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

// GetMyNotifications — лента текущего пользователя плюс счётчик непрочитанных.
func (s *NotificationService) GetMyNotifications(ctx context.Context, limit int) ([]dto.NotificationDTO, int, error) {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	notifications, err := s.notificationRepo.GetForRecipient(ctx, string(role), userName, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, string(role), userName)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.NotificationDTO, 0, len(notifications))
	for i := range notifications {
		dtos = append(dtos, toNotificationDTO(&notifications[i]))
	}
	return dtos, unread, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.notificationRepo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.notificationRepo.MarkAllRead(ctx, string(role), userName)
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id string) error {
	return s.notificationRepo.DeleteNotification(ctx, id)
}

func (s *NotificationService) DeleteRead(ctx context.Context) (int64, error) {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return 0, err
	}
	return s.notificationRepo.DeleteRead(ctx, string(role), userName)
}

func toNotificationDTO(n *entities.Notification) dto.NotificationDTO {
	return dto.NotificationDTO{
		ID:             n.ID,
		Type:           n.Type,
		WorkOrderID:    n.WorkOrderID,
		WorkOrderTitle: n.WorkOrderTitle,
		Message:        n.Message,
		RecipientRole:  n.RecipientRole,
		RecipientName:  n.RecipientName,
		IsRead:         n.IsRead,
		TriggeredBy:    n.TriggeredBy,
		CreatedAt:      n.CreatedAt.Format(timeFormat),
	}
}
