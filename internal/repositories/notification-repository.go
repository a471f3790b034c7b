package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	apperrors "cmms-backend/pkg/errors"
)

const notificationTable = "notifications"

const notificationFields = `id, type, work_order_id, work_order_title, message,
	recipient_role, recipient_name, is_read, triggered_by, created_at`

type NotificationRepositoryInterface interface {
	GetForRecipient(ctx context.Context, role string, userName string, limit int) ([]entities.Notification, error)
	CountUnread(ctx context.Context, role string, userName string) (int, error)
	CreateNotification(ctx context.Context, n entities.Notification) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, role string, userName string) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteRead(ctx context.Context, role string, userName string) (int64, error)
}

type NotificationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNotificationRepository(storage *pgxpool.Pool, logger *zap.Logger) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage, logger: logger}
}

func scanNotification(row pgx.Row) (*entities.Notification, error) {
	var n entities.Notification
	var recipientName sql.NullString

	err := row.Scan(
		&n.ID, &n.Type, &n.WorkOrderID, &n.WorkOrderTitle, &n.Message,
		&n.RecipientRole, &recipientName, &n.IsRead, &n.TriggeredBy, &n.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования notification: %w", err)
	}

	if recipientName.Valid {
		n.RecipientName = &recipientName.String
	}
	return &n, nil
}

// recipientCondition: уведомление видно пользователю, если оно адресовано
// его роли и либо не персональное, либо персональное именно ему.
const recipientCondition = "recipient_role = $1 AND (recipient_name IS NULL OR recipient_name = $2)"

func (r *NotificationRepository) GetForRecipient(ctx context.Context, role string, userName string, limit int) ([]entities.Notification, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY created_at DESC LIMIT %d",
		notificationFields, notificationTable, recipientCondition, limit)

	rows, err := r.storage.Query(ctx, query, role, userName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]entities.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, role string, userName string) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s AND is_read = FALSE",
		notificationTable, recipientCondition)
	var n int
	err := r.storage.QueryRow(ctx, query, role, userName).Scan(&n)
	return n, err
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n entities.Notification) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(id, type, work_order_id, work_order_title, message, recipient_role, recipient_name, is_read, triggered_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, notificationTable)

	_, err := r.storage.Exec(ctx, query,
		n.ID, n.Type, n.WorkOrderID, n.WorkOrderTitle, n.Message,
		n.RecipientRole, n.RecipientName, n.IsRead, n.TriggeredBy,
	)
	if err != nil {
		r.logger.Error("не удалось создать уведомление",
			zap.String("work_order_id", n.WorkOrderID), zap.Error(err))
	}
	return err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET is_read = TRUE WHERE id = $1", notificationTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, role string, userName string) error {
	query := fmt.Sprintf("UPDATE %s SET is_read = TRUE WHERE %s", notificationTable, recipientCondition)
	_, err := r.storage.Exec(ctx, query, role, userName)
	return err
}

func (r *NotificationRepository) DeleteNotification(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1", notificationTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) DeleteRead(ctx context.Context, role string, userName string) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s AND is_read = TRUE", notificationTable, recipientCondition)
	tag, err := r.storage.Exec(ctx, query, role, userName)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
