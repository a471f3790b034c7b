package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmms-backend/internal/services"
	"cmms-backend/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(
	notificationService services.NotificationServiceInterface,
	logger *zap.Logger,
) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	notifications, unread, err := c.notificationService.GetMyNotifications(ctx.Request().Context(), limit)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	body := map[string]interface{}{
		"list":         notifications,
		"unread_count": unread,
	}
	return utils.SuccessResponse(ctx, body, "Уведомления получены", http.StatusOK)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	if err := c.notificationService.MarkRead(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Уведомление прочитано", http.StatusOK)
}

func (c *NotificationController) MarkAllRead(ctx echo.Context) error {
	if err := c.notificationService.MarkAllRead(ctx.Request().Context()); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Все уведомления прочитаны", http.StatusOK)
}

func (c *NotificationController) DeleteNotification(ctx echo.Context) error {
	if err := c.notificationService.DeleteNotification(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Уведомление удалено", http.StatusOK)
}

func (c *NotificationController) DeleteRead(ctx echo.Context) error {
	deleted, err := c.notificationService.DeleteRead(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int64{"deleted": deleted},
		"Прочитанные уведомления удалены", http.StatusOK)
}
