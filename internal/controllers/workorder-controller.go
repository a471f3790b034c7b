package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/services"
	"cmms-backend/pkg/utils"
)

type WorkOrderController struct {
	workOrderService services.WorkOrderServiceInterface
	reportService    services.ReportServiceInterface
	logger           *zap.Logger
}

func NewWorkOrderController(
	workOrderService services.WorkOrderServiceInterface,
	reportService services.ReportServiceInterface,
	logger *zap.Logger,
) *WorkOrderController {
	return &WorkOrderController{
		workOrderService: workOrderService,
		reportService:    reportService,
		logger:           logger,
	}
}

func (c *WorkOrderController) GetWorkOrders(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	workOrders, total, err := c.workOrderService.GetWorkOrders(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, workOrders, "Список нарядов получен", http.StatusOK, total)
}

func (c *WorkOrderController) FindWorkOrder(ctx echo.Context) error {
	wo, err := c.workOrderService.FindWorkOrder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Наряд получен", http.StatusOK)
}

func (c *WorkOrderController) GetAllowedStatuses(ctx echo.Context) error {
	statuses, err := c.workOrderService.GetAllowedStatuses(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, statuses, "Доступные статусы получены", http.StatusOK)
}

func (c *WorkOrderController) CreateWorkOrder(ctx echo.Context) error {
	var payload dto.CreateWorkOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.workOrderService.CreateWorkOrder(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Наряд создан", http.StatusCreated)
}

func (c *WorkOrderController) UpdateWorkOrder(ctx echo.Context) error {
	var payload dto.UpdateWorkOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.workOrderService.UpdateWorkOrder(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Наряд обновлён", http.StatusOK)
}

// TechnicianUpdate — отчёт техника: наряд уходит на проверку.
func (c *WorkOrderController) TechnicianUpdate(ctx echo.Context) error {
	var payload dto.TechnicianUpdateDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.workOrderService.TechnicianUpdate(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Отчёт принят, наряд на проверке", http.StatusOK)
}

func (c *WorkOrderController) ApproveWorkOrder(ctx echo.Context) error {
	var payload struct {
		AdminReview *string `json:"admin_review,omitempty"`
	}
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.workOrderService.ApproveWorkOrder(ctx.Request().Context(), ctx.Param("id"), payload.AdminReview)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Работа принята", http.StatusOK)
}

func (c *WorkOrderController) RejectWorkOrder(ctx echo.Context) error {
	var payload dto.RejectWorkOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	wo, err := c.workOrderService.RejectWorkOrder(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Работа отклонена", http.StatusOK)
}

func (c *WorkOrderController) CloseWorkOrder(ctx echo.Context) error {
	wo, err := c.workOrderService.CloseWorkOrder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, wo, "Наряд закрыт", http.StatusOK)
}

func (c *WorkOrderController) DeleteWorkOrder(ctx echo.Context) error {
	if err := c.workOrderService.DeleteWorkOrder(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Наряд удалён", http.StatusOK)
}

// ExportWorkOrders отдаёт Excel-файл с нарядами по текущему фильтру.
func (c *WorkOrderController) ExportWorkOrders(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	buf, fileName, err := c.reportService.ExportWorkOrders(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
