package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/services"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/utils"
)

type PMController struct {
	pmService services.PMServiceInterface
	logger    *zap.Logger
}

func NewPMController(pmService services.PMServiceInterface, logger *zap.Logger) *PMController {
	return &PMController{pmService: pmService, logger: logger}
}

func (c *PMController) GetPlans(ctx echo.Context) error {
	activeOnly, _ := strconv.ParseBool(ctx.QueryParam("active"))

	plans, err := c.pmService.GetPlans(ctx.Request().Context(), activeOnly)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, plans, "Планы ППР получены", http.StatusOK)
}

func (c *PMController) CreatePlan(ctx echo.Context) error {
	var payload dto.CreatePMPlanDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	plan, err := c.pmService.CreatePlan(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, plan, "План ППР создан", http.StatusCreated)
}

func (c *PMController) UpdatePlan(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	var payload dto.UpdatePMPlanDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	plan, err := c.pmService.UpdatePlan(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, plan, "План ППР обновлён", http.StatusOK)
}

func (c *PMController) DeletePlan(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	if err := c.pmService.DeletePlan(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "План ППР удалён", http.StatusOK)
}

// RunNow — ручной запуск генерации нарядов, не дожидаясь расписания.
func (c *PMController) RunNow(ctx echo.Context) error {
	generated, err := c.pmService.GenerateDueWorkOrders(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int{"generated": generated},
		"Генерация нарядов выполнена", http.StatusOK)
}
