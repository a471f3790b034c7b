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

type SparePartController struct {
	sparePartService services.SparePartServiceInterface
	logger           *zap.Logger
}

func NewSparePartController(sparePartService services.SparePartServiceInterface, logger *zap.Logger) *SparePartController {
	return &SparePartController{sparePartService: sparePartService, logger: logger}
}

func sparePartID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.ErrBadRequest
	}
	return id, nil
}

func (c *SparePartController) GetSpareParts(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	parts, total, err := c.sparePartService.GetSpareParts(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, parts, "Список запчастей получен", http.StatusOK, total)
}

func (c *SparePartController) FindSparePart(ctx echo.Context) error {
	id, err := sparePartID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	part, err := c.sparePartService.FindSparePart(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, part, "Запчасть получена", http.StatusOK)
}

func (c *SparePartController) CreateSparePart(ctx echo.Context) error {
	var payload dto.CreateSparePartDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	part, err := c.sparePartService.CreateSparePart(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, part, "Запчасть создана", http.StatusCreated)
}

func (c *SparePartController) UpdateSparePart(ctx echo.Context) error {
	id, err := sparePartID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateSparePartDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	part, err := c.sparePartService.UpdateSparePart(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, part, "Запчасть обновлена", http.StatusOK)
}

// AdjustQuantity — приход (+) или списание (−) со склада.
func (c *SparePartController) AdjustQuantity(ctx echo.Context) error {
	id, err := sparePartID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload struct {
		Delta int `json:"delta" validate:"required"`
	}
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	part, err := c.sparePartService.AdjustQuantity(ctx.Request().Context(), id, payload.Delta)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, part, "Остаток изменён", http.StatusOK)
}

func (c *SparePartController) DeleteSparePart(ctx echo.Context) error {
	id, err := sparePartID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.sparePartService.DeleteSparePart(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Запчасть удалена", http.StatusOK)
}
