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

type AssetController struct {
	assetService    services.AssetServiceInterface
	meterService    services.MeterServiceInterface
	downtimeService services.DowntimeServiceInterface
	logger          *zap.Logger
}

func NewAssetController(
	assetService services.AssetServiceInterface,
	meterService services.MeterServiceInterface,
	downtimeService services.DowntimeServiceInterface,
	logger *zap.Logger,
) *AssetController {
	return &AssetController{
		assetService:    assetService,
		meterService:    meterService,
		downtimeService: downtimeService,
		logger:          logger,
	}
}

func (c *AssetController) GetAssets(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	assets, total, err := c.assetService.GetAssets(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assets, "Список активов получен", http.StatusOK, total)
}

func (c *AssetController) GetAssetTree(ctx echo.Context) error {
	tree, err := c.assetService.GetAssetTree(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tree, "Дерево активов получено", http.StatusOK)
}

func (c *AssetController) GetStatistics(ctx echo.Context) error {
	stats, err := c.assetService.GetStatistics(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Статистика по активам получена", http.StatusOK)
}

func (c *AssetController) FindAsset(ctx echo.Context) error {
	asset, err := c.assetService.FindAsset(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Актив получен", http.StatusOK)
}

func (c *AssetController) CreateAsset(ctx echo.Context) error {
	var payload dto.CreateAssetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	asset, err := c.assetService.CreateAsset(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Актив создан", http.StatusCreated)
}

func (c *AssetController) UpdateAsset(ctx echo.Context) error {
	var payload dto.UpdateAssetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	asset, err := c.assetService.UpdateAsset(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Актив обновлён", http.StatusOK)
}

func (c *AssetController) UpdateLocation(ctx echo.Context) error {
	var payload dto.UpdateAssetLocationDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.assetService.UpdateLocation(ctx.Request().Context(), ctx.Param("id"), payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Координаты актива обновлены", http.StatusOK)
}

func (c *AssetController) DeleteAsset(ctx echo.Context) error {
	if err := c.assetService.DeleteAsset(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Актив удалён", http.StatusOK)
}

// --- Показания счётчиков ---

func (c *AssetController) GetMeterTypes(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.meterService.GetMeterTypes(), "Типы счётчиков получены", http.StatusOK)
}

func (c *AssetController) GetMeterReadings(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	readings, err := c.meterService.GetReadings(
		ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("meter_type"), limit)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, readings, "Показания получены", http.StatusOK)
}

func (c *AssetController) CreateMeterReading(ctx echo.Context) error {
	var payload dto.CreateMeterReadingDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	payload.AssetID = ctx.Param("id")
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reading, err := c.meterService.CreateReading(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, reading, "Показание сохранено", http.StatusCreated)
}

func (c *AssetController) DeleteMeterReading(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("readingId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	if err := c.meterService.DeleteReading(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Показание удалено", http.StatusOK)
}

// --- Простои ---

func (c *AssetController) GetDowntimes(ctx echo.Context) error {
	activeOnly, _ := strconv.ParseBool(ctx.QueryParam("active"))

	downtimes, err := c.downtimeService.GetDowntimes(ctx.Request().Context(), ctx.QueryParam("asset_id"), activeOnly)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, downtimes, "Список простоев получен", http.StatusOK)
}

func (c *AssetController) CreateDowntime(ctx echo.Context) error {
	var payload dto.CreateDowntimeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	d, err := c.downtimeService.CreateDowntime(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, d, "Простой зафиксирован", http.StatusCreated)
}

func (c *AssetController) GetDowntimeReasons(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.downtimeService.GetDowntimeReasons(), "Причины простоя получены", http.StatusOK)
}

func (c *AssetController) DeleteDowntime(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("downtimeId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	if err := c.downtimeService.DeleteDowntime(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Запись простоя удалена", http.StatusOK)
}

func (c *AssetController) ResolveDowntime(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("downtimeId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	d, err := c.downtimeService.ResolveDowntime(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, d, "Простой закрыт", http.StatusOK)
}
