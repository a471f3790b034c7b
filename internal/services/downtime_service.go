package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	"cmms-backend/pkg/constants"
	apperrors "cmms-backend/pkg/errors"
)

type DowntimeServiceInterface interface {
	GetDowntimes(ctx context.Context, assetID string, activeOnly bool) ([]dto.DowntimeDTO, error)
	GetDowntimeReasons() []string
	CreateDowntime(ctx context.Context, payload dto.CreateDowntimeDTO) (*dto.DowntimeDTO, error)
	ResolveDowntime(ctx context.Context, id int64) (*dto.DowntimeDTO, error)
	DeleteDowntime(ctx context.Context, id int64) error
}

type DowntimeService struct {
	downtimeRepo repositories.DowntimeRepositoryInterface
	assetRepo    repositories.AssetRepositoryInterface
	logger       *zap.Logger
}

func NewDowntimeService(
	downtimeRepo repositories.DowntimeRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	logger *zap.Logger,
) DowntimeServiceInterface {
	return &DowntimeService{downtimeRepo: downtimeRepo, assetRepo: assetRepo, logger: logger}
}

func (s *DowntimeService) GetDowntimes(ctx context.Context, assetID string, activeOnly bool) ([]dto.DowntimeDTO, error) {
	downtimes, err := s.downtimeRepo.GetDowntimes(ctx, assetID, activeOnly)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.DowntimeDTO, 0, len(downtimes))
	for i := range downtimes {
		dtos = append(dtos, toDowntimeDTO(&downtimes[i]))
	}
	return dtos, nil
}

func (s *DowntimeService) CreateDowntime(ctx context.Context, payload dto.CreateDowntimeDTO) (*dto.DowntimeDTO, error) {
	_, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.assetRepo.FindAsset(ctx, payload.AssetID); err != nil {
		return nil, apperrors.ErrNotFound
	}

	// Второй активный простой по одному активу не открываем.
	if active, err := s.downtimeRepo.FindActiveDowntime(ctx, payload.AssetID); err == nil && active != nil {
		return nil, apperrors.NewHttpError(400, "по активу уже открыт простой", nil, nil)
	}

	startTime, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("неверный формат start_time: %s", payload.StartTime)
	}

	d := entities.AssetDowntime{
		AssetID:        payload.AssetID,
		StartTime:      startTime,
		Reason:         payload.Reason,
		Description:    payload.Description,
		ProductionLoss: payload.ProductionLoss,
		WorkOrderID:    payload.WorkOrderID,
		ReportedBy:     &userName,
	}
	if payload.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *payload.EndTime)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("неверный формат end_time: %s", *payload.EndTime)
		}
		if endTime.Before(startTime) {
			return nil, apperrors.NewInvalidInputError("end_time раньше start_time")
		}
		d.EndTime = &endTime
	}

	id, err := s.downtimeRepo.CreateDowntime(ctx, d)
	if err != nil {
		return nil, err
	}
	d.ID = id
	d.CreatedAt = time.Now()

	s.logger.Info("зафиксирован простой актива",
		zap.String("asset_id", d.AssetID),
		zap.String("reason", d.Reason),
	)

	out := toDowntimeDTO(&d)
	return &out, nil
}

func (s *DowntimeService) ResolveDowntime(ctx context.Context, id int64) (*dto.DowntimeDTO, error) {
	_, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	d, err := s.downtimeRepo.FindDowntime(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive() {
		return nil, apperrors.NewHttpError(400, "простой уже закрыт", nil, nil)
	}

	endTime := time.Now()
	if err := s.downtimeRepo.ResolveDowntime(ctx, id, endTime, userName); err != nil {
		return nil, err
	}
	d.EndTime = &endTime
	d.ResolvedBy = &userName

	out := toDowntimeDTO(d)
	return &out, nil
}

func (s *DowntimeService) GetDowntimeReasons() []string {
	reasons := make([]string, len(constants.DowntimeReasons))
	copy(reasons, constants.DowntimeReasons)
	return reasons
}

// DeleteDowntime удаляет запись из журнала; только для роли админа.
func (s *DowntimeService) DeleteDowntime(ctx context.Context, id int64) error {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	if role != workflow.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return s.downtimeRepo.DeleteDowntime(ctx, id)
}

func toDowntimeDTO(d *entities.AssetDowntime) dto.DowntimeDTO {
	out := dto.DowntimeDTO{
		ID:              d.ID,
		AssetID:         d.AssetID,
		StartTime:       d.StartTime.Format(timeFormat),
		Reason:          d.Reason,
		Description:     d.Description,
		ProductionLoss:  d.ProductionLoss,
		WorkOrderID:     d.WorkOrderID,
		ReportedBy:      d.ReportedBy,
		ResolvedBy:      d.ResolvedBy,
		DurationMinutes: d.DurationMinutes(),
		IsActive:        d.IsActive(),
		CreatedAt:       d.CreatedAt.Format(timeFormat),
	}
	if d.EndTime != nil {
		formatted := d.EndTime.Format(timeFormat)
		out.EndTime = &formatted
	}
	return out
}
