package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	"cmms-backend/internal/repositories"
	"cmms-backend/pkg/constants"
	apperrors "cmms-backend/pkg/errors"
)

type MeterServiceInterface interface {
	GetMeterTypes() []constants.MeterType
	GetReadings(ctx context.Context, assetID string, meterType string, limit int) ([]dto.MeterReadingDTO, error)
	CreateReading(ctx context.Context, payload dto.CreateMeterReadingDTO) (*dto.MeterReadingDTO, error)
	DeleteReading(ctx context.Context, id int64) error
}

type MeterService struct {
	meterRepo repositories.MeterReadingRepositoryInterface
	assetRepo repositories.AssetRepositoryInterface
	logger    *zap.Logger
}

func NewMeterService(
	meterRepo repositories.MeterReadingRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	logger *zap.Logger,
) MeterServiceInterface {
	return &MeterService{meterRepo: meterRepo, assetRepo: assetRepo, logger: logger}
}

func (s *MeterService) GetMeterTypes() []constants.MeterType {
	return constants.MeterTypes
}

func (s *MeterService) GetReadings(ctx context.Context, assetID string, meterType string, limit int) ([]dto.MeterReadingDTO, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	readings, err := s.meterRepo.GetReadings(ctx, assetID, meterType, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.MeterReadingDTO, 0, len(readings))
	for i := range readings {
		dtos = append(dtos, toMeterReadingDTO(&readings[i]))
	}
	return dtos, nil
}

// CreateReading подтягивает предыдущее показание того же счётчика,
// чтобы на клиенте сразу была видна дельта.
func (s *MeterService) CreateReading(ctx context.Context, payload dto.CreateMeterReadingDTO) (*dto.MeterReadingDTO, error) {
	_, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.assetRepo.FindAsset(ctx, payload.AssetID); err != nil {
		return nil, apperrors.ErrNotFound
	}

	previous, err := s.meterRepo.LatestValue(ctx, payload.AssetID, payload.MeterType)
	if err != nil {
		return nil, err
	}

	readingDate := time.Now()
	if payload.ReadingDate != nil {
		parsed, err := time.Parse(time.RFC3339, *payload.ReadingDate)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("неверный формат reading_date: %s", *payload.ReadingDate)
		}
		readingDate = parsed
	}

	reading := entities.MeterReading{
		AssetID:       payload.AssetID,
		MeterType:     payload.MeterType,
		Value:         payload.Value,
		Unit:          payload.Unit,
		PreviousValue: previous,
		ReadingDate:   readingDate,
		Source:        payload.Source,
		Notes:         payload.Notes,
		RecordedBy:    &userName,
		CreatedAt:     time.Now(),
	}

	id, err := s.meterRepo.CreateReading(ctx, reading)
	if err != nil {
		return nil, err
	}
	reading.ID = id

	out := toMeterReadingDTO(&reading)
	return &out, nil
}

func (s *MeterService) DeleteReading(ctx context.Context, id int64) error {
	return s.meterRepo.DeleteReading(ctx, id)
}

func toMeterReadingDTO(m *entities.MeterReading) dto.MeterReadingDTO {
	return dto.MeterReadingDTO{
		ID:            m.ID,
		AssetID:       m.AssetID,
		MeterType:     m.MeterType,
		Value:         m.Value,
		Unit:          m.Unit,
		PreviousValue: m.PreviousValue,
		Delta:         m.Delta(),
		ReadingDate:   m.ReadingDate.Format(timeFormat),
		Source:        m.Source,
		Notes:         m.Notes,
		RecordedBy:    m.RecordedBy,
		CreatedAt:     m.CreatedAt.Format(timeFormat),
	}
}
