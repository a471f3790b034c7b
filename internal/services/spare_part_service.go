package services

import (
	"context"

	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	"cmms-backend/internal/repositories"
	"cmms-backend/pkg/types"
)

type SparePartServiceInterface interface {
	GetSpareParts(ctx context.Context, filter types.Filter) ([]dto.SparePartDTO, uint64, error)
	FindSparePart(ctx context.Context, id int64) (*dto.SparePartDTO, error)
	CreateSparePart(ctx context.Context, payload dto.CreateSparePartDTO) (*dto.SparePartDTO, error)
	UpdateSparePart(ctx context.Context, id int64, payload dto.UpdateSparePartDTO) (*dto.SparePartDTO, error)
	AdjustQuantity(ctx context.Context, id int64, delta int) (*dto.SparePartDTO, error)
	DeleteSparePart(ctx context.Context, id int64) error
}

type SparePartService struct {
	sparePartRepo repositories.SparePartRepositoryInterface
	logger        *zap.Logger
}

func NewSparePartService(sparePartRepo repositories.SparePartRepositoryInterface, logger *zap.Logger) SparePartServiceInterface {
	return &SparePartService{sparePartRepo: sparePartRepo, logger: logger}
}

func (s *SparePartService) GetSpareParts(ctx context.Context, filter types.Filter) ([]dto.SparePartDTO, uint64, error) {
	parts, total, err := s.sparePartRepo.GetSpareParts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.SparePartDTO, 0, len(parts))
	for i := range parts {
		dtos = append(dtos, toSparePartDTO(&parts[i]))
	}
	return dtos, total, nil
}

func (s *SparePartService) FindSparePart(ctx context.Context, id int64) (*dto.SparePartDTO, error) {
	part, err := s.sparePartRepo.FindSparePart(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSparePartDTO(part)
	return &out, nil
}

func (s *SparePartService) CreateSparePart(ctx context.Context, payload dto.CreateSparePartDTO) (*dto.SparePartDTO, error) {
	part := entities.SparePart{
		PartName:     payload.PartName,
		Category:     payload.Category,
		PricePerUnit: payload.PricePerUnit,
		Quantity:     payload.Quantity,
	}

	id, err := s.sparePartRepo.CreateSparePart(ctx, part)
	if err != nil {
		return nil, err
	}

	return s.FindSparePart(ctx, id)
}

func (s *SparePartService) UpdateSparePart(ctx context.Context, id int64, payload dto.UpdateSparePartDTO) (*dto.SparePartDTO, error) {
	part, err := s.sparePartRepo.FindSparePart(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.PartName.Valid {
		part.PartName = payload.PartName.String
	}
	if payload.Category.Valid {
		part.Category = payload.Category.String
	}
	if payload.PricePerUnit.Valid {
		part.PricePerUnit = payload.PricePerUnit.Float64
	}
	if payload.Quantity.Valid {
		part.Quantity = int(payload.Quantity.Int)
	}

	if err := s.sparePartRepo.UpdateSparePart(ctx, *part); err != nil {
		return nil, err
	}

	out := toSparePartDTO(part)
	return &out, nil
}

// AdjustQuantity — приход/расход со склада (delta может быть отрицательной).
func (s *SparePartService) AdjustQuantity(ctx context.Context, id int64, delta int) (*dto.SparePartDTO, error) {
	if err := s.sparePartRepo.AdjustQuantity(ctx, id, delta); err != nil {
		return nil, err
	}
	return s.FindSparePart(ctx, id)
}

func (s *SparePartService) DeleteSparePart(ctx context.Context, id int64) error {
	return s.sparePartRepo.DeleteSparePart(ctx, id)
}

func toSparePartDTO(p *entities.SparePart) dto.SparePartDTO {
	out := dto.SparePartDTO{
		ID:           p.ID,
		PartName:     p.PartName,
		Category:     p.Category,
		PricePerUnit: p.PricePerUnit,
		Quantity:     p.Quantity,
		CreatedAt:    p.CreatedAt.Format(timeFormat),
	}
	if p.UpdatedAt != nil {
		out.UpdatedAt = p.UpdatedAt.Format(timeFormat)
	}
	return out
}
