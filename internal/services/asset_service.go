package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	"cmms-backend/pkg/constants"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/types"
)

type AssetServiceInterface interface {
	GetAssets(ctx context.Context, filter types.Filter) ([]dto.AssetDTO, uint64, error)
	GetAssetTree(ctx context.Context) ([]dto.AssetTreeNodeDTO, error)
	GetStatistics(ctx context.Context) (*dto.AssetStatisticsDTO, error)
	FindAsset(ctx context.Context, id string) (*dto.AssetDTO, error)
	CreateAsset(ctx context.Context, payload dto.CreateAssetDTO) (*dto.AssetDTO, error)
	UpdateAsset(ctx context.Context, id string, payload dto.UpdateAssetDTO) (*dto.AssetDTO, error)
	UpdateLocation(ctx context.Context, id string, payload dto.UpdateAssetLocationDTO) error
	DeleteAsset(ctx context.Context, id string) error
}

type AssetService struct {
	assetRepo repositories.AssetRepositoryInterface
	logger    *zap.Logger
}

func NewAssetService(assetRepo repositories.AssetRepositoryInterface, logger *zap.Logger) AssetServiceInterface {
	return &AssetService{assetRepo: assetRepo, logger: logger}
}

// newAssetID строит идентификатор вида SITE-A1B2C3 по типу актива.
func newAssetID(assetType string) string {
	prefix, ok := constants.AssetIDPrefixes[assetType]
	if !ok {
		prefix = "AST"
	}
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return prefix + "-" + fragment
}

func (s *AssetService) GetAssets(ctx context.Context, filter types.Filter) ([]dto.AssetDTO, uint64, error) {
	assets, total, err := s.assetRepo.GetAssets(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.AssetDTO, 0, len(assets))
	for i := range assets {
		dtos = append(dtos, toAssetDTO(&assets[i]))
	}
	return dtos, total, nil
}

// GetAssetTree собирает дерево Site → Line → Facility → Machine → Equipment.
// Узлы с несуществующим parent_id поднимаются в корень, чтобы не теряться.
func (s *AssetService) GetAssetTree(ctx context.Context) ([]dto.AssetTreeNodeDTO, error) {
	assets, err := s.assetRepo.GetAllAssets(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Asset, len(assets))
	for i := range assets {
		byID[assets[i].ID] = &assets[i]
	}

	childrenOf := make(map[string][]*entities.Asset)
	roots := make([]*entities.Asset, 0)
	for i := range assets {
		a := &assets[i]
		if a.ParentID != nil {
			if _, ok := byID[*a.ParentID]; ok {
				childrenOf[*a.ParentID] = append(childrenOf[*a.ParentID], a)
				continue
			}
		}
		roots = append(roots, a)
	}

	var build func(a *entities.Asset) dto.AssetTreeNodeDTO
	build = func(a *entities.Asset) dto.AssetTreeNodeDTO {
		node := dto.AssetTreeNodeDTO{
			ID:          a.ID,
			Name:        a.Name,
			Type:        a.Type,
			Status:      a.Status,
			HealthScore: a.HealthScore,
			Location:    a.Location,
			Criticality: a.Criticality,
			Children:    make([]dto.AssetTreeNodeDTO, 0),
		}
		for _, child := range childrenOf[a.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	tree := make([]dto.AssetTreeNodeDTO, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, build(root))
	}
	return tree, nil
}

func (s *AssetService) GetStatistics(ctx context.Context) (*dto.AssetStatisticsDTO, error) {
	assets, err := s.assetRepo.GetAllAssets(ctx)
	if err != nil {
		return nil, err
	}

	stats := dto.AssetStatisticsDTO{
		Total:    len(assets),
		ByType:   make(map[string]int),
		ByStatus: make(map[string]int),
	}

	healthSum := 0
	for i := range assets {
		a := &assets[i]
		stats.ByType[a.Type]++
		stats.ByStatus[a.Status]++
		healthSum += a.HealthScore
		if a.Criticality == constants.PriorityCritical {
			stats.CriticalCount++
		}
	}
	if stats.Total > 0 {
		stats.AvgHealth = float64(healthSum) / float64(stats.Total)
	}
	return &stats, nil
}

func (s *AssetService) FindAsset(ctx context.Context, id string) (*dto.AssetDTO, error) {
	asset, err := s.assetRepo.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toAssetDTO(asset)
	return &out, nil
}

func (s *AssetService) CreateAsset(ctx context.Context, payload dto.CreateAssetDTO) (*dto.AssetDTO, error) {
	_, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if payload.ParentID != nil {
		if _, err := s.assetRepo.FindAsset(ctx, *payload.ParentID); err != nil {
			return nil, apperrors.NewInvalidInputError("родительский актив %s не найден", *payload.ParentID)
		}
	}

	asset := entities.Asset{
		ID:             newAssetID(payload.Type),
		Name:           payload.Name,
		Type:           payload.Type,
		Status:         payload.Status,
		HealthScore:    100,
		Location:       payload.Location,
		Criticality:    payload.Criticality,
		Model:          payload.Model,
		Manufacturer:   payload.Manufacturer,
		SerialNumber:   payload.SerialNumber,
		InstallDate:    payload.InstallDate,
		WarrantyExpiry: payload.WarrantyExpiry,
		Description:    payload.Description,
		Latitude:       payload.Latitude,
		Longitude:      payload.Longitude,
		ParentID:       payload.ParentID,
		CreatedBy:      &userName,
	}
	if asset.Status == "" {
		asset.Status = constants.AssetOperational
	}
	if asset.Criticality == "" {
		asset.Criticality = constants.PriorityMedium
	}
	if payload.HealthScore != nil {
		asset.HealthScore = *payload.HealthScore
	}
	qr := fmt.Sprintf("cmms://asset/%s", asset.ID)
	asset.QRCode = &qr

	if err := s.assetRepo.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("актив создан", zap.String("id", asset.ID), zap.String("type", asset.Type))

	out := toAssetDTO(&asset)
	return &out, nil
}

func (s *AssetService) UpdateAsset(ctx context.Context, id string, payload dto.UpdateAssetDTO) (*dto.AssetDTO, error) {
	_, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name.Valid {
		asset.Name = payload.Name.String
	}
	if payload.Status.Valid {
		asset.Status = payload.Status.String
	}
	if payload.HealthScore.Valid {
		asset.HealthScore = int(payload.HealthScore.Int)
	}
	if payload.Location.Valid {
		asset.Location = &payload.Location.String
	}
	if payload.Criticality.Valid {
		asset.Criticality = payload.Criticality.String
	}
	if payload.Model.Valid {
		asset.Model = &payload.Model.String
	}
	if payload.Manufacturer.Valid {
		asset.Manufacturer = &payload.Manufacturer.String
	}
	if payload.SerialNumber.Valid {
		asset.SerialNumber = &payload.SerialNumber.String
	}
	if payload.InstallDate.Valid {
		asset.InstallDate = &payload.InstallDate.String
	}
	if payload.WarrantyExpiry.Valid {
		asset.WarrantyExpiry = &payload.WarrantyExpiry.String
	}
	if payload.Description.Valid {
		asset.Description = &payload.Description.String
	}
	if payload.Latitude.Valid {
		asset.Latitude = &payload.Latitude.Float64
	}
	if payload.Longitude.Valid {
		asset.Longitude = &payload.Longitude.Float64
	}
	if payload.ParentID.Valid {
		if payload.ParentID.String == id {
			return nil, apperrors.NewInvalidInputError("актив не может быть родителем самого себя")
		}
		asset.ParentID = &payload.ParentID.String
	}
	asset.UpdatedBy = &userName

	if err := s.assetRepo.UpdateAsset(ctx, *asset); err != nil {
		return nil, err
	}

	out := toAssetDTO(asset)
	return &out, nil
}

func (s *AssetService) UpdateLocation(ctx context.Context, id string, payload dto.UpdateAssetLocationDTO) error {
	_, userName, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.assetRepo.UpdateAssetLocation(ctx, id, payload.Latitude, payload.Longitude, userName)
}

func (s *AssetService) DeleteAsset(ctx context.Context, id string) error {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	if role != workflow.RoleAdmin {
		return apperrors.ErrForbidden
	}

	children, err := s.assetRepo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return apperrors.NewHttpError(400, "нельзя удалить актив с дочерними узлами", nil, nil)
	}

	return s.assetRepo.DeleteAsset(ctx, id)
}

func toAssetDTO(a *entities.Asset) dto.AssetDTO {
	out := dto.AssetDTO{
		ID:             a.ID,
		Name:           a.Name,
		Type:           a.Type,
		Status:         a.Status,
		HealthScore:    a.HealthScore,
		Location:       a.Location,
		Criticality:    a.Criticality,
		Model:          a.Model,
		Manufacturer:   a.Manufacturer,
		SerialNumber:   a.SerialNumber,
		InstallDate:    a.InstallDate,
		WarrantyExpiry: a.WarrantyExpiry,
		Description:    a.Description,
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		QRCode:         a.QRCode,
		ParentID:       a.ParentID,
		CreatedBy:      a.CreatedBy,
		UpdatedBy:      a.UpdatedBy,
		CreatedAt:      a.CreatedAt.Format(timeFormat),
	}
	if a.UpdatedAt != nil {
		out.UpdatedAt = a.UpdatedAt.Format(timeFormat)
	}
	return out
}
