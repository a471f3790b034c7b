package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	bd "cmms-backend/internal/infrastructure/bd"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/types"
)

const assetTable = "assets"

const assetFields = `id, name, type, status, health_score, location, criticality,
	model, manufacturer, serial_number, install_date, warranty_expiry, description,
	latitude, longitude, qr_code, parent_id, created_by, updated_by, created_at, updated_at`

var assetMap = map[string]string{
	"id":          "id",
	"name":        "name",
	"type":        "type",
	"status":      "status",
	"criticality": "criticality",
	"parent_id":   "parent_id",
	"location":    "location",
	"created_at":  "created_at",
}

type AssetRepositoryInterface interface {
	GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error)
	GetAllAssets(ctx context.Context) ([]entities.Asset, error)
	FindAsset(ctx context.Context, id string) (*entities.Asset, error)
	CreateAsset(ctx context.Context, asset entities.Asset) error
	UpdateAsset(ctx context.Context, asset entities.Asset) error
	UpdateAssetLocation(ctx context.Context, id string, lat, lon float64, updatedBy string) error
	DeleteAsset(ctx context.Context, id string) error
	CountChildren(ctx context.Context, id string) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type AssetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssetRepository(storage *pgxpool.Pool, logger *zap.Logger) AssetRepositoryInterface {
	return &AssetRepository{storage: storage, logger: logger}
}

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	var location, model, manufacturer, serial, installDate, warranty sql.NullString
	var description, qrCode, parentID, createdBy, updatedBy sql.NullString
	var lat, lon sql.NullFloat64
	var updatedAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.Name, &a.Type, &a.Status, &a.HealthScore, &location, &a.Criticality,
		&model, &manufacturer, &serial, &installDate, &warranty, &description,
		&lat, &lon, &qrCode, &parentID, &createdBy, &updatedBy, &a.CreatedAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования asset: %w", err)
	}

	if location.Valid {
		a.Location = &location.String
	}
	if model.Valid {
		a.Model = &model.String
	}
	if manufacturer.Valid {
		a.Manufacturer = &manufacturer.String
	}
	if serial.Valid {
		a.SerialNumber = &serial.String
	}
	if installDate.Valid {
		a.InstallDate = &installDate.String
	}
	if warranty.Valid {
		a.WarrantyExpiry = &warranty.String
	}
	if description.Valid {
		a.Description = &description.String
	}
	if lat.Valid {
		a.Latitude = &lat.Float64
	}
	if lon.Valid {
		a.Longitude = &lon.Float64
	}
	if qrCode.Valid {
		a.QRCode = &qrCode.String
	}
	if parentID.Valid {
		a.ParentID = &parentID.String
	}
	if createdBy.Valid {
		a.CreatedBy = &createdBy.String
	}
	if updatedBy.Valid {
		a.UpdatedBy = &updatedBy.String
	}
	if updatedAt.Valid {
		a.UpdatedAt = &updatedAt.Time
	}
	return &a, nil
}

func (r *AssetRepository) GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"id": pat},
				sq.ILike{"name": pat},
				sq.ILike{"location": pat},
				sq.ILike{"serial_number": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(*)").From(assetTable))
	countBuilder = bd.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, assetMap)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Asset{}, 0, nil
	}

	listBuilder := applySearch(psql.Select(assetFields).From(assetTable))
	listBuilder = bd.ApplyListParams(listBuilder, filter, assetMap)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("name ASC")
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assets := make([]entities.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, *a)
	}
	return assets, total, rows.Err()
}

// GetAllAssets возвращает все активы для построения дерева иерархии.
func (r *AssetRepository) GetAllAssets(ctx context.Context) ([]entities.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name", assetFields, assetTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]entities.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) FindAsset(ctx context.Context, id string) (*entities.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", assetFields, assetTable)
	return scanAsset(r.storage.QueryRow(ctx, query, id))
}

func (r *AssetRepository) CreateAsset(ctx context.Context, asset entities.Asset) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(id, name, type, status, health_score, location, criticality,
		 model, manufacturer, serial_number, install_date, warranty_expiry, description,
		 latitude, longitude, qr_code, parent_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`, assetTable)

	_, err := r.storage.Exec(ctx, query,
		asset.ID, asset.Name, asset.Type, asset.Status, asset.HealthScore, asset.Location, asset.Criticality,
		asset.Model, asset.Manufacturer, asset.SerialNumber, asset.InstallDate, asset.WarrantyExpiry, asset.Description,
		asset.Latitude, asset.Longitude, asset.QRCode, asset.ParentID, asset.CreatedBy,
	)
	if err != nil {
		r.logger.Error("не удалось создать актив", zap.String("id", asset.ID), zap.Error(err))
	}
	return err
}

func (r *AssetRepository) UpdateAsset(ctx context.Context, asset entities.Asset) error {
	query := fmt.Sprintf(`UPDATE %s SET
		name = $2, type = $3, status = $4, health_score = $5, location = $6, criticality = $7,
		model = $8, manufacturer = $9, serial_number = $10, install_date = $11,
		warranty_expiry = $12, description = $13, latitude = $14, longitude = $15,
		qr_code = $16, parent_id = $17, updated_by = $18, updated_at = NOW()
		WHERE id = $1`, assetTable)

	tag, err := r.storage.Exec(ctx, query,
		asset.ID, asset.Name, asset.Type, asset.Status, asset.HealthScore, asset.Location, asset.Criticality,
		asset.Model, asset.Manufacturer, asset.SerialNumber, asset.InstallDate,
		asset.WarrantyExpiry, asset.Description, asset.Latitude, asset.Longitude,
		asset.QRCode, asset.ParentID, asset.UpdatedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) UpdateAssetLocation(ctx context.Context, id string, lat, lon float64, updatedBy string) error {
	query := fmt.Sprintf(`UPDATE %s SET latitude = $2, longitude = $3, updated_by = $4, updated_at = NOW()
		WHERE id = $1`, assetTable)
	tag, err := r.storage.Exec(ctx, query, id, lat, lon, updatedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) DeleteAsset(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", assetTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountChildren нужен при удалении: узел с потомками удалять нельзя.
func (r *AssetRepository) CountChildren(ctx context.Context, id string) (int, error) {
	var n int
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE parent_id = $1", assetTable), id).Scan(&n)
	return n, err
}

func (r *AssetRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.storage.Query(ctx,
		fmt.Sprintf("SELECT status, COUNT(*) FROM %s GROUP BY status", assetTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
