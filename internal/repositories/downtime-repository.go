package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	apperrors "cmms-backend/pkg/errors"
)

const downtimeTable = "asset_downtimes"

const downtimeFields = `id, asset_id, start_time, end_time, reason, description,
	production_loss, work_order_id, reported_by, resolved_by, created_at, updated_at`

type DowntimeRepositoryInterface interface {
	GetDowntimes(ctx context.Context, assetID string, activeOnly bool) ([]entities.AssetDowntime, error)
	FindDowntime(ctx context.Context, id int64) (*entities.AssetDowntime, error)
	FindActiveDowntime(ctx context.Context, assetID string) (*entities.AssetDowntime, error)
	CreateDowntime(ctx context.Context, d entities.AssetDowntime) (int64, error)
	ResolveDowntime(ctx context.Context, id int64, endTime time.Time, resolvedBy string) error
	DeleteDowntime(ctx context.Context, id int64) error
}

type DowntimeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDowntimeRepository(storage *pgxpool.Pool, logger *zap.Logger) DowntimeRepositoryInterface {
	return &DowntimeRepository{storage: storage, logger: logger}
}

func scanDowntime(row pgx.Row) (*entities.AssetDowntime, error) {
	var d entities.AssetDowntime
	var endTime, updatedAt sql.NullTime
	var description, workOrderID, reportedBy, resolvedBy sql.NullString
	var productionLoss sql.NullFloat64

	err := row.Scan(
		&d.ID, &d.AssetID, &d.StartTime, &endTime, &d.Reason, &description,
		&productionLoss, &workOrderID, &reportedBy, &resolvedBy, &d.CreatedAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования downtime: %w", err)
	}

	if endTime.Valid {
		d.EndTime = &endTime.Time
	}
	if description.Valid {
		d.Description = &description.String
	}
	if productionLoss.Valid {
		d.ProductionLoss = &productionLoss.Float64
	}
	if workOrderID.Valid {
		d.WorkOrderID = &workOrderID.String
	}
	if reportedBy.Valid {
		d.ReportedBy = &reportedBy.String
	}
	if resolvedBy.Valid {
		d.ResolvedBy = &resolvedBy.String
	}
	if updatedAt.Valid {
		d.UpdatedAt = &updatedAt.Time
	}
	return &d, nil
}

func (r *DowntimeRepository) GetDowntimes(ctx context.Context, assetID string, activeOnly bool) ([]entities.AssetDowntime, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", downtimeFields, downtimeTable)
	args := []interface{}{}
	where := ""
	if assetID != "" {
		where = " WHERE asset_id = $1"
		args = append(args, assetID)
	}
	if activeOnly {
		if where == "" {
			where = " WHERE end_time IS NULL"
		} else {
			where += " AND end_time IS NULL"
		}
	}
	query += where + " ORDER BY start_time DESC"

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	downtimes := make([]entities.AssetDowntime, 0)
	for rows.Next() {
		d, err := scanDowntime(rows)
		if err != nil {
			return nil, err
		}
		downtimes = append(downtimes, *d)
	}
	return downtimes, rows.Err()
}

func (r *DowntimeRepository) FindDowntime(ctx context.Context, id int64) (*entities.AssetDowntime, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", downtimeFields, downtimeTable)
	return scanDowntime(r.storage.QueryRow(ctx, query, id))
}

// FindActiveDowntime — незакрытый простой актива; на один актив
// допускается не более одного активного простоя.
func (r *DowntimeRepository) FindActiveDowntime(ctx context.Context, assetID string) (*entities.AssetDowntime, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE asset_id = $1 AND end_time IS NULL
		ORDER BY start_time DESC LIMIT 1`, downtimeFields, downtimeTable)
	return scanDowntime(r.storage.QueryRow(ctx, query, assetID))
}

func (r *DowntimeRepository) CreateDowntime(ctx context.Context, d entities.AssetDowntime) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s
		(asset_id, start_time, end_time, reason, description, production_loss, work_order_id, reported_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`, downtimeTable)

	var id int64
	err := r.storage.QueryRow(ctx, query,
		d.AssetID, d.StartTime, d.EndTime, d.Reason, d.Description,
		d.ProductionLoss, d.WorkOrderID, d.ReportedBy,
	).Scan(&id)
	if err != nil {
		r.logger.Error("не удалось создать запись простоя",
			zap.String("asset_id", d.AssetID), zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *DowntimeRepository) ResolveDowntime(ctx context.Context, id int64, endTime time.Time, resolvedBy string) error {
	query := fmt.Sprintf(`UPDATE %s SET end_time = $2, resolved_by = $3, updated_at = NOW()
		WHERE id = $1 AND end_time IS NULL`, downtimeTable)
	tag, err := r.storage.Exec(ctx, query, id, endTime, resolvedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DowntimeRepository) DeleteDowntime(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", downtimeTable)
	tag, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
