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

const pmPlanTable = "pm_plans"

const pmPlanFields = `id, asset_id, asset_name, title, description, priority,
	interval_days, last_generated_at, active, created_at, updated_at`

type PMPlanRepositoryInterface interface {
	GetPlans(ctx context.Context, activeOnly bool) ([]entities.PMPlan, error)
	FindPlan(ctx context.Context, id int64) (*entities.PMPlan, error)
	CreatePlan(ctx context.Context, plan entities.PMPlan) (int64, error)
	UpdatePlan(ctx context.Context, plan entities.PMPlan) error
	MarkGenerated(ctx context.Context, id int64, at time.Time) error
	DeletePlan(ctx context.Context, id int64) error
}

type PMPlanRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPMPlanRepository(storage *pgxpool.Pool, logger *zap.Logger) PMPlanRepositoryInterface {
	return &PMPlanRepository{storage: storage, logger: logger}
}

func scanPMPlan(row pgx.Row) (*entities.PMPlan, error) {
	var p entities.PMPlan
	var lastGeneratedAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.AssetID, &p.AssetName, &p.Title, &p.Description, &p.Priority,
		&p.IntervalDays, &lastGeneratedAt, &p.Active, &p.CreatedAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования pm plan: %w", err)
	}

	if lastGeneratedAt.Valid {
		p.LastGeneratedAt = &lastGeneratedAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return &p, nil
}

func (r *PMPlanRepository) GetPlans(ctx context.Context, activeOnly bool) ([]entities.PMPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", pmPlanFields, pmPlanTable)
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY id"

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]entities.PMPlan, 0)
	for rows.Next() {
		p, err := scanPMPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (r *PMPlanRepository) FindPlan(ctx context.Context, id int64) (*entities.PMPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", pmPlanFields, pmPlanTable)
	return scanPMPlan(r.storage.QueryRow(ctx, query, id))
}

func (r *PMPlanRepository) CreatePlan(ctx context.Context, plan entities.PMPlan) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s
		(asset_id, asset_name, title, description, priority, interval_days, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`, pmPlanTable)

	var id int64
	err := r.storage.QueryRow(ctx, query,
		plan.AssetID, plan.AssetName, plan.Title, plan.Description,
		plan.Priority, plan.IntervalDays, plan.Active,
	).Scan(&id)
	if err != nil {
		r.logger.Error("не удалось создать план ППР", zap.String("asset_id", plan.AssetID), zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *PMPlanRepository) UpdatePlan(ctx context.Context, plan entities.PMPlan) error {
	query := fmt.Sprintf(`UPDATE %s SET
		title = $2, description = $3, priority = $4, interval_days = $5,
		active = $6, updated_at = NOW() WHERE id = $1`, pmPlanTable)

	tag, err := r.storage.Exec(ctx, query,
		plan.ID, plan.Title, plan.Description, plan.Priority, plan.IntervalDays, plan.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PMPlanRepository) MarkGenerated(ctx context.Context, id int64, at time.Time) error {
	_, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET last_generated_at = $2, updated_at = NOW() WHERE id = $1", pmPlanTable),
		id, at)
	return err
}

func (r *PMPlanRepository) DeletePlan(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", pmPlanTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
