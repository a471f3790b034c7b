package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-backend/internal/entities"
	apperrors "cmms-backend/pkg/errors"
)

const meterReadingTable = "meter_readings"

const meterReadingFields = `id, asset_id, meter_type, value, unit, previous_value,
	reading_date, source, notes, recorded_by, created_at`

type MeterReadingRepositoryInterface interface {
	GetReadings(ctx context.Context, assetID string, meterType string, limit int) ([]entities.MeterReading, error)
	LatestValue(ctx context.Context, assetID string, meterType string) (*float64, error)
	CreateReading(ctx context.Context, reading entities.MeterReading) (int64, error)
	DeleteReading(ctx context.Context, id int64) error
}

type MeterReadingRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMeterReadingRepository(storage *pgxpool.Pool, logger *zap.Logger) MeterReadingRepositoryInterface {
	return &MeterReadingRepository{storage: storage, logger: logger}
}

func scanMeterReading(row pgx.Row) (*entities.MeterReading, error) {
	var m entities.MeterReading
	var prev sql.NullFloat64
	var source, notes, recordedBy sql.NullString

	err := row.Scan(
		&m.ID, &m.AssetID, &m.MeterType, &m.Value, &m.Unit, &prev,
		&m.ReadingDate, &source, &notes, &recordedBy, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования meter reading: %w", err)
	}

	if prev.Valid {
		m.PreviousValue = &prev.Float64
	}
	if source.Valid {
		m.Source = &source.String
	}
	if notes.Valid {
		m.Notes = &notes.String
	}
	if recordedBy.Valid {
		m.RecordedBy = &recordedBy.String
	}
	return &m, nil
}

func (r *MeterReadingRepository) GetReadings(ctx context.Context, assetID string, meterType string, limit int) ([]entities.MeterReading, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE asset_id = $1", meterReadingFields, meterReadingTable)
	args := []interface{}{assetID}
	if meterType != "" {
		query += " AND meter_type = $2"
		args = append(args, meterType)
	}
	query += fmt.Sprintf(" ORDER BY reading_date DESC LIMIT %d", limit)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]entities.MeterReading, 0)
	for rows.Next() {
		m, err := scanMeterReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, *m)
	}
	return readings, rows.Err()
}

// LatestValue — последнее показание по счётчику, nil если показаний ещё нет.
func (r *MeterReadingRepository) LatestValue(ctx context.Context, assetID string, meterType string) (*float64, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE asset_id = $1 AND meter_type = $2
		ORDER BY reading_date DESC LIMIT 1`, meterReadingTable)

	var value float64
	err := r.storage.QueryRow(ctx, query, assetID, meterType).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *MeterReadingRepository) CreateReading(ctx context.Context, reading entities.MeterReading) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s
		(asset_id, meter_type, value, unit, previous_value, reading_date, source, notes, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`, meterReadingTable)

	var id int64
	err := r.storage.QueryRow(ctx, query,
		reading.AssetID, reading.MeterType, reading.Value, reading.Unit, reading.PreviousValue,
		reading.ReadingDate, reading.Source, reading.Notes, reading.RecordedBy,
	).Scan(&id)
	if err != nil {
		r.logger.Error("не удалось сохранить показание счётчика",
			zap.String("asset_id", reading.AssetID), zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *MeterReadingRepository) DeleteReading(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", meterReadingTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
