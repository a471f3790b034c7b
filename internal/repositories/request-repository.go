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

const requestTable = "requests"

const requestFields = `id, location, priority, description, status, image_ids,
	assigned_to, created_by, preferred_date, created_at, updated_at`

var requestMap = map[string]string{
	"id":         "id",
	"location":   "location",
	"priority":   "priority",
	"status":     "status",
	"created_by": "created_by",
	"created_at": "created_at",
}

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.Request, uint64, error)
	FindRequest(ctx context.Context, id string) (*entities.Request, error)
	CreateRequest(ctx context.Context, req entities.Request) error
	UpdateRequest(ctx context.Context, req entities.Request) error
	MarkConvertedInTx(ctx context.Context, tx pgx.Tx, id string, status string) error
	DeleteRequest(ctx context.Context, id string) error
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

func scanRequest(row pgx.Row) (*entities.Request, error) {
	var req entities.Request
	var assignedTo, createdBy, preferredDate sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&req.ID, &req.Location, &req.Priority, &req.Description, &req.Status, &req.ImageIDs,
		&assignedTo, &createdBy, &preferredDate, &req.CreatedAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования request: %w", err)
	}

	if assignedTo.Valid {
		req.AssignedTo = &assignedTo.String
	}
	if createdBy.Valid {
		req.CreatedBy = &createdBy.String
	}
	if preferredDate.Valid {
		req.PreferredDate = &preferredDate.String
	}
	if updatedAt.Valid {
		req.UpdatedAt = &updatedAt.Time
	}
	if req.ImageIDs == nil {
		req.ImageIDs = []string{}
	}
	return &req, nil
}

func (r *RequestRepository) GetRequests(ctx context.Context, filter types.Filter) ([]entities.Request, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"id": pat},
				sq.ILike{"description": pat},
				sq.ILike{"location": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(*)").From(requestTable))
	countBuilder = bd.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, requestMap)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Request{}, 0, nil
	}

	listBuilder := applySearch(psql.Select(requestFields).From(requestTable))
	listBuilder = bd.ApplyListParams(listBuilder, filter, requestMap)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("created_at DESC")
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

	requests := make([]entities.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	return requests, total, rows.Err()
}

func (r *RequestRepository) FindRequest(ctx context.Context, id string) (*entities.Request, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", requestFields, requestTable)
	return scanRequest(r.storage.QueryRow(ctx, query, id))
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req entities.Request) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(id, location, priority, description, status, image_ids, assigned_to, created_by, preferred_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, requestTable)

	_, err := r.storage.Exec(ctx, query,
		req.ID, req.Location, req.Priority, req.Description, req.Status,
		req.ImageIDs, req.AssignedTo, req.CreatedBy, req.PreferredDate,
	)
	if err != nil {
		r.logger.Error("не удалось создать заявку", zap.String("id", req.ID), zap.Error(err))
	}
	return err
}

func (r *RequestRepository) UpdateRequest(ctx context.Context, req entities.Request) error {
	query := fmt.Sprintf(`UPDATE %s SET
		location = $2, priority = $3, description = $4, status = $5,
		image_ids = $6, assigned_to = $7, preferred_date = $8, updated_at = NOW()
		WHERE id = $1`, requestTable)

	tag, err := r.storage.Exec(ctx, query,
		req.ID, req.Location, req.Priority, req.Description, req.Status,
		req.ImageIDs, req.AssignedTo, req.PreferredDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkConvertedInTx фиксирует конвертацию заявки в наряд внутри той же
// транзакции, что и создание наряда.
func (r *RequestRepository) MarkConvertedInTx(ctx context.Context, tx pgx.Tx, id string, status string) error {
	query := fmt.Sprintf("UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1", requestTable)
	tag, err := tx.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", requestTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
