package repositories

import (
	"context"
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

const sparePartTable = "spare_parts"

const sparePartFields = "id, part_name, category, price_per_unit, quantity, created_at, updated_at"

var sparePartMap = map[string]string{
	"part_name": "part_name",
	"category":  "category",
	"quantity":  "quantity",
}

type SparePartRepositoryInterface interface {
	GetSpareParts(ctx context.Context, filter types.Filter) ([]entities.SparePart, uint64, error)
	FindSparePart(ctx context.Context, id int64) (*entities.SparePart, error)
	CreateSparePart(ctx context.Context, part entities.SparePart) (int64, error)
	UpdateSparePart(ctx context.Context, part entities.SparePart) error
	AdjustQuantity(ctx context.Context, id int64, delta int) error
	DeleteSparePart(ctx context.Context, id int64) error
}

type SparePartRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSparePartRepository(storage *pgxpool.Pool, logger *zap.Logger) SparePartRepositoryInterface {
	return &SparePartRepository{storage: storage, logger: logger}
}

func scanSparePart(row pgx.Row) (*entities.SparePart, error) {
	var p entities.SparePart
	err := row.Scan(&p.ID, &p.PartName, &p.Category, &p.PricePerUnit, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования spare part: %w", err)
	}
	return &p, nil
}

func (r *SparePartRepository) GetSpareParts(ctx context.Context, filter types.Filter) ([]entities.SparePart, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"part_name": pat},
				sq.ILike{"category": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(*)").From(sparePartTable))
	countBuilder = bd.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, sparePartMap)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.SparePart{}, 0, nil
	}

	listBuilder := applySearch(psql.Select(sparePartFields).From(sparePartTable))
	listBuilder = bd.ApplyListParams(listBuilder, filter, sparePartMap)
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("part_name ASC")
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

	parts := make([]entities.SparePart, 0)
	for rows.Next() {
		p, err := scanSparePart(rows)
		if err != nil {
			return nil, 0, err
		}
		parts = append(parts, *p)
	}
	return parts, total, rows.Err()
}

func (r *SparePartRepository) FindSparePart(ctx context.Context, id int64) (*entities.SparePart, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", sparePartFields, sparePartTable)
	return scanSparePart(r.storage.QueryRow(ctx, query, id))
}

func (r *SparePartRepository) CreateSparePart(ctx context.Context, part entities.SparePart) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (part_name, category, price_per_unit, quantity)
		VALUES ($1, $2, $3, $4) RETURNING id`, sparePartTable)

	var id int64
	err := r.storage.QueryRow(ctx, query, part.PartName, part.Category, part.PricePerUnit, part.Quantity).Scan(&id)
	if err != nil {
		r.logger.Error("не удалось создать запчасть", zap.String("part_name", part.PartName), zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *SparePartRepository) UpdateSparePart(ctx context.Context, part entities.SparePart) error {
	query := fmt.Sprintf(`UPDATE %s SET part_name = $2, category = $3, price_per_unit = $4,
		quantity = $5, updated_at = NOW() WHERE id = $1`, sparePartTable)
	tag, err := r.storage.Exec(ctx, query, part.ID, part.PartName, part.Category, part.PricePerUnit, part.Quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustQuantity меняет остаток атомарно; уход в минус запрещён на уровне запроса.
// Несуществующая позиция — ErrNotFound, недостаточный остаток — ErrBadRequest.
func (r *SparePartRepository) AdjustQuantity(ctx context.Context, id int64, delta int) error {
	query := fmt.Sprintf(`UPDATE %s SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1 AND quantity + $2 >= 0`, sparePartTable)
	tag, err := r.storage.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		existsQuery := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", sparePartTable)
		if err := r.storage.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrBadRequest
	}
	return nil
}

func (r *SparePartRepository) DeleteSparePart(ctx context.Context, id int64) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", sparePartTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
