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

const workOrderTable = "workorders"

const workOrderFields = `id, title, description, asset_name, location, priority, status,
	assigned_to, due_date, preferred_date, created_by, request_id, image_ids,
	technician_notes, technician_images, admin_review,
	approved_by, approved_at, rejected_by, rejected_at, rejection_reason,
	closed_by, closed_at, created_at, updated_at`

// ЕДИНАЯ КАРТА ПОЛЕЙ (фильтр + сортировка)
var workOrderMap = map[string]string{
	"id":          "id",
	"title":       "title",
	"priority":    "priority",
	"status":      "status",
	"assigned_to": "assigned_to",
	"asset_name":  "asset_name",
	"location":    "location",
	"created_by":  "created_by",
	"due_date":    "due_date",
	"created_at":  "created_at",
}

type WorkOrderRepositoryInterface interface {
	GetWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error)
	FindWorkOrder(ctx context.Context, id string) (*entities.WorkOrder, error)
	FindWorkOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id string) (*entities.WorkOrder, error)
	CreateWorkOrderInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error
	UpdateWorkOrderInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error
	DeleteWorkOrder(ctx context.Context, id string) error
}

type WorkOrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkOrderRepositoryInterface {
	return &WorkOrderRepository{storage: storage, logger: logger}
}

func scanWorkOrder(row pgx.Row) (*entities.WorkOrder, error) {
	var wo entities.WorkOrder
	var assignedTo, dueDate, preferredDate, createdBy, requestID sql.NullString
	var techNotes, adminReview, approvedBy, rejectedBy, rejectionReason, closedBy sql.NullString
	var approvedAt, rejectedAt, closedAt, updatedAt sql.NullTime

	err := row.Scan(
		&wo.ID, &wo.Title, &wo.Description, &wo.AssetName, &wo.Location, &wo.Priority, &wo.Status,
		&assignedTo, &dueDate, &preferredDate, &createdBy, &requestID, &wo.ImageIDs,
		&techNotes, &wo.TechImageIDs, &adminReview,
		&approvedBy, &approvedAt, &rejectedBy, &rejectedAt, &rejectionReason,
		&closedBy, &closedAt, &wo.CreatedAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования work order: %w", err)
	}

	if assignedTo.Valid {
		wo.AssignedTo = &assignedTo.String
	}
	if dueDate.Valid {
		wo.DueDate = &dueDate.String
	}
	if preferredDate.Valid {
		wo.PreferredDate = &preferredDate.String
	}
	if createdBy.Valid {
		wo.CreatedBy = &createdBy.String
	}
	if requestID.Valid {
		wo.RequestID = &requestID.String
	}
	if techNotes.Valid {
		wo.TechnicianNotes = &techNotes.String
	}
	if adminReview.Valid {
		wo.AdminReview = &adminReview.String
	}
	if approvedBy.Valid {
		wo.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		wo.ApprovedAt = &approvedAt.Time
	}
	if rejectedBy.Valid {
		wo.RejectedBy = &rejectedBy.String
	}
	if rejectedAt.Valid {
		wo.RejectedAt = &rejectedAt.Time
	}
	if rejectionReason.Valid {
		wo.RejectionReason = &rejectionReason.String
	}
	if closedBy.Valid {
		wo.ClosedBy = &closedBy.String
	}
	if closedAt.Valid {
		wo.ClosedAt = &closedAt.Time
	}
	if updatedAt.Valid {
		wo.UpdatedAt = &updatedAt.Time
	}
	if wo.ImageIDs == nil {
		wo.ImageIDs = []string{}
	}
	if wo.TechImageIDs == nil {
		wo.TechImageIDs = []string{}
	}

	return &wo, nil
}

func (r *WorkOrderRepository) GetWorkOrders(ctx context.Context, filter types.Filter) ([]entities.WorkOrder, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"id": pat},
				sq.ILike{"title": pat},
				sq.ILike{"description": pat},
				sq.ILike{"asset_name": pat},
				sq.ILike{"location": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(*)").From(workOrderTable))
	countBuilder = bd.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, workOrderMap)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.WorkOrder{}, 0, nil
	}

	listBuilder := applySearch(psql.Select(workOrderFields).From(workOrderTable))
	listBuilder = bd.ApplyListParams(listBuilder, filter, workOrderMap)
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

	workOrders := make([]entities.WorkOrder, 0)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		workOrders = append(workOrders, *wo)
	}
	return workOrders, total, rows.Err()
}

func (r *WorkOrderRepository) FindWorkOrder(ctx context.Context, id string) (*entities.WorkOrder, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", workOrderFields, workOrderTable)
	return scanWorkOrder(r.storage.QueryRow(ctx, query, id))
}

// FindWorkOrderForUpdateInTx блокирует строку на время транзакции обновления.
func (r *WorkOrderRepository) FindWorkOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id string) (*entities.WorkOrder, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", workOrderFields, workOrderTable)
	return scanWorkOrder(tx.QueryRow(ctx, query, id))
}

func (r *WorkOrderRepository) CreateWorkOrderInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(id, title, description, asset_name, location, priority, status,
		 assigned_to, due_date, preferred_date, created_by, request_id, image_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`, workOrderTable)

	_, err := tx.Exec(ctx, query,
		wo.ID, wo.Title, wo.Description, wo.AssetName, wo.Location, wo.Priority, wo.Status,
		wo.AssignedTo, wo.DueDate, wo.PreferredDate, wo.CreatedBy, wo.RequestID, wo.ImageIDs,
	)
	if err != nil {
		r.logger.Error("не удалось создать work order", zap.String("id", wo.ID), zap.Error(err))
		return err
	}
	return nil
}

// UpdateWorkOrderInTx пишет все изменяемые поля одним UPDATE:
// частичных записей при отказе валидации не бывает.
func (r *WorkOrderRepository) UpdateWorkOrderInTx(ctx context.Context, tx pgx.Tx, wo entities.WorkOrder) error {
	query := fmt.Sprintf(`UPDATE %s SET
		title = $2, description = $3, asset_name = $4, location = $5, priority = $6,
		status = $7, assigned_to = $8, due_date = $9, image_ids = $10,
		technician_notes = $11, technician_images = $12, admin_review = $13,
		approved_by = $14, approved_at = $15, rejected_by = $16, rejected_at = $17,
		rejection_reason = $18, closed_by = $19, closed_at = $20, updated_at = NOW()
		WHERE id = $1`, workOrderTable)

	tag, err := tx.Exec(ctx, query,
		wo.ID, wo.Title, wo.Description, wo.AssetName, wo.Location, wo.Priority,
		wo.Status, wo.AssignedTo, wo.DueDate, wo.ImageIDs,
		wo.TechnicianNotes, wo.TechImageIDs, wo.AdminReview,
		wo.ApprovedBy, wo.ApprovedAt, wo.RejectedBy, wo.RejectedAt,
		wo.RejectionReason, wo.ClosedBy, wo.ClosedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepository) DeleteWorkOrder(ctx context.Context, id string) error {
	tag, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", workOrderTable), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
