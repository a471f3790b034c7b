package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	appevents "cmms-backend/internal/events"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/eventbus"
	"cmms-backend/pkg/types"
	"cmms-backend/pkg/utils"
)

const timeFormat = "2006-01-02 15:04:05"

type WorkOrderServiceInterface interface {
	GetWorkOrders(ctx context.Context, filter types.Filter) ([]dto.WorkOrderDTO, uint64, error)
	FindWorkOrder(ctx context.Context, id string) (*dto.WorkOrderDTO, error)
	GetAllowedStatuses(ctx context.Context, id string) (*dto.AllowedStatusesDTO, error)
	CreateWorkOrder(ctx context.Context, payload dto.CreateWorkOrderDTO) (*dto.WorkOrderDTO, error)
	UpdateWorkOrder(ctx context.Context, id string, payload dto.UpdateWorkOrderDTO) (*dto.WorkOrderDTO, error)
	TechnicianUpdate(ctx context.Context, id string, payload dto.TechnicianUpdateDTO) (*dto.WorkOrderDTO, error)
	ApproveWorkOrder(ctx context.Context, id string, adminReview *string) (*dto.WorkOrderDTO, error)
	RejectWorkOrder(ctx context.Context, id string, payload dto.RejectWorkOrderDTO) (*dto.WorkOrderDTO, error)
	CloseWorkOrder(ctx context.Context, id string) (*dto.WorkOrderDTO, error)
	DeleteWorkOrder(ctx context.Context, id string) error
}

// WorkOrderService — единственная точка изменения нарядов. Любая смена
// статуса проходит через workflow.ValidateStatusTransition, любое
// редактирование — через workflow.PermissionsFor.
type WorkOrderService struct {
	storage       *pgxpool.Pool
	workOrderRepo repositories.WorkOrderRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewWorkOrderService(
	storage *pgxpool.Pool,
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) WorkOrderServiceInterface {
	return &WorkOrderService{
		storage:       storage,
		workOrderRepo: workOrderRepo,
		bus:           bus,
		logger:        logger,
	}
}

func newWorkOrderID() string {
	return "WO-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func (s *WorkOrderService) GetWorkOrders(ctx context.Context, filter types.Filter) ([]dto.WorkOrderDTO, uint64, error) {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	workOrders, total, err := s.workOrderRepo.GetWorkOrders(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.WorkOrderDTO, 0, len(workOrders))
	for i := range workOrders {
		dtos = append(dtos, toWorkOrderDTO(&workOrders[i], role, userName))
	}
	return dtos, total, nil
}

func (s *WorkOrderService) FindWorkOrder(ctx context.Context, id string) (*dto.WorkOrderDTO, error) {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	wo, err := s.workOrderRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toWorkOrderDTO(wo, role, userName)
	return &out, nil
}

func (s *WorkOrderService) GetAllowedStatuses(ctx context.Context, id string) (*dto.AllowedStatusesDTO, error) {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	wo, err := s.workOrderRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := workflow.AllowedNextStatuses(workflow.Status(wo.Status), role)
	out := dto.AllowedStatusesDTO{
		Current: wo.Status,
		Allowed: make([]string, 0, len(allowed)),
	}
	for _, st := range allowed {
		out.Allowed = append(out.Allowed, string(st))
	}
	return &out, nil
}

func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, payload dto.CreateWorkOrderDTO) (*dto.WorkOrderDTO, error) {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	wo := entities.WorkOrder{
		ID:            newWorkOrderID(),
		Title:         payload.Title,
		Description:   payload.Description,
		AssetName:     payload.AssetName,
		Location:      payload.Location,
		Priority:      payload.Priority,
		Status:        string(workflow.StatusOpen),
		AssignedTo:    payload.AssignedTo,
		DueDate:       payload.DueDate,
		PreferredDate: payload.PreferredDate,
		CreatedBy:     &userName,
		RequestID:     payload.RequestID,
		ImageIDs:      payload.ImageIDs,
	}
	if wo.ImageIDs == nil {
		wo.ImageIDs = []string{}
	}

	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.workOrderRepo.CreateWorkOrderInTx(ctx, tx, wo); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publish(ctx, workflow.ActionCreated, &wo, userName)
	if wo.AssignedTo != nil {
		s.publish(ctx, workflow.ActionAssigned, &wo, userName)
	}

	s.logger.Info("наряд создан",
		zap.String("id", wo.ID),
		zap.String("created_by", userName),
	)

	out := toWorkOrderDTO(&wo, role, userName)
	return &out, nil
}

func (s *WorkOrderService) UpdateWorkOrder(ctx context.Context, id string, payload dto.UpdateWorkOrderDTO) (*dto.WorkOrderDTO, error) {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback(ctx)

	wo, err := s.workOrderRepo.FindWorkOrderForUpdateInTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	perms := workflow.PermissionsFor(workflow.Status(wo.Status), role, utils.SafeDeref(wo.AssignedTo), userName)

	var actions []string

	// Смена статуса решается только таблицей переходов.
	if payload.Status.Valid && payload.Status.String != wo.Status {
		newStatus := workflow.ParseStatus(payload.Status.String)
		if newStatus == "" {
			return nil, apperrors.NewInvalidInputError("неизвестный статус: %s", payload.Status.String)
		}
		if err := workflow.ValidateStatusTransition(workflow.Status(wo.Status), newStatus, role); err != nil {
			return nil, err
		}
		if !technicianAssignmentOK(role, wo, userName) {
			return nil, apperrors.ErrForbidden
		}
		actions = append(actions, actionForTransition(workflow.Status(wo.Status), newStatus)...)
		applyStatusAudit(wo, newStatus, userName)
		wo.Status = string(newStatus)
	}

	editsFields := payload.Title.Valid || payload.Description.Valid || payload.AssetName.Valid ||
		payload.Location.Valid || payload.Priority.Valid || payload.DueDate.Valid || payload.AdminReview.Valid
	if editsFields && !perms.CanEdit {
		return nil, apperrors.ErrForbidden
	}

	if payload.AssignedTo.Valid {
		if !perms.CanAssign {
			return nil, apperrors.ErrForbidden
		}
		if utils.SafeDeref(wo.AssignedTo) != payload.AssignedTo.String {
			wo.AssignedTo = &payload.AssignedTo.String
			actions = append(actions, workflow.ActionAssigned)
		}
	}

	if payload.Title.Valid {
		wo.Title = payload.Title.String
	}
	if payload.Description.Valid {
		wo.Description = payload.Description.String
	}
	if payload.AssetName.Valid {
		wo.AssetName = payload.AssetName.String
	}
	if payload.Location.Valid {
		wo.Location = payload.Location.String
	}
	if payload.Priority.Valid {
		wo.Priority = payload.Priority.String
	}
	if payload.DueDate.Valid {
		wo.DueDate = &payload.DueDate.String
	}
	if payload.AdminReview.Valid {
		wo.AdminReview = &payload.AdminReview.String
	}

	if err := s.workOrderRepo.UpdateWorkOrderInTx(ctx, tx, *wo); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	for _, action := range actions {
		s.publish(ctx, action, wo, userName)
	}

	out := toWorkOrderDTO(wo, role, userName)
	return &out, nil
}

// TechnicianUpdate — отчёт техника: заметки и фото, наряд уходит на
// проверку (In Progress → Pending).
func (s *WorkOrderService) TechnicianUpdate(ctx context.Context, id string, payload dto.TechnicianUpdateDTO) (*dto.WorkOrderDTO, error) {
	return s.transition(ctx, id, workflow.StatusPending, workflow.ActionCompleted,
		func(wo *entities.WorkOrder, userName string) {
			wo.TechnicianNotes = &payload.TechnicianNotes
			if payload.TechnicianImages != nil {
				wo.TechImageIDs = payload.TechnicianImages
				// Фото техника попадают и в общий список вложений наряда.
				wo.ImageIDs = mergeImageIDs(wo.ImageIDs, payload.TechnicianImages)
			}
		})
}

// ApproveWorkOrder — Head Technician принимает работу (Pending → Completed).
func (s *WorkOrderService) ApproveWorkOrder(ctx context.Context, id string, adminReview *string) (*dto.WorkOrderDTO, error) {
	return s.transition(ctx, id, workflow.StatusCompleted, workflow.ActionApproved,
		func(wo *entities.WorkOrder, userName string) {
			now := time.Now()
			wo.ApprovedBy = &userName
			wo.ApprovedAt = &now
			if adminReview != nil {
				wo.AdminReview = adminReview
			}
		})
}

// RejectWorkOrder — работа не принята, наряд возвращается технику
// (Pending → In Progress).
func (s *WorkOrderService) RejectWorkOrder(ctx context.Context, id string, payload dto.RejectWorkOrderDTO) (*dto.WorkOrderDTO, error) {
	return s.transition(ctx, id, workflow.StatusInProgress, workflow.ActionRejected,
		func(wo *entities.WorkOrder, userName string) {
			now := time.Now()
			wo.RejectedBy = &userName
			wo.RejectedAt = &now
			wo.RejectionReason = &payload.Reason
		})
}

// CloseWorkOrder — администратор закрывает принятый наряд
// (Completed → Closed).
func (s *WorkOrderService) CloseWorkOrder(ctx context.Context, id string) (*dto.WorkOrderDTO, error) {
	return s.transition(ctx, id, workflow.StatusClosed, workflow.ActionClosed,
		func(wo *entities.WorkOrder, userName string) {
			now := time.Now()
			wo.ClosedBy = &userName
			wo.ClosedAt = &now
		})
}

// transition — общий путь всех операций смены статуса: блокировка строки,
// проверка перехода таблицей, мутация, запись, событие.
func (s *WorkOrderService) transition(
	ctx context.Context,
	id string,
	to workflow.Status,
	action string,
	mutate func(wo *entities.WorkOrder, userName string),
) (*dto.WorkOrderDTO, error) {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback(ctx)

	wo, err := s.workOrderRepo.FindWorkOrderForUpdateInTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := workflow.ValidateStatusTransition(workflow.Status(wo.Status), to, role); err != nil {
		return nil, err
	}

	if !technicianAssignmentOK(role, wo, userName) {
		return nil, apperrors.ErrForbidden
	}

	mutate(wo, userName)
	wo.Status = string(to)

	if err := s.workOrderRepo.UpdateWorkOrderInTx(ctx, tx, *wo); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publish(ctx, action, wo, userName)

	s.logger.Info("статус наряда изменён",
		zap.String("id", wo.ID),
		zap.String("status", wo.Status),
		zap.String("by", userName),
	)

	out := toWorkOrderDTO(wo, role, userName)
	return &out, nil
}

func (s *WorkOrderService) DeleteWorkOrder(ctx context.Context, id string) error {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}

	wo, err := s.workOrderRepo.FindWorkOrder(ctx, id)
	if err != nil {
		return err
	}

	perms := workflow.PermissionsFor(workflow.Status(wo.Status), role, utils.SafeDeref(wo.AssignedTo), userName)
	if !perms.CanDelete {
		return apperrors.ErrForbidden
	}

	return s.workOrderRepo.DeleteWorkOrder(ctx, id)
}

func (s *WorkOrderService) publish(ctx context.Context, action string, wo *entities.WorkOrder, triggeredBy string) {
	s.bus.Publish(ctx, appevents.WorkOrderActionEvent{
		Action:         action,
		WorkOrderID:    wo.ID,
		WorkOrderTitle: wo.Title,
		TriggeredBy:    triggeredBy,
		AssignedTo:     wo.AssignedTo,
		CreatedBy:      wo.CreatedBy,
	})
}

// technicianAssignmentOK — техник меняет статус только своего наряда;
// действует на обоих путях записи (общий PATCH и выделенные операции).
// Остальным ролям назначение смену статуса не ограничивает.
func technicianAssignmentOK(role workflow.Role, wo *entities.WorkOrder, userName string) bool {
	return role != workflow.RoleTechnician || utils.SafeDeref(wo.AssignedTo) == userName
}

// mergeImageIDs дописывает новые идентификаторы в общий список без дублей,
// сохраняя порядок.
func mergeImageIDs(existing, added []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, id := range existing {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range added {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// actionForTransition — какие события рассылать при смене статуса через
// общий PATCH (выделенные операции публикуют события сами).
func actionForTransition(from, to workflow.Status) []string {
	switch {
	case from == workflow.StatusInProgress && to == workflow.StatusPending:
		return []string{workflow.ActionCompleted}
	case from == workflow.StatusPending && to == workflow.StatusCompleted:
		return []string{workflow.ActionApproved}
	case from == workflow.StatusPending && to == workflow.StatusInProgress:
		return []string{workflow.ActionRejected}
	case from == workflow.StatusCompleted && to == workflow.StatusClosed:
		return []string{workflow.ActionClosed}
	default:
		return nil
	}
}

// applyStatusAudit проставляет поля аудита при смене статуса через общий PATCH.
func applyStatusAudit(wo *entities.WorkOrder, to workflow.Status, userName string) {
	now := time.Now()
	switch to {
	case workflow.StatusCompleted:
		wo.ApprovedBy = &userName
		wo.ApprovedAt = &now
	case workflow.StatusClosed:
		wo.ClosedBy = &userName
		wo.ClosedAt = &now
	}
}

func actorFromCtx(ctx context.Context) (workflow.Role, string, error) {
	roleStr, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return "", "", err
	}
	userName, err := utils.GetUserNameFromCtx(ctx)
	if err != nil {
		return "", "", err
	}
	role := workflow.ParseRole(roleStr)
	if role == "" {
		return "", "", apperrors.ErrForbidden
	}
	return role, userName, nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFormat)
}

func toWorkOrderDTO(wo *entities.WorkOrder, role workflow.Role, userName string) dto.WorkOrderDTO {
	return dto.WorkOrderDTO{
		ID:              wo.ID,
		Title:           wo.Title,
		Description:     wo.Description,
		AssetName:       wo.AssetName,
		Location:        wo.Location,
		Priority:        wo.Priority,
		Status:          wo.Status,
		AssignedTo:      wo.AssignedTo,
		DueDate:         wo.DueDate,
		PreferredDate:   wo.PreferredDate,
		CreatedBy:       wo.CreatedBy,
		RequestID:       wo.RequestID,
		ImageIDs:        wo.ImageIDs,
		TechnicianNotes: wo.TechnicianNotes,
		TechImageIDs:    wo.TechImageIDs,
		AdminReview:     wo.AdminReview,
		ApprovedBy:      wo.ApprovedBy,
		ApprovedAt:      formatTimePtr(wo.ApprovedAt),
		RejectedBy:      wo.RejectedBy,
		RejectedAt:      formatTimePtr(wo.RejectedAt),
		RejectionReason: wo.RejectionReason,
		ClosedBy:        wo.ClosedBy,
		ClosedAt:        formatTimePtr(wo.ClosedAt),
		CreatedAt:       wo.CreatedAt.Format(timeFormat),
		UpdatedAt:       formatTimePtr(wo.UpdatedAt),
		Permissions: workflow.PermissionsFor(
			workflow.Status(wo.Status), role, utils.SafeDeref(wo.AssignedTo), userName),
	}
}
