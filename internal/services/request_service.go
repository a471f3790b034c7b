package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	appevents "cmms-backend/internal/events"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/constants"
	"cmms-backend/pkg/eventbus"
	"cmms-backend/pkg/types"
)

type RequestServiceInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error)
	FindRequest(ctx context.Context, id string) (*dto.RequestDTO, error)
	CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error)
	UpdateRequest(ctx context.Context, id string, payload dto.UpdateRequestDTO) (*dto.RequestDTO, error)
	ConvertToWorkOrder(ctx context.Context, id string) (*dto.WorkOrderDTO, error)
	DeleteRequest(ctx context.Context, id string) error
}

type RequestService struct {
	storage       *pgxpool.Pool
	requestRepo   repositories.RequestRepositoryInterface
	workOrderRepo repositories.WorkOrderRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewRequestService(
	storage *pgxpool.Pool,
	requestRepo repositories.RequestRepositoryInterface,
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		storage:       storage,
		requestRepo:   requestRepo,
		workOrderRepo: workOrderRepo,
		bus:           bus,
		logger:        logger,
	}
}

func newRequestID() string {
	return "REQ-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	requests, total, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.RequestDTO, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, toRequestDTO(&requests[i]))
	}
	return dtos, total, nil
}

func (s *RequestService) FindRequest(ctx context.Context, id string) (*dto.RequestDTO, error) {
	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toRequestDTO(req)
	return &out, nil
}

func (s *RequestService) CreateRequest(ctx context.Context, payload dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	_, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	req := entities.Request{
		ID:            newRequestID(),
		Location:      payload.Location,
		Priority:      payload.Priority,
		Description:   payload.Description,
		Status:        string(workflow.StatusOpen),
		ImageIDs:      payload.ImageIDs,
		AssignedTo:    payload.AssignedTo,
		CreatedBy:     &userName,
		PreferredDate: payload.PreferredDate,
	}
	if req.ImageIDs == nil {
		req.ImageIDs = []string{}
	}

	if err := s.requestRepo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	out := toRequestDTO(&req)
	return &out, nil
}

func (s *RequestService) UpdateRequest(ctx context.Context, id string, payload dto.UpdateRequestDTO) (*dto.RequestDTO, error) {
	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status == constants.RequestStatusConverted {
		return nil, apperrors.NewHttpError(400, "заявка уже конвертирована в наряд", nil, nil)
	}

	if payload.Status.Valid {
		req.Status = payload.Status.String
	}
	if payload.Priority.Valid {
		req.Priority = payload.Priority.String
	}
	if payload.Description.Valid {
		req.Description = payload.Description.String
	}

	if err := s.requestRepo.UpdateRequest(ctx, *req); err != nil {
		return nil, err
	}

	out := toRequestDTO(req)
	return &out, nil
}

// ConvertToWorkOrder создаёт наряд из заявки и помечает заявку
// конвертированной — в одной транзакции. Заголовок наряда строится из
// описания заявки, длинное описание обрезается до 50 символов.
func (s *RequestService) ConvertToWorkOrder(ctx context.Context, id string) (*dto.WorkOrderDTO, error) {
	role, userName, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != workflow.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == constants.RequestStatusConverted {
		return nil, apperrors.NewHttpError(400, "заявка уже конвертирована в наряд", nil, nil)
	}

	wo := entities.WorkOrder{
		ID:            newWorkOrderID(),
		Title:         workOrderTitleFrom(req.Description),
		Description:   req.Description,
		AssetName:     "",
		Location:      req.Location,
		Priority:      req.Priority,
		Status:        string(workflow.StatusOpen),
		AssignedTo:    req.AssignedTo,
		PreferredDate: req.PreferredDate,
		CreatedBy:     req.CreatedBy,
		RequestID:     &req.ID,
		ImageIDs:      req.ImageIDs,
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
	if err := s.requestRepo.MarkConvertedInTx(ctx, tx, req.ID, constants.RequestStatusConverted); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, appevents.WorkOrderActionEvent{
		Action:         workflow.ActionCreated,
		WorkOrderID:    wo.ID,
		WorkOrderTitle: wo.Title,
		TriggeredBy:    userName,
		AssignedTo:     wo.AssignedTo,
		CreatedBy:      wo.CreatedBy,
	})
	if wo.AssignedTo != nil {
		s.bus.Publish(ctx, appevents.WorkOrderActionEvent{
			Action:         workflow.ActionAssigned,
			WorkOrderID:    wo.ID,
			WorkOrderTitle: wo.Title,
			TriggeredBy:    userName,
			AssignedTo:     wo.AssignedTo,
			CreatedBy:      wo.CreatedBy,
		})
	}

	s.logger.Info("заявка конвертирована в наряд",
		zap.String("request_id", req.ID),
		zap.String("work_order_id", wo.ID),
	)

	out := toWorkOrderDTO(&wo, role, userName)
	return &out, nil
}

// workOrderTitleFrom строит заголовок наряда из описания заявки: первые
// 50 символов (не байт — описания обычно кириллические) плюс многоточие.
func workOrderTitleFrom(description string) string {
	runes := []rune(description)
	if len(runes) <= 50 {
		return description
	}
	return string(runes[:50]) + "..."
}

func (s *RequestService) DeleteRequest(ctx context.Context, id string) error {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	if role != workflow.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return s.requestRepo.DeleteRequest(ctx, id)
}

func toRequestDTO(req *entities.Request) dto.RequestDTO {
	return dto.RequestDTO{
		ID:            req.ID,
		Location:      req.Location,
		Priority:      req.Priority,
		Description:   req.Description,
		Status:        req.Status,
		ImageIDs:      req.ImageIDs,
		AssignedTo:    req.AssignedTo,
		CreatedBy:     req.CreatedBy,
		PreferredDate: req.PreferredDate,
		CreatedAt:     req.CreatedAt.Format(timeFormat),
	}
}
