package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/entities"
	appevents "cmms-backend/internal/events"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	apperrors "cmms-backend/pkg/errors"
	"cmms-backend/pkg/eventbus"
)

const pmSystemUser = "PM Scheduler"

type PMServiceInterface interface {
	GetPlans(ctx context.Context, activeOnly bool) ([]entities.PMPlan, error)
	CreatePlan(ctx context.Context, payload dto.CreatePMPlanDTO) (*entities.PMPlan, error)
	UpdatePlan(ctx context.Context, id int64, payload dto.UpdatePMPlanDTO) (*entities.PMPlan, error)
	DeletePlan(ctx context.Context, id int64) error
	GenerateDueWorkOrders(ctx context.Context) (int, error)
}

// PMService — планово-предупредительное обслуживание: по расписанию
// открывает наряды для планов, у которых вышел интервал.
type PMService struct {
	storage       *pgxpool.Pool
	pmPlanRepo    repositories.PMPlanRepositoryInterface
	assetRepo     repositories.AssetRepositoryInterface
	workOrderRepo repositories.WorkOrderRepositoryInterface
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewPMService(
	storage *pgxpool.Pool,
	pmPlanRepo repositories.PMPlanRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	workOrderRepo repositories.WorkOrderRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) PMServiceInterface {
	return &PMService{
		storage:       storage,
		pmPlanRepo:    pmPlanRepo,
		assetRepo:     assetRepo,
		workOrderRepo: workOrderRepo,
		bus:           bus,
		logger:        logger,
	}
}

func (s *PMService) GetPlans(ctx context.Context, activeOnly bool) ([]entities.PMPlan, error) {
	return s.pmPlanRepo.GetPlans(ctx, activeOnly)
}

func (s *PMService) CreatePlan(ctx context.Context, payload dto.CreatePMPlanDTO) (*entities.PMPlan, error) {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != workflow.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	asset, err := s.assetRepo.FindAsset(ctx, payload.AssetID)
	if err != nil {
		return nil, err
	}

	plan := entities.PMPlan{
		AssetID:      asset.ID,
		AssetName:    asset.Name,
		Title:        payload.Title,
		Description:  payload.Description,
		Priority:     payload.Priority,
		IntervalDays: payload.IntervalDays,
		Active:       true,
	}

	id, err := s.pmPlanRepo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	return s.pmPlanRepo.FindPlan(ctx, id)
}

func (s *PMService) UpdatePlan(ctx context.Context, id int64, payload dto.UpdatePMPlanDTO) (*entities.PMPlan, error) {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != workflow.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	plan, err := s.pmPlanRepo.FindPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Title.Valid {
		plan.Title = payload.Title.String
	}
	if payload.Description.Valid {
		plan.Description = payload.Description.String
	}
	if payload.Priority.Valid {
		plan.Priority = payload.Priority.String
	}
	if payload.IntervalDays.Valid {
		plan.IntervalDays = int(payload.IntervalDays.Int)
	}
	if payload.Active.Valid {
		plan.Active = payload.Active.Bool
	}

	if err := s.pmPlanRepo.UpdatePlan(ctx, *plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PMService) DeletePlan(ctx context.Context, id int64) error {
	role, _, err := actorFromCtx(ctx)
	if err != nil {
		return err
	}
	if role != workflow.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return s.pmPlanRepo.DeletePlan(ctx, id)
}

// GenerateDueWorkOrders вызывается планировщиком. Для каждого плана с
// вышедшим интервалом открывается наряд; план отмечается, чтобы не
// дублировать наряды при повторном запуске.
func (s *PMService) GenerateDueWorkOrders(ctx context.Context) (int, error) {
	plans, err := s.pmPlanRepo.GetPlans(ctx, true)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	generated := 0
	for i := range plans {
		plan := &plans[i]
		if !plan.Due(now) {
			continue
		}

		asset, err := s.assetRepo.FindAsset(ctx, plan.AssetID)
		if err != nil {
			s.logger.Warn("план ППР ссылается на несуществующий актив",
				zap.Int64("plan_id", plan.ID), zap.String("asset_id", plan.AssetID))
			continue
		}

		createdBy := pmSystemUser
		wo := entities.WorkOrder{
			ID:          newWorkOrderID(),
			Title:       fmt.Sprintf("ППР: %s", plan.Title),
			Description: plan.Description,
			AssetName:   asset.Name,
			Location:    derefOr(asset.Location, ""),
			Priority:    plan.Priority,
			Status:      string(workflow.StatusOpen),
			CreatedBy:   &createdBy,
			ImageIDs:    []string{},
		}

		tx, err := s.storage.Begin(ctx)
		if err != nil {
			return generated, err
		}
		if err := s.workOrderRepo.CreateWorkOrderInTx(ctx, tx, wo); err != nil {
			tx.Rollback(ctx)
			return generated, err
		}
		if err := tx.Commit(ctx); err != nil {
			return generated, err
		}

		if err := s.pmPlanRepo.MarkGenerated(ctx, plan.ID, now); err != nil {
			s.logger.Error("не удалось отметить генерацию по плану ППР",
				zap.Int64("plan_id", plan.ID), zap.Error(err))
		}

		s.bus.Publish(ctx, appevents.WorkOrderActionEvent{
			Action:         workflow.ActionCreated,
			WorkOrderID:    wo.ID,
			WorkOrderTitle: wo.Title,
			TriggeredBy:    pmSystemUser,
			CreatedBy:      wo.CreatedBy,
		})
		generated++
	}

	if generated > 0 {
		s.logger.Info("созданы наряды по планам ППР", zap.Int("count", generated))
	}
	return generated, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
