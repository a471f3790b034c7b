package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"cmms-backend/internal/services"
)

// PMScheduler запускает генерацию нарядов ППР по cron-расписанию.
type PMScheduler struct {
	cron      *cron.Cron
	pmService services.PMServiceInterface
	logger    *zap.Logger
}

func NewPMScheduler(pmService services.PMServiceInterface, logger *zap.Logger) *PMScheduler {
	return &PMScheduler{
		cron:      cron.New(),
		pmService: pmService,
		logger:    logger,
	}
}

func (s *PMScheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("планировщик ППР запущен", zap.String("spec", spec))
	return nil
}

func (s *PMScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *PMScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.pmService.GenerateDueWorkOrders(ctx); err != nil {
		s.logger.Error("генерация нарядов ППР завершилась с ошибкой", zap.Error(err))
	}
}
