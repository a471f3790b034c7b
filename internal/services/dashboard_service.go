package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cmms-backend/internal/dto"
	"cmms-backend/internal/repositories"
	"cmms-backend/internal/workflow"
	"cmms-backend/pkg/constants"
)

type DashboardServiceInterface interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	logger        *zap.Logger
}

func NewDashboardService(dashboardRepo repositories.DashboardRepositoryInterface, logger *zap.Logger) DashboardServiceInterface {
	return &DashboardService{dashboardRepo: dashboardRepo, logger: logger}
}

func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := time.Now()

	byStatus, err := s.dashboardRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.dashboardRepo.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	avgHours, err := s.dashboardRepo.AverageCompletionHours(ctx)
	if err != nil {
		return nil, err
	}
	daily, err := s.dashboardRepo.DailyCounts(ctx, now.AddDate(0, 0, -6))
	if err != nil {
		return nil, err
	}
	overdue, err := s.dashboardRepo.CountOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	byAssignee, err := s.dashboardRepo.CountByAssignee(ctx)
	if err != nil {
		return nil, err
	}

	stats := dto.DashboardStatsDTO{
		StatusCounts: dto.StatusCountsDTO{
			Open:       byStatus[string(workflow.StatusOpen)],
			InProgress: byStatus[string(workflow.StatusInProgress)],
			Pending:    byStatus[string(workflow.StatusPending)],
			Completed:  byStatus[string(workflow.StatusCompleted)],
			Closed:     byStatus[string(workflow.StatusClosed)],
		},
		PriorityDistribution: priorityDistribution(byPriority),
		OverdueCount:         overdue,
		DailyWorkOrders:      make([]dto.DailyWorkOrderPointDTO, 0, len(daily)),
		WorkOrdersByAssignee: make([]dto.WorkOrdersByAssigneeDTO, 0, len(byAssignee)),
	}

	if avgHours != nil {
		stats.AverageCompletionTime = &dto.AverageCompletionTimeDTO{
			Hours:         *avgHours,
			FormattedText: formatHours(*avgHours),
		}
	}

	for _, p := range daily {
		stats.DailyWorkOrders = append(stats.DailyWorkOrders, dto.DailyWorkOrderPointDTO{
			Date:      p.Day.Format("2006-01-02"),
			DayName:   p.Day.Format("Mon"),
			Created:   p.Created,
			Completed: p.Completed,
		})
	}

	for _, a := range byAssignee {
		stats.WorkOrdersByAssignee = append(stats.WorkOrdersByAssignee, dto.WorkOrdersByAssigneeDTO{
			Name:  a.Name,
			Count: a.Count,
		})
	}

	return &stats, nil
}

func priorityDistribution(byPriority map[string]int) dto.PriorityDistributionDTO {
	out := dto.PriorityDistributionDTO{
		Critical: byPriority[constants.PriorityCritical],
		High:     byPriority[constants.PriorityHigh],
		Medium:   byPriority[constants.PriorityMedium],
		Low:      byPriority[constants.PriorityLow],
	}
	known := out.Critical + out.High + out.Medium + out.Low
	total := 0
	for _, n := range byPriority {
		total += n
	}
	out.Other = total - known
	return out
}

// formatHours переводит часы в человекочитаемый вид: "2d 4h", "5h", "45m".
func formatHours(hours float64) string {
	totalMinutes := int(hours * 60)
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm", totalMinutes)
	}
	days := totalMinutes / (24 * 60)
	remHours := (totalMinutes % (24 * 60)) / 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, remHours)
	}
	return fmt.Sprintf("%dh", remHours)
}
