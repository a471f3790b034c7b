package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cmms-backend/internal/repositories"
	"cmms-backend/pkg/types"
	"cmms-backend/pkg/utils"
)

type ReportServiceInterface interface {
	ExportWorkOrders(ctx context.Context, filter types.Filter) (*bytes.Buffer, string, error)
}

// ReportService выгружает наряды в Excel для офлайн-отчётности.
type ReportService struct {
	workOrderRepo repositories.WorkOrderRepositoryInterface
	logger        *zap.Logger
}

func NewReportService(workOrderRepo repositories.WorkOrderRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{workOrderRepo: workOrderRepo, logger: logger}
}

var workOrderReportHeaders = []string{
	"ID", "Название", "Актив", "Локация", "Приоритет", "Статус",
	"Исполнитель", "Срок", "Автор", "Создан", "Закрыт",
}

func (s *ReportService) ExportWorkOrders(ctx context.Context, filter types.Filter) (*bytes.Buffer, string, error) {
	// Для выгрузки пагинация не применяется.
	filter.WithPagination = false

	workOrders, _, err := s.workOrderRepo.GetWorkOrders(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "WorkOrders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	for i, h := range workOrderReportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(workOrderReportHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return nil, "", err
	}

	for i := range workOrders {
		wo := &workOrders[i]
		closedAt := ""
		if wo.ClosedAt != nil {
			closedAt = wo.ClosedAt.Format(timeFormat)
		}
		row := []interface{}{
			wo.ID, wo.Title, wo.AssetName, wo.Location, wo.Priority, wo.Status,
			utils.SafeDeref(wo.AssignedTo), utils.SafeDeref(wo.DueDate),
			utils.SafeDeref(wo.CreatedBy), wo.CreatedAt.Format(timeFormat), closedAt,
		}
		startCell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, startCell, &row); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("workorders_%d.xlsx", len(workOrders))
	s.logger.Info("сформирован Excel-отчёт", zap.Int("rows", len(workOrders)))
	return buf, fileName, nil
}
