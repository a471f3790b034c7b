package dto

import "github.com/aarondl/null/v8"

type CreateDowntimeDTO struct {
	AssetID        string   `json:"asset_id" validate:"required"`
	StartTime      string   `json:"start_time" validate:"required"`
	EndTime        *string  `json:"end_time,omitempty"`
	Reason         string   `json:"reason" validate:"required,downtime_reason"`
	Description    *string  `json:"description,omitempty"`
	ProductionLoss *float64 `json:"production_loss,omitempty"`
	WorkOrderID    *string  `json:"work_order_id,omitempty"`
}

type UpdateDowntimeDTO struct {
	EndTime        null.String  `json:"end_time,omitempty"`
	Reason         null.String  `json:"reason,omitempty"`
	Description    null.String  `json:"description,omitempty"`
	ProductionLoss null.Float64 `json:"production_loss,omitempty"`
	ResolvedBy     null.String  `json:"resolved_by,omitempty"`
}

type DowntimeDTO struct {
	ID              int64    `json:"id"`
	AssetID         string   `json:"asset_id"`
	StartTime       string   `json:"start_time"`
	EndTime         *string  `json:"end_time,omitempty"`
	Reason          string   `json:"reason"`
	Description     *string  `json:"description,omitempty"`
	ProductionLoss  *float64 `json:"production_loss,omitempty"`
	WorkOrderID     *string  `json:"work_order_id,omitempty"`
	ReportedBy      *string  `json:"reported_by,omitempty"`
	ResolvedBy      *string  `json:"resolved_by,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	IsActive        bool     `json:"is_active"`
	CreatedAt       string   `json:"created_at"`
}
