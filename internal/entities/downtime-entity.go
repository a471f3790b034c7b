package entities

import (
	"time"

	"cmms-backend/pkg/types"
)

// AssetDowntime — период простоя актива. EndTime == nil означает,
// что актив всё ещё стоит.
type AssetDowntime struct {
	ID             int64      `json:"id"`
	AssetID        string     `json:"asset_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	Reason         string     `json:"reason"`
	Description    *string    `json:"description,omitempty"`
	ProductionLoss *float64   `json:"production_loss,omitempty"`
	WorkOrderID    *string    `json:"work_order_id,omitempty"`
	ReportedBy     *string    `json:"reported_by,omitempty"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`

	types.BaseEntity
}

// DurationMinutes — длительность простоя в минутах, nil пока простой не закрыт.
func (d *AssetDowntime) DurationMinutes() *int {
	if d.EndTime == nil {
		return nil
	}
	minutes := int(d.EndTime.Sub(d.StartTime).Minutes())
	return &minutes
}

func (d *AssetDowntime) IsActive() bool {
	return d.EndTime == nil
}
