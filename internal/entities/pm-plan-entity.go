package entities

import (
	"time"

	"cmms-backend/pkg/types"
)

// PMPlan — план планово-предупредительного обслуживания: раз в
// IntervalDays дней по активу открывается новый наряд.
type PMPlan struct {
	ID              int64      `json:"id"`
	AssetID         string     `json:"asset_id"`
	AssetName       string     `json:"asset_name"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Priority        string     `json:"priority"`
	IntervalDays    int        `json:"interval_days"`
	LastGeneratedAt *time.Time `json:"last_generated_at,omitempty"`
	Active          bool       `json:"active"`

	types.BaseEntity
}

// Due — пора ли открывать следующий наряд.
func (p *PMPlan) Due(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.LastGeneratedAt == nil {
		return true
	}
	return now.Sub(*p.LastGeneratedAt) >= time.Duration(p.IntervalDays)*24*time.Hour
}
