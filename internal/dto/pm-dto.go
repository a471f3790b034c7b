package dto

import "github.com/aarondl/null/v8"

type CreatePMPlanDTO struct {
	AssetID      string `json:"asset_id" validate:"required"`
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"required"`
	Priority     string `json:"priority" validate:"required,wo_priority"`
	IntervalDays int    `json:"interval_days" validate:"required,gte=1"`
}

type UpdatePMPlanDTO struct {
	Title        null.String `json:"title,omitempty"`
	Description  null.String `json:"description,omitempty"`
	Priority     null.String `json:"priority,omitempty"`
	IntervalDays null.Int    `json:"interval_days,omitempty"`
	Active       null.Bool   `json:"active,omitempty"`
}
