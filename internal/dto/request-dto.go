package dto

import "github.com/aarondl/null/v8"

type CreateRequestDTO struct {
	Location      string   `json:"location" validate:"required,max=255"`
	Priority      string   `json:"priority" validate:"required,wo_priority"`
	Description   string   `json:"description" validate:"required"`
	ImageIDs      []string `json:"image_ids,omitempty"`
	AssignedTo    *string  `json:"assigned_to,omitempty"`
	PreferredDate *string  `json:"preferred_date,omitempty" validate:"omitempty,iso_date"`
}

type UpdateRequestDTO struct {
	Status      null.String `json:"status,omitempty"`
	Priority    null.String `json:"priority,omitempty"`
	Description null.String `json:"description,omitempty"`
}

type RequestDTO struct {
	ID            string   `json:"id"`
	Location      string   `json:"location"`
	Priority      string   `json:"priority"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	ImageIDs      []string `json:"image_ids"`
	AssignedTo    *string  `json:"assigned_to,omitempty"`
	CreatedBy     *string  `json:"created_by,omitempty"`
	PreferredDate *string  `json:"preferred_date,omitempty"`
	CreatedAt     string   `json:"created_at"`
}
