package entities

import "cmms-backend/pkg/types"

// Request — заявка на обслуживание до конвертации в наряд.
type Request struct {
	ID            string   `json:"id"`
	Location      string   `json:"location"`
	Priority      string   `json:"priority"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	ImageIDs      []string `json:"image_ids"`
	AssignedTo    *string  `json:"assigned_to,omitempty"`
	CreatedBy     *string  `json:"created_by,omitempty"`
	PreferredDate *string  `json:"preferred_date,omitempty"`

	types.BaseEntity
}
