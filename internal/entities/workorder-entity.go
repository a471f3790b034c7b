package entities

import (
	"time"

	"cmms-backend/pkg/types"
)

// WorkOrder — наряд на работы. Статус меняется только через
// workflow.ValidateStatusTransition.
type WorkOrder struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	AssetName       string     `json:"asset_name"`
	Location        string     `json:"location"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	AssignedTo      *string    `json:"assigned_to,omitempty"`
	DueDate         *string    `json:"due_date,omitempty"`
	PreferredDate   *string    `json:"preferred_date,omitempty"`
	CreatedBy       *string    `json:"created_by,omitempty"`
	RequestID       *string    `json:"request_id,omitempty"`
	ImageIDs        []string   `json:"image_ids"`
	TechnicianNotes *string    `json:"technician_notes,omitempty"`
	TechImageIDs    []string   `json:"technician_images"`
	AdminReview     *string    `json:"admin_review,omitempty"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *string    `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ClosedBy        *string    `json:"closed_by,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`

	types.BaseEntity
}
