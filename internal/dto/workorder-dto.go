// Файл: internal/dto/workorder-dto.go
package dto

import (
	"github.com/aarondl/null/v8"

	"cmms-backend/internal/workflow"
)

// CreateWorkOrderDTO: что клиент присылает для создания наряда.
type CreateWorkOrderDTO struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Description   string   `json:"description" validate:"required"`
	AssetName     string   `json:"asset_name" validate:"required,max=255"`
	Location      string   `json:"location" validate:"required,max=255"`
	Priority      string   `json:"priority" validate:"required,wo_priority"`
	AssignedTo    *string  `json:"assigned_to,omitempty"`
	DueDate       *string  `json:"due_date,omitempty" validate:"omitempty,iso_date"`
	PreferredDate *string  `json:"preferred_date,omitempty" validate:"omitempty,iso_date"`
	ImageIDs      []string `json:"image_ids,omitempty"`
	RequestID     *string  `json:"request_id,omitempty"`
}

// UpdateWorkOrderDTO: частичное обновление. Статус валидируется отдельно
// через workflow.ValidateStatusTransition, здесь только формат.
type UpdateWorkOrderDTO struct {
	Title       null.String `json:"title,omitempty" validate:"omitempty"`
	Description null.String `json:"description,omitempty"`
	AssetName   null.String `json:"asset_name,omitempty"`
	Location    null.String `json:"location,omitempty"`
	Priority    null.String `json:"priority,omitempty"`
	Status      null.String `json:"status,omitempty"`
	AssignedTo  null.String `json:"assigned_to,omitempty"`
	DueDate     null.String `json:"due_date,omitempty"`
	AdminReview null.String `json:"admin_review,omitempty"`
}

// TechnicianUpdateDTO: отчёт техника — заметки и фото, наряд уходит в Pending.
type TechnicianUpdateDTO struct {
	TechnicianNotes  string   `json:"technician_notes" validate:"required"`
	TechnicianImages []string `json:"technician_images,omitempty"`
}

// RejectWorkOrderDTO: отклонение работы Head Technician-ом.
type RejectWorkOrderDTO struct {
	Reason string `json:"reason" validate:"required"`
}

// WorkOrderDTO: что сервер отправляет клиенту.
type WorkOrderDTO struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	AssetName       string               `json:"asset_name"`
	Location        string               `json:"location"`
	Priority        string               `json:"priority"`
	Status          string               `json:"status"`
	AssignedTo      *string              `json:"assigned_to,omitempty"`
	DueDate         *string              `json:"due_date,omitempty"`
	PreferredDate   *string              `json:"preferred_date,omitempty"`
	CreatedBy       *string              `json:"created_by,omitempty"`
	RequestID       *string              `json:"request_id,omitempty"`
	ImageIDs        []string             `json:"image_ids"`
	TechnicianNotes *string              `json:"technician_notes,omitempty"`
	TechImageIDs    []string             `json:"technician_images"`
	AdminReview     *string              `json:"admin_review,omitempty"`
	ApprovedBy      *string              `json:"approved_by,omitempty"`
	ApprovedAt      string               `json:"approved_at,omitempty"`
	RejectedBy      *string              `json:"rejected_by,omitempty"`
	RejectedAt      string               `json:"rejected_at,omitempty"`
	RejectionReason *string              `json:"rejection_reason,omitempty"`
	ClosedBy        *string              `json:"closed_by,omitempty"`
	ClosedAt        string               `json:"closed_at,omitempty"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at,omitempty"`
	Permissions     workflow.Permissions `json:"permissions"`
}

// AllowedStatusesDTO: доступные вызывающей роли переходы для наряда.
type AllowedStatusesDTO struct {
	Current string   `json:"current"`
	Allowed []string `json:"allowed"`
}
