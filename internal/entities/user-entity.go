package entities

import (
	"time"

	"cmms-backend/pkg/types"
)

// User — пользователь системы. UserRole — системная роль для прав
// (Requester/Technician/Admin/Head Technician), Role — должность для
// отображения.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Phone        *string    `json:"phone,omitempty"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	EmployeeID   *string    `json:"employee_id,omitempty"`
	JobTitle     *string    `json:"job_title,omitempty"`
	Role         *string    `json:"role,omitempty"`
	UserRole     string     `json:"user_role"`
	Status       string     `json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	types.BaseEntity
}
