package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	Name       string  `json:"name" validate:"required,max=255"`
	Phone      *string `json:"phone,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	JobTitle   *string `json:"job_title,omitempty"`
	Role       *string `json:"role,omitempty"`
	UserRole   string  `json:"user_role" validate:"required,oneof=Requester Technician Admin 'Head Technician'"`
}

type UpdateUserDTO struct {
	Name       null.String `json:"name,omitempty"`
	Phone      null.String `json:"phone,omitempty"`
	AvatarURL  null.String `json:"avatar_url,omitempty"`
	EmployeeID null.String `json:"employee_id,omitempty"`
	JobTitle   null.String `json:"job_title,omitempty"`
	Role       null.String `json:"role,omitempty"`
	UserRole   null.String `json:"user_role,omitempty"`
	Status     null.String `json:"status,omitempty"`
}

type UserDTO struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Phone       *string `json:"phone,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	JobTitle    *string `json:"job_title,omitempty"`
	Role        *string `json:"role,omitempty"`
	UserRole    string  `json:"user_role"`
	Status      string  `json:"status"`
	LastLoginAt string  `json:"last_login_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
