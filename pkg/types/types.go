package types

import "time"

// BaseEntity — общие поля всех таблиц.
type BaseEntity struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
