package dto

import "github.com/aarondl/null/v8"

type CreateSparePartDTO struct {
	PartName     string  `json:"part_name" validate:"required,max=255"`
	Category     string  `json:"category" validate:"required,max=255"`
	PricePerUnit float64 `json:"price_per_unit" validate:"gte=0"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
}

type UpdateSparePartDTO struct {
	PartName     null.String  `json:"part_name,omitempty"`
	Category     null.String  `json:"category,omitempty"`
	PricePerUnit null.Float64 `json:"price_per_unit,omitempty"`
	Quantity     null.Int     `json:"quantity,omitempty"`
}

type SparePartDTO struct {
	ID           int64   `json:"id"`
	PartName     string  `json:"part_name"`
	Category     string  `json:"category"`
	PricePerUnit float64 `json:"price_per_unit"`
	Quantity     int     `json:"quantity"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}
