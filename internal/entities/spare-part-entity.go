package entities

import "cmms-backend/pkg/types"

// SparePart — позиция склада запчастей.
type SparePart struct {
	ID           int64   `json:"id"`
	PartName     string  `json:"part_name"`
	Category     string  `json:"category"`
	PricePerUnit float64 `json:"price_per_unit"`
	Quantity     int     `json:"quantity"`

	types.BaseEntity
}
