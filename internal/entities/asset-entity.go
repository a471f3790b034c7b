package entities

import "cmms-backend/pkg/types"

// Asset — узел иерархии активов (Site → Line → Facility → Machine → Equipment).
type Asset struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	HealthScore    int      `json:"health_score"`
	Location       *string  `json:"location,omitempty"`
	Criticality    string   `json:"criticality"`
	Model          *string  `json:"model,omitempty"`
	Manufacturer   *string  `json:"manufacturer,omitempty"`
	SerialNumber   *string  `json:"serial_number,omitempty"`
	InstallDate    *string  `json:"install_date,omitempty"`
	WarrantyExpiry *string  `json:"warranty_expiry,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	QRCode         *string  `json:"qr_code,omitempty"`
	ParentID       *string  `json:"parent_id,omitempty"`
	CreatedBy      *string  `json:"created_by,omitempty"`
	UpdatedBy      *string  `json:"updated_by,omitempty"`

	types.BaseEntity
}
