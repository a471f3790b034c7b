package dto

import "github.com/aarondl/null/v8"

type CreateAssetDTO struct {
	Name           string   `json:"name" validate:"required,max=255"`
	Type           string   `json:"type" validate:"required,oneof=Site Line Facility Machine Equipment"`
	Status         string   `json:"status" validate:"omitempty,oneof=Operational Downtime Maintenance"`
	HealthScore    *int     `json:"health_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Location       *string  `json:"location,omitempty"`
	Criticality    string   `json:"criticality" validate:"omitempty,wo_priority"`
	Model          *string  `json:"model,omitempty"`
	Manufacturer   *string  `json:"manufacturer,omitempty"`
	SerialNumber   *string  `json:"serial_number,omitempty"`
	InstallDate    *string  `json:"install_date,omitempty" validate:"omitempty,iso_date"`
	WarrantyExpiry *string  `json:"warranty_expiry,omitempty" validate:"omitempty,iso_date"`
	Description    *string  `json:"description,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	ParentID       *string  `json:"parent_id,omitempty"`
}

type UpdateAssetDTO struct {
	Name           null.String  `json:"name,omitempty"`
	Status         null.String  `json:"status,omitempty"`
	HealthScore    null.Int     `json:"health_score,omitempty"`
	Location       null.String  `json:"location,omitempty"`
	Criticality    null.String  `json:"criticality,omitempty"`
	Model          null.String  `json:"model,omitempty"`
	Manufacturer   null.String  `json:"manufacturer,omitempty"`
	SerialNumber   null.String  `json:"serial_number,omitempty"`
	InstallDate    null.String  `json:"install_date,omitempty"`
	WarrantyExpiry null.String  `json:"warranty_expiry,omitempty"`
	Description    null.String  `json:"description,omitempty"`
	Latitude       null.Float64 `json:"latitude,omitempty"`
	Longitude      null.Float64 `json:"longitude,omitempty"`
	ParentID       null.String  `json:"parent_id,omitempty"`
}

type AssetDTO struct {
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
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}

// AssetTreeNodeDTO — узел дерева иерархии.
type AssetTreeNodeDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Status      string             `json:"status"`
	HealthScore int                `json:"health_score"`
	Location    *string            `json:"location,omitempty"`
	Criticality string             `json:"criticality"`
	Children    []AssetTreeNodeDTO `json:"children"`
}

// AssetStatisticsDTO — сводка по активам.
type AssetStatisticsDTO struct {
	Total         int            `json:"total"`
	ByType        map[string]int `json:"by_type"`
	ByStatus      map[string]int `json:"by_status"`
	AvgHealth     float64        `json:"avg_health"`
	CriticalCount int            `json:"critical_count"`
}

type UpdateAssetLocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}
