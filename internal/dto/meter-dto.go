package dto

type CreateMeterReadingDTO struct {
	AssetID     string   `json:"asset_id" validate:"required"`
	MeterType   string   `json:"meter_type" validate:"required"`
	Value       float64  `json:"value" validate:"required"`
	Unit        string   `json:"unit" validate:"required"`
	ReadingDate *string  `json:"reading_date,omitempty"`
	Source      *string  `json:"source,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

type MeterReadingDTO struct {
	ID            int64    `json:"id"`
	AssetID       string   `json:"asset_id"`
	MeterType     string   `json:"meter_type"`
	Value         float64  `json:"value"`
	Unit          string   `json:"unit"`
	PreviousValue *float64 `json:"previous_value,omitempty"`
	Delta         *float64 `json:"delta,omitempty"`
	ReadingDate   string   `json:"reading_date"`
	Source        *string  `json:"source,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	RecordedBy    *string  `json:"recorded_by,omitempty"`
	CreatedAt     string   `json:"created_at"`
}
