package entities

import "time"

// MeterReading — показание счётчика актива.
type MeterReading struct {
	ID            int64     `json:"id"`
	AssetID       string    `json:"asset_id"`
	MeterType     string    `json:"meter_type"`
	Value         float64   `json:"value"`
	Unit          string    `json:"unit"`
	PreviousValue *float64  `json:"previous_value,omitempty"`
	ReadingDate   time.Time `json:"reading_date"`
	Source        *string   `json:"source,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	RecordedBy    *string   `json:"recorded_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Delta — изменение относительно предыдущего показания.
func (m *MeterReading) Delta() *float64 {
	if m.PreviousValue == nil {
		return nil
	}
	d := m.Value - *m.PreviousValue
	return &d
}
