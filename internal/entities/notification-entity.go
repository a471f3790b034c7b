package entities

import "time"

// Notification — уведомление о действии рабочего процесса.
// Адресат задаётся ролью; имя заполняется, когда адресат персональный
// (назначенный техник, автор заявки).
type Notification struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	WorkOrderID    string    `json:"work_order_id"`
	WorkOrderTitle string    `json:"work_order_title"`
	Message        string    `json:"message"`
	RecipientRole  string    `json:"recipient_role"`
	RecipientName  *string   `json:"recipient_name,omitempty"`
	IsRead         bool      `json:"is_read"`
	TriggeredBy    string    `json:"triggered_by"`
	CreatedAt      time.Time `json:"created_at"`
}
