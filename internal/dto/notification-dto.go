package dto

type NotificationDTO struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	WorkOrderID    string  `json:"work_order_id"`
	WorkOrderTitle string  `json:"work_order_title"`
	Message        string  `json:"message"`
	RecipientRole  string  `json:"recipient_role"`
	RecipientName  *string `json:"recipient_name,omitempty"`
	IsRead         bool    `json:"is_read"`
	TriggeredBy    string  `json:"triggered_by"`
	CreatedAt      string  `json:"created_at"`
}

type CreateNotificationDTO struct {
	Type           string  `json:"type" validate:"required"`
	WorkOrderID    string  `json:"work_order_id" validate:"required"`
	WorkOrderTitle string  `json:"work_order_title" validate:"required"`
	Message        string  `json:"message" validate:"required"`
	RecipientRole  string  `json:"recipient_role" validate:"required"`
	RecipientName  *string `json:"recipient_name,omitempty"`
	TriggeredBy    string  `json:"triggered_by" validate:"required"`
}
