package dto

import "time"

// NotificationResponse respuesta de una notificación de la cuenta.
type NotificationResponse struct {
	ID               string     `json:"id"`
	NotificationType string     `json:"notification_type"`
	ActionMessage    string     `json:"action_message"`
	ActionURL        string     `json:"action_url,omitempty"`
	ActionDate       *time.Time `json:"action_date,omitempty"`
	ActionDateLabel  string     `json:"action_date_label"`
	IsSeen           bool       `json:"is_seen"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
