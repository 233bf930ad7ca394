package entity

import "time"

// Tipos de notificación.
const (
	NotificationTypePaymentReminder = "Payment Reminder"
)

// Notification aviso dirigido a una cuenta de negocio. El motor solo crea
// filas; la entrega (SMS/push) la hace un consumidor externo.
type Notification struct {
	ID                string
	BusinessAccountID string
	NotificationType  string
	ActionMessage     string
	ActionURL         string
	ActionDate        *time.Time
	ActionDateLabel   string
	IsSeen            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
