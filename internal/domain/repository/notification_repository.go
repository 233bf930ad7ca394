package repository

import "github.com/lvaldez/bookkeeper-api/internal/domain/entity"

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	// GetByActionURL busca una notificación por cuenta, tipo y URL de acción.
	// Devuelve nil si no existe. Es la clave de idempotencia del recordatorio
	// de pago (la URL referencia al pago).
	GetByActionURL(businessAccountID, notificationType, actionURL string) (*entity.Notification, error)
	ListByBusiness(businessAccountID string, limit, offset int) ([]*entity.Notification, error)
	GetByID(id string) (*entity.Notification, error)
	MarkSeen(id string) error
}
