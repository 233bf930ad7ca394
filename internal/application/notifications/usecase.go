package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/domain"
	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

// NotificationUseCase emite y consulta notificaciones de la cuenta. El motor
// solo escribe filas; la entrega efectiva es de un consumidor externo.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notificationRepo: notificationRepo}
}

// PayLaterReminderInTx emite el recordatorio de cobro de un pago a crédito
// usando el repositorio del caller (misma transacción de la liquidación).
// Es get-or-create con clave (cuenta, tipo, action_url): completar dos veces
// el mismo pago nunca duplica el recordatorio.
func (uc *NotificationUseCase) PayLaterReminderInTx(
	notificationRepo repository.NotificationRepository,
	businessID, customerName, actionURL string,
	payLaterDate time.Time,
	now time.Time,
) (*entity.Notification, error) {
	existing, err := notificationRepo.GetByActionURL(businessID, entity.NotificationTypePaymentReminder, actionURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	date := payLaterDate
	n := &entity.Notification{
		ID:                uuid.New().String(),
		BusinessAccountID: businessID,
		NotificationType:  entity.NotificationTypePaymentReminder,
		ActionMessage:     fmt.Sprintf("Receive payment for your order to %s", customerName),
		ActionURL:         actionURL,
		ActionDate:        &date,
		ActionDateLabel:   "Payment due date",
		IsSeen:            false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := notificationRepo.Create(n); err != nil {
		return nil, err
	}
	return n, nil
}

// List lista las notificaciones de la cuenta, más recientes primero.
func (uc *NotificationUseCase) List(ctx context.Context, businessID string, limit, offset int) ([]*dto.NotificationResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.notificationRepo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toResponse(n))
	}
	return out, nil
}

// MarkSeen marca una notificación como vista, verificando pertenencia.
func (uc *NotificationUseCase) MarkSeen(ctx context.Context, businessID, notificationID string) (*dto.NotificationResponse, error) {
	n, err := uc.notificationRepo.GetByID(notificationID)
	if err != nil {
		return nil, err
	}
	if n == nil || n.BusinessAccountID != businessID {
		return nil, domain.ErrNotFound
	}
	if !n.IsSeen {
		if err := uc.notificationRepo.MarkSeen(n.ID); err != nil {
			return nil, err
		}
		n.IsSeen = true
		n.UpdatedAt = time.Now()
	}
	return toResponse(n), nil
}

func toResponse(n *entity.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:               n.ID,
		NotificationType: n.NotificationType,
		ActionMessage:    n.ActionMessage,
		ActionURL:        n.ActionURL,
		ActionDate:       n.ActionDate,
		ActionDateLabel:  n.ActionDateLabel,
		IsSeen:           n.IsSeen,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
	}
}
