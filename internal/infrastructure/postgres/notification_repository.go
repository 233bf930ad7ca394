package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lvaldez/bookkeeper-api/internal/domain/entity"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL
// (usable con pool o tx).
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, business_account_id, notification_type, action_message, action_url, action_date, action_date_label, is_seen, created_at, updated_at`

// Create persiste una notificación.
func (r *NotificationRepo) Create(n *entity.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		n.ID, n.BusinessAccountID, n.NotificationType, n.ActionMessage,
		nullIfEmpty(n.ActionURL), n.ActionDate, n.ActionDateLabel, n.IsSeen,
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetByActionURL busca por cuenta, tipo y URL de acción; nil si no existe.
// Clave de idempotencia del recordatorio de pago.
func (r *NotificationRepo) GetByActionURL(businessAccountID, notificationType, actionURL string) (*entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE business_account_id = $1 AND notification_type = $2 AND action_url = $3`
	return r.scanOne(query, businessAccountID, notificationType, actionURL)
}

// ListByBusiness lista las notificaciones de la cuenta, más recientes primero.
func (r *NotificationRepo) ListByBusiness(businessAccountID string, limit, offset int) ([]*entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE business_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, businessAccountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetByID obtiene una notificación; nil si no existe.
func (r *NotificationRepo) GetByID(id string) (*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return r.scanOne(query, id)
}

// MarkSeen marca la notificación como vista.
func (r *NotificationRepo) MarkSeen(id string) error {
	query := `UPDATE notifications SET is_seen = true, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("mark notification seen: %w", err)
	}
	return nil
}

func (r *NotificationRepo) scanOne(query string, args ...any) (*entity.Notification, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

// scanNotification funciona tanto con pgx.Row como con pgx.Rows.
func scanNotification(row interface{ Scan(...any) error }) (*entity.Notification, error) {
	var n entity.Notification
	var actionURL *string
	err := row.Scan(
		&n.ID, &n.BusinessAccountID, &n.NotificationType, &n.ActionMessage,
		&actionURL, &n.ActionDate, &n.ActionDateLabel, &n.IsSeen,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	if actionURL != nil {
		n.ActionURL = *actionURL
	}
	return &n, nil
}
