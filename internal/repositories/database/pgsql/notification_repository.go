package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	"github.com/konnectsl/wallet_backend/internal/utils/pagination"
)

type PgxNotificationRepository struct {
	pool *pgxpool.Pool
}

// newPgxNotificationRepository creates a new repository for user notifications.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{pool: pool}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// SaveNotification inserts a notification row. Called after the settlement
// commits; a failure here never unwinds the settlement.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, type, title, message, related_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query,
		n.NotificationID,
		n.UserID,
		n.Type,
		n.Title,
		n.Message,
		n.RelatedID,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification %s: %w", n.NotificationID, err)
	}
	return nil
}

// ListNotificationsByUser retrieves a user's notifications, newest first.
func (r *PgxNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	query := `
		SELECT notification_id, user_id, type, title, message, related_id, read_at, created_at
		FROM notifications
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if nextToken != nil && *nextToken != "" {
		createdAt, notificationID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, notification_id) < ($2, $3)`
		args = append(args, createdAt, notificationID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, notification_id DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query notifications for user %s: %w", userID, err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.NotificationID,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.RelatedID,
			&n.ReadAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	var newNextToken *string
	if len(notifications) > limit {
		notifications = notifications[:limit]
		last := notifications[len(notifications)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.NotificationID)
		newNextToken = &token
	}
	return notifications, newNextToken, nil
}

// MarkNotificationRead stamps the read time. Scoped to the owning user so
// one user cannot mark another's notifications.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID, userID string, readAt time.Time) error {
	query := `
		UPDATE notifications
		SET read_at = $3
		WHERE notification_id = $1 AND user_id = $2 AND read_at IS NULL;
	`
	cmdTag, err := r.pool.Exec(ctx, query, notificationID, userID, readAt)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
