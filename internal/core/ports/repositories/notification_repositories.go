package repositories

import (
	"context"
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
)

// NotificationRepositoryFacade persists user notifications. Writes happen
// after the settlement commits and are best-effort: the notification row is
// not part of the atomic unit.
type NotificationRepositoryFacade interface {
	SaveNotification(ctx context.Context, n domain.Notification) error

	ListNotificationsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Notification, *string, error)

	MarkNotificationRead(ctx context.Context, notificationID, userID string, readAt time.Time) error
}
