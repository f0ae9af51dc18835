package services

import (
	"context"
	"fmt"
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/konnectsl/wallet_backend/internal/metrics"
)

// notificationExchange is the topic exchange downstream delivery workers
// (push, SMS) consume from.
const notificationExchange = "wallet.notifications"

// EventPublisher publishes notification events to the message broker.
// Implemented by pkg/rabbitmq.EventProducer.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

type notificationService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepositoryFacade
	publisher        EventPublisher
}

// NewNotificationService creates the notifier. publisher may be nil, in
// which case events are only persisted.
func NewNotificationService(notificationRepo portsrepo.NotificationRepositoryFacade, publisher EventPublisher) portssvc.NotifierSvc {
	return &notificationService{notificationRepo: notificationRepo, publisher: publisher}
}

var _ portssvc.NotifierSvc = (*notificationService)(nil)

// Notify persists the notification and fans it out to the broker. Both
// effects are best-effort: the caller's settlement has already committed and
// must not be unwound by a delivery failure.
func (s *notificationService) Notify(ctx context.Context, n domain.Notification) {
	if err := s.notificationRepo.SaveNotification(ctx, n); err != nil {
		metrics.NotificationPublishFailures.Inc()
		s.LogError(ctx, err, "Failed to persist notification", "notification_id", n.NotificationID, "user_id", n.UserID)
	}

	if s.publisher == nil {
		return
	}
	routingKey := "notification." + string(n.Type)
	if err := s.publisher.Publish(ctx, notificationExchange, routingKey, n); err != nil {
		metrics.NotificationPublishFailures.Inc()
		s.LogError(ctx, err, "Failed to publish notification event", "notification_id", n.NotificationID, "routing_key", routingKey)
	}
}

// ListMyNotifications retrieves the caller's notifications, newest first.
func (s *notificationService) ListMyNotifications(ctx context.Context, userID string, params dto.ListParams) (*dto.ListNotificationsResponse, error) {
	notifications, nextToken, err := s.notificationRepo.ListNotificationsByUser(ctx, userID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return &dto.ListNotificationsResponse{
		Notifications: dto.ToNotificationResponses(notifications),
		NextToken:     nextToken,
	}, nil
}

// MarkRead stamps the read time on one of the caller's notifications.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string, readAt time.Time) error {
	if err := s.notificationRepo.MarkNotificationRead(ctx, notificationID, userID, readAt); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
