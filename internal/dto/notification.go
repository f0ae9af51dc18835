package dto

import (
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
)

// NotificationResponse mirrors domain.Notification.
type NotificationResponse struct {
	NotificationID string                  `json:"notificationID"`
	Type           domain.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	RelatedID      string                  `json:"relatedID,omitempty"`
	ReadAt         *time.Time              `json:"readAt,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// ToNotificationResponses converts domain notifications to DTOs.
func ToNotificationResponses(ns []domain.Notification) []NotificationResponse {
	res := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		res[i] = NotificationResponse{
			NotificationID: n.NotificationID,
			Type:           n.Type,
			Title:          n.Title,
			Message:        n.Message,
			RelatedID:      n.RelatedID,
			ReadAt:         n.ReadAt,
			CreatedAt:      n.CreatedAt,
		}
	}
	return res
}

// ListNotificationsResponse is the paginated listing envelope.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	NextToken     *string                `json:"nextToken,omitempty"`
}
