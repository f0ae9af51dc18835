package domain

import "time"

// NotificationType classifies user notifications emitted by settlements.
type NotificationType string

const (
	NotifyTopUpApproved      NotificationType = "topup_approved"
	NotifyTopUpRejected      NotificationType = "topup_rejected"
	NotifyTopUpInfoRequested NotificationType = "topup_info_requested"
	NotifyTopUpReleased      NotificationType = "topup_released"
	NotifyWithdrawApproved   NotificationType = "withdraw_approved"
	NotifyWithdrawRejected   NotificationType = "withdraw_rejected"
)

// Notification is a user-facing message. Delivery is best-effort from the
// settlement processor's perspective: a failed delivery never rolls a
// settlement back.
type Notification struct {
	NotificationID string           `json:"notificationID"`
	UserID         string           `json:"userID"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	RelatedID      string           `json:"relatedID,omitempty"`
	ReadAt         *time.Time       `json:"readAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}
