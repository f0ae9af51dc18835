package services

import (
	"context"
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/konnectsl/wallet_backend/internal/dto"
)

// SettingsSvcFacade provides the operator-tunable wallet parameters. Values
// are read fresh on every call; callers must not cache them across a
// submission/approval boundary.
type SettingsSvcFacade interface {
	GetWalletSettings(ctx context.Context) (domain.WalletSettings, error)
	UpdateSetting(ctx context.Context, admin domain.AdminActor, key, value string) error
}

// NotifierSvc delivers user notifications. Fire-and-forget from the
// settlement processor's perspective.
type NotifierSvc interface {
	Notify(ctx context.Context, n domain.Notification)
	ListMyNotifications(ctx context.Context, userID string, params dto.ListParams) (*dto.ListNotificationsResponse, error)
	MarkRead(ctx context.Context, userID, notificationID string, readAt time.Time) error
}

// AuditSvcFacade reads the privileged-action audit trail. Writing happens
// only inside settlement transactions.
type AuditSvcFacade interface {
	ListAuditRecords(ctx context.Context, admin domain.AdminActor, targetUserID string, params dto.ListParams) (*dto.ListAuditRecordsResponse, error)
}

// UserSvcFacade manages users and the authorization boundary.
type UserSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// VerifyAdmin re-validates the admin role per privileged call and returns
	// the capability token passed into settlement operations.
	VerifyAdmin(ctx context.Context, userID string) (domain.AdminActor, error)
}

// EvidenceStoreSvc stores uploaded payment evidence and returns the URL the
// core persists. The core never interprets the stored bytes.
type EvidenceStoreSvc interface {
	Store(ctx context.Context, userID, filename string, content []byte) (string, error)
}
