package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TopUpApprovalUpdate carries the fields stamped onto a request when a
// top-up is approved.
type TopUpApprovalUpdate struct {
	AdminID         string
	AdminNotes      string
	TokensCredited  decimal.Decimal
	CommissionTaken decimal.Decimal
	ReviewedAt      time.Time
	HoldReleaseAt   time.Time
}

// TopUpRejectionUpdate carries the fields stamped onto a rejected request.
type TopUpRejectionUpdate struct {
	AdminID    string
	AdminNotes string
	ReviewedAt time.Time
}

// TopUpInfoUpdate carries the admin message for an info request.
type TopUpInfoUpdate struct {
	AdminID    string
	AdminNotes string
}

// TopUpReader defines read operations for top-up requests.
type TopUpReader interface {
	FindTopUpByID(ctx context.Context, requestID string) (*domain.TopUpRequest, error)

	// ListTopUpsByUser retrieves a user's own requests, newest first.
	ListTopUpsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.TopUpRequest, *string, error)

	// ListTopUpsByStatus retrieves the admin queue for the given statuses,
	// newest first.
	ListTopUpsByStatus(ctx context.Context, statuses []domain.TopUpStatus, limit int, nextToken *string) ([]domain.TopUpRequest, *string, error)

	// ListMaturedHolds retrieves approved requests whose hold period has
	// passed and whose funds have not yet been promoted to withdrawable.
	ListMaturedHolds(ctx context.Context, asOf time.Time, limit int) ([]domain.TopUpRequest, error)
}

// TopUpWriter defines write operations for top-up requests. Status
// transitions are conditional updates: they succeed only if the request is
// still in an actionable state, which is what makes concurrent admin
// decisions safe.
type TopUpWriter interface {
	SaveTopUp(ctx context.Context, req domain.TopUpRequest) error

	// UpdateTopUpSubmission re-writes the user-editable fields of an
	// info-requested request (re-submission leaves the status untouched).
	UpdateTopUpSubmission(ctx context.Context, req domain.TopUpRequest) error

	// ApproveTopUpInTx transitions PENDING/INFO_REQUESTED -> APPROVED.
	// Returns apperrors.ErrAlreadyProcessed if the request is no longer
	// actionable.
	ApproveTopUpInTx(ctx context.Context, tx pgx.Tx, requestID string, upd TopUpApprovalUpdate) error

	// RejectTopUpInTx transitions PENDING/INFO_REQUESTED -> REJECTED.
	RejectTopUpInTx(ctx context.Context, tx pgx.Tx, requestID string, upd TopUpRejectionUpdate) error

	// MarkTopUpInfoRequestedInTx transitions PENDING/INFO_REQUESTED ->
	// INFO_REQUESTED.
	MarkTopUpInfoRequestedInTx(ctx context.Context, tx pgx.Tx, requestID string, upd TopUpInfoUpdate) error

	// MarkHoldReleasedInTx flags an approved request's funds as promoted.
	// Conditional on the flag still being unset, so concurrent maturation
	// runs cannot double-promote.
	MarkHoldReleasedInTx(ctx context.Context, tx pgx.Tx, requestID string, releasedAt time.Time) error
}

// TopUpRepositoryFacade combines all top-up repository interfaces.
type TopUpRepositoryFacade interface {
	TopUpReader
	TopUpWriter
}
