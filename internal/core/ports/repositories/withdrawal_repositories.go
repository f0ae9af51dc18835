package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WithdrawalPayoutUpdate carries the fields stamped onto a request when a
// withdrawal is marked paid. FeeAmount/PayoutAmount are the authoritative
// values recomputed at approval time, which may differ from the stored quote.
type WithdrawalPayoutUpdate struct {
	AdminID         string
	AdminNotes      string
	PayoutReference string
	FeeAmount       decimal.Decimal
	PayoutAmount    decimal.Decimal
	PaidAt          time.Time
}

// WithdrawalRejectionUpdate carries the fields stamped onto a rejected request.
type WithdrawalRejectionUpdate struct {
	AdminID    string
	AdminNotes string
}

// WithdrawalReader defines read operations for withdrawal requests.
type WithdrawalReader interface {
	FindWithdrawalByID(ctx context.Context, requestID string) (*domain.WithdrawalRequest, error)

	ListWithdrawalsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.WithdrawalRequest, *string, error)

	ListWithdrawalsByStatus(ctx context.Context, statuses []domain.WithdrawalStatus, limit int, nextToken *string) ([]domain.WithdrawalRequest, *string, error)
}

// WithdrawalWriter defines write operations for withdrawal requests.
type WithdrawalWriter interface {
	SaveWithdrawal(ctx context.Context, req domain.WithdrawalRequest) error

	// MarkWithdrawalPaidInTx transitions PENDING -> PAID. Returns
	// apperrors.ErrAlreadyProcessed if the request is no longer pending.
	MarkWithdrawalPaidInTx(ctx context.Context, tx pgx.Tx, requestID string, upd WithdrawalPayoutUpdate) error

	// RejectWithdrawalInTx transitions PENDING -> REJECTED.
	RejectWithdrawalInTx(ctx context.Context, tx pgx.Tx, requestID string, upd WithdrawalRejectionUpdate) error
}

// WithdrawalRepositoryFacade combines all withdrawal repository interfaces.
type WithdrawalRepositoryFacade interface {
	WithdrawalReader
	WithdrawalWriter
}
