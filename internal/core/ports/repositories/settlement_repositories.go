package repositories

import (
	"context"
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SettlementRepository is the transactional unit of work behind the
// settlement processor. Every method performs its full set of effects
// (conditional request transition, ledger appends, balance mutation, audit
// record) inside a single database transaction that either fully commits or
// fully rolls back. No partial application is observable to concurrent
// readers.
type SettlementRepository interface {
	// ApproveTopUp settles a top-up approval: transitions the request,
	// appends the credit and commission ledger entries, credits the balance,
	// and writes the audit record.
	ApproveTopUp(ctx context.Context, requestID string, upd TopUpApprovalUpdate, entries []domain.LedgerEntry, userID string, delta domain.BalanceDelta, audit domain.AuditRecord) error

	// RejectTopUp transitions the request and writes the audit record. No
	// ledger or balance effect.
	RejectTopUp(ctx context.Context, requestID string, upd TopUpRejectionUpdate, audit domain.AuditRecord) error

	// RequestTopUpInfo marks the request info-requested and writes the audit
	// record.
	RequestTopUpInfo(ctx context.Context, requestID string, upd TopUpInfoUpdate, audit domain.AuditRecord) error

	// PayWithdrawal settles a withdrawal payout. The withdrawable balance is
	// re-checked against requestedAmount under the row lock; if insufficient
	// the whole operation fails with apperrors.ErrInsufficientBalance and the
	// request stays PENDING.
	PayWithdrawal(ctx context.Context, requestID string, upd WithdrawalPayoutUpdate, entries []domain.LedgerEntry, userID string, requestedAmount decimal.Decimal, delta domain.BalanceDelta, audit domain.AuditRecord) error

	// RejectWithdrawal transitions the request and writes the audit record.
	RejectWithdrawal(ctx context.Context, requestID string, upd WithdrawalRejectionUpdate, audit domain.AuditRecord) error

	// ReleaseTopUpHold promotes a matured deposit into the withdrawable
	// balance and flags the request released. The promotion is capped by the
	// locked available balance so spending during the hold window cannot push
	// withdrawable above available.
	ReleaseTopUpHold(ctx context.Context, requestID, userID string, amount decimal.Decimal, releasedAt time.Time, audit domain.AuditRecord) error

	// Spend applies a platform-action debit (or refund credit): one ledger
	// entry plus the balance mutation, atomically.
	Spend(ctx context.Context, entry domain.LedgerEntry, delta domain.BalanceDelta) error
}
