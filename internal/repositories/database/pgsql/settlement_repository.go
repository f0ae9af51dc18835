package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
)

// PgxSettlementRepository executes each settlement as one database
// transaction: conditional request transition, ledger appends, balance
// mutation, and audit record either all commit or all roll back.
type PgxSettlementRepository struct {
	BaseRepository
	balanceRepo    portsrepo.BalanceRepositoryFacade
	ledgerRepo     portsrepo.LedgerRepositoryFacade
	topUpRepo      portsrepo.TopUpRepositoryFacade
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade
	auditRepo      portsrepo.AuditRepositoryFacade
}

// newPgxSettlementRepository creates the transactional settlement unit. It
// composes the per-table repositories' in-transaction methods.
func newPgxSettlementRepository(
	pool *pgxpool.Pool,
	balanceRepo portsrepo.BalanceRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	topUpRepo portsrepo.TopUpRepositoryFacade,
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
) portsrepo.SettlementRepository {
	return &PgxSettlementRepository{
		BaseRepository: BaseRepository{Pool: pool},
		balanceRepo:    balanceRepo,
		ledgerRepo:     ledgerRepo,
		topUpRepo:      topUpRepo,
		withdrawalRepo: withdrawalRepo,
		auditRepo:      auditRepo,
	}
}

var _ portsrepo.SettlementRepository = (*PgxSettlementRepository)(nil)

// withTx runs fn inside a transaction, rolling back on error.
func (r *PgxSettlementRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ApproveTopUp settles a top-up approval. The conditional transition runs
// first so a raced request fails before any money moves.
func (r *PgxSettlementRepository) ApproveTopUp(ctx context.Context, requestID string, upd portsrepo.TopUpApprovalUpdate, entries []domain.LedgerEntry, userID string, delta domain.BalanceDelta, audit domain.AuditRecord) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := r.topUpRepo.ApproveTopUpInTx(ctx, tx, requestID, upd); err != nil {
			return err
		}
		if _, err := r.balanceRepo.ApplyDeltaInTx(ctx, tx, userID, delta, upd.AdminID); err != nil {
			return err
		}
		if err := r.ledgerRepo.AppendEntriesInTx(ctx, tx, entries); err != nil {
			return err
		}
		return r.auditRepo.InsertAuditRecordInTx(ctx, tx, audit)
	})
}

// RejectTopUp transitions the request and writes the audit record. No
// ledger or balance effect.
func (r *PgxSettlementRepository) RejectTopUp(ctx context.Context, requestID string, upd portsrepo.TopUpRejectionUpdate, audit domain.AuditRecord) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := r.topUpRepo.RejectTopUpInTx(ctx, tx, requestID, upd); err != nil {
			return err
		}
		return r.auditRepo.InsertAuditRecordInTx(ctx, tx, audit)
	})
}

// RequestTopUpInfo marks the request info-requested and writes the audit
// record.
func (r *PgxSettlementRepository) RequestTopUpInfo(ctx context.Context, requestID string, upd portsrepo.TopUpInfoUpdate, audit domain.AuditRecord) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := r.topUpRepo.MarkTopUpInfoRequestedInTx(ctx, tx, requestID, upd); err != nil {
			return err
		}
		return r.auditRepo.InsertAuditRecordInTx(ctx, tx, audit)
	})
}

// PayWithdrawal settles a withdrawal payout. The withdrawable balance is
// re-checked under the row lock before any effect; if insufficient the
// request stays PENDING.
func (r *PgxSettlementRepository) PayWithdrawal(ctx context.Context, requestID string, upd portsrepo.WithdrawalPayoutUpdate, entries []domain.LedgerEntry, userID string, requestedAmount decimal.Decimal, delta domain.BalanceDelta, audit domain.AuditRecord) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		balance, err := r.balanceRepo.FindBalanceForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if balance.Withdrawable.LessThan(requestedAmount) {
			return fmt.Errorf("%w: withdrawable %s is less than requested %s for user %s",
				apperrors.ErrInsufficientBalance, balance.Withdrawable.String(), requestedAmount.String(), userID)
		}

		if err := r.withdrawalRepo.MarkWithdrawalPaidInTx(ctx, tx, requestID, upd); err != nil {
			return err
		}
		if _, err := r.balanceRepo.ApplyDeltaInTx(ctx, tx, userID, delta, upd.AdminID); err != nil {
			return err
		}
		if err := r.ledgerRepo.AppendEntriesInTx(ctx, tx, entries); err != nil {
			return err
		}
		return r.auditRepo.InsertAuditRecordInTx(ctx, tx, audit)
	})
}

// RejectWithdrawal transitions the request and writes the audit record.
func (r *PgxSettlementRepository) RejectWithdrawal(ctx context.Context, requestID string, upd portsrepo.WithdrawalRejectionUpdate, audit domain.AuditRecord) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := r.withdrawalRepo.RejectWithdrawalInTx(ctx, tx, requestID, upd); err != nil {
			return err
		}
		return r.auditRepo.InsertAuditRecordInTx(ctx, tx, audit)
	})
}

// ReleaseTopUpHold promotes a matured deposit into the withdrawable balance.
// The promotion is capped by the locked available balance so spending during
// the hold window cannot push withdrawable above available.
func (r *PgxSettlementRepository) ReleaseTopUpHold(ctx context.Context, requestID, userID string, amount decimal.Decimal, releasedAt time.Time, audit domain.AuditRecord) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		balance, err := r.balanceRepo.FindBalanceForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		if err := r.topUpRepo.MarkHoldReleasedInTx(ctx, tx, requestID, releasedAt); err != nil {
			return err
		}

		promotion := amount
		headroom := balance.Available.Sub(balance.Withdrawable)
		if promotion.GreaterThan(headroom) {
			promotion = headroom
		}
		if promotion.IsPositive() {
			delta := domain.BalanceDelta{Withdrawable: promotion}
			if _, err := r.balanceRepo.ApplyDeltaInTx(ctx, tx, userID, delta, audit.AdminID); err != nil {
				return err
			}
		}
		return r.auditRepo.InsertAuditRecordInTx(ctx, tx, audit)
	})
}

// Spend applies a platform-action debit (or refund credit): one ledger entry
// plus the balance mutation, atomically.
func (r *PgxSettlementRepository) Spend(ctx context.Context, entry domain.LedgerEntry, delta domain.BalanceDelta) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := r.balanceRepo.ApplyDeltaInTx(ctx, tx, entry.UserID, delta, entry.ActorID); err != nil {
			return err
		}
		return r.ledgerRepo.AppendEntriesInTx(ctx, tx, []domain.LedgerEntry{entry})
	})
}
