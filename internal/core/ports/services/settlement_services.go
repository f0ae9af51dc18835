package services

import (
	"context"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
)

// SettlementProcessorSvc is the shared transactional core both request state
// machines depend on. Given an admin decision it performs the full set of
// effects (ledger writes, balance mutation, request transition, audit
// record) as a single unit that fully commits or fully fails, then emits
// the user notification best-effort after commit.
//
// Failure modes: apperrors.ErrValidation (bad admin input, e.g. negative
// commission), apperrors.ErrAlreadyProcessed (request no longer actionable),
// apperrors.ErrInsufficientBalance (withdrawal re-check fails), and wrapped
// persistence errors which the caller may retry without assuming any partial
// effect.
type SettlementProcessorSvc interface {
	ProcessTopUpDecision(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.TopUpDecision) (*domain.TopUpRequest, error)

	ProcessWithdrawalDecision(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.WithdrawalDecision) (*domain.WithdrawalRequest, error)
}

// MaturationSvc promotes matured held deposits into the withdrawable
// balance. Driven by the cron scheduler; safe to run concurrently.
type MaturationSvc interface {
	// ReleaseMaturedHolds promotes all approved top-ups whose hold period has
	// passed. Returns the number of requests promoted.
	ReleaseMaturedHolds(ctx context.Context) (int, error)
}
