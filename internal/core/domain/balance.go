package domain

import (
	"fmt"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Balance is the denormalized running balance for one user. It is the single
// source of truth for spend decisions; the ledger must always sum to it.
type Balance struct {
	UserID string `json:"userID"`
	// Available is the total spendable token balance.
	Available decimal.Decimal `json:"availableBalance"`
	// Withdrawable is the subset of Available that has cleared the hold
	// period and may be cashed out. Invariant: Withdrawable <= Available.
	Withdrawable decimal.Decimal `json:"withdrawableBalance"`
	// TotalDeposited and TotalWithdrawn are monotonically non-decreasing
	// lifetime counters, kept for audit and display only.
	TotalDeposited decimal.Decimal `json:"totalDeposited"`
	TotalWithdrawn decimal.Decimal `json:"totalWithdrawn"`
	AuditFields
}

// BalanceDelta describes a balance mutation produced by a settlement.
// Positive values credit, negative values debit.
type BalanceDelta struct {
	Available    decimal.Decimal
	Withdrawable decimal.Decimal
	Deposited    decimal.Decimal
	Withdrawn    decimal.Decimal
}

// Apply returns the balance after the delta, or ErrNegativeBalance if any
// resulting field would go below zero. Lifetime counters must not decrease.
func (b Balance) Apply(d BalanceDelta) (Balance, error) {
	next := b
	next.Available = b.Available.Add(d.Available)
	next.Withdrawable = b.Withdrawable.Add(d.Withdrawable)
	next.TotalDeposited = b.TotalDeposited.Add(d.Deposited)
	next.TotalWithdrawn = b.TotalWithdrawn.Add(d.Withdrawn)

	if next.Available.IsNegative() || next.Withdrawable.IsNegative() {
		return Balance{}, fmt.Errorf("%w: available %s, withdrawable %s after delta for user %s",
			apperrors.ErrNegativeBalance, next.Available.String(), next.Withdrawable.String(), b.UserID)
	}
	if d.Deposited.IsNegative() || d.Withdrawn.IsNegative() {
		return Balance{}, fmt.Errorf("%w: lifetime counters cannot decrease for user %s",
			apperrors.ErrValidation, b.UserID)
	}
	if next.Withdrawable.GreaterThan(next.Available) {
		return Balance{}, fmt.Errorf("%w: withdrawable %s exceeds available %s for user %s",
			apperrors.ErrValidation, next.Withdrawable.String(), next.Available.String(), b.UserID)
	}
	return next, nil
}

// NewZeroBalance creates the zeroed balance row written at account creation.
func NewZeroBalance(userID string, audit AuditFields) Balance {
	return Balance{
		UserID:         userID,
		Available:      decimal.Zero,
		Withdrawable:   decimal.Zero,
		TotalDeposited: decimal.Zero,
		TotalWithdrawn: decimal.Zero,
		AuditFields:    audit,
	}
}
