package services

import (
	"context"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/konnectsl/wallet_backend/internal/dto"
)

// WalletReaderSvc defines wallet read operations.
type WalletReaderSvc interface {
	// GetWallet returns the user's balance plus recent ledger activity.
	GetWallet(ctx context.Context, userID string, params dto.ListParams) (*dto.WalletResponse, error)

	GetBalance(ctx context.Context, userID string) (*domain.Balance, error)

	// ListLedgerByReference returns all entries linked to one settlement
	// reference. Admin-only: it crosses account boundaries.
	ListLedgerByReference(ctx context.Context, admin domain.AdminActor, reference string) ([]domain.LedgerEntry, error)

	// ListUserLedger returns any user's entries; admin-only.
	ListUserLedger(ctx context.Context, admin domain.AdminActor, userID string, params dto.ListParams) (*dto.WalletResponse, error)

	// CheckLedgerConsistency verifies the ledger sum equals the denormalized
	// available balance. A divergence is a correctness defect.
	CheckLedgerConsistency(ctx context.Context, admin domain.AdminActor, userID string) (bool, error)
}

// WalletWriterSvc defines spend-side operations.
type WalletWriterSvc interface {
	// Spend debits the user's available balance for a platform action. Fails
	// with apperrors.ErrInsufficientBalance rather than going negative.
	Spend(ctx context.Context, userID string, req dto.SpendRequest) (*domain.LedgerEntry, error)

	// Refund credits back a previous spend against the same reference.
	Refund(ctx context.Context, admin domain.AdminActor, req dto.RefundRequest) (*domain.LedgerEntry, error)
}

// WalletSvcFacade combines wallet read and spend operations.
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
}
