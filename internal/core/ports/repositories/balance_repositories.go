package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
)

// BalanceReader defines read operations for user balances.
type BalanceReader interface {
	// FindBalanceByUserID retrieves the latest committed balance for a user.
	FindBalanceByUserID(ctx context.Context, userID string) (*domain.Balance, error)
}

// BalanceWriter defines write operations for user balances.
type BalanceWriter interface {
	// SaveBalance inserts the zeroed balance row created with the account.
	SaveBalance(ctx context.Context, balance domain.Balance) error

	// FindBalanceForUpdate retrieves a balance row and locks it for the
	// duration of the transaction. Settlements must read balances through
	// this method so concurrent settlements on the same account serialize.
	FindBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Balance, error)

	// ApplyDeltaInTx mutates a locked balance row. It returns
	// apperrors.ErrNegativeBalance if any resulting field would go below
	// zero; it never clamps.
	ApplyDeltaInTx(ctx context.Context, tx pgx.Tx, userID string, delta domain.BalanceDelta, updatedBy string) (*domain.Balance, error)
}

// BalanceRepositoryFacade combines all balance repository interfaces.
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceWriter
}
