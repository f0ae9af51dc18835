package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerWriter defines append operations for ledger entries. Entries are
// immutable once written; there are no update or delete operations.
type LedgerWriter interface {
	// AppendEntriesInTx writes ledger entries within the caller's settlement
	// transaction.
	AppendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error
}

// LedgerReader defines read operations for ledger entries.
type LedgerReader interface {
	// ListEntriesByUser retrieves a paginated list of a user's ledger entries
	// using token-based pagination, newest first.
	ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListEntriesByReference retrieves all entries linked to a settlement
	// reference.
	ListEntriesByReference(ctx context.Context, reference string) ([]domain.LedgerEntry, error)

	// SumEntriesByUser returns the signed sum of all entries for an account.
	// Used by the reconciliation check against the denormalized available
	// balance.
	SumEntriesByUser(ctx context.Context, userID string) (decimal.Decimal, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerWriter
	LedgerReader
}
