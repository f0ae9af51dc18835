package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
)

type PgxBalanceRepository struct {
	pool *pgxpool.Pool
}

// newPgxBalanceRepository creates a new repository for balance data.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{pool: pool}
}

// Ensure PgxBalanceRepository implements portsrepo.BalanceRepositoryFacade
var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

const balanceColumns = `user_id, available, withdrawable, total_deposited, total_withdrawn, created_at, created_by, last_updated_at, last_updated_by`

func scanBalance(row pgx.Row) (*domain.Balance, error) {
	var b domain.Balance
	err := row.Scan(
		&b.UserID,
		&b.Available,
		&b.Withdrawable,
		&b.TotalDeposited,
		&b.TotalWithdrawn,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan balance: %w", err)
	}
	return &b, nil
}

// SaveBalance inserts the zeroed balance row created alongside the user.
func (r *PgxBalanceRepository) SaveBalance(ctx context.Context, balance domain.Balance) error {
	query := `
		INSERT INTO balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		balance.UserID,
		balance.Available,
		balance.Withdrawable,
		balance.TotalDeposited,
		balance.TotalWithdrawn,
		balance.CreatedAt,
		balance.CreatedBy,
		balance.LastUpdatedAt,
		balance.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: balance for user %s already exists", apperrors.ErrDuplicate, balance.UserID)
		}
		return fmt.Errorf("failed to save balance for user %s: %w", balance.UserID, err)
	}
	return nil
}

// FindBalanceByUserID retrieves the latest committed balance for a user.
func (r *PgxBalanceRepository) FindBalanceByUserID(ctx context.Context, userID string) (*domain.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE user_id = $1;`
	return scanBalance(r.pool.QueryRow(ctx, query, userID))
}

// FindBalanceForUpdate retrieves a balance row and locks it for the duration
// of the transaction. Concurrent settlements on the same user serialize here.
func (r *PgxBalanceRepository) FindBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE user_id = $1 FOR UPDATE;`
	return scanBalance(tx.QueryRow(ctx, query, userID))
}

// ApplyDeltaInTx mutates a locked balance row. The new values are computed
// in Go through domain.Balance.Apply so the non-negativity checks live in
// one place; the row stays locked from the read to the write.
func (r *PgxBalanceRepository) ApplyDeltaInTx(ctx context.Context, tx pgx.Tx, userID string, delta domain.BalanceDelta, updatedBy string) (*domain.Balance, error) {
	current, err := r.FindBalanceForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	next, err := current.Apply(delta)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE balances
		SET available = $2, withdrawable = $3, total_deposited = $4, total_withdrawn = $5,
		    last_updated_at = NOW(), last_updated_by = $6
		WHERE user_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		userID,
		next.Available,
		next.Withdrawable,
		next.TotalDeposited,
		next.TotalWithdrawn,
		updatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("balance for user %s vanished during update: %w", userID, apperrors.ErrNotFound)
	}

	next.LastUpdatedBy = updatedBy
	return &next, nil
}
