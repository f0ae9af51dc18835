package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	"github.com/konnectsl/wallet_backend/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// newPgxLedgerRepository creates a new repository for ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{pool: pool}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerColumns = `entry_id, user_id, kind, amount, currency_code, reference, metadata, actor_id, created_at`

// AppendEntriesInTx writes ledger entries within the caller's settlement
// transaction. Entries are immutable; there is no update path.
func (r *PgxLedgerRepository) AppendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		var metadata []byte
		if len(entry.Metadata) > 0 {
			var err error
			metadata, err = json.Marshal(entry.Metadata)
			if err != nil {
				return fmt.Errorf("failed to marshal metadata for entry %s: %w", entry.EntryID, err)
			}
		}
		batch.Queue(query,
			entry.EntryID,
			entry.UserID,
			entry.Kind,
			entry.Amount,
			entry.CurrencyCode,
			entry.Reference,
			metadata,
			entry.ActorID,
			entry.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute ledger entry batch", err)
	}
	return nil
}

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		var metadata []byte
		err := rows.Scan(
			&entry.EntryID,
			&entry.UserID,
			&entry.Kind,
			&entry.Amount,
			&entry.CurrencyCode,
			&entry.Reference,
			&metadata,
			&entry.ActorID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for entry %s: %w", entry.EntryID, err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}

// ListEntriesByUser retrieves a paginated list of a user's ledger entries
// using token-based pagination, newest first.
func (r *PgxLedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if nextToken != nil && *nextToken != "" {
		createdAt, entryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, createdAt, entryID)
	}

	// Fetch one extra row to detect whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries for user %s: %w", userID, err)
	}
	entries, err := scanLedgerEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}

// ListEntriesByReference retrieves all entries linked to a settlement
// reference.
func (r *PgxLedgerRepository) ListEntriesByReference(ctx context.Context, reference string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE reference = $1
		ORDER BY created_at ASC, entry_id ASC;
	`
	rows, err := r.pool.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for reference %s: %w", reference, err)
	}
	return scanLedgerEntries(rows)
}

// SumEntriesByUser returns the signed sum of all entries for an account.
func (r *PgxLedgerRepository) SumEntriesByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE user_id = $1;`
	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger entries for user %s: %w", userID, err)
	}
	return sum, nil
}
