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
	"github.com/konnectsl/wallet_backend/internal/utils/pagination"
)

type PgxWithdrawalRepository struct {
	pool *pgxpool.Pool
}

// newPgxWithdrawalRepository creates a new repository for withdrawal requests.
func newPgxWithdrawalRepository(pool *pgxpool.Pool) portsrepo.WithdrawalRepositoryFacade {
	return &PgxWithdrawalRepository{pool: pool}
}

// Ensure PgxWithdrawalRepository implements portsrepo.WithdrawalRepositoryFacade
var _ portsrepo.WithdrawalRepositoryFacade = (*PgxWithdrawalRepository)(nil)

const withdrawalColumns = `request_id, user_id, requested_amount, fee_amount, payout_amount, recipient_number, notes, status,
	admin_id, admin_notes, payout_reference, paid_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	var req domain.WithdrawalRequest
	err := row.Scan(
		&req.RequestID,
		&req.UserID,
		&req.RequestedAmount,
		&req.FeeAmount,
		&req.PayoutAmount,
		&req.RecipientNumber,
		&req.Notes,
		&req.Status,
		&req.AdminID,
		&req.AdminNotes,
		&req.PayoutReference,
		&req.PaidAt,
		&req.CreatedAt,
		&req.CreatedBy,
		&req.LastUpdatedAt,
		&req.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan withdrawal request: %w", err)
	}
	return &req, nil
}

func scanWithdrawals(rows pgx.Rows) ([]domain.WithdrawalRequest, error) {
	defer rows.Close()

	var reqs []domain.WithdrawalRequest
	for rows.Next() {
		req, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withdrawal requests: %w", err)
	}
	return reqs, nil
}

// SaveWithdrawal inserts a new withdrawal request with its fee quote.
func (r *PgxWithdrawalRepository) SaveWithdrawal(ctx context.Context, req domain.WithdrawalRequest) error {
	query := `
		INSERT INTO withdraw_requests (request_id, user_id, requested_amount, fee_amount, payout_amount, recipient_number, notes, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		req.RequestID,
		req.UserID,
		req.RequestedAmount,
		req.FeeAmount,
		req.PayoutAmount,
		req.RecipientNumber,
		req.Notes,
		req.Status,
		req.CreatedAt,
		req.CreatedBy,
		req.LastUpdatedAt,
		req.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: withdrawal request %s already exists", apperrors.ErrDuplicate, req.RequestID)
		}
		return fmt.Errorf("failed to save withdrawal request %s: %w", req.RequestID, err)
	}
	return nil
}

// FindWithdrawalByID retrieves a withdrawal request by its ID.
func (r *PgxWithdrawalRepository) FindWithdrawalByID(ctx context.Context, requestID string) (*domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdraw_requests WHERE request_id = $1;`
	return scanWithdrawal(r.pool.QueryRow(ctx, query, requestID))
}

// ListWithdrawalsByUser retrieves a user's own requests, newest first.
func (r *PgxWithdrawalRepository) ListWithdrawalsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.WithdrawalRequest, *string, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdraw_requests WHERE user_id = $1`
	args := []interface{}{userID}

	if nextToken != nil && *nextToken != "" {
		createdAt, requestID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, request_id) < ($2, $3)`
		args = append(args, createdAt, requestID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, request_id DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query withdrawal requests for user %s: %w", userID, err)
	}
	reqs, err := scanWithdrawals(rows)
	if err != nil {
		return nil, nil, err
	}
	return paginateWithdrawals(reqs, limit)
}

// ListWithdrawalsByStatus retrieves the admin queue for the given statuses,
// newest first.
func (r *PgxWithdrawalRepository) ListWithdrawalsByStatus(ctx context.Context, statuses []domain.WithdrawalStatus, limit int, nextToken *string) ([]domain.WithdrawalRequest, *string, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdraw_requests WHERE status = ANY($1)`
	statusStrs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrs = append(statusStrs, string(s))
	}
	args := []interface{}{statusStrs}

	if nextToken != nil && *nextToken != "" {
		createdAt, requestID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, request_id) < ($2, $3)`
		args = append(args, createdAt, requestID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, request_id DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query withdrawal queue: %w", err)
	}
	reqs, err := scanWithdrawals(rows)
	if err != nil {
		return nil, nil, err
	}
	return paginateWithdrawals(reqs, limit)
}

func paginateWithdrawals(reqs []domain.WithdrawalRequest, limit int) ([]domain.WithdrawalRequest, *string, error) {
	var newNextToken *string
	if len(reqs) > limit {
		reqs = reqs[:limit]
		last := reqs[len(reqs)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.RequestID)
		newNextToken = &token
	}
	return reqs, newNextToken, nil
}

// explainMissedWithdrawalTransition distinguishes not-found from
// already-processed after a conditional update matched zero rows.
func (r *PgxWithdrawalRepository) explainMissedWithdrawalTransition(ctx context.Context, requestID string) error {
	existing, err := r.FindWithdrawalByID(ctx, requestID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: withdrawal request %s is %s", apperrors.ErrAlreadyProcessed, requestID, existing.Status)
}

// MarkWithdrawalPaidInTx transitions PENDING -> PAID. The stored fee and
// payout amounts are overwritten with the values recomputed at approval.
func (r *PgxWithdrawalRepository) MarkWithdrawalPaidInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.WithdrawalPayoutUpdate) error {
	query := `
		UPDATE withdraw_requests
		SET status = $2, admin_id = $3, admin_notes = $4, payout_reference = $5,
		    fee_amount = $6, payout_amount = $7, paid_at = $8,
		    last_updated_at = NOW(), last_updated_by = $3
		WHERE request_id = $1 AND status = $9;
	`
	cmdTag, err := tx.Exec(ctx, query,
		requestID,
		domain.WithdrawalPaid,
		upd.AdminID,
		upd.AdminNotes,
		upd.PayoutReference,
		upd.FeeAmount,
		upd.PayoutAmount,
		upd.PaidAt,
		domain.WithdrawalPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark withdrawal request %s paid: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainMissedWithdrawalTransition(ctx, requestID)
	}
	return nil
}

// RejectWithdrawalInTx transitions PENDING -> REJECTED.
func (r *PgxWithdrawalRepository) RejectWithdrawalInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.WithdrawalRejectionUpdate) error {
	query := `
		UPDATE withdraw_requests
		SET status = $2, admin_id = $3, admin_notes = $4,
		    last_updated_at = NOW(), last_updated_by = $3
		WHERE request_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, query,
		requestID,
		domain.WithdrawalRejected,
		upd.AdminID,
		upd.AdminNotes,
		domain.WithdrawalPending,
	)
	if err != nil {
		return fmt.Errorf("failed to reject withdrawal request %s: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainMissedWithdrawalTransition(ctx, requestID)
	}
	return nil
}
