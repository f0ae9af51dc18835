package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	"github.com/konnectsl/wallet_backend/internal/utils/pagination"
)

type PgxTopUpRepository struct {
	pool *pgxpool.Pool
}

// newPgxTopUpRepository creates a new repository for top-up requests.
func newPgxTopUpRepository(pool *pgxpool.Pool) portsrepo.TopUpRepositoryFacade {
	return &PgxTopUpRepository{pool: pool}
}

// Ensure PgxTopUpRepository implements portsrepo.TopUpRepositoryFacade
var _ portsrepo.TopUpRepositoryFacade = (*PgxTopUpRepository)(nil)

const topUpColumns = `request_id, user_id, amount_sent, tokens_requested, payer_reference, transaction_id, evidence_url, payout_number, notes, status,
	admin_id, admin_notes, tokens_credited, commission_taken, reviewed_at, hold_release_at, hold_released,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTopUp(row pgx.Row) (*domain.TopUpRequest, error) {
	var req domain.TopUpRequest
	err := row.Scan(
		&req.RequestID,
		&req.UserID,
		&req.AmountSent,
		&req.TokensRequested,
		&req.PayerReference,
		&req.TransactionID,
		&req.EvidenceURL,
		&req.PayoutNumber,
		&req.Notes,
		&req.Status,
		&req.AdminID,
		&req.AdminNotes,
		&req.TokensCredited,
		&req.CommissionTaken,
		&req.ReviewedAt,
		&req.HoldReleaseAt,
		&req.HoldReleased,
		&req.CreatedAt,
		&req.CreatedBy,
		&req.LastUpdatedAt,
		&req.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan top-up request: %w", err)
	}
	return &req, nil
}

func scanTopUps(rows pgx.Rows) ([]domain.TopUpRequest, error) {
	defer rows.Close()

	var reqs []domain.TopUpRequest
	for rows.Next() {
		req, err := scanTopUp(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top-up requests: %w", err)
	}
	return reqs, nil
}

// SaveTopUp inserts a new top-up request.
func (r *PgxTopUpRepository) SaveTopUp(ctx context.Context, req domain.TopUpRequest) error {
	query := `
		INSERT INTO topup_requests (request_id, user_id, amount_sent, tokens_requested, payer_reference, transaction_id, evidence_url, payout_number, notes, status,
			tokens_credited, commission_taken, hold_released, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.pool.Exec(ctx, query,
		req.RequestID,
		req.UserID,
		req.AmountSent,
		req.TokensRequested,
		req.PayerReference,
		req.TransactionID,
		req.EvidenceURL,
		req.PayoutNumber,
		req.Notes,
		req.Status,
		req.TokensCredited,
		req.CommissionTaken,
		req.HoldReleased,
		req.CreatedAt,
		req.CreatedBy,
		req.LastUpdatedAt,
		req.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: top-up request %s already exists", apperrors.ErrDuplicate, req.RequestID)
		}
		return fmt.Errorf("failed to save top-up request %s: %w", req.RequestID, err)
	}
	return nil
}

// UpdateTopUpSubmission re-writes the user-editable fields of a request that
// is awaiting more information. The update is conditional on the request
// still being actionable by its owner.
func (r *PgxTopUpRepository) UpdateTopUpSubmission(ctx context.Context, req domain.TopUpRequest) error {
	query := `
		UPDATE topup_requests
		SET amount_sent = $3, tokens_requested = $4, payer_reference = $5, transaction_id = $6,
		    evidence_url = $7, payout_number = $8, notes = $9,
		    last_updated_at = NOW(), last_updated_by = $2
		WHERE request_id = $1 AND user_id = $2 AND status IN ($10, $11);
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		req.RequestID,
		req.UserID,
		req.AmountSent,
		req.TokensRequested,
		req.PayerReference,
		req.TransactionID,
		req.EvidenceURL,
		req.PayoutNumber,
		req.Notes,
		domain.TopUpPending,
		domain.TopUpInfoRequested,
	)
	if err != nil {
		return fmt.Errorf("failed to update top-up request %s: %w", req.RequestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainMissedTransition(ctx, req.RequestID)
	}
	return nil
}

// explainMissedTransition distinguishes not-found from already-processed
// after a conditional update matched zero rows.
func (r *PgxTopUpRepository) explainMissedTransition(ctx context.Context, requestID string) error {
	existing, err := r.FindTopUpByID(ctx, requestID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: top-up request %s is %s", apperrors.ErrAlreadyProcessed, requestID, existing.Status)
}

// FindTopUpByID retrieves a top-up request by its ID.
func (r *PgxTopUpRepository) FindTopUpByID(ctx context.Context, requestID string) (*domain.TopUpRequest, error) {
	query := `SELECT ` + topUpColumns + ` FROM topup_requests WHERE request_id = $1;`
	return scanTopUp(r.pool.QueryRow(ctx, query, requestID))
}

// ListTopUpsByUser retrieves a user's own requests, newest first.
func (r *PgxTopUpRepository) ListTopUpsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.TopUpRequest, *string, error) {
	query := `SELECT ` + topUpColumns + ` FROM topup_requests WHERE user_id = $1`
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
		return nil, nil, fmt.Errorf("failed to query top-up requests for user %s: %w", userID, err)
	}
	reqs, err := scanTopUps(rows)
	if err != nil {
		return nil, nil, err
	}
	return paginateTopUps(reqs, limit)
}

// ListTopUpsByStatus retrieves the admin queue for the given statuses,
// newest first.
func (r *PgxTopUpRepository) ListTopUpsByStatus(ctx context.Context, statuses []domain.TopUpStatus, limit int, nextToken *string) ([]domain.TopUpRequest, *string, error) {
	query := `SELECT ` + topUpColumns + ` FROM topup_requests WHERE status = ANY($1)`
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
		return nil, nil, fmt.Errorf("failed to query top-up queue: %w", err)
	}
	reqs, err := scanTopUps(rows)
	if err != nil {
		return nil, nil, err
	}
	return paginateTopUps(reqs, limit)
}

func paginateTopUps(reqs []domain.TopUpRequest, limit int) ([]domain.TopUpRequest, *string, error) {
	var newNextToken *string
	if len(reqs) > limit {
		reqs = reqs[:limit]
		last := reqs[len(reqs)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.RequestID)
		newNextToken = &token
	}
	return reqs, newNextToken, nil
}

// ListMaturedHolds retrieves approved requests whose hold period has passed
// and whose funds have not yet been promoted to withdrawable.
func (r *PgxTopUpRepository) ListMaturedHolds(ctx context.Context, asOf time.Time, limit int) ([]domain.TopUpRequest, error) {
	query := `
		SELECT ` + topUpColumns + `
		FROM topup_requests
		WHERE status = $1 AND hold_released = FALSE AND hold_release_at <= $2
		ORDER BY hold_release_at ASC
		LIMIT $3;
	`
	rows, err := r.pool.Query(ctx, query, domain.TopUpApproved, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matured holds: %w", err)
	}
	return scanTopUps(rows)
}

// ApproveTopUpInTx transitions PENDING/INFO_REQUESTED -> APPROVED. The
// condition on the current status is what makes concurrent decisions safe:
// the second decision matches zero rows and fails.
func (r *PgxTopUpRepository) ApproveTopUpInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.TopUpApprovalUpdate) error {
	query := `
		UPDATE topup_requests
		SET status = $2, admin_id = $3, admin_notes = $4, tokens_credited = $5, commission_taken = $6,
		    reviewed_at = $7, hold_release_at = $8,
		    last_updated_at = NOW(), last_updated_by = $3
		WHERE request_id = $1 AND status IN ($9, $10);
	`
	cmdTag, err := tx.Exec(ctx, query,
		requestID,
		domain.TopUpApproved,
		upd.AdminID,
		upd.AdminNotes,
		upd.TokensCredited,
		upd.CommissionTaken,
		upd.ReviewedAt,
		upd.HoldReleaseAt,
		domain.TopUpPending,
		domain.TopUpInfoRequested,
	)
	if err != nil {
		return fmt.Errorf("failed to approve top-up request %s: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainMissedTransition(ctx, requestID)
	}
	return nil
}

// RejectTopUpInTx transitions PENDING/INFO_REQUESTED -> REJECTED.
func (r *PgxTopUpRepository) RejectTopUpInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.TopUpRejectionUpdate) error {
	query := `
		UPDATE topup_requests
		SET status = $2, admin_id = $3, admin_notes = $4, reviewed_at = $5,
		    last_updated_at = NOW(), last_updated_by = $3
		WHERE request_id = $1 AND status IN ($6, $7);
	`
	cmdTag, err := tx.Exec(ctx, query,
		requestID,
		domain.TopUpRejected,
		upd.AdminID,
		upd.AdminNotes,
		upd.ReviewedAt,
		domain.TopUpPending,
		domain.TopUpInfoRequested,
	)
	if err != nil {
		return fmt.Errorf("failed to reject top-up request %s: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainMissedTransition(ctx, requestID)
	}
	return nil
}

// MarkTopUpInfoRequestedInTx transitions PENDING/INFO_REQUESTED ->
// INFO_REQUESTED.
func (r *PgxTopUpRepository) MarkTopUpInfoRequestedInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.TopUpInfoUpdate) error {
	query := `
		UPDATE topup_requests
		SET status = $2, admin_id = $3, admin_notes = $4,
		    last_updated_at = NOW(), last_updated_by = $3
		WHERE request_id = $1 AND status IN ($5, $6);
	`
	cmdTag, err := tx.Exec(ctx, query,
		requestID,
		domain.TopUpInfoRequested,
		upd.AdminID,
		upd.AdminNotes,
		domain.TopUpPending,
		domain.TopUpInfoRequested,
	)
	if err != nil {
		return fmt.Errorf("failed to mark top-up request %s info-requested: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.explainMissedTransition(ctx, requestID)
	}
	return nil
}

// MarkHoldReleasedInTx flags an approved request's funds as promoted.
// Conditional on the flag still being unset, so concurrent maturation runs
// cannot double-promote.
func (r *PgxTopUpRepository) MarkHoldReleasedInTx(ctx context.Context, tx pgx.Tx, requestID string, releasedAt time.Time) error {
	query := `
		UPDATE topup_requests
		SET hold_released = TRUE, last_updated_at = $2
		WHERE request_id = $1 AND status = $3 AND hold_released = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, requestID, releasedAt, domain.TopUpApproved)
	if err != nil {
		return fmt.Errorf("failed to mark hold released for top-up request %s: %w", requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: hold for top-up request %s already released", apperrors.ErrAlreadyProcessed, requestID)
	}
	return nil
}
