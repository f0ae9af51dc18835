package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	"github.com/konnectsl/wallet_backend/internal/utils/pagination"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for admin audit records.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{pool: pool}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

const auditColumns = `record_id, admin_id, action, target_user_id, target_entity_type, target_entity_id, details, created_at`

// InsertAuditRecordInTx writes an audit record within the settlement
// transaction so a committed settlement always has its record.
func (r *PgxAuditRepository) InsertAuditRecordInTx(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error {
	var details []byte
	if len(record.Details) > 0 {
		var err error
		details, err = json.Marshal(record.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal details for audit record %s: %w", record.RecordID, err)
		}
	}

	query := `
		INSERT INTO audit_records (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		record.RecordID,
		record.AdminID,
		record.Action,
		record.TargetUserID,
		record.TargetEntityType,
		record.TargetEntityID,
		details,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record %s: %w", record.RecordID, err)
	}
	return nil
}

func scanAuditRecords(rows pgx.Rows) ([]domain.AuditRecord, error) {
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		var details []byte
		err := rows.Scan(
			&record.RecordID,
			&record.AdminID,
			&record.Action,
			&record.TargetUserID,
			&record.TargetEntityType,
			&record.TargetEntityID,
			&details,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &record.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal details for audit record %s: %w", record.RecordID, err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}
	return records, nil
}

func (r *PgxAuditRepository) listAuditRecords(ctx context.Context, where string, baseArgs []interface{}, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_records ` + where
	args := baseArgs

	if nextToken != nil && *nextToken != "" {
		createdAt, recordID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		connector := "WHERE"
		if where != "" {
			connector = "AND"
		}
		query += fmt.Sprintf(" %s (created_at, record_id) < ($%d, $%d)", connector, len(args)+1, len(args)+2)
		args = append(args, createdAt, recordID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, record_id DESC LIMIT %d;`, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	records, err := scanAuditRecords(rows)
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.RecordID)
		newNextToken = &token
	}
	return records, newNextToken, nil
}

// ListAuditRecords retrieves audit records across all admins, newest first.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	return r.listAuditRecords(ctx, "", nil, limit, nextToken)
}

// ListAuditRecordsByTarget retrieves audit records for one target user,
// newest first.
func (r *PgxAuditRepository) ListAuditRecordsByTarget(ctx context.Context, targetUserID string, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	return r.listAuditRecords(ctx, "WHERE target_user_id = $1", []interface{}{targetUserID}, limit, nextToken)
}
