package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
)

// AuditWriter defines append operations for the audit trail. Records are
// never mutated.
type AuditWriter interface {
	// InsertAuditRecordInTx writes an audit record within the settlement
	// transaction so a committed settlement always has its record.
	InsertAuditRecordInTx(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error
}

// AuditReader defines read operations for the audit trail.
type AuditReader interface {
	ListAuditRecords(ctx context.Context, limit int, nextToken *string) ([]domain.AuditRecord, *string, error)

	ListAuditRecordsByTarget(ctx context.Context, targetUserID string, limit int, nextToken *string) ([]domain.AuditRecord, *string, error)
}

// AuditRepositoryFacade combines all audit repository interfaces.
type AuditRepositoryFacade interface {
	AuditWriter
	AuditReader
}
