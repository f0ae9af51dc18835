package services

import (
	"context"
	"fmt"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
)

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditReader
}

// NewAuditService creates the audit trail read service. Writes happen only
// inside settlement transactions.
func NewAuditService(auditRepo portsrepo.AuditReader) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// ListAuditRecords lists privileged-action records, optionally filtered to
// one target user, newest first.
func (s *auditService) ListAuditRecords(ctx context.Context, admin domain.AdminActor, targetUserID string, params dto.ListParams) (*dto.ListAuditRecordsResponse, error) {
	var (
		records   []domain.AuditRecord
		nextToken *string
		err       error
	)
	if targetUserID != "" {
		records, nextToken, err = s.auditRepo.ListAuditRecordsByTarget(ctx, targetUserID, params.Limit, params.NextToken)
	} else {
		records, nextToken, err = s.auditRepo.ListAuditRecords(ctx, params.Limit, params.NextToken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	return &dto.ListAuditRecordsResponse{
		Records:   dto.ToAuditRecordResponses(records),
		NextToken: nextToken,
	}, nil
}
