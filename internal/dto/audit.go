package dto

import (
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
)

// AuditRecordResponse mirrors domain.AuditRecord.
type AuditRecordResponse struct {
	RecordID         string            `json:"recordID"`
	AdminID          string            `json:"adminID"`
	Action           string            `json:"action"`
	TargetUserID     string            `json:"targetUserID"`
	TargetEntityType string            `json:"targetEntityType"`
	TargetEntityID   string            `json:"targetEntityID"`
	Details          map[string]string `json:"details,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// ToAuditRecordResponses converts domain records to DTOs.
func ToAuditRecordResponses(records []domain.AuditRecord) []AuditRecordResponse {
	res := make([]AuditRecordResponse, len(records))
	for i, r := range records {
		res[i] = AuditRecordResponse{
			RecordID:         r.RecordID,
			AdminID:          r.AdminID,
			Action:           r.Action,
			TargetUserID:     r.TargetUserID,
			TargetEntityType: r.TargetEntityType,
			TargetEntityID:   r.TargetEntityID,
			Details:          r.Details,
			CreatedAt:        r.CreatedAt,
		}
	}
	return res
}

// ListAuditRecordsResponse is the paginated listing envelope.
type ListAuditRecordsResponse struct {
	Records   []AuditRecordResponse `json:"records"`
	NextToken *string               `json:"nextToken,omitempty"`
}
