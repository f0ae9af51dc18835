package domain

import "time"

// AuditRecord is one append-only record of a privileged admin action,
// independent of the ledger. Records are never mutated.
type AuditRecord struct {
	RecordID         string            `json:"recordID"`
	AdminID          string            `json:"adminID"`
	Action           string            `json:"action"` // approve_topup, reject_withdrawal, ...
	TargetUserID     string            `json:"targetUserID"`
	TargetEntityType string            `json:"targetEntityType"` // topup_request, withdraw_request, balance
	TargetEntityID   string            `json:"targetEntityID"`
	Details          map[string]string `json:"details,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}
