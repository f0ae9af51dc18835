package domain

import "time"

// DefaultCurrency is the single display currency of the platform.
const DefaultCurrency = "SLE"

// PlatformAccountID is the reserved ledger account that receives commissions
// and fees. Per-user ledger sums therefore exclude the platform's cut.
const PlatformAccountID = "platform"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// AdminActor is an already-verified administrator identity. It is produced by
// the authorization boundary (auth middleware + role check) and passed
// explicitly into every privileged settlement call; privileged code never
// reads admin status from ambient state.
type AdminActor struct {
	UserID string
}
