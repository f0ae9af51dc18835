package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TopUpStatus is the state of a top-up request.
type TopUpStatus string

const (
	TopUpPending       TopUpStatus = "PENDING"
	TopUpApproved      TopUpStatus = "APPROVED"
	TopUpRejected      TopUpStatus = "REJECTED"
	TopUpInfoRequested TopUpStatus = "INFO_REQUESTED"
)

// IsTerminal reports whether the status permits no further transitions.
// INFO_REQUESTED is non-terminal: the request stays actionable until an admin
// re-decides it.
func (s TopUpStatus) IsTerminal() bool {
	return s == TopUpApproved || s == TopUpRejected
}

// TopUpRequest represents a user's claim of an off-band mobile-money deposit.
// No balance or ledger effect exists until an admin verifies the payment.
type TopUpRequest struct {
	RequestID string `json:"requestID"`
	UserID    string `json:"userID"`
	// AmountSent is the user-claimed amount of the off-band payment.
	AmountSent decimal.Decimal `json:"amountSent"`
	// TokensRequested defaults to AmountSent at submission.
	TokensRequested decimal.Decimal `json:"tokensRequested"`
	PayerReference  string          `json:"payerReference"` // sender's mobile-money number
	TransactionID   string          `json:"transactionID"`  // optional provider reference
	EvidenceURL     string          `json:"evidenceURL"`    // payment screenshot
	PayoutNumber    string          `json:"payoutNumber"`   // where future withdrawals should go
	Notes           string          `json:"notes"`
	Status          TopUpStatus     `json:"status"`

	// Decision outcome, set by the settlement processor.
	AdminID         string          `json:"adminID,omitempty"`
	AdminNotes      string          `json:"adminNotes,omitempty"`
	TokensCredited  decimal.Decimal `json:"tokensCredited"`
	CommissionTaken decimal.Decimal `json:"commissionTaken"`
	ReviewedAt      *time.Time      `json:"reviewedAt,omitempty"`

	// Hold bookkeeping: approved deposits stay non-withdrawable until
	// HoldReleaseAt passes and the maturation job promotes them.
	HoldReleaseAt *time.Time `json:"holdReleaseAt,omitempty"`
	HoldReleased  bool       `json:"holdReleased"`

	AuditFields
}

// TopUpDecision is the tagged union of admin decisions on a top-up request.
// Each variant enforces its own required fields.
type TopUpDecision interface {
	// Action is the audit-trail action name for the decision.
	Action() string
	Validate() error
}

// ApproveTopUp credits tokensToCredit to the user and takes
// amountSent - tokensToCredit as platform commission.
type ApproveTopUp struct {
	// TokensToCredit is entered by the admin after verifying the evidence.
	// It is required and may differ from the requested amount.
	TokensToCredit decimal.Decimal
	Notes          string
}

func (d ApproveTopUp) Action() string { return "approve_topup" }

func (d ApproveTopUp) Validate() error {
	if d.TokensToCredit.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: tokens to credit must be positive", apperrors.ErrValidation)
	}
	return nil
}

// RejectTopUp declines the request without any balance effect.
type RejectTopUp struct {
	Reason string
}

func (d RejectTopUp) Action() string { return "reject_topup" }

func (d RejectTopUp) Validate() error {
	if strings.TrimSpace(d.Reason) == "" {
		return fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}
	return nil
}

// RequestTopUpInfo asks the submitter for more information; the request
// remains actionable.
type RequestTopUpInfo struct {
	Message string
}

func (d RequestTopUpInfo) Action() string { return "request_topup_info" }

func (d RequestTopUpInfo) Validate() error {
	if strings.TrimSpace(d.Message) == "" {
		return fmt.Errorf("%w: message to the user is required", apperrors.ErrValidation)
	}
	return nil
}
