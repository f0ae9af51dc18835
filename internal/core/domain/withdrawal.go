package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalPaid     WithdrawalStatus = "PAID"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// IsTerminal reports whether the status permits no further transitions.
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalPaid || s == WithdrawalRejected
}

// WithdrawalRequest represents a user's ask to cash tokens out to mobile
// money. Funds are not decremented while the request is pending; the debit
// happens atomically at payout time.
type WithdrawalRequest struct {
	RequestID       string          `json:"requestID"`
	UserID          string          `json:"userID"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
	// FeeAmount and PayoutAmount are the quote computed at submission time.
	// They are display values; the authoritative fee is re-derived from
	// current settings at payout time.
	FeeAmount       decimal.Decimal  `json:"feeAmount"`
	PayoutAmount    decimal.Decimal  `json:"payoutAmount"`
	RecipientNumber string           `json:"recipientNumber"`
	Notes           string           `json:"notes"`
	Status          WithdrawalStatus `json:"status"`

	AdminID    string `json:"adminID,omitempty"`
	AdminNotes string `json:"adminNotes,omitempty"`
	// PayoutReference is the off-band transfer confirmation the admin enters
	// when marking the request paid.
	PayoutReference string     `json:"payoutReference,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`

	AuditFields
}

// WithdrawalDecision is the tagged union of admin decisions on a withdrawal
// request.
type WithdrawalDecision interface {
	Action() string
	Validate() error
}

// PayWithdrawal marks the request paid after the admin has sent the off-band
// payout. PayoutReference is proof of the transfer and is required.
type PayWithdrawal struct {
	PayoutReference string
	Notes           string
}

func (d PayWithdrawal) Action() string { return "approve_withdrawal" }

func (d PayWithdrawal) Validate() error {
	if strings.TrimSpace(d.PayoutReference) == "" {
		return fmt.Errorf("%w: payout reference is required", apperrors.ErrValidation)
	}
	return nil
}

// RejectWithdrawal declines the request. No balance effect: funds were never
// decremented while pending.
type RejectWithdrawal struct {
	Reason string
}

func (d RejectWithdrawal) Action() string { return "reject_withdrawal" }

func (d RejectWithdrawal) Validate() error {
	if strings.TrimSpace(d.Reason) == "" {
		return fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}
	return nil
}
