package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a ledger entry by the value movement it records.
type EntryKind string

const (
	EntryTopUpCredit     EntryKind = "TOPUP_CREDIT"
	EntryWithdrawalDebit EntryKind = "WITHDRAWAL_DEBIT"
	EntryPlatformFee     EntryKind = "PLATFORM_FEE"
	EntryPurchaseDebit   EntryKind = "PURCHASE_DEBIT"
	EntryRefund          EntryKind = "REFUND"
)

// LedgerEntry is one immutable, signed value movement. Entries are never
// updated or deleted; corrections are new offsetting entries (EntryRefund).
type LedgerEntry struct {
	EntryID string    `json:"entryID"`
	UserID  string    `json:"userID"` // account the entry belongs to
	Kind    EntryKind `json:"kind"`
	// Amount is signed: positive credits the named account, negative debits it.
	Amount       decimal.Decimal   `json:"amount"`
	CurrencyCode string            `json:"currencyCode"`
	Reference    string            `json:"reference"` // links back to the originating request
	Metadata     map[string]string `json:"metadata,omitempty"`
	ActorID      string            `json:"actorID"` // who caused the movement
	CreatedAt    time.Time         `json:"createdAt"`
}

// TopUpReference builds the ledger reference for the user-credit leg of a
// top-up settlement.
func TopUpReference(requestID string) string {
	return "topup_request:" + requestID
}

// TopUpCommissionReference builds the ledger reference for the platform
// commission leg of a top-up settlement.
func TopUpCommissionReference(requestID string) string {
	return "topup_commission:" + requestID
}

// WithdrawalReference builds the ledger reference for the user-debit leg of a
// withdrawal payout.
func WithdrawalReference(requestID string) string {
	return "withdraw_request:" + requestID
}

// WithdrawalFeeReference builds the ledger reference for the platform fee leg
// of a withdrawal payout.
func WithdrawalFeeReference(requestID string) string {
	return "withdraw_fee:" + requestID
}
