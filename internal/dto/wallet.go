package dto

import (
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceResponse mirrors domain.Balance for API consumers.
type BalanceResponse struct {
	UserID         string          `json:"userID"`
	Available      decimal.Decimal `json:"availableBalance"`
	Withdrawable   decimal.Decimal `json:"withdrawableBalance"`
	TotalDeposited decimal.Decimal `json:"totalDeposited"`
	TotalWithdrawn decimal.Decimal `json:"totalWithdrawn"`
}

// ToBalanceResponse converts a domain.Balance to its DTO.
func ToBalanceResponse(b *domain.Balance) BalanceResponse {
	return BalanceResponse{
		UserID:         b.UserID,
		Available:      b.Available,
		Withdrawable:   b.Withdrawable,
		TotalDeposited: b.TotalDeposited,
		TotalWithdrawn: b.TotalWithdrawn,
	}
}

// LedgerEntryResponse mirrors domain.LedgerEntry.
type LedgerEntryResponse struct {
	EntryID      string            `json:"entryID"`
	UserID       string            `json:"userID"`
	Kind         domain.EntryKind  `json:"kind"`
	Amount       decimal.Decimal   `json:"amount"`
	CurrencyCode string            `json:"currencyCode"`
	Reference    string            `json:"reference"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	ActorID      string            `json:"actorID"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain entry to its DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:      e.EntryID,
		UserID:       e.UserID,
		Kind:         e.Kind,
		Amount:       e.Amount,
		CurrencyCode: e.CurrencyCode,
		Reference:    e.Reference,
		Metadata:     e.Metadata,
		ActorID:      e.ActorID,
		CreatedAt:    e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts domain entries to DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToLedgerEntryResponse(e)
	}
	return res
}

// WalletResponse is the user-facing wallet read model: current balance plus
// recent ledger activity.
type WalletResponse struct {
	Balance   BalanceResponse       `json:"balance"`
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// SpendRequest debits tokens for a platform action (job application,
// purchase).
type SpendRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required,positivedecimal"`
	Reference string          `json:"reference" binding:"required"`
	Notes     string          `json:"notes"`
}

// RefundRequest credits back a previous spend against the same reference.
type RefundRequest struct {
	UserID    string          `json:"userID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required,positivedecimal"`
	Reference string          `json:"reference" binding:"required"`
	Notes     string          `json:"notes"`
}

// ListParams are common token-pagination query parameters.
type ListParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}
