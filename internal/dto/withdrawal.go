package dto

import (
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitWithdrawalRequest defines the data a user submits to cash out.
type SubmitWithdrawalRequest struct {
	RequestedAmount decimal.Decimal `json:"requestedAmount" binding:"required,positivedecimal"`
	RecipientNumber string          `json:"recipientNumber" binding:"required,min=10,max=20"`
	Notes           string          `json:"notes"`
}

// WithdrawalQuoteResponse is the fee preview shown before submission.
type WithdrawalQuoteResponse struct {
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
	FeePercent      decimal.Decimal `json:"feePercent"`
	FeeAmount       decimal.Decimal `json:"feeAmount"`
	PayoutAmount    decimal.Decimal `json:"payoutAmount"`
	MinWithdraw     decimal.Decimal `json:"minWithdraw"`
	MaxWithdraw     decimal.Decimal `json:"maxWithdraw"`
}

// WithdrawalResponse mirrors domain.WithdrawalRequest for API consumers.
type WithdrawalResponse struct {
	RequestID       string                  `json:"requestID"`
	UserID          string                  `json:"userID"`
	RequestedAmount decimal.Decimal         `json:"requestedAmount"`
	FeeAmount       decimal.Decimal         `json:"feeAmount"`
	PayoutAmount    decimal.Decimal         `json:"payoutAmount"`
	RecipientNumber string                  `json:"recipientNumber"`
	Notes           string                  `json:"notes,omitempty"`
	Status          domain.WithdrawalStatus `json:"status"`
	AdminNotes      string                  `json:"adminNotes,omitempty"`
	PayoutReference string                  `json:"payoutReference,omitempty"`
	PaidAt          *time.Time              `json:"paidAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// ToWithdrawalResponse converts a domain.WithdrawalRequest to its DTO.
func ToWithdrawalResponse(r *domain.WithdrawalRequest) WithdrawalResponse {
	return WithdrawalResponse{
		RequestID:       r.RequestID,
		UserID:          r.UserID,
		RequestedAmount: r.RequestedAmount,
		FeeAmount:       r.FeeAmount,
		PayoutAmount:    r.PayoutAmount,
		RecipientNumber: r.RecipientNumber,
		Notes:           r.Notes,
		Status:          r.Status,
		AdminNotes:      r.AdminNotes,
		PayoutReference: r.PayoutReference,
		PaidAt:          r.PaidAt,
		CreatedAt:       r.CreatedAt,
	}
}

// ToWithdrawalResponses converts a slice of domain requests to DTOs.
func ToWithdrawalResponses(reqs []domain.WithdrawalRequest) []WithdrawalResponse {
	res := make([]WithdrawalResponse, len(reqs))
	for i := range reqs {
		res[i] = ToWithdrawalResponse(&reqs[i])
	}
	return res
}

// ListWithdrawalsResponse is the paginated listing envelope.
type ListWithdrawalsResponse struct {
	Requests  []WithdrawalResponse `json:"requests"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// WithdrawalDecisionRequest is the admin decision payload for withdrawals.
type WithdrawalDecisionRequest struct {
	Type string `json:"type" binding:"required,oneof=pay reject"`
	// PayoutReference is required for pay: the off-band transfer confirmation.
	PayoutReference string `json:"payoutReference,omitempty"`
	// Reason is required for reject.
	Reason string `json:"reason,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// ToDomainDecision maps the payload onto the decision union.
func (r WithdrawalDecisionRequest) ToDomainDecision() domain.WithdrawalDecision {
	if r.Type == "pay" {
		return domain.PayWithdrawal{PayoutReference: r.PayoutReference, Notes: r.Notes}
	}
	return domain.RejectWithdrawal{Reason: r.Reason}
}
