package dto

import (
	"time"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitTopUpRequest defines the data a user submits to claim an off-band
// deposit.
type SubmitTopUpRequest struct {
	AmountSent     decimal.Decimal `json:"amountSent" binding:"required,positivedecimal"`
	PayerReference string          `json:"payerReference" binding:"required,min=10,max=20"`
	TransactionID  string          `json:"transactionID"` // Optional provider reference
	EvidenceURL    string          `json:"evidenceURL" binding:"required,url"`
	PayoutNumber   string          `json:"payoutNumber" binding:"required,min=10,max=20"`
	Notes          string          `json:"notes"`
}

// TopUpResponse mirrors domain.TopUpRequest for API consumers.
type TopUpResponse struct {
	RequestID       string             `json:"requestID"`
	UserID          string             `json:"userID"`
	AmountSent      decimal.Decimal    `json:"amountSent"`
	TokensRequested decimal.Decimal    `json:"tokensRequested"`
	PayerReference  string             `json:"payerReference"`
	TransactionID   string             `json:"transactionID,omitempty"`
	EvidenceURL     string             `json:"evidenceURL"`
	PayoutNumber    string             `json:"payoutNumber"`
	Notes           string             `json:"notes,omitempty"`
	Status          domain.TopUpStatus `json:"status"`
	AdminNotes      string             `json:"adminNotes,omitempty"`
	TokensCredited  decimal.Decimal    `json:"tokensCredited"`
	CommissionTaken decimal.Decimal    `json:"commissionTaken"`
	ReviewedAt      *time.Time         `json:"reviewedAt,omitempty"`
	HoldReleaseAt   *time.Time         `json:"holdReleaseAt,omitempty"`
	HoldReleased    bool               `json:"holdReleased"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ToTopUpResponse converts a domain.TopUpRequest to its DTO.
func ToTopUpResponse(r *domain.TopUpRequest) TopUpResponse {
	return TopUpResponse{
		RequestID:       r.RequestID,
		UserID:          r.UserID,
		AmountSent:      r.AmountSent,
		TokensRequested: r.TokensRequested,
		PayerReference:  r.PayerReference,
		TransactionID:   r.TransactionID,
		EvidenceURL:     r.EvidenceURL,
		PayoutNumber:    r.PayoutNumber,
		Notes:           r.Notes,
		Status:          r.Status,
		AdminNotes:      r.AdminNotes,
		TokensCredited:  r.TokensCredited,
		CommissionTaken: r.CommissionTaken,
		ReviewedAt:      r.ReviewedAt,
		HoldReleaseAt:   r.HoldReleaseAt,
		HoldReleased:    r.HoldReleased,
		CreatedAt:       r.CreatedAt,
	}
}

// ToTopUpResponses converts a slice of domain requests to DTOs.
func ToTopUpResponses(reqs []domain.TopUpRequest) []TopUpResponse {
	res := make([]TopUpResponse, len(reqs))
	for i := range reqs {
		res[i] = ToTopUpResponse(&reqs[i])
	}
	return res
}

// ListTopUpsResponse is the paginated listing envelope.
type ListTopUpsResponse struct {
	Requests  []TopUpResponse `json:"requests"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// TopUpDecisionRequest is the admin decision payload. Exactly one decision
// variant is selected by Type; the service converts it into the matching
// domain decision and rejects payloads whose required fields are missing.
type TopUpDecisionRequest struct {
	Type string `json:"type" binding:"required,oneof=approve reject request_info"`
	// TokensToCredit is required for approve.
	TokensToCredit *decimal.Decimal `json:"tokensToCredit,omitempty"`
	// Reason is required for reject.
	Reason string `json:"reason,omitempty"`
	// Message is required for request_info.
	Message string `json:"message,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ToDomainDecision maps the payload onto the decision union.
func (r TopUpDecisionRequest) ToDomainDecision() domain.TopUpDecision {
	switch r.Type {
	case "approve":
		var tokens decimal.Decimal
		if r.TokensToCredit != nil {
			tokens = *r.TokensToCredit
		}
		return domain.ApproveTopUp{TokensToCredit: tokens, Notes: r.Notes}
	case "reject":
		return domain.RejectTopUp{Reason: r.Reason}
	default:
		return domain.RequestTopUpInfo{Message: r.Message}
	}
}
