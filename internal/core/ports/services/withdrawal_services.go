package services

import (
	"context"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// WithdrawalSubmitterSvc defines the user-facing withdrawal operations.
type WithdrawalSubmitterSvc interface {
	// QuoteWithdrawal computes the fee preview from current settings.
	QuoteWithdrawal(ctx context.Context, amount decimal.Decimal) (*dto.WithdrawalQuoteResponse, error)

	// SubmitWithdrawal validates bounds and the current withdrawable balance,
	// stores the fee quote, and creates a PENDING request. Funds are not
	// decremented while pending.
	SubmitWithdrawal(ctx context.Context, userID string, req dto.SubmitWithdrawalRequest) (*domain.WithdrawalRequest, error)

	GetWithdrawal(ctx context.Context, requestingUserID string, isAdmin bool, requestID string) (*domain.WithdrawalRequest, error)

	ListMyWithdrawals(ctx context.Context, userID string, params dto.ListParams) (*dto.ListWithdrawalsResponse, error)
}

// WithdrawalAdminSvc defines the admin-facing withdrawal operations.
type WithdrawalAdminSvc interface {
	ListWithdrawalQueue(ctx context.Context, admin domain.AdminActor, pending bool, params dto.ListParams) (*dto.ListWithdrawalsResponse, error)

	// DecideWithdrawal runs the settlement processor for the given decision.
	DecideWithdrawal(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.WithdrawalDecision) (*domain.WithdrawalRequest, error)
}

// WithdrawalSvcFacade combines all withdrawal service interfaces.
type WithdrawalSvcFacade interface {
	WithdrawalSubmitterSvc
	WithdrawalAdminSvc
}
