package services

import (
	"context"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	"github.com/konnectsl/wallet_backend/internal/dto"
)

// TopUpSubmitterSvc defines the user-facing top-up operations.
type TopUpSubmitterSvc interface {
	// SubmitTopUp validates and creates a PENDING request. No balance or
	// ledger effect: deposits are unrecognized until an admin verifies the
	// off-band payment.
	SubmitTopUp(ctx context.Context, userID string, req dto.SubmitTopUpRequest) (*domain.TopUpRequest, error)

	// ResubmitTopUp lets the owner of an INFO_REQUESTED request correct its
	// details. The status stays INFO_REQUESTED until an admin re-decides.
	ResubmitTopUp(ctx context.Context, userID, requestID string, req dto.SubmitTopUpRequest) (*domain.TopUpRequest, error)

	// GetTopUp returns a request visible to its owner (or any admin).
	GetTopUp(ctx context.Context, requestingUserID string, isAdmin bool, requestID string) (*domain.TopUpRequest, error)

	ListMyTopUps(ctx context.Context, userID string, params dto.ListParams) (*dto.ListTopUpsResponse, error)
}

// TopUpAdminSvc defines the admin-facing top-up operations.
type TopUpAdminSvc interface {
	// ListTopUpQueue lists requests by queue: pending=true returns
	// PENDING/INFO_REQUESTED, pending=false the processed ones.
	ListTopUpQueue(ctx context.Context, admin domain.AdminActor, pending bool, params dto.ListParams) (*dto.ListTopUpsResponse, error)

	// DecideTopUp runs the settlement processor for the given decision.
	DecideTopUp(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.TopUpDecision) (*domain.TopUpRequest, error)
}

// TopUpSvcFacade combines all top-up service interfaces.
type TopUpSvcFacade interface {
	TopUpSubmitterSvc
	TopUpAdminSvc
}
