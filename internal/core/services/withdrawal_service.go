package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/konnectsl/wallet_backend/internal/utils/money"
)

type withdrawalService struct {
	BaseService
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade
	balanceRepo    portsrepo.BalanceReader
	settingsSvc    portssvc.SettingsSvcFacade
	settlement     portssvc.SettlementProcessorSvc
}

// NewWithdrawalService creates the withdrawal request service.
func NewWithdrawalService(
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade,
	balanceRepo portsrepo.BalanceReader,
	settingsSvc portssvc.SettingsSvcFacade,
	settlement portssvc.SettlementProcessorSvc,
) portssvc.WithdrawalSvcFacade {
	return &withdrawalService{
		withdrawalRepo: withdrawalRepo,
		balanceRepo:    balanceRepo,
		settingsSvc:    settingsSvc,
		settlement:     settlement,
	}
}

var _ portssvc.WithdrawalSvcFacade = (*withdrawalService)(nil)

// QuoteWithdrawal computes the fee preview from current settings. The quote
// is display-only; the authoritative fee is recomputed at payout time.
func (s *withdrawalService) QuoteWithdrawal(ctx context.Context, amount decimal.Decimal) (*dto.WithdrawalQuoteResponse, error) {
	settings, err := s.settingsSvc.GetWalletSettings(ctx)
	if err != nil {
		return nil, err
	}

	requested := money.Round(amount)
	fee := money.PercentOf(requested, settings.WithdrawFeePercent)
	return &dto.WithdrawalQuoteResponse{
		RequestedAmount: requested,
		FeePercent:      settings.WithdrawFeePercent,
		FeeAmount:       fee,
		PayoutAmount:    requested.Sub(fee),
		MinWithdraw:     settings.MinWithdrawAmount,
		MaxWithdraw:     settings.MaxWithdrawAmount,
	}, nil
}

// SubmitWithdrawal validates bounds and the current withdrawable balance,
// stores the fee quote, and creates a PENDING request. Funds stay in the
// balance while pending; the debit happens atomically at payout.
func (s *withdrawalService) SubmitWithdrawal(ctx context.Context, userID string, req dto.SubmitWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	settings, err := s.settingsSvc.GetWalletSettings(ctx)
	if err != nil {
		return nil, err
	}

	requested := money.Round(req.RequestedAmount)
	if !requested.IsPositive() {
		return nil, fmt.Errorf("%w: requested amount must be positive", apperrors.ErrValidation)
	}
	if requested.LessThan(settings.MinWithdrawAmount) {
		return nil, fmt.Errorf("%w: requested amount %s is below the minimum %s",
			apperrors.ErrValidation, requested.String(), settings.MinWithdrawAmount.String())
	}
	if requested.GreaterThan(settings.MaxWithdrawAmount) {
		return nil, fmt.Errorf("%w: requested amount %s is above the maximum %s",
			apperrors.ErrValidation, requested.String(), settings.MaxWithdrawAmount.String())
	}

	// Early rejection for requests that cannot possibly be paid. The
	// balance is re-checked under lock at payout time.
	balance, err := s.balanceRepo.FindBalanceByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance.Withdrawable.LessThan(requested) {
		return nil, fmt.Errorf("%w: withdrawable %s is less than requested %s",
			apperrors.ErrInsufficientBalance, balance.Withdrawable.String(), requested.String())
	}

	fee := money.PercentOf(requested, settings.WithdrawFeePercent)
	now := time.Now()
	withdrawal := domain.WithdrawalRequest{
		RequestID:       uuid.NewString(),
		UserID:          userID,
		RequestedAmount: requested,
		FeeAmount:       fee,
		PayoutAmount:    requested.Sub(fee),
		RecipientNumber: req.RecipientNumber,
		Notes:           req.Notes,
		Status:          domain.WithdrawalPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.withdrawalRepo.SaveWithdrawal(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to submit withdrawal request: %w", err)
	}
	s.LogInfo(ctx, "Withdrawal request submitted", "request_id", withdrawal.RequestID, "requested_amount", requested.String())
	return &withdrawal, nil
}

// GetWithdrawal returns a request visible to its owner or any admin.
func (s *withdrawalService) GetWithdrawal(ctx context.Context, requestingUserID string, isAdmin bool, requestID string) (*domain.WithdrawalRequest, error) {
	req, err := s.withdrawalRepo.FindWithdrawalByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	return req, nil
}

// ListMyWithdrawals lists the caller's own requests, newest first.
func (s *withdrawalService) ListMyWithdrawals(ctx context.Context, userID string, params dto.ListParams) (*dto.ListWithdrawalsResponse, error) {
	reqs, nextToken, err := s.withdrawalRepo.ListWithdrawalsByUser(ctx, userID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	return &dto.ListWithdrawalsResponse{Requests: dto.ToWithdrawalResponses(reqs), NextToken: nextToken}, nil
}

// ListWithdrawalQueue lists requests for admins: the pending queue or the
// processed history.
func (s *withdrawalService) ListWithdrawalQueue(ctx context.Context, admin domain.AdminActor, pending bool, params dto.ListParams) (*dto.ListWithdrawalsResponse, error) {
	statuses := []domain.WithdrawalStatus{domain.WithdrawalPending}
	if !pending {
		statuses = []domain.WithdrawalStatus{domain.WithdrawalPaid, domain.WithdrawalRejected}
	}
	reqs, nextToken, err := s.withdrawalRepo.ListWithdrawalsByStatus(ctx, statuses, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal queue: %w", err)
	}
	return &dto.ListWithdrawalsResponse{Requests: dto.ToWithdrawalResponses(reqs), NextToken: nextToken}, nil
}

// DecideWithdrawal runs the settlement processor for the given decision.
func (s *withdrawalService) DecideWithdrawal(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.WithdrawalDecision) (*domain.WithdrawalRequest, error) {
	return s.settlement.ProcessWithdrawalDecision(ctx, admin, requestID, decision)
}
