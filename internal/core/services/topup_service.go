package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
	"github.com/konnectsl/wallet_backend/internal/utils/money"
)

type topUpService struct {
	BaseService
	topUpRepo   portsrepo.TopUpRepositoryFacade
	settingsSvc portssvc.SettingsSvcFacade
	settlement  portssvc.SettlementProcessorSvc
}

// NewTopUpService creates the top-up request service.
func NewTopUpService(
	topUpRepo portsrepo.TopUpRepositoryFacade,
	settingsSvc portssvc.SettingsSvcFacade,
	settlement portssvc.SettlementProcessorSvc,
) portssvc.TopUpSvcFacade {
	return &topUpService{
		topUpRepo:   topUpRepo,
		settingsSvc: settingsSvc,
		settlement:  settlement,
	}
}

var _ portssvc.TopUpSvcFacade = (*topUpService)(nil)

func (s *topUpService) validateSubmission(ctx context.Context, req dto.SubmitTopUpRequest) error {
	settings, err := s.settingsSvc.GetWalletSettings(ctx)
	if err != nil {
		return err
	}
	amount := money.Round(req.AmountSent)
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount sent must be positive", apperrors.ErrValidation)
	}
	if amount.LessThan(settings.TopUpMinAmount) {
		return fmt.Errorf("%w: amount sent %s is below the minimum %s",
			apperrors.ErrValidation, amount.String(), settings.TopUpMinAmount.String())
	}
	return nil
}

// SubmitTopUp validates and creates a PENDING request. Deposits have no
// balance or ledger effect until an admin verifies the off-band payment.
func (s *topUpService) SubmitTopUp(ctx context.Context, userID string, req dto.SubmitTopUpRequest) (*domain.TopUpRequest, error) {
	if err := s.validateSubmission(ctx, req); err != nil {
		return nil, err
	}

	now := time.Now()
	amount := money.Round(req.AmountSent)
	topUp := domain.TopUpRequest{
		RequestID:  uuid.NewString(),
		UserID:     userID,
		AmountSent: amount,
		// Tokens requested default to the claimed amount; the credited
		// amount is decided by the reviewing admin.
		TokensRequested: amount,
		PayerReference:  req.PayerReference,
		TransactionID:   req.TransactionID,
		EvidenceURL:     req.EvidenceURL,
		PayoutNumber:    req.PayoutNumber,
		Notes:           req.Notes,
		Status:          domain.TopUpPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.topUpRepo.SaveTopUp(ctx, topUp); err != nil {
		return nil, fmt.Errorf("failed to submit top-up request: %w", err)
	}
	s.LogInfo(ctx, "Top-up request submitted", "request_id", topUp.RequestID, "amount_sent", amount.String())
	return &topUp, nil
}

// ResubmitTopUp lets the owner of an actionable request correct its details.
// The status is untouched; the request stays in the admin queue.
func (s *topUpService) ResubmitTopUp(ctx context.Context, userID, requestID string, req dto.SubmitTopUpRequest) (*domain.TopUpRequest, error) {
	existing, err := s.topUpRepo.FindTopUpByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if existing.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: top-up request %s is %s", apperrors.ErrAlreadyProcessed, requestID, existing.Status)
	}
	if err := s.validateSubmission(ctx, req); err != nil {
		return nil, err
	}

	amount := money.Round(req.AmountSent)
	updated := *existing
	updated.AmountSent = amount
	updated.TokensRequested = amount
	updated.PayerReference = req.PayerReference
	updated.TransactionID = req.TransactionID
	updated.EvidenceURL = req.EvidenceURL
	updated.PayoutNumber = req.PayoutNumber
	updated.Notes = req.Notes

	if err := s.topUpRepo.UpdateTopUpSubmission(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to resubmit top-up request %s: %w", requestID, err)
	}
	s.LogInfo(ctx, "Top-up request resubmitted", "request_id", requestID)
	return s.topUpRepo.FindTopUpByID(ctx, requestID)
}

// GetTopUp returns a request visible to its owner or any admin.
func (s *topUpService) GetTopUp(ctx context.Context, requestingUserID string, isAdmin bool, requestID string) (*domain.TopUpRequest, error) {
	req, err := s.topUpRepo.FindTopUpByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}
	return req, nil
}

// ListMyTopUps lists the caller's own requests, newest first.
func (s *topUpService) ListMyTopUps(ctx context.Context, userID string, params dto.ListParams) (*dto.ListTopUpsResponse, error) {
	reqs, nextToken, err := s.topUpRepo.ListTopUpsByUser(ctx, userID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list top-up requests: %w", err)
	}
	return &dto.ListTopUpsResponse{Requests: dto.ToTopUpResponses(reqs), NextToken: nextToken}, nil
}

// ListTopUpQueue lists requests for admins: the actionable queue or the
// processed history.
func (s *topUpService) ListTopUpQueue(ctx context.Context, admin domain.AdminActor, pending bool, params dto.ListParams) (*dto.ListTopUpsResponse, error) {
	statuses := []domain.TopUpStatus{domain.TopUpPending, domain.TopUpInfoRequested}
	if !pending {
		statuses = []domain.TopUpStatus{domain.TopUpApproved, domain.TopUpRejected}
	}
	reqs, nextToken, err := s.topUpRepo.ListTopUpsByStatus(ctx, statuses, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list top-up queue: %w", err)
	}
	return &dto.ListTopUpsResponse{Requests: dto.ToTopUpResponses(reqs), NextToken: nextToken}, nil
}

// DecideTopUp runs the settlement processor for the given decision.
func (s *topUpService) DecideTopUp(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.TopUpDecision) (*domain.TopUpRequest, error) {
	return s.settlement.ProcessTopUpDecision(ctx, admin, requestID, decision)
}
