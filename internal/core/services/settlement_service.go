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
	"github.com/konnectsl/wallet_backend/internal/metrics"
	"github.com/konnectsl/wallet_backend/internal/utils/money"
)

type settlementService struct {
	BaseService
	topUpRepo      portsrepo.TopUpReader
	withdrawalRepo portsrepo.WithdrawalReader
	settlementRepo portsrepo.SettlementRepository
	settingsSvc    portssvc.SettingsSvcFacade
	notifier       portssvc.NotifierSvc
}

// NewSettlementService creates the settlement processor shared by both
// request state machines.
func NewSettlementService(
	topUpRepo portsrepo.TopUpReader,
	withdrawalRepo portsrepo.WithdrawalReader,
	settlementRepo portsrepo.SettlementRepository,
	settingsSvc portssvc.SettingsSvcFacade,
	notifier portssvc.NotifierSvc,
) portssvc.SettlementProcessorSvc {
	return &settlementService{
		topUpRepo:      topUpRepo,
		withdrawalRepo: withdrawalRepo,
		settlementRepo: settlementRepo,
		settingsSvc:    settingsSvc,
		notifier:       notifier,
	}
}

var _ portssvc.SettlementProcessorSvc = (*settlementService)(nil)

func newAuditRecord(admin domain.AdminActor, action, targetUserID, entityType, entityID string, details map[string]string, now time.Time) domain.AuditRecord {
	return domain.AuditRecord{
		RecordID:         uuid.NewString(),
		AdminID:          admin.UserID,
		Action:           action,
		TargetUserID:     targetUserID,
		TargetEntityType: entityType,
		TargetEntityID:   entityID,
		Details:          details,
		CreatedAt:        now,
	}
}

func newNotification(userID string, nType domain.NotificationType, title, message, relatedID string, now time.Time) domain.Notification {
	return domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Type:           nType,
		Title:          title,
		Message:        message,
		RelatedID:      relatedID,
		CreatedAt:      now,
	}
}

// ProcessTopUpDecision applies one admin decision to a top-up request. All
// persistent effects commit atomically; the notification goes out only after
// the commit.
func (s *settlementService) ProcessTopUpDecision(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.TopUpDecision) (*domain.TopUpRequest, error) {
	if err := decision.Validate(); err != nil {
		return nil, err
	}

	req, err := s.topUpRepo.FindTopUpByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load top-up request %s: %w", requestID, err)
	}
	// Fast-path check; the conditional update inside the transaction is the
	// authoritative one.
	if req.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: top-up request %s is %s", apperrors.ErrAlreadyProcessed, requestID, req.Status)
	}

	done := metrics.TimeSettlement("topup")
	defer done()
	now := time.Now()

	var notification domain.Notification
	switch d := decision.(type) {
	case domain.ApproveTopUp:
		notification, err = s.approveTopUp(ctx, admin, req, d, now)
	case domain.RejectTopUp:
		notification, err = s.rejectTopUp(ctx, admin, req, d, now)
	case domain.RequestTopUpInfo:
		notification, err = s.requestTopUpInfo(ctx, admin, req, d, now)
	default:
		return nil, fmt.Errorf("%w: unknown top-up decision type %T", apperrors.ErrValidation, decision)
	}
	if err != nil {
		metrics.SettlementsTotal.WithLabelValues("topup", decision.Action(), "failure").Inc()
		return nil, err
	}
	metrics.SettlementsTotal.WithLabelValues("topup", decision.Action(), "success").Inc()

	s.notifier.Notify(ctx, notification)
	s.LogInfo(ctx, "Top-up decision settled", "request_id", requestID, "action", decision.Action(), "admin_id", admin.UserID)

	return s.topUpRepo.FindTopUpByID(ctx, requestID)
}

func (s *settlementService) approveTopUp(ctx context.Context, admin domain.AdminActor, req *domain.TopUpRequest, d domain.ApproveTopUp, now time.Time) (domain.Notification, error) {
	tokens := money.Round(d.TokensToCredit)
	commission := req.AmountSent.Sub(tokens)
	if commission.IsNegative() {
		return domain.Notification{}, fmt.Errorf("%w: tokens to credit %s exceed amount sent %s",
			apperrors.ErrValidation, tokens.String(), req.AmountSent.String())
	}

	settings, err := s.settingsSvc.GetWalletSettings(ctx)
	if err != nil {
		return domain.Notification{}, err
	}

	upd := portsrepo.TopUpApprovalUpdate{
		AdminID:         admin.UserID,
		AdminNotes:      d.Notes,
		TokensCredited:  tokens,
		CommissionTaken: commission,
		ReviewedAt:      now,
		HoldReleaseAt:   now.Add(settings.HoldPeriod),
	}

	entries := []domain.LedgerEntry{
		{
			EntryID:      uuid.NewString(),
			UserID:       req.UserID,
			Kind:         domain.EntryTopUpCredit,
			Amount:       tokens,
			CurrencyCode: domain.DefaultCurrency,
			Reference:    domain.TopUpReference(req.RequestID),
			Metadata: map[string]string{
				"amount_sent": req.AmountSent.String(),
				"commission":  commission.String(),
			},
			ActorID:   admin.UserID,
			CreatedAt: now,
		},
	}
	if commission.IsPositive() {
		entries = append(entries, domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			UserID:       domain.PlatformAccountID,
			Kind:         domain.EntryPlatformFee,
			Amount:       commission,
			CurrencyCode: domain.DefaultCurrency,
			Reference:    domain.TopUpCommissionReference(req.RequestID),
			Metadata:     map[string]string{"source_user": req.UserID},
			ActorID:      admin.UserID,
			CreatedAt:    now,
		})
	}

	// Deposits go to available only; withdrawable waits for the hold to
	// mature.
	delta := domain.BalanceDelta{Available: tokens, Deposited: tokens}

	audit := newAuditRecord(admin, d.Action(), req.UserID, "topup_request", req.RequestID, map[string]string{
		"amount_sent":     req.AmountSent.String(),
		"tokens_credited": tokens.String(),
		"commission":      commission.String(),
	}, now)

	if err := s.settlementRepo.ApproveTopUp(ctx, req.RequestID, upd, entries, req.UserID, delta, audit); err != nil {
		return domain.Notification{}, err
	}

	return newNotification(req.UserID, domain.NotifyTopUpApproved,
		"Top-up approved",
		fmt.Sprintf("Your top-up was approved and %s tokens were credited to your wallet.", tokens.String()),
		req.RequestID, now), nil
}

func (s *settlementService) rejectTopUp(ctx context.Context, admin domain.AdminActor, req *domain.TopUpRequest, d domain.RejectTopUp, now time.Time) (domain.Notification, error) {
	upd := portsrepo.TopUpRejectionUpdate{
		AdminID:    admin.UserID,
		AdminNotes: d.Reason,
		ReviewedAt: now,
	}
	audit := newAuditRecord(admin, d.Action(), req.UserID, "topup_request", req.RequestID, map[string]string{
		"reason": d.Reason,
	}, now)

	if err := s.settlementRepo.RejectTopUp(ctx, req.RequestID, upd, audit); err != nil {
		return domain.Notification{}, err
	}

	return newNotification(req.UserID, domain.NotifyTopUpRejected,
		"Top-up rejected",
		fmt.Sprintf("Your top-up request was rejected: %s", d.Reason),
		req.RequestID, now), nil
}

func (s *settlementService) requestTopUpInfo(ctx context.Context, admin domain.AdminActor, req *domain.TopUpRequest, d domain.RequestTopUpInfo, now time.Time) (domain.Notification, error) {
	upd := portsrepo.TopUpInfoUpdate{
		AdminID:    admin.UserID,
		AdminNotes: d.Message,
	}
	audit := newAuditRecord(admin, d.Action(), req.UserID, "topup_request", req.RequestID, map[string]string{
		"message": d.Message,
	}, now)

	if err := s.settlementRepo.RequestTopUpInfo(ctx, req.RequestID, upd, audit); err != nil {
		return domain.Notification{}, err
	}

	return newNotification(req.UserID, domain.NotifyTopUpInfoRequested,
		"More information needed",
		fmt.Sprintf("An admin needs more information about your top-up request: %s", d.Message),
		req.RequestID, now), nil
}

// ProcessWithdrawalDecision applies one admin decision to a withdrawal
// request. For payouts the fee is recomputed from current settings; the
// stored quote is display-only.
func (s *settlementService) ProcessWithdrawalDecision(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.WithdrawalDecision) (*domain.WithdrawalRequest, error) {
	if err := decision.Validate(); err != nil {
		return nil, err
	}

	req, err := s.withdrawalRepo.FindWithdrawalByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load withdrawal request %s: %w", requestID, err)
	}
	if req.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: withdrawal request %s is %s", apperrors.ErrAlreadyProcessed, requestID, req.Status)
	}

	done := metrics.TimeSettlement("withdrawal")
	defer done()
	now := time.Now()

	var notification domain.Notification
	switch d := decision.(type) {
	case domain.PayWithdrawal:
		notification, err = s.payWithdrawal(ctx, admin, req, d, now)
	case domain.RejectWithdrawal:
		notification, err = s.rejectWithdrawal(ctx, admin, req, d, now)
	default:
		return nil, fmt.Errorf("%w: unknown withdrawal decision type %T", apperrors.ErrValidation, decision)
	}
	if err != nil {
		metrics.SettlementsTotal.WithLabelValues("withdrawal", decision.Action(), "failure").Inc()
		return nil, err
	}
	metrics.SettlementsTotal.WithLabelValues("withdrawal", decision.Action(), "success").Inc()

	s.notifier.Notify(ctx, notification)
	s.LogInfo(ctx, "Withdrawal decision settled", "request_id", requestID, "action", decision.Action(), "admin_id", admin.UserID)

	return s.withdrawalRepo.FindWithdrawalByID(ctx, requestID)
}

func (s *settlementService) payWithdrawal(ctx context.Context, admin domain.AdminActor, req *domain.WithdrawalRequest, d domain.PayWithdrawal, now time.Time) (domain.Notification, error) {
	settings, err := s.settingsSvc.GetWalletSettings(ctx)
	if err != nil {
		return domain.Notification{}, err
	}

	// The authoritative fee comes from current settings, not the quote
	// stored at submission time.
	fee := money.PercentOf(req.RequestedAmount, settings.WithdrawFeePercent)
	payout := req.RequestedAmount.Sub(fee)
	if !payout.IsPositive() {
		return domain.Notification{}, fmt.Errorf("%w: fee %s consumes the whole requested amount %s",
			apperrors.ErrValidation, fee.String(), req.RequestedAmount.String())
	}

	upd := portsrepo.WithdrawalPayoutUpdate{
		AdminID:         admin.UserID,
		AdminNotes:      d.Notes,
		PayoutReference: d.PayoutReference,
		FeeAmount:       fee,
		PayoutAmount:    payout,
		PaidAt:          now,
	}

	entries := []domain.LedgerEntry{
		{
			EntryID:      uuid.NewString(),
			UserID:       req.UserID,
			Kind:         domain.EntryWithdrawalDebit,
			Amount:       req.RequestedAmount.Neg(),
			CurrencyCode: domain.DefaultCurrency,
			Reference:    domain.WithdrawalReference(req.RequestID),
			Metadata: map[string]string{
				"fee":              fee.String(),
				"payout":           payout.String(),
				"quoted_fee":       req.FeeAmount.String(),
				"quoted_payout":    req.PayoutAmount.String(),
				"payout_reference": d.PayoutReference,
			},
			ActorID:   admin.UserID,
			CreatedAt: now,
		},
	}
	if fee.IsPositive() {
		entries = append(entries, domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			UserID:       domain.PlatformAccountID,
			Kind:         domain.EntryPlatformFee,
			Amount:       fee,
			CurrencyCode: domain.DefaultCurrency,
			Reference:    domain.WithdrawalFeeReference(req.RequestID),
			Metadata:     map[string]string{"source_user": req.UserID},
			ActorID:      admin.UserID,
			CreatedAt:    now,
		})
	}

	// The lifetime counter tracks what actually left the platform, which is
	// the payout after the fee, not the requested amount.
	delta := domain.BalanceDelta{
		Available:    req.RequestedAmount.Neg(),
		Withdrawable: req.RequestedAmount.Neg(),
		Withdrawn:    payout,
	}

	audit := newAuditRecord(admin, d.Action(), req.UserID, "withdraw_request", req.RequestID, map[string]string{
		"requested_amount": req.RequestedAmount.String(),
		"fee":              fee.String(),
		"payout":           payout.String(),
		"payout_reference": d.PayoutReference,
	}, now)

	if err := s.settlementRepo.PayWithdrawal(ctx, req.RequestID, upd, entries, req.UserID, req.RequestedAmount, delta, audit); err != nil {
		return domain.Notification{}, err
	}

	return newNotification(req.UserID, domain.NotifyWithdrawApproved,
		"Withdrawal paid",
		fmt.Sprintf("Your withdrawal of %s was paid out: %s after the %s fee.", req.RequestedAmount.String(), payout.String(), fee.String()),
		req.RequestID, now), nil
}

func (s *settlementService) rejectWithdrawal(ctx context.Context, admin domain.AdminActor, req *domain.WithdrawalRequest, d domain.RejectWithdrawal, now time.Time) (domain.Notification, error) {
	upd := portsrepo.WithdrawalRejectionUpdate{
		AdminID:    admin.UserID,
		AdminNotes: d.Reason,
	}
	audit := newAuditRecord(admin, d.Action(), req.UserID, "withdraw_request", req.RequestID, map[string]string{
		"reason": d.Reason,
	}, now)

	if err := s.settlementRepo.RejectWithdrawal(ctx, req.RequestID, upd, audit); err != nil {
		return domain.Notification{}, err
	}

	return newNotification(req.UserID, domain.NotifyWithdrawRejected,
		"Withdrawal rejected",
		fmt.Sprintf("Your withdrawal request was rejected: %s", d.Reason),
		req.RequestID, now), nil
}
