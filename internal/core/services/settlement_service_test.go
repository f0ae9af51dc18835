package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/core/services"
)

// --- Test Suite Setup ---

type SettlementServiceTestSuite struct {
	suite.Suite
	mockTopUpRepo      *MockTopUpRepository
	mockWithdrawalRepo *MockWithdrawalRepository
	mockSettlementRepo *MockSettlementRepository
	mockSettings       *MockSettingsService
	mockNotifier       *MockNotifier
	service            portssvc.SettlementProcessorSvc
	admin              domain.AdminActor
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockTopUpRepo = new(MockTopUpRepository)
	suite.mockWithdrawalRepo = new(MockWithdrawalRepository)
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockSettings = new(MockSettingsService)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewSettlementService(
		suite.mockTopUpRepo,
		suite.mockWithdrawalRepo,
		suite.mockSettlementRepo,
		suite.mockSettings,
		suite.mockNotifier,
	)
	suite.admin = domain.AdminActor{UserID: uuid.NewString()}
}

func testWalletSettings() domain.WalletSettings {
	return domain.WalletSettings{
		PlatformOrangeNumber:   "07612345678",
		TopUpMinAmount:         decimal.NewFromInt(50),
		TopUpCommissionPercent: decimal.NewFromInt(2),
		WithdrawFeePercent:     decimal.NewFromInt(2),
		MinWithdrawAmount:      decimal.NewFromInt(50),
		MaxWithdrawAmount:      decimal.NewFromInt(50000),
		HoldPeriod:             72 * time.Hour,
	}
}

func pendingTopUp(userID string, amountSent int64) *domain.TopUpRequest {
	amount := decimal.NewFromInt(amountSent)
	return &domain.TopUpRequest{
		RequestID:       uuid.NewString(),
		UserID:          userID,
		AmountSent:      amount,
		TokensRequested: amount,
		PayerReference:  "07699887766",
		EvidenceURL:     "https://example.com/evidence/1.png",
		PayoutNumber:    "07699887766",
		Status:          domain.TopUpPending,
	}
}

func pendingWithdrawal(userID string, requested int64) *domain.WithdrawalRequest {
	amount := decimal.NewFromInt(requested)
	return &domain.WithdrawalRequest{
		RequestID:       uuid.NewString(),
		UserID:          userID,
		RequestedAmount: amount,
		// Stale quote on purpose: payout uses recomputed values.
		FeeAmount:       decimal.NewFromInt(10),
		PayoutAmount:    amount.Sub(decimal.NewFromInt(10)),
		RecipientNumber: "07699887766",
		Status:          domain.WithdrawalPending,
	}
}

// --- Top-up decisions ---

func (suite *SettlementServiceTestSuite) TestApproveTopUp_CreditsTokensAndCommission() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := pendingTopUp(userID, 100)
	approved := *req
	approved.Status = domain.TopUpApproved

	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(req, nil).Once()
	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	suite.mockSettlementRepo.On("ApproveTopUp", ctx, req.RequestID,
		mock.MatchedBy(func(upd portsrepo.TopUpApprovalUpdate) bool {
			// Commission is the difference, and the two must conserve the
			// amount sent.
			return upd.TokensCredited.Equal(decimal.NewFromInt(99)) &&
				upd.CommissionTaken.Equal(decimal.NewFromInt(1)) &&
				upd.TokensCredited.Add(upd.CommissionTaken).Equal(req.AmountSent)
		}),
		mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
			if len(entries) != 2 {
				return false
			}
			credit, fee := entries[0], entries[1]
			return credit.UserID == userID &&
				credit.Kind == domain.EntryTopUpCredit &&
				credit.Amount.Equal(decimal.NewFromInt(99)) &&
				credit.Reference == domain.TopUpReference(req.RequestID) &&
				fee.UserID == domain.PlatformAccountID &&
				fee.Kind == domain.EntryPlatformFee &&
				fee.Amount.Equal(decimal.NewFromInt(1)) &&
				credit.Amount.Add(fee.Amount).Equal(req.AmountSent)
		}),
		userID,
		mock.MatchedBy(func(delta domain.BalanceDelta) bool {
			// Deposits are spendable immediately but not withdrawable.
			return delta.Available.Equal(decimal.NewFromInt(99)) &&
				delta.Withdrawable.IsZero() &&
				delta.Deposited.Equal(decimal.NewFromInt(99))
		}),
		mock.AnythingOfType("domain.AuditRecord"),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == userID && n.Type == domain.NotifyTopUpApproved
	})).Once()
	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(&approved, nil).Once()

	result, err := suite.service.ProcessTopUpDecision(ctx, suite.admin, req.RequestID,
		domain.ApproveTopUp{TokensToCredit: decimal.NewFromInt(99)})

	suite.Require().NoError(err)
	suite.Equal(domain.TopUpApproved, result.Status)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestApproveTopUp_FullCreditSkipsCommissionEntry() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := pendingTopUp(userID, 100)
	approved := *req
	approved.Status = domain.TopUpApproved

	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(req, nil).Once()
	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	suite.mockSettlementRepo.On("ApproveTopUp", ctx, req.RequestID,
		mock.AnythingOfType("repositories.TopUpApprovalUpdate"),
		mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
			// Zero commission produces no platform entry.
			return len(entries) == 1 && entries[0].Amount.Equal(req.AmountSent)
		}),
		userID,
		mock.AnythingOfType("domain.BalanceDelta"),
		mock.AnythingOfType("domain.AuditRecord"),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.AnythingOfType("domain.Notification")).Once()
	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(&approved, nil).Once()

	_, err := suite.service.ProcessTopUpDecision(ctx, suite.admin, req.RequestID,
		domain.ApproveTopUp{TokensToCredit: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestApproveTopUp_TokensExceedAmountSent() {
	ctx := context.Background()
	req := pendingTopUp(uuid.NewString(), 100)

	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.ProcessTopUpDecision(ctx, suite.admin, req.RequestID,
		domain.ApproveTopUp{TokensToCredit: decimal.NewFromInt(150)})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "ApproveTopUp",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestApproveTopUp_AlreadyProcessed() {
	ctx := context.Background()
	req := pendingTopUp(uuid.NewString(), 100)
	req.Status = domain.TopUpApproved

	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.ProcessTopUpDecision(ctx, suite.admin, req.RequestID,
		domain.ApproveTopUp{TokensToCredit: decimal.NewFromInt(50)})

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyProcessed)
}

func (suite *SettlementServiceTestSuite) TestApproveTopUp_ConcurrentDecisionLosesRace() {
	ctx := context.Background()
	req := pendingTopUp(uuid.NewString(), 100)

	// The fast-path check saw PENDING, but the conditional transition inside
	// the transaction lost the race to another admin.
	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(req, nil).Once()
	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	suite.mockSettlementRepo.On("ApproveTopUp", ctx, req.RequestID,
		mock.Anything, mock.Anything, req.UserID, mock.Anything, mock.Anything,
	).Return(apperrors.ErrAlreadyProcessed).Once()

	_, err := suite.service.ProcessTopUpDecision(ctx, suite.admin, req.RequestID,
		domain.ApproveTopUp{TokensToCredit: decimal.NewFromInt(99)})

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyProcessed)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestRejectTopUp_RequiresReason() {
	ctx := context.Background()

	_, err := suite.service.ProcessTopUpDecision(ctx, suite.admin, uuid.NewString(),
		domain.RejectTopUp{Reason: "   "})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockTopUpRepo.AssertNotCalled(suite.T(), "FindTopUpByID", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestRejectTopUp_NoBalanceEffect() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := pendingTopUp(userID, 100)
	rejected := *req
	rejected.Status = domain.TopUpRejected

	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(req, nil).Once()
	suite.mockSettlementRepo.On("RejectTopUp", ctx, req.RequestID,
		mock.MatchedBy(func(upd portsrepo.TopUpRejectionUpdate) bool {
			return upd.AdminNotes == "evidence does not match" && upd.AdminID == suite.admin.UserID
		}),
		mock.AnythingOfType("domain.AuditRecord"),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyTopUpRejected
	})).Once()
	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(&rejected, nil).Once()

	result, err := suite.service.ProcessTopUpDecision(ctx, suite.admin, req.RequestID,
		domain.RejectTopUp{Reason: "evidence does not match"})

	suite.Require().NoError(err)
	suite.Equal(domain.TopUpRejected, result.Status)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestRequestTopUpInfo_KeepsRequestActionable() {
	ctx := context.Background()
	req := pendingTopUp(uuid.NewString(), 100)
	infoRequested := *req
	infoRequested.Status = domain.TopUpInfoRequested

	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(req, nil).Once()
	suite.mockSettlementRepo.On("RequestTopUpInfo", ctx, req.RequestID,
		mock.AnythingOfType("repositories.TopUpInfoUpdate"),
		mock.AnythingOfType("domain.AuditRecord"),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.AnythingOfType("domain.Notification")).Once()
	suite.mockTopUpRepo.On("FindTopUpByID", ctx, req.RequestID).Return(&infoRequested, nil).Once()

	result, err := suite.service.ProcessTopUpDecision(ctx, suite.admin, req.RequestID,
		domain.RequestTopUpInfo{Message: "please upload a clearer screenshot"})

	suite.Require().NoError(err)
	suite.False(result.Status.IsTerminal())
}

// --- Withdrawal decisions ---

func (suite *SettlementServiceTestSuite) TestPayWithdrawal_RecomputesFeeFromSettings() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := pendingWithdrawal(userID, 200)
	paid := *req
	paid.Status = domain.WithdrawalPaid

	suite.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, req.RequestID).Return(req, nil).Once()
	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	suite.mockSettlementRepo.On("PayWithdrawal", ctx, req.RequestID,
		mock.MatchedBy(func(upd portsrepo.WithdrawalPayoutUpdate) bool {
			// 2% of 200, regardless of the stale quote stored at submission.
			return upd.FeeAmount.Equal(decimal.NewFromInt(4)) &&
				upd.PayoutAmount.Equal(decimal.NewFromInt(196)) &&
				upd.PayoutReference == "OM-77421"
		}),
		mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
			if len(entries) != 2 {
				return false
			}
			debit, fee := entries[0], entries[1]
			// The debit entry records both the submission-time quote and
			// the applied values so the drift stays auditable.
			return debit.UserID == userID &&
				debit.Kind == domain.EntryWithdrawalDebit &&
				debit.Amount.Equal(decimal.NewFromInt(-200)) &&
				debit.Metadata["fee"] == "4" &&
				debit.Metadata["payout"] == "196" &&
				debit.Metadata["quoted_fee"] == "10" &&
				debit.Metadata["quoted_payout"] == "190" &&
				fee.UserID == domain.PlatformAccountID &&
				fee.Amount.Equal(decimal.NewFromInt(4))
		}),
		userID,
		req.RequestedAmount,
		mock.MatchedBy(func(delta domain.BalanceDelta) bool {
			// Available and withdrawable drop by the requested amount but
			// total_withdrawn grows by the payout that actually left.
			return delta.Available.Equal(decimal.NewFromInt(-200)) &&
				delta.Withdrawable.Equal(decimal.NewFromInt(-200)) &&
				delta.Withdrawn.Equal(decimal.NewFromInt(196))
		}),
		mock.AnythingOfType("domain.AuditRecord"),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyWithdrawApproved
	})).Once()
	suite.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, req.RequestID).Return(&paid, nil).Once()

	result, err := suite.service.ProcessWithdrawalDecision(ctx, suite.admin, req.RequestID,
		domain.PayWithdrawal{PayoutReference: "OM-77421"})

	suite.Require().NoError(err)
	suite.Equal(domain.WithdrawalPaid, result.Status)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestPayWithdrawal_RequiresPayoutReference() {
	ctx := context.Background()

	_, err := suite.service.ProcessWithdrawalDecision(ctx, suite.admin, uuid.NewString(),
		domain.PayWithdrawal{})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockWithdrawalRepo.AssertNotCalled(suite.T(), "FindWithdrawalByID", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestPayWithdrawal_InsufficientBalanceLeavesRequestPending() {
	ctx := context.Background()
	req := pendingWithdrawal(uuid.NewString(), 200)

	suite.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, req.RequestID).Return(req, nil).Once()
	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	// The balance re-check under the row lock fails; the transaction rolls
	// back and the request stays PENDING.
	suite.mockSettlementRepo.On("PayWithdrawal", ctx, req.RequestID,
		mock.Anything, mock.Anything, req.UserID, req.RequestedAmount, mock.Anything, mock.Anything,
	).Return(apperrors.ErrInsufficientBalance).Once()

	_, err := suite.service.ProcessWithdrawalDecision(ctx, suite.admin, req.RequestID,
		domain.PayWithdrawal{PayoutReference: "OM-77421"})

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestRejectWithdrawal_RequiresReason() {
	ctx := context.Background()

	_, err := suite.service.ProcessWithdrawalDecision(ctx, suite.admin, uuid.NewString(),
		domain.RejectWithdrawal{})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SettlementServiceTestSuite) TestRejectWithdrawal_NoBalanceEffect() {
	ctx := context.Background()
	req := pendingWithdrawal(uuid.NewString(), 200)
	rejected := *req
	rejected.Status = domain.WithdrawalRejected

	suite.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, req.RequestID).Return(req, nil).Once()
	suite.mockSettlementRepo.On("RejectWithdrawal", ctx, req.RequestID,
		mock.AnythingOfType("repositories.WithdrawalRejectionUpdate"),
		mock.AnythingOfType("domain.AuditRecord"),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyWithdrawRejected
	})).Once()
	suite.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, req.RequestID).Return(&rejected, nil).Once()

	result, err := suite.service.ProcessWithdrawalDecision(ctx, suite.admin, req.RequestID,
		domain.RejectWithdrawal{Reason: "recipient number invalid"})

	suite.Require().NoError(err)
	suite.Equal(domain.WithdrawalRejected, result.Status)
}

func (suite *SettlementServiceTestSuite) TestProcessWithdrawal_AlreadyPaid() {
	ctx := context.Background()
	req := pendingWithdrawal(uuid.NewString(), 200)
	req.Status = domain.WithdrawalPaid

	suite.mockWithdrawalRepo.On("FindWithdrawalByID", ctx, req.RequestID).Return(req, nil).Once()

	_, err := suite.service.ProcessWithdrawalDecision(ctx, suite.admin, req.RequestID,
		domain.PayWithdrawal{PayoutReference: "OM-99100"})

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyProcessed)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
