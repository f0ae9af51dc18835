package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/core/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
)

type WithdrawalServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockWithdrawalRepository
	mockBalance    *MockBalanceRepository
	mockSettings   *MockSettingsService
	mockSettlement *MockSettlementProcessor
	service        portssvc.WithdrawalSvcFacade
}

func (suite *WithdrawalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockWithdrawalRepository)
	suite.mockBalance = new(MockBalanceRepository)
	suite.mockSettings = new(MockSettingsService)
	suite.mockSettlement = new(MockSettlementProcessor)
	suite.service = services.NewWithdrawalService(suite.mockRepo, suite.mockBalance, suite.mockSettings, suite.mockSettlement)
}

func balanceWith(userID string, available, withdrawable int64) *domain.Balance {
	return &domain.Balance{
		UserID:       userID,
		Available:    decimal.NewFromInt(available),
		Withdrawable: decimal.NewFromInt(withdrawable),
	}
}

// --- Test Cases ---

func (suite *WithdrawalServiceTestSuite) TestQuoteWithdrawal_FeeMath() {
	ctx := context.Background()

	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()

	quote, err := suite.service.QuoteWithdrawal(ctx, decimal.NewFromInt(200))

	suite.Require().NoError(err)
	suite.True(quote.FeeAmount.Equal(decimal.NewFromInt(4)))
	suite.True(quote.PayoutAmount.Equal(decimal.NewFromInt(196)))
	suite.True(quote.FeeAmount.Add(quote.PayoutAmount).Equal(quote.RequestedAmount))
}

func (suite *WithdrawalServiceTestSuite) TestSubmitWithdrawal_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	suite.mockBalance.On("FindBalanceByUserID", ctx, userID).Return(balanceWith(userID, 500, 300), nil).Once()
	suite.mockRepo.On("SaveWithdrawal", ctx, mock.MatchedBy(func(w domain.WithdrawalRequest) bool {
		return w.UserID == userID &&
			w.Status == domain.WithdrawalPending &&
			w.RequestedAmount.Equal(decimal.NewFromInt(200)) &&
			w.FeeAmount.Equal(decimal.NewFromInt(4)) &&
			w.PayoutAmount.Equal(decimal.NewFromInt(196))
	})).Return(nil).Once()

	withdrawal, err := suite.service.SubmitWithdrawal(ctx, userID, dto.SubmitWithdrawalRequest{
		RequestedAmount: decimal.NewFromInt(200),
		RecipientNumber: "07699887766",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.WithdrawalPending, withdrawal.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WithdrawalServiceTestSuite) TestSubmitWithdrawal_InsufficientWithdrawable() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	// Held funds are available but not withdrawable yet.
	suite.mockBalance.On("FindBalanceByUserID", ctx, userID).Return(balanceWith(userID, 500, 100), nil).Once()

	_, err := suite.service.SubmitWithdrawal(ctx, userID, dto.SubmitWithdrawalRequest{
		RequestedAmount: decimal.NewFromInt(200),
		RecipientNumber: "07699887766",
	})

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveWithdrawal", mock.Anything, mock.Anything)
}

func (suite *WithdrawalServiceTestSuite) TestSubmitWithdrawal_BelowMinimum() {
	ctx := context.Background()

	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()

	_, err := suite.service.SubmitWithdrawal(ctx, uuid.NewString(), dto.SubmitWithdrawalRequest{
		RequestedAmount: decimal.NewFromInt(10),
		RecipientNumber: "07699887766",
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockBalance.AssertNotCalled(suite.T(), "FindBalanceByUserID", mock.Anything, mock.Anything)
}

func (suite *WithdrawalServiceTestSuite) TestSubmitWithdrawal_AboveMaximum() {
	ctx := context.Background()

	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()

	_, err := suite.service.SubmitWithdrawal(ctx, uuid.NewString(), dto.SubmitWithdrawalRequest{
		RequestedAmount: decimal.NewFromInt(100000),
		RecipientNumber: "07699887766",
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WithdrawalServiceTestSuite) TestGetWithdrawal_VisibilityRules() {
	ctx := context.Background()
	owner := uuid.NewString()
	existing := pendingWithdrawal(owner, 200)

	suite.mockRepo.On("FindWithdrawalByID", ctx, existing.RequestID).Return(existing, nil).Times(3)

	_, err := suite.service.GetWithdrawal(ctx, owner, false, existing.RequestID)
	suite.NoError(err)

	_, err = suite.service.GetWithdrawal(ctx, uuid.NewString(), false, existing.RequestID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.GetWithdrawal(ctx, uuid.NewString(), true, existing.RequestID)
	suite.NoError(err)
}

func (suite *WithdrawalServiceTestSuite) TestListWithdrawalQueue_StatusSelection() {
	ctx := context.Background()
	admin := domain.AdminActor{UserID: uuid.NewString()}
	var nilToken *string

	suite.mockRepo.On("ListWithdrawalsByStatus", ctx,
		[]domain.WithdrawalStatus{domain.WithdrawalPending}, 20, nilToken,
	).Return([]domain.WithdrawalRequest{}, nilToken, nil).Once()
	suite.mockRepo.On("ListWithdrawalsByStatus", ctx,
		[]domain.WithdrawalStatus{domain.WithdrawalPaid, domain.WithdrawalRejected}, 20, nilToken,
	).Return([]domain.WithdrawalRequest{}, nilToken, nil).Once()

	_, err := suite.service.ListWithdrawalQueue(ctx, admin, true, dto.ListParams{Limit: 20})
	suite.NoError(err)
	_, err = suite.service.ListWithdrawalQueue(ctx, admin, false, dto.ListParams{Limit: 20})
	suite.NoError(err)

	suite.mockRepo.AssertExpectations(suite.T())
}

func TestWithdrawalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WithdrawalServiceTestSuite))
}
