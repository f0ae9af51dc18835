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

// MockSettlementProcessor is a mock type for the SettlementProcessorSvc interface
type MockSettlementProcessor struct {
	mock.Mock
}

func (m *MockSettlementProcessor) ProcessTopUpDecision(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.TopUpDecision) (*domain.TopUpRequest, error) {
	args := m.Called(ctx, admin, requestID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopUpRequest), args.Error(1)
}

func (m *MockSettlementProcessor) ProcessWithdrawalDecision(ctx context.Context, admin domain.AdminActor, requestID string, decision domain.WithdrawalDecision) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, admin, requestID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}

// --- Test Suite Setup ---

type TopUpServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockTopUpRepository
	mockSettings   *MockSettingsService
	mockSettlement *MockSettlementProcessor
	service        portssvc.TopUpSvcFacade
}

func (suite *TopUpServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTopUpRepository)
	suite.mockSettings = new(MockSettingsService)
	suite.mockSettlement = new(MockSettlementProcessor)
	suite.service = services.NewTopUpService(suite.mockRepo, suite.mockSettings, suite.mockSettlement)
}

func validSubmission(amount int64) dto.SubmitTopUpRequest {
	return dto.SubmitTopUpRequest{
		AmountSent:     decimal.NewFromInt(amount),
		PayerReference: "07699887766",
		EvidenceURL:    "https://example.com/evidence/1.png",
		PayoutNumber:   "07699887766",
	}
}

// --- Test Cases ---

func (suite *TopUpServiceTestSuite) TestSubmitTopUp_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := validSubmission(100)

	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	suite.mockRepo.On("SaveTopUp", ctx, mock.MatchedBy(func(t domain.TopUpRequest) bool {
		return t.UserID == userID &&
			t.Status == domain.TopUpPending &&
			t.AmountSent.Equal(decimal.NewFromInt(100)) &&
			t.TokensRequested.Equal(t.AmountSent)
	})).Return(nil).Once()

	topUp, err := suite.service.SubmitTopUp(ctx, userID, req)

	suite.Require().NoError(err)
	suite.NotEmpty(topUp.RequestID)
	suite.Equal(domain.TopUpPending, topUp.Status)
	suite.True(topUp.TokensCredited.IsZero())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TopUpServiceTestSuite) TestSubmitTopUp_BelowMinimum() {
	ctx := context.Background()

	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()

	_, err := suite.service.SubmitTopUp(ctx, uuid.NewString(), validSubmission(10))

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTopUp", mock.Anything, mock.Anything)
}

func (suite *TopUpServiceTestSuite) TestSubmitTopUp_NonPositiveAmount() {
	ctx := context.Background()

	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()

	_, err := suite.service.SubmitTopUp(ctx, uuid.NewString(), validSubmission(0))

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TopUpServiceTestSuite) TestResubmitTopUp_OnlyOwner() {
	ctx := context.Background()
	existing := pendingTopUp(uuid.NewString(), 100)
	existing.Status = domain.TopUpInfoRequested

	suite.mockRepo.On("FindTopUpByID", ctx, existing.RequestID).Return(existing, nil).Once()

	_, err := suite.service.ResubmitTopUp(ctx, uuid.NewString(), existing.RequestID, validSubmission(120))

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateTopUpSubmission", mock.Anything, mock.Anything)
}

func (suite *TopUpServiceTestSuite) TestResubmitTopUp_TerminalRequest() {
	ctx := context.Background()
	userID := uuid.NewString()
	existing := pendingTopUp(userID, 100)
	existing.Status = domain.TopUpApproved

	suite.mockRepo.On("FindTopUpByID", ctx, existing.RequestID).Return(existing, nil).Once()

	_, err := suite.service.ResubmitTopUp(ctx, userID, existing.RequestID, validSubmission(120))

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyProcessed)
}

func (suite *TopUpServiceTestSuite) TestResubmitTopUp_UpdatesDetailsKeepsStatus() {
	ctx := context.Background()
	userID := uuid.NewString()
	existing := pendingTopUp(userID, 100)
	existing.Status = domain.TopUpInfoRequested

	suite.mockRepo.On("FindTopUpByID", ctx, existing.RequestID).Return(existing, nil).Once()
	suite.mockSettings.On("GetWalletSettings", ctx).Return(testWalletSettings(), nil).Once()
	suite.mockRepo.On("UpdateTopUpSubmission", ctx, mock.MatchedBy(func(t domain.TopUpRequest) bool {
		return t.AmountSent.Equal(decimal.NewFromInt(120)) &&
			t.Status == domain.TopUpInfoRequested
	})).Return(nil).Once()
	suite.mockRepo.On("FindTopUpByID", ctx, existing.RequestID).Return(existing, nil).Once()

	_, err := suite.service.ResubmitTopUp(ctx, userID, existing.RequestID, validSubmission(120))

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TopUpServiceTestSuite) TestGetTopUp_VisibilityRules() {
	ctx := context.Background()
	owner := uuid.NewString()
	existing := pendingTopUp(owner, 100)

	suite.mockRepo.On("FindTopUpByID", ctx, existing.RequestID).Return(existing, nil).Times(3)

	_, err := suite.service.GetTopUp(ctx, owner, false, existing.RequestID)
	suite.NoError(err)

	_, err = suite.service.GetTopUp(ctx, uuid.NewString(), false, existing.RequestID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.GetTopUp(ctx, uuid.NewString(), true, existing.RequestID)
	suite.NoError(err)
}

func (suite *TopUpServiceTestSuite) TestListTopUpQueue_StatusSelection() {
	ctx := context.Background()
	admin := domain.AdminActor{UserID: uuid.NewString()}
	var nilToken *string

	suite.mockRepo.On("ListTopUpsByStatus", ctx,
		[]domain.TopUpStatus{domain.TopUpPending, domain.TopUpInfoRequested}, 20, nilToken,
	).Return([]domain.TopUpRequest{}, nilToken, nil).Once()
	suite.mockRepo.On("ListTopUpsByStatus", ctx,
		[]domain.TopUpStatus{domain.TopUpApproved, domain.TopUpRejected}, 20, nilToken,
	).Return([]domain.TopUpRequest{}, nilToken, nil).Once()

	_, err := suite.service.ListTopUpQueue(ctx, admin, true, dto.ListParams{Limit: 20})
	suite.NoError(err)
	_, err = suite.service.ListTopUpQueue(ctx, admin, false, dto.ListParams{Limit: 20})
	suite.NoError(err)

	suite.mockRepo.AssertExpectations(suite.T())
}

func TestTopUpServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TopUpServiceTestSuite))
}
