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
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/core/services"
)

type MaturationServiceTestSuite struct {
	suite.Suite
	mockTopUpRepo      *MockTopUpRepository
	mockSettlementRepo *MockSettlementRepository
	mockNotifier       *MockNotifier
	service            portssvc.MaturationSvc
}

func (suite *MaturationServiceTestSuite) SetupTest() {
	suite.mockTopUpRepo = new(MockTopUpRepository)
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewMaturationService(suite.mockTopUpRepo, suite.mockSettlementRepo, suite.mockNotifier)
}

func maturedTopUp(userID string, credited int64) domain.TopUpRequest {
	releaseAt := time.Now().Add(-time.Hour)
	return domain.TopUpRequest{
		RequestID:      uuid.NewString(),
		UserID:         userID,
		Status:         domain.TopUpApproved,
		TokensCredited: decimal.NewFromInt(credited),
		HoldReleaseAt:  &releaseAt,
	}
}

func (suite *MaturationServiceTestSuite) TestReleaseMaturedHolds_PromotesEach() {
	ctx := context.Background()
	first := maturedTopUp(uuid.NewString(), 99)
	second := maturedTopUp(uuid.NewString(), 150)

	suite.mockTopUpRepo.On("ListMaturedHolds", ctx, mock.AnythingOfType("time.Time"), 200).
		Return([]domain.TopUpRequest{first, second}, nil).Once()
	suite.mockSettlementRepo.On("ReleaseTopUpHold", ctx, first.RequestID, first.UserID,
		first.TokensCredited, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(a domain.AuditRecord) bool {
			return a.Action == "release_hold" && a.TargetUserID == first.UserID
		}),
	).Return(nil).Once()
	suite.mockSettlementRepo.On("ReleaseTopUpHold", ctx, second.RequestID, second.UserID,
		second.TokensCredited, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(a domain.AuditRecord) bool {
			return a.Action == "release_hold" && a.TargetUserID == second.UserID
		}),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyTopUpReleased
	})).Twice()

	released, err := suite.service.ReleaseMaturedHolds(ctx)

	suite.Require().NoError(err)
	suite.Equal(2, released)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *MaturationServiceTestSuite) TestReleaseMaturedHolds_SkipsConcurrentlyReleased() {
	ctx := context.Background()
	first := maturedTopUp(uuid.NewString(), 99)
	second := maturedTopUp(uuid.NewString(), 150)

	suite.mockTopUpRepo.On("ListMaturedHolds", ctx, mock.AnythingOfType("time.Time"), 200).
		Return([]domain.TopUpRequest{first, second}, nil).Once()
	// A concurrent run already promoted the first request.
	suite.mockSettlementRepo.On("ReleaseTopUpHold", ctx, first.RequestID, first.UserID,
		first.TokensCredited, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditRecord"),
	).Return(apperrors.ErrAlreadyProcessed).Once()
	suite.mockSettlementRepo.On("ReleaseTopUpHold", ctx, second.RequestID, second.UserID,
		second.TokensCredited, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.AuditRecord"),
	).Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == second.UserID
	})).Once()

	released, err := suite.service.ReleaseMaturedHolds(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, released)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *MaturationServiceTestSuite) TestReleaseMaturedHolds_EmptyBatch() {
	ctx := context.Background()

	suite.mockTopUpRepo.On("ListMaturedHolds", ctx, mock.AnythingOfType("time.Time"), 200).
		Return([]domain.TopUpRequest{}, nil).Once()

	released, err := suite.service.ReleaseMaturedHolds(ctx)

	suite.Require().NoError(err)
	suite.Zero(released)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "ReleaseTopUpHold",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMaturationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MaturationServiceTestSuite))
}
