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

type SettingsServiceTestSuite struct {
	suite.Suite
	mockRepo *MockSettingsRepository
	service  portssvc.SettingsSvcFacade
	admin    domain.AdminActor
}

func (suite *SettingsServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockSettingsRepository)
	suite.service = services.NewSettingsService(suite.mockRepo)
	suite.admin = domain.AdminActor{UserID: uuid.NewString()}
}

func (suite *SettingsServiceTestSuite) TestGetWalletSettings_DefaultsWhenAbsent() {
	ctx := context.Background()

	suite.mockRepo.On("GetSettings", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]string{}, nil).Once()

	settings, err := suite.service.GetWalletSettings(ctx)

	suite.Require().NoError(err)
	suite.True(settings.TopUpMinAmount.Equal(decimal.NewFromInt(50)))
	suite.True(settings.WithdrawFeePercent.Equal(decimal.NewFromInt(2)))
	suite.Equal(72*time.Hour, settings.HoldPeriod)
}

func (suite *SettingsServiceTestSuite) TestGetWalletSettings_StoredValuesWin() {
	ctx := context.Background()

	suite.mockRepo.On("GetSettings", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]string{
			domain.SettingWithdrawFeePercent: "3.5",
			domain.SettingHoldPeriodHours:    "24",
		}, nil).Once()

	settings, err := suite.service.GetWalletSettings(ctx)

	suite.Require().NoError(err)
	suite.True(settings.WithdrawFeePercent.Equal(decimal.NewFromFloat(3.5)))
	suite.Equal(24*time.Hour, settings.HoldPeriod)
	// Untouched keys keep their defaults.
	suite.True(settings.MinWithdrawAmount.Equal(decimal.NewFromInt(50)))
}

func (suite *SettingsServiceTestSuite) TestUpdateSetting_RejectsUnknownKey() {
	ctx := context.Background()

	err := suite.service.UpdateSetting(ctx, suite.admin, "not_a_real_key", "1")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "PutSetting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettingsServiceTestSuite) TestUpdateSetting_RejectsNegativeAmount() {
	ctx := context.Background()

	err := suite.service.UpdateSetting(ctx, suite.admin, domain.SettingWithdrawFeePercent, "-1")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SettingsServiceTestSuite) TestUpdateSetting_PersistsValidValue() {
	ctx := context.Background()

	suite.mockRepo.On("PutSetting", ctx, domain.SettingHoldPeriodHours, "48", suite.admin.UserID).
		Return(nil).Once()

	err := suite.service.UpdateSetting(ctx, suite.admin, domain.SettingHoldPeriodHours, "48")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}
