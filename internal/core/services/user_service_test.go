package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/core/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockBalanceRepo *MockBalanceRepository
	service         portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockBalanceRepo = new(MockBalanceRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockBalanceRepo)
}

func (suite *UserServiceTestSuite) TestRegister_CreatesUserWithZeroBalance() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Username:    "amara",
		Email:       "amara@example.com",
		PhoneNumber: "07612345678",
		Password:    "s3cret-pass",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == req.Username && u.PasswordHash != req.Password && !u.IsAdmin
	})).Return(nil).Once()
	suite.mockBalanceRepo.On("SaveBalance", ctx, mock.MatchedBy(func(b domain.Balance) bool {
		return b.Available.IsZero() && b.Withdrawable.IsZero()
	})).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)))
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "amara", PasswordHash: string(hash)}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "amara").Return(user, nil).Once()

	_, err = suite.service.Authenticate(ctx, "amara", "wrong-password")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUserSameError() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(ctx, "ghost", "whatever")

	// Same error as a wrong password, so login responses do not reveal
	// which usernames exist.
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestVerifyAdmin_NonAdminForbidden() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), IsAdmin: false}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	_, err := suite.service.VerifyAdmin(ctx, user.UserID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestVerifyAdmin_ReturnsCapability() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), IsAdmin: true}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	admin, err := suite.service.VerifyAdmin(ctx, user.UserID)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, admin.UserID)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
