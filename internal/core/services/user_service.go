package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/konnectsl/wallet_backend/internal/apperrors"
	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/dto"
)

type userService struct {
	BaseService
	userRepo    portsrepo.UserRepositoryFacade
	balanceRepo portsrepo.BalanceWriter
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, balanceRepo portsrepo.BalanceWriter) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, balanceRepo: balanceRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Register creates a user together with their zeroed balance row.
func (s *userService) Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.balanceRepo.SaveBalance(ctx, domain.NewZeroBalance(userID, user.AuditFields)); err != nil {
		return nil, fmt.Errorf("failed to create balance for user %s: %w", userID, err)
	}

	s.LogInfo(ctx, "User registered", "user_id", userID, "username", req.Username)
	return &user, nil
}

// Authenticate verifies username/password. It returns ErrNotFound for both a
// missing user and a wrong password so responses do not leak which usernames
// exist.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	if !passwordMatches(password, user.PasswordHash) {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// VerifyAdmin re-validates the admin role against the database and returns
// the capability passed into privileged settlement calls. Stale tokens from
// demoted admins fail here.
func (s *userService) VerifyAdmin(ctx context.Context, userID string) (domain.AdminActor, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return domain.AdminActor{}, err
	}
	if !user.IsAdmin {
		return domain.AdminActor{}, fmt.Errorf("%w: user %s is not an administrator", apperrors.ErrForbidden, userID)
	}
	return domain.AdminActor{UserID: user.UserID}, nil
}

func hashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: failed to hash password: %v", apperrors.ErrInternal, err)
	}
	return string(hash), nil
}

func passwordMatches(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
