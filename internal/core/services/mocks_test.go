package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/konnectsl/wallet_backend/internal/core/domain"
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	"github.com/konnectsl/wallet_backend/internal/dto"
)

// MockTopUpRepository is a mock type for the TopUpRepositoryFacade interface
type MockTopUpRepository struct {
	mock.Mock
}

func (m *MockTopUpRepository) FindTopUpByID(ctx context.Context, requestID string) (*domain.TopUpRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopUpRequest), args.Error(1)
}

func (m *MockTopUpRepository) ListTopUpsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.TopUpRequest, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.TopUpRequest), args.Get(1).(*string), args.Error(2)
}

func (m *MockTopUpRepository) ListTopUpsByStatus(ctx context.Context, statuses []domain.TopUpStatus, limit int, nextToken *string) ([]domain.TopUpRequest, *string, error) {
	args := m.Called(ctx, statuses, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.TopUpRequest), args.Get(1).(*string), args.Error(2)
}

func (m *MockTopUpRepository) ListMaturedHolds(ctx context.Context, asOf time.Time, limit int) ([]domain.TopUpRequest, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopUpRequest), args.Error(1)
}

func (m *MockTopUpRepository) SaveTopUp(ctx context.Context, req domain.TopUpRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockTopUpRepository) UpdateTopUpSubmission(ctx context.Context, req domain.TopUpRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockTopUpRepository) ApproveTopUpInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.TopUpApprovalUpdate) error {
	args := m.Called(ctx, tx, requestID, upd)
	return args.Error(0)
}

func (m *MockTopUpRepository) RejectTopUpInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.TopUpRejectionUpdate) error {
	args := m.Called(ctx, tx, requestID, upd)
	return args.Error(0)
}

func (m *MockTopUpRepository) MarkTopUpInfoRequestedInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.TopUpInfoUpdate) error {
	args := m.Called(ctx, tx, requestID, upd)
	return args.Error(0)
}

func (m *MockTopUpRepository) MarkHoldReleasedInTx(ctx context.Context, tx pgx.Tx, requestID string, releasedAt time.Time) error {
	args := m.Called(ctx, tx, requestID, releasedAt)
	return args.Error(0)
}

// MockWithdrawalRepository is a mock type for the WithdrawalRepositoryFacade interface
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) FindWithdrawalByID(ctx context.Context, requestID string) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.WithdrawalRequest, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.WithdrawalRequest), args.Get(1).(*string), args.Error(2)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByStatus(ctx context.Context, statuses []domain.WithdrawalStatus, limit int, nextToken *string) ([]domain.WithdrawalRequest, *string, error) {
	args := m.Called(ctx, statuses, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.WithdrawalRequest), args.Get(1).(*string), args.Error(2)
}

func (m *MockWithdrawalRepository) SaveWithdrawal(ctx context.Context, req domain.WithdrawalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) MarkWithdrawalPaidInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.WithdrawalPayoutUpdate) error {
	args := m.Called(ctx, tx, requestID, upd)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) RejectWithdrawalInTx(ctx context.Context, tx pgx.Tx, requestID string, upd portsrepo.WithdrawalRejectionUpdate) error {
	args := m.Called(ctx, tx, requestID, upd)
	return args.Error(0)
}

// MockSettlementRepository is a mock type for the SettlementRepository interface
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) ApproveTopUp(ctx context.Context, requestID string, upd portsrepo.TopUpApprovalUpdate, entries []domain.LedgerEntry, userID string, delta domain.BalanceDelta, audit domain.AuditRecord) error {
	args := m.Called(ctx, requestID, upd, entries, userID, delta, audit)
	return args.Error(0)
}

func (m *MockSettlementRepository) RejectTopUp(ctx context.Context, requestID string, upd portsrepo.TopUpRejectionUpdate, audit domain.AuditRecord) error {
	args := m.Called(ctx, requestID, upd, audit)
	return args.Error(0)
}

func (m *MockSettlementRepository) RequestTopUpInfo(ctx context.Context, requestID string, upd portsrepo.TopUpInfoUpdate, audit domain.AuditRecord) error {
	args := m.Called(ctx, requestID, upd, audit)
	return args.Error(0)
}

func (m *MockSettlementRepository) PayWithdrawal(ctx context.Context, requestID string, upd portsrepo.WithdrawalPayoutUpdate, entries []domain.LedgerEntry, userID string, requestedAmount decimal.Decimal, delta domain.BalanceDelta, audit domain.AuditRecord) error {
	args := m.Called(ctx, requestID, upd, entries, userID, requestedAmount, delta, audit)
	return args.Error(0)
}

func (m *MockSettlementRepository) RejectWithdrawal(ctx context.Context, requestID string, upd portsrepo.WithdrawalRejectionUpdate, audit domain.AuditRecord) error {
	args := m.Called(ctx, requestID, upd, audit)
	return args.Error(0)
}

func (m *MockSettlementRepository) ReleaseTopUpHold(ctx context.Context, requestID, userID string, amount decimal.Decimal, releasedAt time.Time, audit domain.AuditRecord) error {
	args := m.Called(ctx, requestID, userID, amount, releasedAt, audit)
	return args.Error(0)
}

func (m *MockSettlementRepository) Spend(ctx context.Context, entry domain.LedgerEntry, delta domain.BalanceDelta) error {
	args := m.Called(ctx, entry, delta)
	return args.Error(0)
}

// MockBalanceRepository is a mock type for the BalanceRepositoryFacade interface
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) FindBalanceByUserID(ctx context.Context, userID string) (*domain.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) SaveBalance(ctx context.Context, balance domain.Balance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) FindBalanceForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Balance, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) ApplyDeltaInTx(ctx context.Context, tx pgx.Tx, userID string, delta domain.BalanceDelta, updatedBy string) (*domain.Balance, error) {
	args := m.Called(ctx, tx, userID, delta, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) AppendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(*string), args.Error(2)
}

func (m *MockLedgerRepository) ListEntriesByReference(ctx context.Context, reference string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumEntriesByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockSettingsRepository is a mock type for the SettingsRepositoryFacade interface
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSettings(ctx context.Context, keys []string) (map[string]string, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsRepository) PutSetting(ctx context.Context, key, value, updatedBy string) error {
	args := m.Called(ctx, key, value, updatedBy)
	return args.Error(0)
}

// MockSettingsService is a mock type for the SettingsSvcFacade interface
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetWalletSettings(ctx context.Context) (domain.WalletSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.WalletSettings), args.Error(1)
}

func (m *MockSettingsService) UpdateSetting(ctx context.Context, admin domain.AdminActor, key, value string) error {
	args := m.Called(ctx, admin, key, value)
	return args.Error(0)
}

// MockNotifier is a mock type for the NotifierSvc interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) {
	m.Called(ctx, n)
}

func (m *MockNotifier) ListMyNotifications(ctx context.Context, userID string, params dto.ListParams) (*dto.ListNotificationsResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListNotificationsResponse), args.Error(1)
}

func (m *MockNotifier) MarkRead(ctx context.Context, userID, notificationID string, readAt time.Time) error {
	args := m.Called(ctx, userID, notificationID, readAt)
	return args.Error(0)
}
