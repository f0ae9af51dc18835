package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	balanceRepo := newPgxBalanceRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	topUpRepo := newPgxTopUpRepository(dbPool)
	withdrawalRepo := newPgxWithdrawalRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)
	settingsRepo := newPgxSettingsRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	settlementRepo := newPgxSettlementRepository(dbPool, balanceRepo, ledgerRepo, topUpRepo, withdrawalRepo, auditRepo)

	return portsrepo.RepositoryProvider{
		BalanceRepo:      balanceRepo,
		LedgerRepo:       ledgerRepo,
		TopUpRepo:        topUpRepo,
		WithdrawalRepo:   withdrawalRepo,
		AuditRepo:        auditRepo,
		NotificationRepo: notificationRepo,
		SettingsRepo:     settingsRepo,
		UserRepo:         userRepo,
		SettlementRepo:   settlementRepo,
	}
}
