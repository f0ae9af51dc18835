package services

import (
	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/konnectsl/wallet_backend/internal/core/ports/services"
	"github.com/konnectsl/wallet_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. publisher may be nil when the broker is not
// configured; notifications are then persisted only.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Settings = NewSettingsService(repos.SettingsRepo)
	container.Notifier = NewNotificationService(repos.NotificationRepo, publisher)

	// The settlement processor is shared by both request state machines.
	container.Settlement = NewSettlementService(
		repos.TopUpRepo,
		repos.WithdrawalRepo,
		repos.SettlementRepo,
		container.Settings,
		container.Notifier,
	)

	container.TopUp = NewTopUpService(repos.TopUpRepo, container.Settings, container.Settlement)
	container.Withdrawal = NewWithdrawalService(repos.WithdrawalRepo, repos.BalanceRepo, container.Settings, container.Settlement)
	container.Wallet = NewWalletService(repos.BalanceRepo, repos.LedgerRepo, repos.SettlementRepo)
	container.Maturation = NewMaturationService(repos.TopUpRepo, repos.SettlementRepo, container.Notifier)
	container.Audit = NewAuditService(repos.AuditRepo)
	container.User = NewUserService(repos.UserRepo, repos.BalanceRepo)
	container.Evidence = NewEvidenceService(cfg.EvidenceDir, cfg.EvidenceBaseURL)

	return container
}
