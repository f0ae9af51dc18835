package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	BalanceRepo      BalanceRepositoryFacade
	LedgerRepo       LedgerRepositoryFacade
	TopUpRepo        TopUpRepositoryFacade
	WithdrawalRepo   WithdrawalRepositoryFacade
	AuditRepo        AuditRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
	SettingsRepo     SettingsRepositoryFacade
	UserRepo         UserRepositoryFacade
	SettlementRepo   SettlementRepository
}
