package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Wallet     WalletSvcFacade
	TopUp      TopUpSvcFacade
	Withdrawal WithdrawalSvcFacade
	Settlement SettlementProcessorSvc
	Maturation MaturationSvc
	Settings   SettingsSvcFacade
	Notifier   NotifierSvc
	Audit      AuditSvcFacade
	User       UserSvcFacade
	Evidence   EvidenceStoreSvc
}
