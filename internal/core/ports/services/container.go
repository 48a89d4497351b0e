package services

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Ledger    LedgerSvcFacade
	Reporting ReportingSvcFacade
	Currency  CurrencySvcFacade
}
