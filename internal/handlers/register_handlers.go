package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerAccountRoutes(v1, services.Account, services.Ledger)
	registerTransactionRoutes(v1, services.Ledger)
	registerReportingRoutes(v1, services.Reporting)
	registerCurrencyRoutes(v1, services.Currency)
}
