package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/irfndi/accounting-finance-manager/internal/core/ports/services"
	"github.com/irfndi/accounting-finance-manager/internal/core/registry"
	"github.com/irfndi/accounting-finance-manager/internal/core/services"
	"github.com/irfndi/accounting-finance-manager/internal/handlers"
	"github.com/irfndi/accounting-finance-manager/internal/middleware"
	"github.com/irfndi/accounting-finance-manager/internal/repositories/database/pgsql"
	"github.com/irfndi/accounting-finance-manager/pkg/config"
	"github.com/irfndi/accounting-finance-manager/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, database.PoolSettings{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build the service graph: registry and balance state hydrate from
	// storage so validation and reports have full context at startup.
	repos := pgsql.NewRepositoryProvider(dbPool)
	accounts := registry.New()
	if err := services.LoadRegistryFromStore(context.Background(), accounts, repos.AccountRepo, cfg.EntityID); err != nil {
		logger.Error("Failed to hydrate account registry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Account registry hydrated", slog.Int("account_count", accounts.Len()))

	balances := services.NewBalanceManager(accounts)
	transactions, err := repos.LedgerRepo.ListTransactionsByEntity(context.Background(), cfg.EntityID, nil, nil)
	if err != nil {
		logger.Error("Failed to load transaction history", slog.String("error", err.Error()))
		os.Exit(1)
	}
	history, err := repos.LedgerRepo.ListJournalEntriesByEntity(context.Background(), cfg.EntityID)
	if err != nil {
		logger.Error("Failed to load journal entry history", slog.String("error", err.Error()))
		os.Exit(1)
	}
	balances.Rebuild(transactions, history)
	logger.Info("Balance state rebuilt",
		slog.Int("transaction_count", len(transactions)),
		slog.Int("entry_count", len(history)))

	currencies := services.NewCurrencyService()
	rates := services.NewStaticRateProvider(services.DefaultRateTable())
	journals := services.NewJournalEntryManager(accounts, rates, currencies, repos.LedgerRepo, services.JournalEntryManagerOptions{
		BaseCurrency:          cfg.BaseCurrency,
		StrictUnknownAccounts: cfg.StrictUnknownAccounts,
	})

	container := &portssvc.ServiceContainer{
		Account:   services.NewAccountService(accounts, repos.AccountRepo),
		Ledger:    services.NewLedgerService(repos.AccountRepo, repos.LedgerRepo, journals, balances),
		Reporting: services.NewReportingService(balances),
		Currency:  currencies,
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, rate limiting, audit actor)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.RateLimit(newRateLimiter(logger, cfg.RateLimit)))
	r.Use(middleware.ActorMiddleware())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newRateLimiter builds an in-memory IP rate limiter from the configured
// format, e.g. "100-M" for 100 requests per minute.
func newRateLimiter(logger *slog.Logger, format string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT format, defaulting to 100-M", slog.String("value", format))
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}
	return limiter.New(memory.NewStore(), rate)
}
