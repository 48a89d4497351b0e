package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/irfndi/accounting-finance-manager/internal/apperrors"
	"github.com/irfndi/accounting-finance-manager/internal/core/domain"
	portsrepo "github.com/irfndi/accounting-finance-manager/internal/core/ports/repositories"
	"github.com/irfndi/accounting-finance-manager/internal/models"
	"github.com/irfndi/accounting-finance-manager/internal/utils/mapping"
)

const accountColumns = `account_id, code, name, account_type, normal_balance, parent_account_id, is_active, allow_transactions, current_balance, entity_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements the facade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.NormalBalance,
		&m.ParentAccountID,
		&m.IsActive,
		&m.AllowTransactions,
		&m.CurrentBalance,
		&m.EntityID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateAccount inserts a new account.
func (r *PgxAccountRepository) CreateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.NormalBalance,
		m.ParentAccountID,
		m.IsActive,
		m.AllowTransactions,
		m.CurrentBalance,
		m.EntityID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account %d or code %q already exists", apperrors.ErrDuplicate, m.AccountID, m.Code)
		}
		return fmt.Errorf("failed to save account %d: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1;
	`
	m, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %d: %w", accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByType retrieves all accounts of a type within an entity scope.
func (r *PgxAccountRepository) FindAccountsByType(ctx context.Context, entityID string, accountType domain.AccountType) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE entity_id = $1 AND account_type = $2
		ORDER BY code;
	`
	rows, err := r.pool.Query(ctx, query, entityID, string(accountType))
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts of type %s: %w", accountType, err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// ListAccounts retrieves all accounts within an entity scope, ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, entityID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE entity_id = $1
		ORDER BY code;
	`
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	ms := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccountBalance replaces the cached base-currency balance.
func (r *PgxAccountRepository) UpdateAccountBalance(ctx context.Context, accountID int64, newBalance decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, accountID, newBalance, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// DeactivateAccount flags an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID int64, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, accountID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %d: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	return nil
}
