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
	"github.com/irfndi/accounting-finance-manager/internal/utils/pagination"
)

const transactionColumns = `transaction_id, description, transaction_date, currency_code, reference, entity_id, status, created_at, created_by, last_updated_at, last_updated_by`

const journalEntryColumns = `journal_entry_id, transaction_id, account_id, description, currency_code, debit_amount, credit_amount, exchange_rate, base_currency_code, base_debit_amount, base_credit_amount, entry_date, entity_id, is_reconciled, reconciliation_id, reconciled_at, reconciled_by, running_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for transaction headers
// and journal entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Description,
		&m.TransactionDate,
		&m.CurrencyCode,
		&m.Reference,
		&m.EntityID,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalEntryID,
		&m.TransactionID,
		&m.AccountID,
		&m.Description,
		&m.CurrencyCode,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.ExchangeRate,
		&m.BaseCurrencyCode,
		&m.BaseDebitAmount,
		&m.BaseCreditAmount,
		&m.EntryDate,
		&m.EntityID,
		&m.IsReconciled,
		&m.ReconciliationID,
		&m.ReconciledAt,
		&m.ReconciledBy,
		&m.RunningBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectJournalEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	ms := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return mapping.ToDomainJournalEntrySlice(ms), nil
}

// CreateTransaction persists a new transaction header.
func (r *PgxLedgerRepository) CreateTransaction(ctx context.Context, transaction domain.Transaction) error {
	m := mapping.ToModelTransaction(transaction)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.Description,
		m.TransactionDate,
		m.CurrencyCode,
		m.Reference,
		m.EntityID,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction header by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	transaction := mapping.ToDomainTransaction(m)
	return &transaction, nil
}

// ListTransactionsByEntity retrieves transaction headers for an entity,
// newest first. A nil bound leaves that side of the date range open, so
// (nil, nil) lists the full history.
func (r *PgxLedgerRepository) ListTransactionsByEntity(ctx context.Context, entityID string, from, to *time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE entity_id = $1`
	args := []interface{}{entityID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND transaction_date >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND transaction_date <= $%d`, len(args))
	}
	query += `
		ORDER BY transaction_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	ms := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	transactions := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		transactions[i] = mapping.ToDomainTransaction(m)
	}
	return transactions, nil
}

// UpdateTransactionStatus moves a transaction between lifecycle states.
func (r *PgxLedgerRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// DeleteTransaction removes a transaction header; its journal entries go
// with it via ON DELETE CASCADE.
func (r *PgxLedgerRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// CreateJournalEntries persists a batch of journal entries within one
// database transaction, deriving each entry's running balance from the
// account's latest posted one.
func (r *PgxLedgerRepository) CreateJournalEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	accountIDs := make([]int64, 0, len(entries))
	seen := make(map[int64]bool)
	for _, entry := range entries {
		if !seen[entry.AccountID] {
			seen[entry.AccountID] = true
			accountIDs = append(accountIDs, entry.AccountID)
		}
	}

	normals, err := fetchNormalBalances(ctx, tx, accountIDs)
	if err != nil {
		return err
	}
	running, err := fetchLatestRunningBalances(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	insert := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	for _, entry := range entries {
		signed := entry.BaseDebitAmount.Sub(entry.BaseCreditAmount)
		if normals[entry.AccountID] == domain.CreditNormal {
			signed = signed.Neg()
		}
		running[entry.AccountID] = running[entry.AccountID].Add(signed)
		entry.RunningBalance = running[entry.AccountID]

		m := mapping.ToModelJournalEntry(entry)
		batch.Queue(insert,
			m.JournalEntryID,
			m.TransactionID,
			m.AccountID,
			m.Description,
			m.CurrencyCode,
			m.DebitAmount,
			m.CreditAmount,
			m.ExchangeRate,
			m.BaseCurrencyCode,
			m.BaseDebitAmount,
			m.BaseCreditAmount,
			m.EntryDate,
			m.EntityID,
			m.IsReconciled,
			m.ReconciliationID,
			m.ReconciledAt,
			m.ReconciledBy,
			m.RunningBalance,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: journal entry already exists", apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to insert journal entry batch: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close journal entry batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// fetchNormalBalances loads the normal balance of each account. Accounts
// missing from the chart default to debit-normal so their running balance
// is still well defined.
func fetchNormalBalances(ctx context.Context, tx pgx.Tx, accountIDs []int64) (map[int64]domain.NormalBalance, error) {
	rows, err := tx.Query(ctx, `SELECT account_id, normal_balance FROM accounts WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query account normal balances: %w", err)
	}
	defer rows.Close()

	normals := make(map[int64]domain.NormalBalance, len(accountIDs))
	for _, accountID := range accountIDs {
		normals[accountID] = domain.DebitNormal
	}
	for rows.Next() {
		var accountID int64
		var normal domain.NormalBalance
		if err := rows.Scan(&accountID, &normal); err != nil {
			return nil, fmt.Errorf("failed to scan normal balance row: %w", err)
		}
		normals[accountID] = normal
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating normal balance rows: %w", err)
	}
	return normals, nil
}

// fetchLatestRunningBalances loads the most recent running balance per
// account, considering only entries of POSTED transactions; accounts with
// no posted entries start at zero. Draft chains are excluded so deleting
// a draft later cannot leave subsequent running balances wrong.
func fetchLatestRunningBalances(ctx context.Context, tx pgx.Tx, accountIDs []int64) (map[int64]decimal.Decimal, error) {
	query := `
		SELECT DISTINCT ON (je.account_id) je.account_id, je.running_balance
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		WHERE je.account_id = ANY($1) AND t.status = $2
		ORDER BY je.account_id, je.entry_date DESC, je.created_at DESC, je.journal_entry_id DESC;
	`
	rows, err := tx.Query(ctx, query, accountIDs, string(domain.Posted))
	if err != nil {
		return nil, fmt.Errorf("failed to query latest running balances: %w", err)
	}
	defer rows.Close()

	running := make(map[int64]decimal.Decimal, len(accountIDs))
	for rows.Next() {
		var accountID int64
		var balance decimal.Decimal
		if err := rows.Scan(&accountID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan running balance row: %w", err)
		}
		running[accountID] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating running balance rows: %w", err)
	}
	return running, nil
}

// FindJournalEntryByID retrieves one journal entry.
func (r *PgxLedgerRepository) FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE journal_entry_id = $1;
	`
	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, journalEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, journalEntryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", journalEntryID, err)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindJournalEntriesByTransaction retrieves all entries of one transaction.
func (r *PgxLedgerRepository) FindJournalEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE transaction_id = $1
		ORDER BY created_at, journal_entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	return collectJournalEntries(rows)
}

// ListJournalEntriesByAccount retrieves a token-paginated page of entries
// posted against one account, newest first.
func (r *PgxLedgerRepository) ListJournalEntriesByAccount(ctx context.Context, entityID string, accountID int64, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{entityID, accountID, limit + 1}
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE entity_id = $1 AND account_id = $2
	`
	if nextToken != nil && *nextToken != "" {
		lastDate, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, journal_entry_id) < ($4, $5)`
		args = append(args, lastDate, lastID)
	}
	query += `
		ORDER BY entry_date DESC, journal_entry_id DESC
		LIMIT $3;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries for account %d: %w", accountID, err)
	}
	defer rows.Close()

	entries, err := collectJournalEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var newToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.JournalEntryID)
		newToken = &token
	}
	return entries, newToken, nil
}

// ListJournalEntriesByEntity retrieves every entry for an entity scope,
// oldest first, for balance state rebuilds. Entries of DRAFT transactions
// are included; replay filters on transaction status.
func (r *PgxLedgerRepository) ListJournalEntriesByEntity(ctx context.Context, entityID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE entity_id = $1
		ORDER BY entry_date, created_at, journal_entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	return collectJournalEntries(rows)
}

// UpdateReconciliation persists the reconciliation metadata of one entry.
func (r *PgxLedgerRepository) UpdateReconciliation(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET is_reconciled = $2, reconciliation_id = $3, reconciled_at = $4, reconciled_by = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE journal_entry_id = $1;
	`
	m := mapping.ToModelJournalEntry(entry)
	tag, err := r.Pool.Exec(ctx, query,
		m.JournalEntryID,
		m.IsReconciled,
		m.ReconciliationID,
		m.ReconciledAt,
		m.ReconciledBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update reconciliation of journal entry %s: %w", m.JournalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, m.JournalEntryID)
	}
	return nil
}
