package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
)

// Storage provides SQLite database access for account records.
type Storage struct {
	db *sql.DB
}

var _ Repository = (*Storage)(nil)

// NewStorage opens (or creates) the database at dbPath and runs any
// pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	storage := &Storage{db: db}
	if err := storage.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// DB exposes the underlying database handle for integration tests.
func (s *Storage) DB() *sql.DB {
	return s.db
}

// SaveAccount inserts or replaces an account record.
func (s *Storage) SaveAccount(account *accounts.Account) error {
	query := `
	INSERT OR REPLACE INTO accounts
	(id, name, institution_name, account_number_last4, account_type,
	 is_manual, balance, currency, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		account.ID,
		account.Name,
		nullString(account.InstitutionName),
		nullString(account.AccountNumberLast4),
		account.Type,
		account.IsManual,
		account.Balance.String(),
		account.Currency,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.ID, err)
	}
	return nil
}

// GetAccount returns the account with the given ID, or nil if none exists.
func (s *Storage) GetAccount(id string) (*accounts.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE id = ?", accountColumns)

	account, err := scanAccount(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	return account, nil
}

// ListAccounts returns accounts matching the filters, newest first.
func (s *Storage) ListAccounts(filters AccountFilters) (*AccountListResult, error) {
	var conditions []string
	var args []any

	if filters.IsManual != nil {
		conditions = append(conditions, "is_manual = ?")
		args = append(args, *filters.IsManual)
	}
	if filters.Type != "" {
		conditions = append(conditions, "account_type = ?")
		args = append(args, filters.Type)
	}
	if filters.Institution != "" {
		conditions = append(conditions, "institution_name LIKE '%' || ? || '%'")
		args = append(args, filters.Institution)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM accounts"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(
		"SELECT %s FROM accounts%s ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		accountColumns, where,
	)
	rows, err := s.db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	result := &AccountListResult{
		Accounts:   []*accounts.Account{},
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		result.Accounts = append(result.Accounts, account)
	}
	return result, rows.Err()
}

// DeleteAccount removes an account record. Missing IDs are a no-op.
func (s *Storage) DeleteAccount(id string) error {
	if _, err := s.db.Exec("DELETE FROM accounts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return nil
}

// GetStats returns aggregate counts across all stored accounts.
func (s *Storage) GetStats() (*AccountStats, error) {
	stats := &AccountStats{ByType: make(map[string]int)}

	row := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_manual = 1 THEN 1 ELSE 0 END), 0)
		FROM accounts`)
	if err := row.Scan(&stats.TotalAccounts, &stats.ManualAccounts); err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	stats.LinkedAccounts = stats.TotalAccounts - stats.ManualAccounts

	rows, err := s.db.Query("SELECT account_type, COUNT(*) FROM accounts GROUP BY account_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var accountType string
		var count int
		if err := rows.Scan(&accountType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.ByType[accountType] = count
	}
	return stats, rows.Err()
}
