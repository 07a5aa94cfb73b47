package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
)

// accountColumns is the column list shared by every account SELECT so
// scanAccount stays in sync with the queries.
const accountColumns = `id, name, institution_name, account_number_last4,
	account_type, is_manual, balance, currency, created_at, updated_at`

// accountRow mirrors the accounts table. Optional columns are nullable
// and balance is stored as text to avoid float rounding.
type accountRow struct {
	ID          string
	Name        string
	Institution sql.NullString
	Last4       sql.NullString
	AccountType string
	IsManual    bool
	Balance     string
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(scanner rowScanner) (*accounts.Account, error) {
	var row accountRow
	err := scanner.Scan(
		&row.ID,
		&row.Name,
		&row.Institution,
		&row.Last4,
		&row.AccountType,
		&row.IsManual,
		&row.Balance,
		&row.Currency,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *accountRow) toDomain() (*accounts.Account, error) {
	balance, err := decimal.NewFromString(r.Balance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance for account %s: %w", r.ID, err)
	}

	account := &accounts.Account{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.AccountType,
		IsManual:  r.IsManual,
		Balance:   balance,
		Currency:  r.Currency,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Institution.Valid && r.Institution.String != "" {
		v := r.Institution.String
		account.InstitutionName = &v
	}
	if r.Last4.Valid && r.Last4.String != "" {
		v := r.Last4.String
		account.AccountNumberLast4 = &v
	}
	return account, nil
}

// nullString converts an optional field to its database form. Empty
// strings are stored as NULL so "absent" has a single representation.
func nullString(v *string) sql.NullString {
	if v == nil || *v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
