package storage

import (
	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
)

// Repository defines the complete storage interface for the accounts
// database. Consumers depend on this interface rather than the concrete
// SQLite implementation so tests can swap in a mock.
type Repository interface {
	AccountRepository
	Close() error
}

// AccountRepository handles account record persistence.
type AccountRepository interface {
	// SaveAccount inserts or replaces an account record keyed by ID.
	SaveAccount(account *accounts.Account) error

	// GetAccount returns the account with the given ID, or nil if no
	// such account exists.
	GetAccount(id string) (*accounts.Account, error)

	// ListAccounts returns accounts matching the filters, newest first.
	ListAccounts(filters AccountFilters) (*AccountListResult, error)

	// DeleteAccount removes the account with the given ID. Deleting an
	// account that does not exist is not an error.
	DeleteAccount(id string) error

	// GetStats returns aggregate counts across all stored accounts.
	GetStats() (*AccountStats, error)
}

// AccountFilters narrows a ListAccounts query. Zero values mean "no
// filter" for every field except IsManual, which uses nil to include
// both manual and linked accounts.
type AccountFilters struct {
	IsManual    *bool
	Type        string
	Institution string // substring match on institution name
	Limit       int    // 0 means DefaultListLimit
	Offset      int
}

// DefaultListLimit caps ListAccounts results when no limit is given.
const DefaultListLimit = 50

// AccountListResult is a page of accounts plus the total count that
// matched the filters before pagination.
type AccountListResult struct {
	Accounts   []*accounts.Account `json:"accounts"`
	TotalCount int                 `json:"total_count"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

// AccountStats holds aggregate counts over the accounts table.
type AccountStats struct {
	TotalAccounts  int            `json:"total_accounts"`
	ManualAccounts int            `json:"manual_accounts"`
	LinkedAccounts int            `json:"linked_accounts"`
	ByType         map[string]int `json:"by_type"`
}
