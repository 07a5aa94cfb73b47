package storage

import (
	"sort"
	"strings"
	"sync"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
)

// MockRepository implements Repository in memory for tests.
type MockRepository struct {
	mu       sync.RWMutex
	accounts map[string]*accounts.Account

	SaveAccountCalled   bool
	GetAccountCalled    bool
	ListAccountsCalled  bool
	DeleteAccountCalled bool
	GetStatsCalled      bool

	LastSavedAccount *accounts.Account
	LastDeletedID    string

	SaveAccountErr   error
	GetAccountErr    error
	ListAccountsErr  error
	DeleteAccountErr error
	GetStatsErr      error
}

var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		accounts: make(map[string]*accounts.Account),
	}
}

// AddAccount seeds an account without touching the call-tracking flags.
func (m *MockRepository) AddAccount(account *accounts.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

// Count returns the number of stored accounts.
func (m *MockRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}

func (m *MockRepository) SaveAccount(account *accounts.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveAccountCalled = true
	m.LastSavedAccount = account
	if m.SaveAccountErr != nil {
		return m.SaveAccountErr
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockRepository) GetAccount(id string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetAccountCalled = true
	if m.GetAccountErr != nil {
		return nil, m.GetAccountErr
	}
	return m.accounts[id], nil
}

func (m *MockRepository) ListAccounts(filters AccountFilters) (*AccountListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListAccountsCalled = true
	if m.ListAccountsErr != nil {
		return nil, m.ListAccountsErr
	}

	var matched []*accounts.Account
	for _, account := range m.accounts {
		if filters.IsManual != nil && account.IsManual != *filters.IsManual {
			continue
		}
		if filters.Type != "" && account.Type != filters.Type {
			continue
		}
		if filters.Institution != "" {
			needle := strings.ToLower(filters.Institution)
			if !strings.Contains(strings.ToLower(account.Institution()), needle) {
				continue
			}
		}
		matched = append(matched, account)
	}

	// Same ordering as the SQLite implementation.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return &AccountListResult{
		Accounts:   append([]*accounts.Account{}, matched[offset:end]...),
		TotalCount: total,
		Limit:      limit,
		Offset:     filters.Offset,
	}, nil
}

func (m *MockRepository) DeleteAccount(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteAccountCalled = true
	m.LastDeletedID = id
	if m.DeleteAccountErr != nil {
		return m.DeleteAccountErr
	}
	delete(m.accounts, id)
	return nil
}

func (m *MockRepository) GetStats() (*AccountStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetStatsCalled = true
	if m.GetStatsErr != nil {
		return nil, m.GetStatsErr
	}

	stats := &AccountStats{ByType: make(map[string]int)}
	for _, account := range m.accounts {
		stats.TotalAccounts++
		if account.IsManual {
			stats.ManualAccounts++
		} else {
			stats.LinkedAccounts++
		}
		stats.ByType[account.Type]++
	}
	return stats, nil
}

func (m *MockRepository) Close() error {
	return nil
}
