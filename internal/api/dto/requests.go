package dto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
)

// CreateAccountRequest is the body for POST /api/accounts. Balance is a
// decimal string ("2500.75"); empty means zero. IsManual defaults to
// true because the API exists for user-entered accounts; linked
// accounts normally arrive through snapshot imports.
type CreateAccountRequest struct {
	Name               string `json:"name"`
	InstitutionName    string `json:"institution_name"`
	AccountNumberLast4 string `json:"account_number_last4"`
	AccountType        string `json:"account_type"`
	Balance            string `json:"balance"`
	IsManual           *bool  `json:"is_manual"`
}

// Validate checks the request and reports the first problem found.
func (r *CreateAccountRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.AccountType != "" && !accounts.IsValidType(r.AccountType) {
		return fmt.Errorf("account_type must be one of: %s", strings.Join(accounts.ValidTypes(), ", "))
	}
	if r.AccountNumberLast4 != "" && !accounts.IsValidLast4(r.AccountNumberLast4) {
		return fmt.Errorf("account_number_last4 must be exactly four digits")
	}
	if r.Balance != "" {
		if _, err := decimal.NewFromString(r.Balance); err != nil {
			return fmt.Errorf("balance must be a decimal number")
		}
	}
	return nil
}

// ToDomain converts a validated request into an account record.
func (r *CreateAccountRequest) ToDomain() *accounts.Account {
	accountType := r.AccountType
	if accountType == "" {
		accountType = accounts.TypeOther
	}

	balance := decimal.Zero
	if r.Balance != "" {
		balance, _ = decimal.NewFromString(r.Balance)
	}

	if r.IsManual != nil && !*r.IsManual {
		return accounts.NewLinkedAccount(r.Name, r.InstitutionName, r.AccountNumberLast4, accountType, balance)
	}
	return accounts.NewManualAccount(r.Name, r.InstitutionName, r.AccountNumberLast4, accountType, balance)
}

// PreviewMatchesRequest is the body for POST /api/matches/preview. The
// caller supplies both sides directly; nothing is read from or written
// to storage.
type PreviewMatchesRequest struct {
	ManualAccounts   []*accounts.Account `json:"manual_accounts"`
	LinkedAccounts   []*accounts.Account `json:"linked_accounts"`
	ExcludeLinkedIDs []string            `json:"exclude_linked_ids"`
}

// Normalize forces the side flags and fills in missing IDs so the
// response and exclusion list always have something to refer to.
func (r *PreviewMatchesRequest) Normalize() {
	for _, account := range r.ManualAccounts {
		account.IsManual = true
		if account.ID == "" {
			account.ID = uuid.New().String()
		}
	}
	for _, account := range r.LinkedAccounts {
		account.IsManual = false
		if account.ID == "" {
			account.ID = uuid.New().String()
		}
	}
}

// Validate checks the preview request for entries that cannot be scored.
func (r *PreviewMatchesRequest) Validate() error {
	for i, account := range r.ManualAccounts {
		if account == nil {
			return fmt.Errorf("manual_accounts[%d] is null", i)
		}
	}
	for i, account := range r.LinkedAccounts {
		if account == nil {
			return fmt.Errorf("linked_accounts[%d] is null", i)
		}
	}
	return nil
}
