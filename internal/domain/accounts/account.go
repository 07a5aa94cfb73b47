// Package accounts defines the financial account record shared by the
// storage, matching, and API layers.
//
// An account is either manually entered by the user (IsManual true) or
// discovered through the external bank-data aggregation integration
// (IsManual false, a "linked" account). The matcher proposes pairs of
// the two kinds that likely denote the same real-world account.
package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account types understood by the system. Snapshot imports map anything
// else to TypeOther.
const (
	TypeChecking   = "checking"
	TypeSavings    = "savings"
	TypeCredit     = "credit"
	TypeInvestment = "investment"
	TypeLoan       = "loan"
	TypeOther      = "other"
)

// Account is a single financial account record.
// InstitutionName and AccountNumberLast4 are optional; nil means the
// user (or the aggregator) never supplied a value.
type Account struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	InstitutionName    *string         `json:"institution_name,omitempty"`
	AccountNumberLast4 *string         `json:"account_number_last4,omitempty"`
	Type               string          `json:"account_type"`
	IsManual           bool            `json:"is_manual"`
	Balance            decimal.Decimal `json:"balance"`
	Currency           string          `json:"currency"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// NewManualAccount creates a user-entered account with a fresh ID.
// institution and last4 may be empty; empty values are stored as absent.
func NewManualAccount(name, institution, last4, accountType string, balance decimal.Decimal) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:                 uuid.New().String(),
		Name:               name,
		InstitutionName:    optional(institution),
		AccountNumberLast4: optional(last4),
		Type:               accountType,
		IsManual:           true,
		Balance:            balance,
		Currency:           "USD",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NewLinkedAccount creates an account record for one discovered by the
// aggregation integration.
func NewLinkedAccount(name, institution, last4, accountType string, balance decimal.Decimal) *Account {
	a := NewManualAccount(name, institution, last4, accountType, balance)
	a.IsManual = false
	return a
}

// HasInstitution reports whether an institution name is present.
// An empty string counts as absent.
func (a *Account) HasInstitution() bool {
	return a.InstitutionName != nil && *a.InstitutionName != ""
}

// HasLast4 reports whether an account-number suffix is present.
func (a *Account) HasLast4() bool {
	return a.AccountNumberLast4 != nil && *a.AccountNumberLast4 != ""
}

// Institution returns the institution name or "" when absent.
func (a *Account) Institution() string {
	if a.InstitutionName == nil {
		return ""
	}
	return *a.InstitutionName
}

// Last4 returns the account-number suffix or "" when absent.
func (a *Account) Last4() string {
	if a.AccountNumberLast4 == nil {
		return ""
	}
	return *a.AccountNumberLast4
}

// IsValidType reports whether t is one of the known account types.
func IsValidType(t string) bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCredit, TypeInvestment, TypeLoan, TypeOther:
		return true
	}
	return false
}

// IsValidLast4 reports whether s is exactly four ASCII digits.
func IsValidLast4(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidTypes lists the known account types, for error messages and CLI help.
func ValidTypes() []string {
	return []string{TypeChecking, TypeSavings, TypeCredit, TypeInvestment, TypeLoan, TypeOther}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
