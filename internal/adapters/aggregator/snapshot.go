// Package aggregator imports account snapshots exported from the
// bank-data aggregation provider.
//
// A snapshot is the provider's JSON export of everything it discovered
// for a user: one entry per account with institution, mask, type, and
// balance. Imports are file based; this package never talks to the
// provider directly.
package aggregator

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
)

// Snapshot is the provider's account export format.
type Snapshot struct {
	Accounts []SnapshotAccount `json:"accounts"`
}

// SnapshotAccount is one account as the provider reports it.
type SnapshotAccount struct {
	AccountID    string              `json:"account_id"`
	Name         string              `json:"name"`
	OfficialName string              `json:"official_name"`
	Mask         string              `json:"mask"`
	Type         string              `json:"type"`
	Subtype      string              `json:"subtype"`
	Institution  SnapshotInstitution `json:"institution"`
	Balances     SnapshotBalances    `json:"balances"`
}

// SnapshotInstitution carries the institution block of an account entry.
type SnapshotInstitution struct {
	Name string `json:"name"`
}

// SnapshotBalances carries the balance block. Current stays a
// json.Number so the decimal conversion never goes through a float.
type SnapshotBalances struct {
	Current         json.Number `json:"current"`
	ISOCurrencyCode string      `json:"iso_currency_code"`
}

// ManualAccountRecord is one entry in a manual-accounts fixture file, a
// flat array of user-entered accounts. Balance is a JSON number.
type ManualAccountRecord struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	InstitutionName    string      `json:"institution_name"`
	AccountNumberLast4 string      `json:"account_number_last4"`
	AccountType        string      `json:"account_type"`
	Balance            json.Number `json:"balance"`
}

// ParseLinkedSnapshot decodes a provider snapshot into linked account
// records. Provider account IDs are kept so re-importing the same
// snapshot replaces rather than duplicates.
func ParseLinkedSnapshot(r io.Reader) ([]*accounts.Account, error) {
	var snapshot Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	out := make([]*accounts.Account, 0, len(snapshot.Accounts))
	for i, entry := range snapshot.Accounts {
		account, err := convertSnapshotAccount(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to convert account %d (%q): %w", i, entry.Name, err)
		}
		out = append(out, account)
	}
	return out, nil
}

// ParseManualAccounts decodes a manual-accounts fixture file.
func ParseManualAccounts(r io.Reader) ([]*accounts.Account, error) {
	var records []ManualAccountRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode manual accounts: %w", err)
	}

	out := make([]*accounts.Account, 0, len(records))
	for i, record := range records {
		account, err := convertManualRecord(record)
		if err != nil {
			return nil, fmt.Errorf("failed to convert account %d (%q): %w", i, record.Name, err)
		}
		out = append(out, account)
	}
	return out, nil
}

func convertSnapshotAccount(entry SnapshotAccount) (*accounts.Account, error) {
	name := entry.Name
	if name == "" {
		name = entry.OfficialName
	}
	if name == "" {
		return nil, fmt.Errorf("account %s has no name", entry.AccountID)
	}

	balance, err := parseBalance(entry.Balances.Current)
	if err != nil {
		return nil, err
	}

	account := accounts.NewLinkedAccount(name, entry.Institution.Name, entry.Mask, mapAccountType(entry.Type, entry.Subtype), balance)
	if entry.AccountID != "" {
		account.ID = entry.AccountID
	}
	if entry.Balances.ISOCurrencyCode != "" {
		account.Currency = entry.Balances.ISOCurrencyCode
	}
	return account, nil
}

func convertManualRecord(record ManualAccountRecord) (*accounts.Account, error) {
	if record.Name == "" {
		return nil, fmt.Errorf("account has no name")
	}

	accountType := record.AccountType
	if accountType == "" {
		accountType = accounts.TypeOther
	}
	if !accounts.IsValidType(accountType) {
		return nil, fmt.Errorf("unknown account type %q", accountType)
	}

	balance, err := parseBalance(record.Balance)
	if err != nil {
		return nil, err
	}

	account := accounts.NewManualAccount(record.Name, record.InstitutionName, record.AccountNumberLast4, accountType, balance)
	if record.ID != "" {
		account.ID = record.ID
	}
	return account, nil
}

func parseBalance(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	balance, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance %q: %w", n, err)
	}
	return balance, nil
}

// mapAccountType folds the provider's type/subtype pair onto the local
// account types. Anything unrecognized becomes TypeOther.
func mapAccountType(providerType, subtype string) string {
	switch providerType {
	case "depository":
		switch subtype {
		case "savings", "money market", "cd":
			return accounts.TypeSavings
		default:
			return accounts.TypeChecking
		}
	case "credit":
		return accounts.TypeCredit
	case "investment", "brokerage":
		return accounts.TypeInvestment
	case "loan":
		return accounts.TypeLoan
	default:
		return accounts.TypeOther
	}
}
