package matcher

import (
	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
)

// Config holds the scoring weights and acceptance threshold
type Config struct {
	InstitutionWeight   int // Points when both institution names are present and similar
	AccountNumberWeight int // Points when both last-4 suffixes are present and equal
	TypeWeight          int // Points when account types are equal
	MinScore            int // Minimum score for a pair to be reported
}

// DefaultConfig returns the standard scoring policy
func DefaultConfig() Config {
	return Config{
		InstitutionWeight:   30,
		AccountNumberWeight: 50,
		TypeWeight:          20,
		MinScore:            50,
	}
}

// AccountMatch pairs a manual account with a linked account that likely
// represents the same real-world account. Reasons lists the evidence in
// evaluation order: institution, then account number, then type.
type AccountMatch struct {
	Manual  *accounts.Account `json:"manual_account"`
	Linked  *accounts.Account `json:"linked_account"`
	Score   int               `json:"score"`
	Reasons []string          `json:"reasons"`
}
