// Package matcher decides which manually entered accounts likely
// represent the same real-world account as one discovered through the
// bank-data aggregation integration.
//
// Matching is a pure computation over two in-memory snapshots: no I/O,
// no mutation of inputs, deterministic output. Evidence is weighted:
//   - Institution name similarity (normalized fuzzy compare)
//   - Account number last-4 equality (strongest signal)
//   - Account type equality
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	matches := m.FindAccountMatches(manualAccounts, linkedAccounts)
//	for _, match := range matches {
//		// match.Score, match.Reasons
//	}
package matcher

import (
	"fmt"
	"sort"

	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
)

// Matcher scores manual/linked account pairs
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config) *Matcher {
	return &Matcher{
		config: config,
	}
}

// FindAccountMatches evaluates the full cross product of manual x linked
// accounts and returns the pairs scoring at or above MinScore, highest
// score first. The sort is stable, so equal scores keep enumeration
// order (manual outer, linked inner). Entries on the wrong side of
// IsManual are skipped; inputs are never mutated or deduplicated.
func (m *Matcher) FindAccountMatches(manual, linked []*accounts.Account) []AccountMatch {
	var matches []AccountMatch

	for _, manualAccount := range manual {
		if !manualAccount.IsManual {
			continue
		}
		for _, linkedAccount := range linked {
			if linkedAccount.IsManual {
				continue
			}

			score, reasons := m.scorePair(manualAccount, linkedAccount)
			if score < m.config.MinScore {
				continue
			}

			matches = append(matches, AccountMatch{
				Manual:  manualAccount,
				Linked:  linkedAccount,
				Score:   score,
				Reasons: reasons,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// BestMatchForAccount finds the highest-scoring candidate for one manual
// account. Returns nil when the ID is unknown or nothing qualifies.
func (m *Matcher) BestMatchForAccount(manualAccountID string, manual, linked []*accounts.Account) *AccountMatch {
	var target *accounts.Account
	for _, a := range manual {
		if a.ID == manualAccountID {
			target = a
			break
		}
	}
	if target == nil {
		return nil
	}

	matches := m.FindAccountMatches([]*accounts.Account{target}, linked)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// FilterMatchedAccounts drops matches whose linked account has already
// been claimed. Order is preserved; an empty exclusion list returns the
// input untouched.
func FilterMatchedAccounts(matches []AccountMatch, excludedLinkedIDs []string) []AccountMatch {
	if len(excludedLinkedIDs) == 0 {
		return matches
	}

	excluded := make(map[string]bool, len(excludedLinkedIDs))
	for _, id := range excludedLinkedIDs {
		excluded[id] = true
	}

	filtered := make([]AccountMatch, 0, len(matches))
	for _, match := range matches {
		if excluded[match.Linked.ID] {
			continue
		}
		filtered = append(filtered, match)
	}
	return filtered
}

// scorePair computes the evidence score for one manual/linked pair.
// Absent optional fields skip their row; nothing subtracts.
func (m *Matcher) scorePair(manual, linked *accounts.Account) (int, []string) {
	score := 0
	var reasons []string

	if manual.HasInstitution() && linked.HasInstitution() &&
		SameInstitution(manual.Institution(), linked.Institution()) {
		score += m.config.InstitutionWeight
		reasons = append(reasons, "Institution name matches")
	}

	if manual.HasLast4() && linked.HasLast4() && manual.Last4() == linked.Last4() {
		score += m.config.AccountNumberWeight
		reasons = append(reasons, fmt.Sprintf("Account number ending in %s matches", manual.Last4()))
	}

	if manual.Type == linked.Type {
		score += m.config.TypeWeight
		reasons = append(reasons, "Account type matches")
	}

	return score, reasons
}
