package matcher

import (
	"strings"
	"unicode/utf8"
)

// SameInstitution reports whether two raw institution names refer to the
// same institution. Checks run in order and short-circuit: normalized
// equality, substring containment, then the shared-word heuristic.
func SameInstitution(a, b string) bool {
	na := NormalizeInstitutionName(a)
	nb := NormalizeInstitutionName(b)

	// Names made entirely of generic words (both just "Bank", say)
	// normalize to "" and compare equal here. Tighten this branch if
	// that ever proves too loose in practice.
	if na == nb {
		return true
	}
	if na == "" || nb == "" {
		return false
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	return sharedWordMatch(na, nb)
}

// sharedWordMatch compares the significant words of two normalized
// names. A match requires at least one shared word, and the shared set
// must cover at least half of the smaller word set (integer division,
// so three-word names need one shared word).
func sharedWordMatch(na, nb string) bool {
	wordsA := significantWords(na)
	wordsB := significantWords(nb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	shared := 0
	for w := range wordsA {
		if wordsB[w] {
			shared++
		}
	}

	smaller := len(wordsA)
	if len(wordsB) < smaller {
		smaller = len(wordsB)
	}

	return shared > 0 && shared >= smaller/2
}

// significantWords returns the distinct tokens of at least three
// characters.
func significantWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		if utf8.RuneCountInString(w) >= 3 {
			words[w] = true
		}
	}
	return words
}
