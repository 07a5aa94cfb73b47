package institutions

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMinSimilarity is the minimum Jaro-Winkler score for a
// directory entry to be suggested.
const DefaultMinSimilarity = 0.75

// DefaultLimit caps result counts when the caller passes no limit.
const DefaultLimit = 5

// jaroWinkler is a reusable metric instance; it holds no mutable state.
var jaroWinkler = metrics.NewJaroWinkler()

// stripAccents removes combining marks so "Crédit" and "Credit" fold to
// the same key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Suggestion is one ranked directory hit.
type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Suggester ranks directory institutions against free text typed by the
// user. Safe for concurrent use once constructed.
type Suggester struct {
	minScore   float64
	candidates []candidate
}

// candidate maps one folded comparison key to its canonical name.
// Aliases produce extra candidates for the same canonical.
type candidate struct {
	key       string
	canonical string
}

// NewSuggester builds a suggester over the given directory.
func NewSuggester(directory []Institution) *Suggester {
	s := &Suggester{minScore: DefaultMinSimilarity}
	for _, inst := range directory {
		s.candidates = append(s.candidates, candidate{key: foldName(inst.Name), canonical: inst.Name})
		for _, alias := range inst.Aliases {
			s.candidates = append(s.candidates, candidate{key: foldName(alias), canonical: inst.Name})
		}
	}
	return s
}

// Suggest returns up to limit canonical institution names ranked by
// Jaro-Winkler similarity between the folded query and the folded
// directory keys. Each canonical name appears at most once, scored by
// its best-matching key. Ties keep directory order.
func (s *Suggester) Suggest(query string, limit int) []Suggestion {
	folded := foldName(query)
	if folded == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	best := make(map[string]float64)
	var order []string

	for _, c := range s.candidates {
		score := strutil.Similarity(folded, c.key, jaroWinkler)
		if score < s.minScore {
			continue
		}
		prev, seen := best[c.canonical]
		if !seen {
			order = append(order, c.canonical)
		}
		if !seen || score > prev {
			best[c.canonical] = score
		}
	}

	suggestions := make([]Suggestion, 0, len(order))
	for _, name := range order {
		suggestions = append(suggestions, Suggestion{Name: name, Score: best[name]})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// foldName lowercases, strips accents, and collapses whitespace.
func foldName(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		folded = lowered
	}
	return strings.Join(strings.Fields(folded), " ")
}
