package matcher

import (
	"strings"
	"unicode"
)

// genericInstitutionWords are removed from institution names before
// comparison. They carry no identifying signal: "Chase Bank" and "CHASE"
// should compare equal. Multi-word entries match as adjacent whole words.
var genericInstitutionWords = [][]string{
	{"bank"},
	{"credit", "union"},
	{"cu"},
	{"federal"},
	{"savings"},
	{"national"},
	{"trust"},
	{"fsb"},
}

// NormalizeInstitutionName canonicalizes an institution name for
// comparison: lowercase, letters/digits/whitespace only, generic banking
// words removed, whitespace collapsed.
func NormalizeInstitutionName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	tokens := strings.Fields(b.String())
	for _, words := range genericInstitutionWords {
		tokens = removeTokenRun(tokens, words)
	}

	return strings.Join(tokens, " ")
}

// removeTokenRun drops every occurrence of the word run from tokens,
// scanning left to right without rescanning removed regions.
func removeTokenRun(tokens, run []string) []string {
	if len(tokens) < len(run) {
		return tokens
	}

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if runAt(tokens, run, i) {
			i += len(run)
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func runAt(tokens, run []string, i int) bool {
	if i+len(run) > len(tokens) {
		return false
	}
	for j, w := range run {
		if tokens[i+j] != w {
			return false
		}
	}
	return true
}
