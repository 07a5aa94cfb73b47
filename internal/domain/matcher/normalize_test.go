package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInstitutionName_Lowercases(t *testing.T) {
	assert.Equal(t, "chase", NormalizeInstitutionName("CHASE"))
	assert.Equal(t, "wells fargo", NormalizeInstitutionName("Wells Fargo"))
}

func TestNormalizeInstitutionName_StripsPunctuation(t *testing.T) {
	assert.Equal(t, "us", NormalizeInstitutionName("U.S. Bank"))
	// Stripped characters are dropped, not replaced with spaces
	assert.Equal(t, "firsttech", NormalizeInstitutionName("First-Tech (Bank)"))
	assert.Equal(t, "chase na", NormalizeInstitutionName("Chase, N.A."))
}

func TestNormalizeInstitutionName_RemovesGenericWords(t *testing.T) {
	assert.Equal(t, "chase", NormalizeInstitutionName("Chase Bank"))
	assert.Equal(t, "navy", NormalizeInstitutionName("Navy Federal Credit Union"))
	assert.Equal(t, "first", NormalizeInstitutionName("First National Bank"))
	assert.Equal(t, "ally", NormalizeInstitutionName("Ally Bank Trust"))
}

func TestNormalizeInstitutionName_WholeWordsOnly(t *testing.T) {
	// "bankers" contains "bank" but is not the whole word
	assert.Equal(t, "bankers co", NormalizeInstitutionName("Bankers Trust Co"))
	// "cubic" contains "cu"
	assert.Equal(t, "cubic", NormalizeInstitutionName("Cubic"))
	// "credit" without "union" after it stays
	assert.Equal(t, "credit suisse", NormalizeInstitutionName("Credit Suisse"))
}

func TestNormalizeInstitutionName_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "wells fargo", NormalizeInstitutionName("  Wells    Fargo  "))
	assert.Equal(t, "golden 1", NormalizeInstitutionName("Golden 1 Credit   Union"))
}

func TestNormalizeInstitutionName_GenericOnlyNamesBecomeEmpty(t *testing.T) {
	assert.Equal(t, "", NormalizeInstitutionName("Bank"))
	assert.Equal(t, "", NormalizeInstitutionName("Federal Savings Bank"))
	assert.Equal(t, "", NormalizeInstitutionName("FSB"))
	assert.Equal(t, "", NormalizeInstitutionName(""))
}

func TestNormalizeInstitutionName_Idempotent(t *testing.T) {
	names := []string{
		"Chase Bank",
		"Navy Federal Credit Union",
		"U.S. Bank, N.A.",
		"  Wells    Fargo  ",
		"Bankers Trust Co",
		"",
	}
	for _, name := range names {
		once := NormalizeInstitutionName(name)
		assert.Equal(t, once, NormalizeInstitutionName(once), "input %q", name)
	}
}
