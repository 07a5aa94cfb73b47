// Package institutions provides a directory of well-known financial
// institutions and fuzzy suggestions against it.
//
// Suggestions help users pick a canonical institution name while
// creating a manual account, which in turn gives the account matcher
// cleaner input. The matcher itself never consults this package.
package institutions

// Institution is a canonical institution name with its common aliases.
type Institution struct {
	Name    string
	Aliases []string
}

// DefaultDirectory returns the built-in directory of well-known US
// institutions.
func DefaultDirectory() []Institution {
	return []Institution{
		{Name: "Chase", Aliases: []string{"JPMorgan Chase", "Chase Bank", "JP Morgan"}},
		{Name: "Bank of America", Aliases: []string{"BofA", "Bank of America, N.A."}},
		{Name: "Wells Fargo", Aliases: []string{"Wells Fargo Bank"}},
		{Name: "Citibank", Aliases: []string{"Citi", "Citigroup"}},
		{Name: "Capital One", Aliases: []string{"Capital One 360"}},
		{Name: "American Express", Aliases: []string{"Amex"}},
		{Name: "Discover", Aliases: []string{"Discover Bank", "Discover Card"}},
		{Name: "U.S. Bank", Aliases: []string{"US Bank"}},
		{Name: "PNC Bank", Aliases: []string{"PNC"}},
		{Name: "Truist", Aliases: []string{"BB&T", "SunTrust"}},
		{Name: "TD Bank", Aliases: []string{"TD"}},
		{Name: "Charles Schwab", Aliases: []string{"Schwab"}},
		{Name: "Fidelity", Aliases: []string{"Fidelity Investments"}},
		{Name: "Vanguard", Aliases: []string{"The Vanguard Group"}},
		{Name: "Ally", Aliases: []string{"Ally Bank", "Ally Financial"}},
		{Name: "Marcus", Aliases: []string{"Marcus by Goldman Sachs", "Goldman Sachs"}},
		{Name: "Navy Federal Credit Union", Aliases: []string{"Navy Federal", "NFCU"}},
		{Name: "SoFi", Aliases: []string{"SoFi Bank", "Social Finance"}},
		{Name: "USAA", Aliases: []string{"USAA Federal Savings Bank"}},
		{Name: "Synchrony", Aliases: []string{"Synchrony Bank"}},
	}
}
