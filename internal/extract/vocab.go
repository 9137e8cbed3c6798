package extract

// Fixed vocabularies for the net-worth scan. These encode real-world
// institution names and the dashboard's own labels; extend by appending,
// the scanning logic never needs to change.

// groupHeaders are the section headers of the structured account table.
// Entering a group sets the classification context for the rows under it.
var groupHeaders = map[string]bool{
	"Cash":        true,
	"Investment":  true,
	"Credit":      true,
	"Loan":        true,
	"Mortgage":    true,
	"Other Asset": true,
}

// accountTypes is the dashboard's type vocabulary. A line matching one of
// these exactly is a type cell, never an account name.
var accountTypes = map[string]bool{
	"Checking":         true,
	"Savings":          true,
	"Investment":       true,
	"IRA Traditional":  true,
	"IRA SEP":          true,
	"401k Traditional": true,
	"Personal":         true,
	"Line of Credit":   true,
	"Line Of Credit":   true,
	"Mortgage":         true,
	"Assets":           true,
	"Cryptocurrency":   true,
}

// knownProviders opens an account block in the structured section when a
// line contains one of them.
var knownProviders = []string{
	"Apple Federal Credit Union",
	"Charles Schwab",
	"Fidelity",
	"Morgan Stanley",
	"M1 Finance",
	"Manual Investment Holdings",
	"Wells Fargo",
	"Chase",
	"American Express",
	"Brex",
	"E*TRADE",
	"T-RowePrice Manual Holdings",
	"Bluevine",
	"Webull",
	"Coinbase",
	"Truist",
	"MorganStanley",
	"Manual",
	"Cyber Connective Corporation",
}

// standaloneProviders are matched exactly in the provider-first re-scan.
var standaloneProviders = map[string]bool{
	"Brex":                       true,
	"Chase":                      true,
	"American Express":           true,
	"Wells Fargo":                true,
	"Fidelity":                   true,
	"Morgan Stanley":             true,
	"Bluevine":                   true,
	"Webull":                     true,
	"Coinbase":                   true,
	"Apple Federal Credit Union": true,
}

// accountNameKeywords qualify a lowercased line as an account-name
// candidate inside an open block.
var accountNameKeywords = []string{
	"checking", "savings", "brokerage", "ira", "401", "credit", "card",
	"investment", "trust", "loan", "mortgage", "line", "cash", "apple",
	"advantage", "afcu", "cyber", "schwab", "rltq", "sep", "individual",
	"lei", "ai", "growth", "crypto", "aaa", "consulting", "platinum",
	"select", "uma", "hilton", "marriott", "bonvoy", "business", "preferred",
	"blue", "equity", "ready", "advtge",
}

// propertyNameKeywords route an otherwise unclassified account to the
// Other category when they appear in its name.
var propertyNameKeywords = []string{
	"home", "house", "property", "real estate", "land", "zestimate",
}

// accountFirstPhrases qualify a line as an account-name candidate in the
// account-first re-scan (lowercased substring match).
var accountFirstPhrases = []string{
	"manual loan", "mortgage loan", "credit card", "line of credit",
}

// accountFirstPatterns are case-sensitive substrings with the same role.
var accountFirstPatterns = []string{
	"Investment Holdings", "Crypto", "Manual",
}

// providerHints identify an indented line as a provider in the
// account-first re-scan.
var providerHints = []string{
	"MorganStanley", "Apple Federal", "Wells Fargo", "Chase", "Fidelity",
}

// streetSuffixes identify the address line of a property entry.
var streetSuffixes = []string{"Ct", "St", "Ave", "Dr", "Ln", "Rd", "Way"}

// sectionBreakers end the property sub-scan when hit.
var sectionBreakers = map[string]bool{
	"Account":    true,
	"Type":       true,
	"Balance":    true,
	"Cash":       true,
	"Investment": true,
	"Credit":     true,
	"Loan":       true,
	"Mortgage":   true,
}
