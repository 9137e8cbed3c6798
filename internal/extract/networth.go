package extract

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// netWorthIndicators gate the whole scan: none of them present means this
// is not a net-worth document, rejected before any pass runs.
var netWorthIndicators = []string{"Net worth", "Net Worth", "ALL ACCOUNTS"}

var (
	dateShapedRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
	timeShapedRe = regexp.MustCompile(`^\d{1,2}:\d{2}[AP]M$`)
	yearRe       = regexp.MustCompile(`\b20\d{2}\b`)
)

// ExtractNetWorth reconstructs the account hierarchy from the flattened
// text of one net-worth snapshot. Three additive passes scan the text,
// since different sections of the source render accounts in different
// layouts, followed by deduplication and the synthetic total row, always
// the last element of the result.
func ExtractNetWorth(text string) ([]Account, error) {
	if !hasNetWorthIndicator(text) {
		return nil, failf(ErrNoIndicators, "none of %q present", netWorthIndicators)
	}

	lines := strings.Split(text, "\n")

	structured, err := scanStructuredSection(lines)
	if err != nil {
		return nil, err
	}

	accounts := structured
	accounts = append(accounts, scanProperties(lines)...)
	accounts = append(accounts, scanProviderFirst(lines)...)
	accounts = append(accounts, scanAccountFirst(lines)...)

	accounts = dedupeAccounts(accounts)
	if len(accounts) == 0 {
		return nil, failf(ErrSectionUnparsable, "no account information in the expected format")
	}

	log.Debug().Int("accounts", len(accounts)).Msg("net worth extraction done")
	return appendTotal(accounts, text), nil
}

func hasNetWorthIndicator(text string) bool {
	for _, marker := range netWorthIndicators {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// blockFields is the shared lookahead state: within an open account block
// each pass opportunistically fills these from the following lines.
type blockFields struct {
	name    string
	typ     string
	balance string
	date    string
}

func (f *blockFields) orUnknown() (string, string) {
	typ, date := f.typ, f.date
	if typ == "" {
		typ = "Unknown"
	}
	if date == "" {
		date = "Unknown"
	}
	return typ, date
}

// isDateLine matches the "last updated" cell: a slash plus time-of-day or
// a relative "ago".
func isDateLine(line string) bool {
	return strings.Contains(line, "/") &&
		(strings.Contains(line, "AM") || strings.Contains(line, "PM") || strings.Contains(line, "ago"))
}

func isNameCandidate(line string) bool {
	if isBalanceToken(line) || accountTypes[line] {
		return false
	}
	if strings.Contains(line, "Ending in") || strings.Contains(line, "-") {
		return true
	}
	lower := strings.ToLower(line)
	for _, kw := range accountNameKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isKnownProviderLine(line string) bool {
	for _, p := range knownProviders {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

// indentedValue returns the trimmed content of a line whose leading
// whitespace marks it as visually indented in the original layout: the
// flattening preserved at least 14 literal spaces.
func indentedValue(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(raw) <= len(trimmed) || len(raw) < 14 {
		return "", false
	}
	if !strings.HasPrefix(raw, strings.Repeat(" ", 14)) {
		return "", false
	}
	return trimmed, true
}

// scanStructuredSection is pass 1: the "Account / Type / Balance" table.
// Group headers set the classification context; a known-provider line
// opens an account block filled from up to 15 lines of lookahead.
func scanStructuredSection(lines []string) ([]Account, error) {
	start := -1
	for i := 0; i+2 < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "Account" &&
			strings.TrimSpace(lines[i+1]) == "Type" &&
			strings.TrimSpace(lines[i+2]) == "Balance" {
			start = i + 3
			break
		}
	}
	if start == -1 {
		return nil, failf(ErrSectionNotFound, "account table header not present")
	}

	var accounts []Account
	currentGroup := ""

	i := start
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		if groupHeaders[line] {
			currentGroup = line
			// The group's own total follows within a few lines. It is
			// not needed; skip past it.
			j := i + 1
			for j < len(lines) && j < i+5 {
				next := strings.TrimSpace(lines[j])
				if strings.HasPrefix(next, "$") || strings.HasPrefix(next, "-$") {
					break
				}
				j++
			}
			i = j + 1
			continue
		}

		if !isKnownProviderLine(line) {
			i++
			continue
		}

		provider := line
		var f blockFields
		j := i + 1
		for j < len(lines) && j < i+15 {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				j++
				continue
			}
			if f.name == "" && isNameCandidate(next) {
				f.name = next
				j++
				continue
			}
			if f.typ == "" && accountTypes[next] {
				f.typ = next
				j++
				continue
			}
			if isBalanceToken(next) {
				f.balance = next
				j++
				continue
			}
			if isDateLine(next) {
				f.date = next
				break
			}
			j++
		}

		if f.name != "" && f.balance != "" {
			// When the type cell was captured as the name, qualify it
			// with the provider instead of losing the real label.
			if accountTypes[f.name] && provider != f.name {
				f.name = provider + " " + f.name
			}
			if acc, ok := buildAccount(f, provider, currentGroup); ok {
				accounts = append(accounts, acc)
			}
		}
		i = j
	}

	return accounts, nil
}

// scanProperties handles the "Other Asset" group, which renders property
// entries in a four-field layout of its own: label line ("Home"/
// "Zestimate") → dollar amount → street address → date.
func scanProperties(lines []string) []Account {
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "Other Asset" {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}

	var accounts []Account
	var name, amount, date string
	lookingForAmount := false
	lookingForAddress := false

	flush := func() {
		if name == "" || amount == "" {
			return
		}
		f := blockFields{name: name, typ: "Property", balance: amount, date: date}
		if acc, ok := buildAccount(f, "Empower Manual", "Other Asset"); ok {
			accounts = append(accounts, acc)
		}
	}

	end := min(len(lines), start+500)
	for i := start + 1; i < end; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Home") || strings.Contains(line, "Zestimate"):
			flush()
			name, amount, date = line, "", ""
			lookingForAmount = true
			lookingForAddress = false
		case lookingForAmount && strings.HasPrefix(line, "$") &&
			strings.Contains(line, ",") && strings.Contains(line, "."):
			amount = line
			lookingForAmount = false
			lookingForAddress = true
		case lookingForAddress && isStreetAddress(line):
			name = strings.Trim(name+" - "+line, " -")
			lookingForAddress = false
		case strings.Contains(line, "/") && yearRe.MatchString(line):
			date = line
		case sectionBreakers[line]:
			flush()
			return accounts
		}
	}
	flush()
	return accounts
}

func isStreetAddress(line string) bool {
	if !strings.ContainsAny(line, "0123456789") {
		return false
	}
	for _, suffix := range streetSuffixes {
		if strings.Contains(line, suffix) {
			return true
		}
	}
	return false
}

// scanProviderFirst is pass 2: standalone provider lines elsewhere in the
// document, with the account name on a following indented line.
func scanProviderFirst(lines []string) []Account {
	var accounts []Account

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !standaloneProviders[line] {
			i++
			continue
		}

		provider := line
		var f blockFields
		j := i + 1
		for j < len(lines) && j < i+15 {
			raw := lines[j]
			next := strings.TrimSpace(raw)
			if next == "" {
				j++
				continue
			}
			if indented, ok := indentedValue(raw); ok &&
				!isBalanceToken(indented) && !accountTypes[indented] {
				f.name = indented
				j++
				continue
			}
			if f.typ == "" && accountTypes[next] {
				f.typ = next
				j++
				continue
			}
			if isBalanceToken(next) {
				f.balance = next
				j++
				continue
			}
			if strings.Contains(next, "/") && (strings.Contains(next, "AM") || strings.Contains(next, "PM")) {
				f.date = next
				break
			}
			j++
		}

		if f.name != "" && f.balance != "" {
			if acc, ok := buildAccount(f, provider, ""); ok {
				accounts = append(accounts, acc)
			}
		}
		i = j
	}

	return accounts
}

// isAccountFirstCandidate decides whether a line looks like an account
// name that may be followed by an indented provider line.
func isAccountFirstCandidate(line string) bool {
	if line == "" || strings.HasPrefix(line, "$") || strings.HasPrefix(line, "-$") {
		return false
	}
	if accountTypes[line] || line == "Loan" || line == "Credit" {
		return false
	}
	if len(line) <= 4 {
		return false
	}
	if dateShapedRe.MatchString(line) || timeShapedRe.MatchString(line) {
		return false
	}

	lower := strings.ToLower(line)
	for _, phrase := range accountFirstPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, pattern := range accountFirstPatterns {
		if strings.Contains(line, pattern) {
			return true
		}
	}
	return len(line) > 8 && line != lower && strings.Contains(line, " ")
}

func isProviderHint(line string) bool {
	for _, hint := range providerHints {
		if strings.Contains(line, hint) {
			return true
		}
	}
	if len(line) <= 3 {
		return false
	}
	for _, r := range strings.ReplaceAll(line, " ", "") {
		if !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') {
			return false
		}
	}
	return true
}

// scanAccountFirst is pass 3: account name first, provider on a following
// indented line.
func scanAccountFirst(lines []string) []Account {
	var accounts []Account

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !isAccountFirstCandidate(line) {
			i++
			continue
		}

		name := line
		provider := ""
		var f blockFields
		j := i + 1
		for j < len(lines) && j < i+20 {
			raw := lines[j]
			next := strings.TrimSpace(raw)
			if next == "" {
				j++
				continue
			}
			if indented, ok := indentedValue(raw); ok && isProviderHint(indented) {
				provider = indented
				j++
				continue
			}
			if f.typ == "" && accountTypes[next] {
				f.typ = next
				j++
				continue
			}
			if isBalanceToken(next) {
				f.balance = next
				j++
				continue
			}
			if strings.Contains(next, "/") || strings.Contains(next, "AM") || strings.Contains(next, "PM") {
				f.date = next
				break
			}
			j++
		}

		if provider != "" && f.balance != "" {
			f.name = name
			if acc, ok := buildAccount(f, provider, ""); ok {
				accounts = append(accounts, acc)
			}
		}
		i = j
	}

	return accounts
}

// buildAccount normalizes one filled block into an Account. A malformed
// balance token drops the candidate, not the extraction.
func buildAccount(f blockFields, provider, group string) (Account, bool) {
	balance, ok := parseMoneyOk(f.balance)
	if !ok {
		log.Debug().Str("balance", f.balance).Msg("dropping account with unparsable balance")
		return Account{}, false
	}

	name := f.name
	// A date or time captured as the name means the real label scrolled
	// out of the lookahead window; the provider is the best label left.
	if provider != "" && (dateShapedRe.MatchString(name) || timeShapedRe.MatchString(name)) {
		name = provider
	}

	typ, date := f.orUnknown()
	return Account{
		Name:     name,
		Type:     typ,
		Balance:  balance,
		Category: classify(typ, name, group),
		Provider: provider,
		Date:     date,
	}, true
}
