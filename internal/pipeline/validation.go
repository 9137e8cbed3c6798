package pipeline

import (
	"fmt"

	"github.com/finkit/empower-extract/internal/extract"
)

// validCategories is the closed set of categories the extraction engine
// produces. Anything else reaching the insert step means a classifier
// regression, not bad input.
var validCategories = map[string]bool{
	extract.CategoryCash:       true,
	extract.CategoryBrokerage:  true,
	extract.CategoryRetirement: true,
	extract.CategoryCredit:     true,
	extract.CategoryLoan:       true,
	extract.CategoryMortgage:   true,
	extract.CategoryOther:      true,
	extract.CategoryTotal:      true,
}

// validateHoldings checks extracted holdings before they are written.
func validateHoldings(res *extract.HoldingsResult) error {
	if res == nil || len(res.Holdings) == 0 {
		return fmt.Errorf("no holdings extracted")
	}

	seen := make(map[string]bool, len(res.Holdings))
	for _, h := range res.Holdings {
		if h.Ticker == "" {
			return fmt.Errorf("holding %q has empty ticker", h.Name)
		}
		if seen[h.Ticker] {
			return fmt.Errorf("duplicate ticker %q in extracted holdings", h.Ticker)
		}
		seen[h.Ticker] = true
	}
	return nil
}

// validateAccounts checks extracted account balances before insert. The
// synthetic total row must be present exactly once, and last.
func validateAccounts(accounts []extract.Account) error {
	if len(accounts) == 0 {
		return fmt.Errorf("no accounts extracted")
	}

	totals := 0
	for _, a := range accounts {
		if a.Name == "" {
			return fmt.Errorf("account with empty name (provider %q)", a.Provider)
		}
		if !validCategories[a.Category] {
			return fmt.Errorf("account %q has unknown category %q", a.Name, a.Category)
		}
		if a.Category == extract.CategoryTotal {
			totals++
		}
	}

	if totals != 1 {
		return fmt.Errorf("expected exactly one total row, found %d", totals)
	}
	if accounts[len(accounts)-1].Category != extract.CategoryTotal {
		return fmt.Errorf("total row is not the final row")
	}
	return nil
}
