package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/finkit/empower-extract/internal/extract"
)

var accountsHeader = []string{"Account", "Type", "Balance", "Category", "Provider", "Date"}

// WriteAccountsCSV writes one row per extracted account, total row
// included, in extraction order.
func WriteAccountsCSV(w io.Writer, accounts []extract.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(accountsHeader); err != nil {
		return fmt.Errorf("write accounts header: %w", err)
	}
	for _, a := range accounts {
		row := []string{a.Name, a.Type, a.Balance.String(), a.Category, a.Provider, a.Date}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write account %q: %w", a.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatNetWorthText renders accounts grouped by category with the total
// row pulled out into a footer. Categories appear in first-seen order.
func FormatNetWorthText(accounts []extract.Account) string {
	if len(accounts) == 0 {
		return "No net worth data available."
	}

	var lines []string
	lines = append(lines, "NET WORTH SUMMARY", strings.Repeat("=", 50), "")

	var order []string
	byCategory := make(map[string][]extract.Account)
	var total *extract.Account
	for i, a := range accounts {
		if a.Category == extract.CategoryTotal {
			if total == nil {
				total = &accounts[i]
			}
			continue
		}
		if _, seen := byCategory[a.Category]; !seen {
			order = append(order, a.Category)
		}
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	for _, category := range order {
		lines = append(lines, strings.ToUpper(category)+":", strings.Repeat("-", len(category)+1))
		for _, a := range byCategory[category] {
			lines = append(lines,
				fmt.Sprintf("  Account:      %s", a.Name),
				fmt.Sprintf("  Type:         %s", a.Type),
				fmt.Sprintf("  Balance:      $%s", a.Balance.StringFixed(2)),
				"")
		}
		lines = append(lines, "")
	}

	if total != nil {
		lines = append(lines,
			"TOTAL NET WORTH:",
			strings.Repeat("=", 16),
			"$"+total.Balance.StringFixed(2))
	} else {
		lines = append(lines, fmt.Sprintf("Total Accounts: %d", len(accounts)))
	}
	return strings.Join(lines, "\n")
}
