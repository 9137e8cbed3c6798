package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseMoney parses a money token into a signed decimal. It accepts the
// renderings observed in flattened snapshots: "$1,234.56", "-$1,234.56",
// "-1234.56", "+$10.00". The currency symbol and thousands separators are
// stripped; a minus sign anywhere in the token makes the result negative.
func parseMoney(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(token)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")

	negative := strings.Contains(s, "-")
	if negative {
		s = strings.ReplaceAll(s, "-", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// parseMoneyOk is parseMoney for contexts where a malformed token drops
// the candidate record instead of failing the extraction.
func parseMoneyOk(token string) (decimal.Decimal, bool) {
	d, err := parseMoney(token)
	return d, err == nil
}

// isBalanceToken reports whether a line looks like a balance column value:
// it starts with "$", "-$" or "-", contains a digit, and either has a
// decimal point or is all digits once symbols are stripped.
func isBalanceToken(line string) bool {
	if !strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "-$") && !strings.HasPrefix(line, "-") {
		return false
	}
	if !strings.ContainsAny(line, "0123456789") {
		return false
	}
	if strings.Contains(line, ".") {
		return true
	}
	stripped := strings.NewReplacer("$", "", "-", "", ",", "").Replace(line)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
