package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// dollarAmountRe matches any cents-precision dollar amount in the text.
var dollarAmountRe = regexp.MustCompile(`\$([0-9,]+\.[0-9]{2})`)

// totalFloor: an amount must exceed this to be taken as the page's own
// printed net-worth total. On the observed documents the printed total is
// the single largest figure above one million; individual accounts stay
// below it.
var totalFloor = decimal.NewFromInt(1_000_000)

// appendTotal determines the authoritative net worth and appends the
// synthetic summary row, always last. The page's own printed total is
// preferred over the summed balances because it reflects the source's
// arithmetic, not the extractor's.
func appendTotal(accounts []Account, text string) []Account {
	total, found := largestPrintedAmount(text)
	if !found {
		for _, acc := range accounts {
			total = total.Add(acc.Balance)
		}
	}

	return append(accounts, Account{
		Name:     "TOTAL NET WORTH",
		Type:     "Total",
		Balance:  total,
		Category: CategoryTotal,
		Provider: "Summary",
		Date:     "Calculated",
	})
}

// largestPrintedAmount scans the whole text for the largest dollar amount
// above the total floor.
func largestPrintedAmount(text string) (decimal.Decimal, bool) {
	largest := decimal.Zero
	found := false
	for _, m := range dollarAmountRe.FindAllStringSubmatch(text, -1) {
		amount, ok := parseMoneyOk(m[1])
		if !ok {
			continue
		}
		if amount.GreaterThan(totalFloor) && amount.GreaterThan(largest) {
			largest = amount
			found = true
		}
	}
	return largest, found
}
