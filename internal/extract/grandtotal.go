package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// DefaultGrandTotalTolerance is the relative tolerance for the grand-total
// integrity check. Relative rather than absolute so rounding drift on
// large portfolios stays within bounds while real extraction gaps do not.
const DefaultGrandTotalTolerance = 0.005

// grandTotalRe matches the page's own summary line:
// "Grand total <signed $amount> $<amount>".
var grandTotalRe = regexp.MustCompile(`Grand total\s+([+-]?\$[\d,]+\.\d+)\s+\$([\d,]+\.\d+)`)

// ExtractGrandTotals pulls the self-reported summary figures from the
// full document text. A nil return means no grand-total line was present;
// that disables the integrity check downstream and is not an error.
func ExtractGrandTotals(text string) *GrandTotals {
	m := grandTotalRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	dayDollar, ok := parseMoneyOk(m[1])
	if !ok {
		return nil
	}
	value, ok := parseMoneyOk(m[2])
	if !ok {
		return nil
	}
	return &GrandTotals{
		RawDayDollar: m[1],
		RawValue:     "$" + m[2],
		DayDollar:    dayDollar,
		Value:        value,
	}
}

// reconcile sums the extracted holdings and sets the match flags. A
// mismatch is a data-quality warning for the caller, never a failure.
func (g *GrandTotals) reconcile(holdings []Holding, tolerance float64) {
	var dayDollar, value decimal.Decimal
	for _, h := range holdings {
		dayDollar = dayDollar.Add(h.DayDollar)
		value = value.Add(h.Value)
	}
	g.CalculatedDayDollar = dayDollar
	g.CalculatedValue = value

	tol := decimal.NewFromFloat(tolerance)
	g.DayDollarMatch = withinTolerance(dayDollar, g.DayDollar, tol)
	g.ValueMatch = withinTolerance(value, g.Value, tol)
}

func withinTolerance(calculated, reported, tol decimal.Decimal) bool {
	return calculated.Sub(reported).Abs().Cmp(reported.Mul(tol).Abs()) <= 0
}
