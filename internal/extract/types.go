package extract

import (
	"github.com/shopspring/decimal"
)

// Holding is one reconstructed position from the holdings table of a
// portfolio snapshot. Numeric fields are normalized (no currency symbol,
// no thousands separators); the Raw fields keep the source formatting for
// human-readable report output.
type Holding struct {
	Ticker string
	Name   string

	Shares    decimal.Decimal
	Price     decimal.Decimal
	DayChange decimal.Decimal

	// DayPercent keeps the original "%" formatting, e.g. "+0.67%".
	DayPercent string

	DayDollar decimal.Decimal
	Value     decimal.Decimal

	// Original renderings of the day-dollar and value columns, e.g.
	// "+$10.00" and "$1,500.00".
	DayDollarRaw string
	ValueRaw     string
}

// GrandTotals holds the page's self-reported summary figures and the
// outcome of the integrity check against the reconstructed holdings.
type GrandTotals struct {
	// RawDayDollar and RawValue are the source strings, currency symbol
	// included.
	RawDayDollar string
	RawValue     string

	DayDollar decimal.Decimal
	Value     decimal.Decimal

	// Filled during reconciliation against the extracted holdings.
	CalculatedDayDollar decimal.Decimal
	CalculatedValue     decimal.Decimal
	DayDollarMatch      bool
	ValueMatch          bool
}

// HoldingsResult is the output of ExtractHoldings: the reconstructed
// positions sorted by value descending, plus the grand-total integrity
// check when the page carried one. GrandTotals is nil when no grand-total
// line was found; that disables the check but is not an error.
type HoldingsResult struct {
	Holdings    []Holding
	GrandTotals *GrandTotals
}

// Account categories. Category partitions an extraction result; the
// synthetic net-worth summary row carries CategoryTotal and is always the
// last element.
const (
	CategoryCash       = "Cash"
	CategoryBrokerage  = "Investment Brokerage"
	CategoryRetirement = "Investment Retirement"
	CategoryCredit     = "Credit"
	CategoryLoan       = "Loan"
	CategoryMortgage   = "Mortgage"
	CategoryOther      = "Other"
	CategoryTotal      = "Total"
)

// Account is one reconstructed account row from a net-worth snapshot.
// Balance follows natural accounting sign: assets positive, liabilities
// negative, regardless of how the source text rendered the minus sign.
type Account struct {
	// Name is the most descriptive label discovered for the account.
	Name string

	// Type is the source's own label (Checking, Savings, Investment,
	// IRA Traditional, ...), or "Unknown" when none was found.
	Type string

	Balance  decimal.Decimal
	Category string

	// Provider is the institution name, or "Summary"/"Empower Manual"
	// for synthetic rows.
	Provider string

	// Date is the last-updated string from the page, "Unknown" when not
	// discovered, "Calculated" on the synthetic total row.
	Date string
}
