package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// holdingsHeaderRe anchors the holdings table: the literal column header
// sequence, tolerant of whitespace.
var holdingsHeaderRe = regexp.MustCompile(`Holding\s+Shares\s+Price\s+Change\s+1 Day %\s+1 day \$\s+Value`)

// grandTotalMarker ends the holdings region when present.
const grandTotalMarker = "Grand total"

// ExtractHoldings reconstructs the holdings table from the flattened text
// of one portfolio snapshot. The result is sorted by value descending;
// that ordering is part of the contract. When the page carries a
// "Grand total" line the result includes the integrity check against it.
func ExtractHoldings(text string) (*HoldingsResult, error) {
	return ExtractHoldingsTolerance(text, DefaultGrandTotalTolerance)
}

// ExtractHoldingsTolerance is ExtractHoldings with an explicit relative
// tolerance for the grand-total integrity check.
func ExtractHoldingsTolerance(text string, tolerance float64) (*HoldingsResult, error) {
	loc := holdingsHeaderRe.FindStringIndex(text)
	if loc == nil {
		return nil, failf(ErrSectionNotFound, "holdings table header not present")
	}

	region := text[loc[1]:]
	if idx := strings.Index(region, grandTotalMarker); idx >= 0 {
		region = region[:idx]
	}
	if strings.TrimSpace(region) == "" {
		return nil, failf(ErrSectionUnparsable, "no content after holdings table header")
	}

	// Run the cascade. First matcher to claim a ticker wins.
	claimed := make(map[string]bool)
	var rows []holdingRow
	for _, m := range holdingMatchers {
		for _, row := range m.matchRegion(region) {
			if claimed[row.ticker] {
				continue
			}
			claimed[row.ticker] = true
			rows = append(rows, row)
			log.Debug().Str("matcher", m.name).Str("ticker", row.ticker).Msg("holdings cascade match")
		}
	}

	holdings := make([]Holding, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.name)
		if name == "" {
			name = row.ticker
		}

		// Known false positive: a name split mid-token, e.g.
		// "... ETF Shares" captured as ticker "ETF", name "...Shares".
		if row.ticker == "ETF" && strings.Contains(name, "Shares") {
			continue
		}

		h, ok := buildHolding(row, name)
		if !ok {
			// Malformed numeric token: drop this candidate, keep the rest.
			log.Debug().Str("ticker", row.ticker).Msg("dropping holding with unparsable numerics")
			continue
		}

		// The same table row matched by two pattern families shows up as
		// two tickers with identical shares and value. Keep the first.
		if isDuplicateRow(holdings, h) {
			log.Debug().Str("ticker", h.Ticker).Msg("dropping duplicate holding row")
			continue
		}

		holdings = append(holdings, h)
	}

	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].Value.GreaterThan(holdings[j].Value)
	})

	log.Debug().Int("entries", len(rows)).Int("holdings", len(holdings)).Msg("holdings extraction done")

	result := &HoldingsResult{Holdings: holdings}
	if gt := ExtractGrandTotals(text); gt != nil {
		gt.reconcile(holdings, tolerance)
		result.GrandTotals = gt
	}
	return result, nil
}

func buildHolding(row holdingRow, name string) (Holding, bool) {
	shares, err := decimal.NewFromString(row.shares)
	if err != nil {
		return Holding{}, false
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(row.price, ",", ""))
	if err != nil {
		return Holding{}, false
	}
	change, ok := parseMoneyOk(row.change)
	if !ok {
		return Holding{}, false
	}
	dayDollar, ok := parseMoneyOk(row.dayDollar)
	if !ok {
		return Holding{}, false
	}
	value, ok := parseMoneyOk(row.value)
	if !ok {
		return Holding{}, false
	}

	return Holding{
		Ticker:       row.ticker,
		Name:         name,
		Shares:       shares,
		Price:        price,
		DayChange:    change,
		DayPercent:   row.dayPercent,
		DayDollar:    dayDollar,
		Value:        value,
		DayDollarRaw: row.dayDollar,
		ValueRaw:     "$" + row.value,
	}, true
}

func isDuplicateRow(accepted []Holding, h Holding) bool {
	for _, other := range accepted {
		if other.Ticker != h.Ticker && other.Shares.Equal(h.Shares) && other.Value.Equal(h.Value) {
			return true
		}
	}
	return false
}
