// Package report renders extraction results as CSV and human-readable
// text, matching the column orders downstream spreadsheets already
// depend on.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/finkit/empower-extract/internal/extract"
)

// holdingsHeader keeps Name ahead of Ticker; the sheets built on these
// exports sort and vlookup on the name column.
var holdingsHeader = []string{"Name", "Ticker", "Shares", "Price", "Change", "Day_Percent", "Day_Dollar", "Value"}

// WriteHoldingsCSV writes one row per holding in the result's order
// (value descending).
func WriteHoldingsCSV(w io.Writer, res *extract.HoldingsResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(holdingsHeader); err != nil {
		return fmt.Errorf("write holdings header: %w", err)
	}
	for _, h := range res.Holdings {
		row := []string{
			h.Name,
			h.Ticker,
			h.Shares.String(),
			h.Price.String(),
			h.DayChange.String(),
			h.DayPercent,
			h.DayDollar.String(),
			h.Value.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write holding %s: %w", h.Ticker, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatHoldingsText renders holdings as stacked blocks, one field per
// line, the same shape the dashboard prints them in. Dollar fields use
// the raw captured strings so signs and commas survive round-trips.
func FormatHoldingsText(res *extract.HoldingsResult) string {
	var blocks []string
	for _, h := range res.Holdings {
		blocks = append(blocks, strings.Join([]string{
			h.Ticker,
			h.Name,
			h.Shares.String(),
			"$" + h.Price.String(),
			"$" + h.DayChange.String(),
			h.DayPercent,
			h.DayDollarRaw,
			h.ValueRaw,
		}, "\n"))
	}

	if gt := res.GrandTotals; gt != nil {
		blocks = append(blocks, "\nGrand total\n"+gt.RawDayDollar+"\n"+gt.RawValue)
		if !gt.ValueMatch {
			blocks = append(blocks, fmt.Sprintf(
				"WARNING: holdings sum $%s differs from reported total %s",
				gt.CalculatedValue.StringFixed(2), gt.RawValue))
		}
		if !gt.DayDollarMatch {
			blocks = append(blocks, fmt.Sprintf(
				"WARNING: day change sum $%s differs from reported change %s",
				gt.CalculatedDayDollar.StringFixed(2), gt.RawDayDollar))
		}
	}
	return strings.Join(blocks, "\n\n")
}
