package pipeline

import (
	"fmt"
	"time"

	"github.com/finkit/empower-extract/internal/extract"
	infra "github.com/finkit/empower-extract/internal/infra/bigquery"
)

// holdingsToRows maps extracted holdings onto BigQuery rows.
func holdingsToRows(res *extract.HoldingsResult, snapshotID, runID string, ts time.Time) []*infra.HoldingRow {
	rows := make([]*infra.HoldingRow, 0, len(res.Holdings))
	for _, h := range res.Holdings {
		rows = append(rows, &infra.HoldingRow{
			SnapshotID:  snapshotID,
			RunID:       runID,
			Ticker:      h.Ticker,
			Name:        h.Name,
			Shares:      h.Shares.Rat(),
			Price:       h.Price.Rat(),
			DayChange:   h.DayChange.Rat(),
			DayPct:      h.DayPercent,
			DayDollar:   h.DayDollar.Rat(),
			Value:       h.Value.Rat(),
			ExtractedTS: ts,
		})
	}
	return rows
}

// accountsToRows maps extracted account balances onto BigQuery rows.
func accountsToRows(accounts []extract.Account, snapshotID, runID string, ts time.Time) []*infra.AccountRow {
	rows := make([]*infra.AccountRow, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, &infra.AccountRow{
			SnapshotID:  snapshotID,
			RunID:       runID,
			AccountName: a.Name,
			AccountType: a.Type,
			Balance:     a.Balance.Rat(),
			Category:    a.Category,
			Provider:    a.Provider,
			AsOfDate:    a.Date,
			ExtractedTS: ts,
		})
	}
	return rows
}

// reconciliationWarnings turns grand-total mismatches into run warnings.
// A mismatch never fails the run; the printed totals on the page lag the
// per-row data often enough that it is only a signal.
func reconciliationWarnings(gt *extract.GrandTotals) []string {
	if gt == nil {
		return nil
	}
	var warnings []string
	if !gt.ValueMatch {
		warnings = append(warnings, fmt.Sprintf(
			"holdings sum %s differs from reported grand total %s",
			gt.CalculatedValue.StringFixed(2), gt.RawValue))
	}
	if !gt.DayDollarMatch {
		warnings = append(warnings, fmt.Sprintf(
			"day change sum %s differs from reported day change %s",
			gt.CalculatedDayDollar.StringFixed(2), gt.RawDayDollar))
	}
	return warnings
}
