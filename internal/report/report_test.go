package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finkit/empower-extract/internal/extract"
	"github.com/finkit/empower-extract/internal/timeline"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleHoldings() *extract.HoldingsResult {
	return &extract.HoldingsResult{
		Holdings: []extract.Holding{
			{
				Ticker: "AAPL", Name: "Apple Inc",
				Shares: dec("10"), Price: dec("150.00"),
				DayChange: dec("1.50"), DayPercent: "1.01%",
				DayDollar: dec("15.00"), DayDollarRaw: "+$15.00",
				Value: dec("1500.00"), ValueRaw: "$1,500.00",
			},
		},
		GrandTotals: &extract.GrandTotals{
			RawDayDollar:        "+$15.00",
			RawValue:            "$1,500.00",
			DayDollar:           dec("15.00"),
			Value:               dec("1500.00"),
			CalculatedDayDollar: dec("15.00"),
			CalculatedValue:     dec("1500.00"),
			DayDollarMatch:      true,
			ValueMatch:          true,
		},
	}
}

func TestWriteHoldingsCSV(t *testing.T) {
	var buf strings.Builder
	if err := WriteHoldingsCSV(&buf, sampleHoldings()); err != nil {
		t.Fatalf("WriteHoldingsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "Name,Ticker,Shares,Price,Change,Day_Percent,Day_Dollar,Value" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Apple Inc,AAPL,10,150,") {
		t.Errorf("row = %q, want name before ticker", lines[1])
	}
}

func TestFormatHoldingsText(t *testing.T) {
	got := FormatHoldingsText(sampleHoldings())
	for _, want := range []string{
		"AAPL\nApple Inc\n10\n$150\n$1.5\n1.01%\n+$15.00\n$1,500.00",
		"Grand total\n+$15.00\n$1,500.00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "WARNING") {
		t.Errorf("unexpected warning in matching totals:\n%s", got)
	}
}

func TestFormatHoldingsTextMismatchWarning(t *testing.T) {
	res := sampleHoldings()
	res.GrandTotals.ValueMatch = false
	got := FormatHoldingsText(res)
	if !strings.Contains(got, "WARNING: holdings sum") {
		t.Errorf("expected mismatch warning:\n%s", got)
	}
}

func TestWriteAccountsCSV(t *testing.T) {
	accounts := []extract.Account{
		{Name: "Everyday Checking", Type: "Checking", Balance: dec("1000.00"),
			Category: extract.CategoryCash, Provider: "Wells Fargo", Date: "7/15/2025"},
		{Name: "TOTAL NET WORTH", Type: "Total", Balance: dec("1000.00"),
			Category: extract.CategoryTotal, Provider: "Summary", Date: "Calculated"},
	}

	var buf strings.Builder
	if err := WriteAccountsCSV(&buf, accounts); err != nil {
		t.Fatalf("WriteAccountsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Account,Type,Balance,Category,Provider,Date" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "Wells Fargo") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestFormatNetWorthText(t *testing.T) {
	accounts := []extract.Account{
		{Name: "Everyday Checking", Type: "Checking", Balance: dec("1000.00"),
			Category: extract.CategoryCash, Provider: "Wells Fargo", Date: "7/15/2025"},
		{Name: "Brokerage", Type: "Investment", Balance: dec("500.00"),
			Category: extract.CategoryBrokerage, Provider: "Fidelity", Date: "7/15/2025"},
		{Name: "TOTAL NET WORTH", Type: "Total", Balance: dec("1500.00"),
			Category: extract.CategoryTotal, Provider: "Summary", Date: "Calculated"},
	}

	got := FormatNetWorthText(accounts)
	for _, want := range []string{
		"NET WORTH SUMMARY",
		"CASH:",
		"Account:      Everyday Checking",
		"Balance:      $1000.00",
		"TOTAL NET WORTH:",
		"$1500.00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text missing %q:\n%s", want, got)
		}
	}
}

func TestWriteTimelineCSV(t *testing.T) {
	points := []timeline.Point{{
		Date:             "2025-01-02",
		NetWorth:         dec("150000"),
		TotalAssets:      dec("200000"),
		TotalLiabilities: dec("50000"),
	}}

	var buf strings.Builder
	if err := WriteTimelineCSV(&buf, points); err != nil {
		t.Fatalf("WriteTimelineCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.HasPrefix(lines[0], "date,networth,totalAssets,totalLiabilities,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2025-01-02,150000,200000,50000,") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestFormatTimelineText(t *testing.T) {
	points := []timeline.Point{{
		Date:             "2025-01-02T00:00:00",
		NetWorth:         dec("1234567.89"),
		TotalAssets:      dec("2000000"),
		TotalLiabilities: dec("765432.11"),
		OneDayChange:     dec("-1500"),
	}}

	got := FormatTimelineText(points)
	for _, want := range []string{
		"NET WORTH TIMELINE",
		"Total entries: 1",
		"Latest net worth: $1,234,567.89",
		"2025-01-02 ", // date truncated to ten characters
		"$-1,500",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text missing %q:\n%s", want, got)
		}
	}
}

func TestCommafy(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1234567.89", "1,234,567.89"},
		{"-1500", "-1,500"},
		{"999", "999"},
		{"1000", "1,000"},
		{"0.50", "0.50"},
	}
	for _, tt := range tests {
		if got := commafy(tt.in); got != tt.want {
			t.Errorf("commafy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
