package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/finkit/empower-extract/internal/timeline"
)

var timelineHeader = []string{
	"date", "networth", "totalAssets", "totalLiabilities",
	"totalCash", "totalInvestment", "totalEmpower",
	"totalMortgage", "totalLoan", "totalCredit",
	"totalOtherAssets", "totalOtherLiabilities",
	"oneDayNetworthChange", "oneDayNetworthPercentageChange",
}

// WriteTimelineCSV writes the daily net-worth history with the same
// column names the dashboard's JSON uses.
func WriteTimelineCSV(w io.Writer, points []timeline.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(timelineHeader); err != nil {
		return fmt.Errorf("write timeline header: %w", err)
	}
	for _, p := range points {
		row := []string{
			p.Date,
			p.NetWorth.String(),
			p.TotalAssets.String(),
			p.TotalLiabilities.String(),
			p.TotalCash.String(),
			p.TotalInvestment.String(),
			p.TotalEmpower.String(),
			p.TotalMortgage.String(),
			p.TotalLoan.String(),
			p.TotalCredit.String(),
			p.TotalOtherAssets.String(),
			p.TotalOtherLiab.String(),
			p.OneDayChange.String(),
			p.OneDayChangePercent.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write timeline row %s: %w", p.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// timelineTail caps the text report at the most recent rows; the CSV is
// the full record.
const timelineTail = 20

// FormatTimelineText renders a fixed-width summary of the most recent
// history entries.
func FormatTimelineText(points []timeline.Point) string {
	if len(points) == 0 {
		return "No net worth data available"
	}

	var b strings.Builder
	b.WriteString("NET WORTH TIMELINE\n")
	b.WriteString("==================\n\n")
	b.WriteString(fmt.Sprintf("Total entries: %d\n", len(points)))

	latest := points[len(points)-1]
	b.WriteString(fmt.Sprintf("Latest date: %s\n", latest.Date))
	b.WriteString(fmt.Sprintf("Latest net worth: $%s\n\n", commafy(latest.NetWorth.StringFixed(2))))

	b.WriteString("TIMELINE DATA:\n")
	rule := strings.Repeat("-", 80) + "\n"
	b.WriteString(rule)
	b.WriteString(fmt.Sprintf("%-12s %-15s %-15s %-15s %-10s\n", "Date", "Net Worth", "Assets", "Liabilities", "Change"))
	b.WriteString(rule)

	tail := points
	if len(tail) > timelineTail {
		tail = tail[len(tail)-timelineTail:]
	}
	for _, p := range tail {
		date := p.Date
		if len(date) > 10 {
			date = date[:10]
		}
		b.WriteString(fmt.Sprintf("%-12s $%-14s $%-14s $%-14s $%-9s\n",
			date,
			commafy(p.NetWorth.StringFixed(0)),
			commafy(p.TotalAssets.StringFixed(0)),
			commafy(p.TotalLiabilities.StringFixed(0)),
			commafy(p.OneDayChange.StringFixed(0))))
	}
	return b.String()
}

// commafy inserts thousands separators into a plain decimal string. The
// sign and any fractional part pass through untouched.
func commafy(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := sign + strings.Join(grouped, ",")
	if hasFrac {
		out += "." + fracPart
	}
	return out
}
