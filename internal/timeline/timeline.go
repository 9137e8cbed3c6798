// Package timeline parses Empower net-worth history exports. The export
// is the raw JSON response behind the dashboard's net-worth chart: an
// spData envelope holding a networthHistories array with one entry per
// day.
package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoHistories is returned when the document has no networthHistories
// section at all.
var ErrNoHistories = errors.New("networthHistories not found")

// Point is one day of net-worth history.
type Point struct {
	Date                string
	NetWorth            decimal.Decimal
	TotalAssets         decimal.Decimal
	TotalLiabilities    decimal.Decimal
	TotalCash           decimal.Decimal
	TotalInvestment     decimal.Decimal
	TotalEmpower        decimal.Decimal
	TotalMortgage       decimal.Decimal
	TotalLoan           decimal.Decimal
	TotalCredit         decimal.Decimal
	TotalOtherAssets    decimal.Decimal
	TotalOtherLiab      decimal.Decimal
	OneDayChange        decimal.Decimal
	OneDayChangePercent decimal.Decimal
}

type rawEntry struct {
	Date                string      `json:"date"`
	NetWorth            json.Number `json:"networth"`
	TotalAssets         json.Number `json:"totalAssets"`
	TotalLiabilities    json.Number `json:"totalLiabilities"`
	TotalCash           json.Number `json:"totalCash"`
	TotalInvestment     json.Number `json:"totalInvestment"`
	TotalEmpower        json.Number `json:"totalEmpower"`
	TotalMortgage       json.Number `json:"totalMortgage"`
	TotalLoan           json.Number `json:"totalLoan"`
	TotalCredit         json.Number `json:"totalCredit"`
	TotalOtherAssets    json.Number `json:"totalOtherAssets"`
	TotalOtherLiab      json.Number `json:"totalOtherLiabilities"`
	OneDayChange        json.Number `json:"oneDayNetworthChange"`
	OneDayChangePercent json.Number `json:"oneDayNetworthPercentageChange"`
}

type envelope struct {
	SPData struct {
		NetworthHistories []rawEntry `json:"networthHistories"`
	} `json:"spData"`
}

// Parse reads a net-worth history export and returns its daily points in
// document order. Days where the site recorded a zero net worth (gaps
// before the account existed) are skipped. If the document is not valid
// JSON it falls back to a field-by-field scrape, since some saves
// truncate the trailing bytes of the response.
func Parse(data []byte) ([]Point, error) {
	var env envelope
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return parseLoose(string(data))
	}
	if env.SPData.NetworthHistories == nil {
		return nil, ErrNoHistories
	}

	var points []Point
	for _, e := range env.SPData.NetworthHistories {
		p, err := e.point()
		if err != nil {
			return nil, err
		}
		if e.Date == "" || p.NetWorth.IsZero() {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

func (e rawEntry) point() (Point, error) {
	p := Point{Date: e.Date}
	fields := []struct {
		dst *decimal.Decimal
		src json.Number
	}{
		{&p.NetWorth, e.NetWorth},
		{&p.TotalAssets, e.TotalAssets},
		{&p.TotalLiabilities, e.TotalLiabilities},
		{&p.TotalCash, e.TotalCash},
		{&p.TotalInvestment, e.TotalInvestment},
		{&p.TotalEmpower, e.TotalEmpower},
		{&p.TotalMortgage, e.TotalMortgage},
		{&p.TotalLoan, e.TotalLoan},
		{&p.TotalCredit, e.TotalCredit},
		{&p.TotalOtherAssets, e.TotalOtherAssets},
		{&p.TotalOtherLiab, e.TotalOtherLiab},
		{&p.OneDayChange, e.OneDayChange},
		{&p.OneDayChangePercent, e.OneDayChangePercent},
	}
	for _, f := range fields {
		if f.src == "" {
			*f.dst = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(f.src.String())
		if err != nil {
			return Point{}, fmt.Errorf("entry %s: bad number %q: %w", e.Date, f.src, err)
		}
		*f.dst = d
	}
	return p, nil
}

// looseEntryRe scrapes one history entry out of malformed JSON. Field
// order matches what the dashboard actually serializes.
var looseEntryRe = regexp.MustCompile(
	`"date":"([^"]+)"` +
		`[^}]*?"totalMortgage":([0-9.E]+)` +
		`[^}]*?"totalOtherAssets":([0-9.E]+)` +
		`[^}]*?"totalAssets":([0-9.E]+)` +
		`[^}]*?"totalCredit":([0-9.E]+)` +
		`[^}]*?"totalLoan":([0-9.E]+)` +
		`[^}]*?"oneDayNetworthPercentageChange":([0-9.E\-]+)` +
		`[^}]*?"totalLiabilities":([0-9.E]+)` +
		`[^}]*?"totalOtherLiabilities":([0-9.E]+)` +
		`[^}]*?"oneDayNetworthChange":([0-9.E\-]+)` +
		`[^}]*?"totalEmpower":([0-9.E]+)` +
		`[^}]*?"totalCash":([0-9.E]+)` +
		`[^}]*?"networth":([0-9.E\-]+)` +
		`[^}]*?"totalInvestment":([0-9.E]+)`)

func parseLoose(content string) ([]Point, error) {
	if !strings.Contains(content, "networthHistories") {
		return nil, ErrNoHistories
	}
	matches := looseEntryRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("could not scrape net worth entries: %w", ErrNoHistories)
	}

	var points []Point
	for _, m := range matches {
		nums := make([]decimal.Decimal, 13)
		bad := false
		for i, raw := range m[2:] {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				bad = true
				break
			}
			nums[i] = d
		}
		p := Point{
			Date:                m[1],
			TotalMortgage:       nums[0],
			TotalOtherAssets:    nums[1],
			TotalAssets:         nums[2],
			TotalCredit:         nums[3],
			TotalLoan:           nums[4],
			OneDayChangePercent: nums[5],
			TotalLiabilities:    nums[6],
			TotalOtherLiab:      nums[7],
			OneDayChange:        nums[8],
			TotalEmpower:        nums[9],
			TotalCash:           nums[10],
			NetWorth:            nums[11],
			TotalInvestment:     nums[12],
		}
		if bad || p.NetWorth.IsZero() {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

// Latest returns the last point, which the exports keep in chronological
// order.
func Latest(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	return points[len(points)-1], true
}
