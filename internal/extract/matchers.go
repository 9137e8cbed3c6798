package extract

import (
	"regexp"
	"strings"
)

// holdingRow is one raw cascade match, fields still in source formatting.
type holdingRow struct {
	ticker     string
	name       string
	shares     string
	price      string
	change     string
	dayPercent string
	dayDollar  string
	value      string
}

// rowMatcher is one pattern family in the holdings cascade. Matchers run
// in declaration order over the holdings region; a ticker claimed by an
// earlier matcher is skipped by later ones, so order is a deliberate
// priority (most reliable rendering wins per ticker).
type rowMatcher struct {
	name string
	re   *regexp.Regexp
	rows func(matches [][]string) []holdingRow
}

func sliceRows(matches [][]string) []holdingRow {
	rows := make([]holdingRow, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, holdingRow{
			ticker:     m[1],
			name:       m[2],
			shares:     m[3],
			price:      m[4],
			change:     m[5],
			dayPercent: m[6],
			dayDollar:  m[7],
			value:      m[8],
		})
	}
	return rows
}

// holdingMatchers is the ordered cascade. Each family is tuned to one
// textual rendering quirk of the flattened snapshot: standard
// whitespace-delimited rows, an alternate spacing variant, cash positions
// (no ticker token), cryptocurrency rows, a newline-delimited catch-all
// for rows that wrapped across lines, and an MHTML spacing variant.
var holdingMatchers = []rowMatcher{
	{
		name: "standard",
		re:   regexp.MustCompile(`([A-Z0-9.\-]+)(?:\s+([^\n]+?))\s+(\d+(?:\.\d+)?)\s+\$(\d+(?:\.\d+)?)\s+\$?([-+]?\d+(?:\.\d+)?)\s+([-+]?\d+(?:\.\d+)?%)\s+([-+]?\$\d+(?:,\d+)*(?:\.\d+)?)\s+\$(\d+(?:,\d+)*(?:\.\d+)?)`),
		rows: sliceRows,
	},
	{
		name: "alt-spacing",
		re:   regexp.MustCompile(`([A-Z0-9.\-]+)\s+([^\n]+?)\s+(\d+(?:\.\d+)?)\s+\$(\d+(?:\.\d+)?(?:,\d+)*)\s+([-+]?[^\s]+)\s+([-+]\d+(?:\.\d+)?%)\s+([-+]\$\d+(?:,\d+)*(?:\.\d+)?)\s+\$(\d+(?:,\d+)*(?:\.\d+)?)`),
		rows: sliceRows,
	},
	{
		name: "cash",
		re:   regexp.MustCompile(`Cash\s+(\d+(?:\.\d+)?)\s+\$(\d+(?:\.\d+)?)\s+\$?([-+]?\d+(?:\.\d+)?)\s+([-+]?\d+(?:\.\d+)?%)\s+([-+]?\$\d+(?:,\d+)*(?:\.\d+)?)\s+\$(\d+(?:,\d+)*(?:\.\d+)?)`),
		rows: func(matches [][]string) []holdingRow {
			rows := make([]holdingRow, 0, len(matches))
			for _, m := range matches {
				rows = append(rows, holdingRow{
					ticker:     "CASH",
					name:       "Cash",
					shares:     m[1],
					price:      m[2],
					change:     m[3],
					dayPercent: m[4],
					dayDollar:  m[5],
					value:      m[6],
				})
			}
			return rows
		},
	},
	{
		name: "crypto",
		re:   regexp.MustCompile(`([A-Z0-9]+\.COIN|[A-Z]{3,5})[^\n]*?\s+([A-Z0-9]+|[^\n]+?)\s+(\d+\.\d+)\s+\$([0-9,.]+)\s+([-+]?\$?[0-9,.]+)\s+([-+][0-9.]+%)\s+([-+]\$[0-9,.]+)\s+\$([0-9,.]+)`),
		rows: func(matches [][]string) []holdingRow {
			rows := make([]holdingRow, 0, len(matches))
			for _, m := range matches {
				rows = append(rows, holdingRow{
					ticker:     m[1],
					name:       m[2],
					shares:     m[3],
					price:      strings.ReplaceAll(m[4], ",", ""),
					change:     strings.ReplaceAll(m[5], "$", ""),
					dayPercent: m[6],
					dayDollar:  m[7],
					value:      m[8],
				})
			}
			return rows
		},
	},
	{
		name: "newline-catchall",
		re:   regexp.MustCompile(`([A-Z0-9.\-]+)[^\n]*?\n([^\n]+?)\n(\d+(?:\.\d+)?)\n\$(\d+(?:\.\d+)?)\n\$?([-+]?\d+(?:\.\d+)?)\n([-+]?\d+(?:\.\d+)?%)\n([-+]?\$\d+(?:,\d+)*(?:\.\d+)?)\n\$(\d+(?:,\d+)*(?:\.\d+)?)`),
		rows: sliceRows,
	},
	{
		name: "mhtml",
		re:   regexp.MustCompile(`([A-Z0-9.\-]+)\s+([^\n]+?)\s+(\d+(?:\.\d+)?)\s+\$([\d,.]+)\s+([-+]?\$?[\d,.]+)\s+([-+][\d,.]+%)\s+([-+]\$[\d,.]+)\s+\$([\d,.]+)`),
		rows: sliceRows,
	},
}

// matchRegion runs one matcher over the holdings region and returns its
// raw rows in match order.
func (m rowMatcher) matchRegion(region string) []holdingRow {
	matches := m.re.FindAllStringSubmatch(region, -1)
	if matches == nil {
		return nil
	}
	return m.rows(matches)
}
