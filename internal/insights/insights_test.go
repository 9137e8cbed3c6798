package insights

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finkit/empower-extract/internal/extract"
	"github.com/finkit/empower-extract/internal/stats"
)

func TestBuildPrompt(t *testing.T) {
	holdings := []extract.Holding{
		{Ticker: "AAPL", Name: "Apple Inc", Value: decimal.NewFromInt(1500)},
		{Ticker: "MSFT", Name: "Microsoft Corp", Value: decimal.NewFromInt(500)},
	}
	summary := stats.Summarize(holdings)

	got := buildPrompt(holdings, summary)
	for _, want := range []string{
		"Positions: 2",
		"Total value: 2000.00",
		"AAPL, Apple Inc, 1500.00",
		"MSFT, Microsoft Corp, 500.00",
		"Do NOT give buy/sell advice",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestCleanModelText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "The portfolio is concentrated.", "The portfolio is concentrated."},
		{"fenced", "```\nSome text.\n```", "Some text."},
		{"fenced with language", "```markdown\nSome text.\n```", "Some text."},
		{"surrounding whitespace", "  \n Text. \n ", "Text."},
		{"single line fence", "```", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelText(tt.in); got != tt.want {
				t.Errorf("cleanModelText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
