package stats

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finkit/empower-extract/internal/extract"
)

func holding(ticker string, value int64) extract.Holding {
	return extract.Holding{Ticker: ticker, Value: decimal.NewFromInt(value)}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Positions != 0 || s.Concentration != "None" {
		t.Errorf("Summarize(nil) = %+v", s)
	}
}

func TestSummarizeSinglePosition(t *testing.T) {
	s := Summarize([]extract.Holding{holding("AAPL", 1000)})
	if s.Positions != 1 {
		t.Errorf("Positions = %d", s.Positions)
	}
	if s.TotalValue != 1000 || s.MeanValue != 1000 {
		t.Errorf("TotalValue = %v, MeanValue = %v", s.TotalValue, s.MeanValue)
	}
	if math.Abs(s.HHI-1.0) > 1e-9 {
		t.Errorf("HHI = %v, want 1.0", s.HHI)
	}
	if s.Concentration != "High" {
		t.Errorf("Concentration = %q, want High", s.Concentration)
	}
}

func TestSummarizeEvenSpread(t *testing.T) {
	var holdings []extract.Holding
	for i := 0; i < 20; i++ {
		holdings = append(holdings, holding("T", 100))
	}
	s := Summarize(holdings)
	if math.Abs(s.HHI-0.05) > 1e-9 {
		t.Errorf("HHI = %v, want 0.05", s.HHI)
	}
	if s.Concentration != "Low" {
		t.Errorf("Concentration = %q, want Low", s.Concentration)
	}
	if math.Abs(s.Top5Weight-0.25) > 1e-9 {
		t.Errorf("Top5Weight = %v, want 0.25", s.Top5Weight)
	}
	if math.Abs(s.Top10Weight-0.5) > 1e-9 {
		t.Errorf("Top10Weight = %v, want 0.5", s.Top10Weight)
	}
}

func TestSummarizeConcentrated(t *testing.T) {
	s := Summarize([]extract.Holding{
		holding("NVDA", 8000),
		holding("AAPL", 1000),
		holding("MSFT", 1000),
	})
	// weights 0.8, 0.1, 0.1 -> HHI = 0.64 + 0.01 + 0.01
	if math.Abs(s.HHI-0.66) > 1e-9 {
		t.Errorf("HHI = %v, want 0.66", s.HHI)
	}
	if s.Concentration != "High" {
		t.Errorf("Concentration = %q, want High", s.Concentration)
	}
	if s.TotalValue != 10000 {
		t.Errorf("TotalValue = %v", s.TotalValue)
	}
	if math.Abs(s.Top5Weight-1.0) > 1e-9 {
		t.Errorf("Top5Weight = %v, want 1.0", s.Top5Weight)
	}
}

func TestSummarizeMedian(t *testing.T) {
	s := Summarize([]extract.Holding{
		holding("A", 100),
		holding("B", 200),
		holding("C", 900),
	})
	if s.MedianValue != 200 {
		t.Errorf("MedianValue = %v, want 200", s.MedianValue)
	}
}
