// Package stats computes portfolio summary statistics over extracted
// holdings: position sizing, concentration, and the Herfindahl index.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/finkit/empower-extract/internal/extract"
)

// Concentration bands for the Herfindahl-Hirschman index. The usual
// antitrust cutoffs, applied to position weights.
const (
	hhiModerate = 0.15
	hhiHigh     = 0.25
)

// Summary describes the size and concentration of a set of holdings.
type Summary struct {
	Positions     int
	TotalValue    float64
	MeanValue     float64
	MedianValue   float64
	StdDevValue   float64
	Top5Weight    float64
	Top10Weight   float64
	HHI           float64
	Concentration string
}

// Summarize computes portfolio statistics from holdings. The input is
// not modified; values are taken as floats since these are descriptive
// figures, not ledger amounts.
func Summarize(holdings []extract.Holding) Summary {
	if len(holdings) == 0 {
		return Summary{Concentration: "None"}
	}

	values := make([]float64, len(holdings))
	for i, h := range holdings {
		values[i], _ = h.Value.Float64()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := Summary{
		Positions:   len(values),
		MeanValue:   stat.Mean(values, nil),
		MedianValue: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	for _, v := range values {
		s.TotalValue += v
	}
	if len(values) > 1 {
		s.StdDevValue = stat.StdDev(values, nil)
	}

	if s.TotalValue > 0 {
		weights := make([]float64, len(sorted))
		for i, v := range sorted {
			weights[i] = v / s.TotalValue
		}
		// sorted ascending, so the largest weights sit at the tail.
		for i, w := range weights {
			rank := len(weights) - i
			if rank <= 5 {
				s.Top5Weight += w
			}
			if rank <= 10 {
				s.Top10Weight += w
			}
			s.HHI += w * w
		}
	}

	switch {
	case s.HHI >= hhiHigh:
		s.Concentration = "High"
	case s.HHI >= hhiModerate:
		s.Concentration = "Moderate"
	default:
		s.Concentration = "Low"
	}
	return s
}
