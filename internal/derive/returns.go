package derive

import (
	"math"

	"btcpulse/internal/domain"
)

// Returns computes the percentage move, multiplier and CAGR from start to
// end over years. Non-positive start or years yield zeros for the affected
// figures.
func Returns(start, end, years float64) domain.Return {
	if start <= 0 || math.IsNaN(start) || math.IsNaN(end) {
		return domain.Return{}
	}
	r := domain.Return{
		PercentageReturn: (end - start) / start * 100,
		Multiplier:       end / start,
	}
	r.AnnualizedPct = AnnualizedReturn(start, end, years)
	return r
}

// AnnualizedReturn is the compound annual growth rate in percent.
func AnnualizedReturn(start, end, years float64) float64 {
	if start <= 0 || years <= 0 || end < 0 {
		return 0
	}
	v := (math.Pow(end/start, 1/years) - 1) * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// StartPriceFromReturn inverts a percentage return back to its start price.
func StartPriceFromReturn(end, pct float64) float64 {
	return safeDiv(end, 1+pct/100)
}
