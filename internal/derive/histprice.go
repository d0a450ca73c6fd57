package derive

import (
	"sort"
	"time"
)

const (
	// PreExistencePrice is returned for years before the asset traded.
	PreExistencePrice = 0.0008

	beyondTableFactor = 0.97
	unknownYearFactor = 0.5
)

// HistoricalPriceTable is a dense year -> month -> price series.
type HistoricalPriceTable map[int]map[int]float64

// Lookup resolves the price for (year, month). An exact month wins, then the
// nearest tabulated month of the same year. Years outside the table resolve
// to PreExistencePrice before it and currentPrice*0.97 after it. A gap
// inside the range resolves to currentPrice*0.5.
func (t HistoricalPriceTable) Lookup(year, month int, currentPrice float64) float64 {
	first, last, ok := t.bounds()
	if !ok {
		return currentPrice * unknownYearFactor
	}
	if year < first {
		return PreExistencePrice
	}
	if year > last {
		return currentPrice * beyondTableFactor
	}

	months, ok := t[year]
	if !ok || len(months) == 0 {
		return currentPrice * unknownYearFactor
	}
	if v, ok := months[month]; ok {
		return v
	}

	best, bestDist := 0, 13
	for m := range months {
		d := abs(m - month)
		if d < bestDist || (d == bestDist && m < best) {
			best, bestDist = m, d
		}
	}
	return months[best]
}

// LookupDate is Lookup for the calendar month containing at.
func (t HistoricalPriceTable) LookupDate(at time.Time, currentPrice float64) float64 {
	return t.Lookup(at.Year(), int(at.Month()), currentPrice)
}

func (t HistoricalPriceTable) bounds() (int, int, bool) {
	if len(t) == 0 {
		return 0, 0, false
	}
	years := make([]int, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Ints(years)
	return years[0], years[len(years)-1], true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
