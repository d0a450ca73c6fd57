package derive

import "sort"

// CPITable is a sparse year -> index series.
type CPITable map[int]float64

// At returns the index for year, interpolating linearly between the nearest
// tabulated years and clamping outside the table's range.
func (t CPITable) At(year int) float64 {
	if len(t) == 0 {
		return 0
	}
	if v, ok := t[year]; ok {
		return v
	}

	years := t.years()
	first, last := years[0], years[len(years)-1]
	if year < first {
		return t[first]
	}
	if year > last {
		return t[last]
	}

	i := sort.SearchInts(years, year)
	lo, hi := years[i-1], years[i]
	frac := float64(year-lo) / float64(hi-lo)
	return t[lo] + (t[hi]-t[lo])*frac
}

func (t CPITable) years() []int {
	years := make([]int, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// PurchasingPower is the fraction of value retained from baseCPI to currentCPI.
func PurchasingPower(baseCPI, currentCPI float64) float64 {
	return safeDiv(baseCPI, currentCPI)
}

// PurchasingPowerBetween applies PurchasingPower to two years of the table.
func (t CPITable) PurchasingPowerBetween(baseYear, currentYear int) float64 {
	return PurchasingPower(t.At(baseYear), t.At(currentYear))
}
