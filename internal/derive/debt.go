package derive

import (
	"math"
	"time"
)

// Extrapolate projects a cumulative counter forward from base at dailyRate.
func Extrapolate(base, dailyRate float64, elapsed time.Duration) float64 {
	return base + PerSecond(dailyRate)*elapsed.Seconds()
}

// PerSecond converts a per-day rate to a per-second rate.
func PerSecond(dailyRate float64) float64 {
	return dailyRate / secondsPerDay
}

// DailyRate is the average daily change between two observations.
func DailyRate(latest, previous float64, latestAt, previousAt time.Time) float64 {
	days := latestAt.Sub(previousAt).Hours() / 24
	if days <= 0 {
		return 0
	}
	return (latest - previous) / days
}

// PerCapita divides a total across a population.
func PerCapita(total, population float64) float64 {
	return safeDiv(total, population)
}

// InBTC denominates a USD amount in BTC at btcPrice.
func InBTC(usd, btcPrice float64) float64 {
	return safeDiv(usd, btcPrice)
}

func safeDiv(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsNaN(num) {
		return 0
	}
	v := num / den
	if math.IsInf(v, 0) {
		return 0
	}
	return v
}
