package domain

import "time"

// Period is a lookback window used for historical price points and returns.
type Period string

const (
	Period1M  Period = "1M"
	Period1Y  Period = "1Y"
	Period4Y  Period = "4Y"
	Period10Y Period = "10Y"
)

// Periods lists every supported lookback in display order.
var Periods = []Period{Period1M, Period1Y, Period4Y, Period10Y}

func (p Period) Valid() bool {
	switch p {
	case Period1M, Period1Y, Period4Y, Period10Y:
		return true
	}
	return false
}

// Years is the length of the window in years, used for annualising returns.
func (p Period) Years() float64 {
	switch p {
	case Period1M:
		return 1.0 / 12.0
	case Period1Y:
		return 1
	case Period4Y:
		return 4
	case Period10Y:
		return 10
	default:
		return 0
	}
}

// Lookback returns the calendar date the period points back to from now.
func (p Period) Lookback(now time.Time) time.Time {
	switch p {
	case Period1M:
		return now.AddDate(0, -1, 0)
	case Period1Y:
		return now.AddDate(-1, 0, 0)
	case Period4Y:
		return now.AddDate(-4, 0, 0)
	case Period10Y:
		return now.AddDate(-10, 0, 0)
	default:
		return now
	}
}

// LongTerm reports whether the period exceeds the one year of history most
// free-tier providers serve.
func (p Period) LongTerm() bool {
	return p == Period4Y || p == Period10Y
}

// Source tells consumers where a collection's data came from.
type Source string

const (
	SourceAPI      Source = "api"
	SourceCached   Source = "cached"
	SourceFallback Source = "fallback"
)

// ResolveSource is fallback only when every sub-fetch fell back.
func ResolveSource(total, fallbacks int) Source {
	if total > 0 && fallbacks >= total {
		return SourceFallback
	}
	return SourceAPI
}

// FieldStatus tracks how a single value inside a collection was resolved.
type FieldStatus string

const (
	StatusPending  FieldStatus = "pending"
	StatusLive     FieldStatus = "live"
	StatusFallback FieldStatus = "fallback"
)

// Field wraps a value with its resolution status. A finished refresh never
// leaves a required Field pending.
type Field[T any] struct {
	Value  T           `json:"value"`
	Status FieldStatus `json:"status"`
}

func Live[T any](v T) Field[T] {
	return Field[T]{Value: v, Status: StatusLive}
}

func Fallback[T any](v T) Field[T] {
	return Field[T]{Value: v, Status: StatusFallback}
}

func Pending[T any]() Field[T] {
	return Field[T]{Status: StatusPending}
}

func (f Field[T]) Resolved() bool {
	return f.Status == StatusLive || f.Status == StatusFallback
}

func (f Field[T]) Estimated() bool {
	return f.Status == StatusFallback
}

// Meta is embedded in every aggregate collection.
type Meta struct {
	Source      Source    `json:"source"`
	Error       string    `json:"error,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
	IsLoading   bool      `json:"is_loading"`
}

// SetLoading is promoted to every collection that embeds Meta.
func (m *Meta) SetLoading(v bool) {
	m.IsLoading = v
}
