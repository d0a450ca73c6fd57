package domain

import "time"

// CoinDetail is the spot view of a coin from the detail endpoint.
type CoinDetail struct {
	ID                string    `json:"id"`
	PriceUSD          float64   `json:"price_usd"`
	Change24hPct      float64   `json:"change_24h_pct"`
	ATHUSD            float64   `json:"ath_usd"`
	ATHChangePct      float64   `json:"ath_change_pct"`
	CirculatingSupply float64   `json:"circulating_supply"`
	MarketCapUSD      float64   `json:"market_cap_usd"`
	Volume24hUSD      float64   `json:"volume_24h_usd"`
	LastUpdated       time.Time `json:"last_updated"`
}

// TimeSeriesPoint is a price observed at the start of a lookback period.
type TimeSeriesPoint struct {
	Period    Period    `json:"period"`
	Price     float64   `json:"price"`
	AsOf      time.Time `json:"as_of"`
	Estimated bool      `json:"estimated"`
}

// Return describes the move from a start price to an end price.
type Return struct {
	PercentageReturn float64 `json:"percentage_return"`
	Multiplier       float64 `json:"multiplier"`
	AnnualizedPct    float64 `json:"annualized_pct"`
}

// PeriodReturn pairs a historical point with the return to the current price.
type PeriodReturn struct {
	Point  TimeSeriesPoint `json:"point"`
	Return Return          `json:"return"`
}

// LongShortRatio is one row of derivatives account positioning.
type LongShortRatio struct {
	Symbol            string    `json:"symbol"`
	LongAccount       float64   `json:"long_account"`
	LongAccountRatio  float64   `json:"long_account_ratio"`
	ShortAccount      float64   `json:"short_account"`
	ShortAccountRatio float64   `json:"short_account_ratio"`
	Ratio             float64   `json:"ratio"`
	Timestamp         time.Time `json:"timestamp"`
}

// SentimentReading is a fear and greed index observation.
type SentimentReading struct {
	Value           int           `json:"value"`
	Classification  string        `json:"classification"`
	Timestamp       time.Time     `json:"timestamp"`
	TimeUntilUpdate time.Duration `json:"time_until_update"`
}

// Quote is the latest market price of a listed instrument.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	ChangePct     float64 `json:"change_pct"`
}

// DifficultyAdjustment describes progress toward the next retarget.
type DifficultyAdjustment struct {
	ProgressPercent   float64       `json:"progress_percent"`
	DifficultyChange  float64       `json:"difficulty_change"`
	EstimatedRetarget time.Time     `json:"estimated_retarget"`
	RemainingBlocks   int           `json:"remaining_blocks"`
	RemainingTime     time.Duration `json:"remaining_time"`
}

// NetworkHashrate is the network's current computational rate.
type NetworkHashrate struct {
	HashrateEH float64   `json:"hashrate_eh"`
	Difficulty float64   `json:"difficulty"`
	AsOf       time.Time `json:"as_of"`
}

// Headline is a single news item.
type Headline struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// DebtRecord is one day of the public debt series.
type DebtRecord struct {
	RecordDate        time.Time `json:"record_date"`
	TotalDebt         float64   `json:"total_debt"`
	HeldByPublic      float64   `json:"held_by_public"`
	Intragovernmental float64   `json:"intragovernmental"`
}

// DebtSnapshot carries the two most recent records and the measured daily
// growth. RateEstimated is set when DailyRate came from the static table
// because only one record was available.
type DebtSnapshot struct {
	Latest        DebtRecord `json:"latest"`
	Previous      DebtRecord `json:"previous"`
	DailyRate     float64    `json:"daily_rate"`
	RateEstimated bool       `json:"rate_estimated"`
}

// CountryInflation is the annual CPI inflation rate for a country.
type CountryInflation struct {
	ISO3    string  `json:"iso3"`
	Country string  `json:"country"`
	Year    int     `json:"year"`
	RatePct float64 `json:"rate_pct"`
}
