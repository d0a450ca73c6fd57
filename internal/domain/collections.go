package domain

// PriceHistory is the BTC spot price plus its value at each lookback period.
type PriceHistory struct {
	Meta
	Current Field[CoinDetail]     `json:"current"`
	History []Field[PeriodReturn] `json:"history"`
}

// Asset identifies one instrument in the cross-asset comparison.
type Asset struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// AssetComparison is one asset's current price and per-period returns.
type AssetComparison struct {
	Asset        Asset                 `json:"asset"`
	CurrentPrice Field[float64]        `json:"current_price"`
	Periods      []Field[PeriodReturn] `json:"periods"`
}

type AssetComparisonCollection struct {
	Meta
	Assets []AssetComparison `json:"assets"`
}

// PurchasingPower summarises how much of a dollar's value survives between two years.
type PurchasingPower struct {
	BaseYear    int     `json:"base_year"`
	CurrentYear int     `json:"current_year"`
	BaseCPI     float64 `json:"base_cpi"`
	CurrentCPI  float64 `json:"current_cpi"`
	Remaining   float64 `json:"remaining"`
	LossPct     float64 `json:"loss_pct"`
}

type InflationCollection struct {
	Meta
	Countries       []Field[CountryInflation] `json:"countries"`
	PurchasingPower PurchasingPower           `json:"purchasing_power"`
}

type MiningData struct {
	Meta
	Hashrate        Field[NetworkHashrate]      `json:"hashrate"`
	Difficulty      Field[DifficultyAdjustment] `json:"difficulty"`
	BTCPrice        Field[float64]              `json:"btc_price"`
	Settings        MiningSettings              `json:"settings"`
	Preset          string                      `json:"preset"`
	Calculation     MiningCalculation           `json:"calculation"`
	ProfitMarginPct float64                     `json:"profit_margin_pct"`
}

// MarketSummary groups the ETF and exchange level views.
type MarketSummary struct {
	Meta
	ETFs               []Field[Quote]          `json:"etfs"`
	GlobalLongShort    Field[LongShortRatio]   `json:"global_long_short"`
	TopTraderLongShort Field[LongShortRatio]   `json:"top_trader_long_short"`
	Sentiment          Field[SentimentReading] `json:"sentiment"`
	Headlines          Field[[]Headline]       `json:"headlines"`
}

type DebtCollection struct {
	Meta
	Snapshot       Field[DebtSnapshot] `json:"snapshot"`
	BTCPrice       Field[float64]      `json:"btc_price"`
	PerSecondRate  float64             `json:"per_second_rate"`
	EstimatedTotal float64             `json:"estimated_total"`
	Population     float64             `json:"population"`
	PerCapita      float64             `json:"per_capita"`
	InBTC          float64             `json:"in_btc"`
}
