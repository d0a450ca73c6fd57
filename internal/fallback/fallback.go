// Package fallback holds the static reference data substituted whenever a
// live source fails. The tables are embedded YAML so a binary can serve a
// complete (if stale) view with no network at all.
package fallback

import (
	"embed"
	"fmt"
	"sync"
	"time"

	"btcpulse/internal/derive"
	"btcpulse/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

type Tables struct {
	BTCMonthly derive.HistoricalPriceTable
	USCPI      derive.CPITable
	Snapshot   Snapshot
}

type Snapshot struct {
	BTCPrice      float64                   `yaml:"btc_price"`
	Sentiment     sentimentEntry            `yaml:"sentiment"`
	LongShort     longShortEntry            `yaml:"long_short"`
	Network       networkEntry              `yaml:"network"`
	Assets        map[string]assetEntry     `yaml:"assets"`
	ETFs          map[string]assetEntry     `yaml:"etfs"`
	InflationYear int                       `yaml:"inflation_year"`
	Inflation     map[string]inflationEntry `yaml:"inflation"`
	Debt          debtEntry                 `yaml:"debt"`
}

type sentimentEntry struct {
	Value          int    `yaml:"value"`
	Classification string `yaml:"classification"`
}

type longShortEntry struct {
	LongAccount  float64 `yaml:"long_account"`
	ShortAccount float64 `yaml:"short_account"`
	Ratio        float64 `yaml:"ratio"`
}

type networkEntry struct {
	HashrateEH       float64 `yaml:"hashrate_eh"`
	Difficulty       float64 `yaml:"difficulty"`
	DifficultyChange float64 `yaml:"difficulty_change"`
}

type assetEntry struct {
	Name    string                    `yaml:"name"`
	Price   float64                   `yaml:"price"`
	Returns map[domain.Period]float64 `yaml:"returns"`
}

type inflationEntry struct {
	Name string  `yaml:"name"`
	Rate float64 `yaml:"rate"`
}

type debtEntry struct {
	RecordDate        string  `yaml:"record_date"`
	Total             string  `yaml:"total"`
	HeldByPublic      string  `yaml:"held_by_public"`
	Intragovernmental string  `yaml:"intragovernmental"`
	DailyRate         float64 `yaml:"daily_rate"`
	Population        float64 `yaml:"population"`
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the embedded tables, parsed once.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Load()
		if err != nil {
			panic(fmt.Sprintf("fallback: embedded tables are invalid: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// Load parses the embedded tables.
func Load() (*Tables, error) {
	t := &Tables{}
	if err := decodeFile("data/btc_monthly.yaml", &t.BTCMonthly); err != nil {
		return nil, err
	}
	if err := decodeFile("data/us_cpi.yaml", &t.USCPI); err != nil {
		return nil, err
	}
	if err := decodeFile("data/snapshot.yaml", &t.Snapshot); err != nil {
		return nil, err
	}
	if _, err := t.Snapshot.Debt.record(); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeFile(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// BTCPrice is the static spot price.
func (t *Tables) BTCPrice() float64 {
	return t.Snapshot.BTCPrice
}

// HistoricalPoint resolves the BTC price at the start of period from the
// monthly table. The point is always marked estimated.
func (t *Tables) HistoricalPoint(p domain.Period, now time.Time, currentPrice float64) domain.TimeSeriesPoint {
	at := p.Lookback(now)
	return domain.TimeSeriesPoint{
		Period:    p,
		Price:     t.BTCMonthly.LookupDate(at, currentPrice),
		AsOf:      at,
		Estimated: true,
	}
}

// AssetPrice returns the static price for a comparison asset.
func (t *Tables) AssetPrice(symbol string) (float64, bool) {
	a, ok := t.Snapshot.Assets[symbol]
	return a.Price, ok
}

// AssetReturn returns the static percentage return for a comparison asset
// over period, with the start price implied by currentPrice.
func (t *Tables) AssetReturn(symbol string, p domain.Period, now time.Time, currentPrice float64) (domain.PeriodReturn, bool) {
	a, ok := t.Snapshot.Assets[symbol]
	if !ok {
		return domain.PeriodReturn{}, false
	}
	pct, ok := a.Returns[p]
	if !ok {
		return domain.PeriodReturn{}, false
	}
	start := derive.StartPriceFromReturn(currentPrice, pct)
	return domain.PeriodReturn{
		Point: domain.TimeSeriesPoint{
			Period:    p,
			Price:     start,
			AsOf:      p.Lookback(now),
			Estimated: true,
		},
		Return: derive.Returns(start, currentPrice, p.Years()),
	}, true
}

// ETFQuote returns the static quote for a spot ETF.
func (t *Tables) ETFQuote(symbol string) (domain.Quote, bool) {
	e, ok := t.Snapshot.ETFs[symbol]
	if !ok {
		return domain.Quote{}, false
	}
	return domain.Quote{Symbol: symbol, Name: e.Name, Price: e.Price, PreviousClose: e.Price}, true
}

// Sentiment returns the neutral static reading.
func (t *Tables) Sentiment(now time.Time) domain.SentimentReading {
	s := t.Snapshot.Sentiment
	return domain.SentimentReading{Value: s.Value, Classification: s.Classification, Timestamp: now}
}

// LongShort returns the balanced static positioning for symbol.
func (t *Tables) LongShort(symbol string, now time.Time) domain.LongShortRatio {
	ls := t.Snapshot.LongShort
	return domain.LongShortRatio{
		Symbol:            symbol,
		LongAccount:       ls.LongAccount,
		LongAccountRatio:  ls.Ratio,
		ShortAccount:      ls.ShortAccount,
		ShortAccountRatio: ls.Ratio,
		Ratio:             ls.Ratio,
		Timestamp:         now,
	}
}

func (t *Tables) Hashrate(now time.Time) domain.NetworkHashrate {
	n := t.Snapshot.Network
	return domain.NetworkHashrate{HashrateEH: n.HashrateEH, Difficulty: n.Difficulty, AsOf: now}
}

func (t *Tables) Difficulty() domain.DifficultyAdjustment {
	return domain.DifficultyAdjustment{DifficultyChange: t.Snapshot.Network.DifficultyChange}
}

// CountryInflation returns the static rate for an ISO3 country code.
func (t *Tables) CountryInflation(iso3 string) (domain.CountryInflation, bool) {
	e, ok := t.Snapshot.Inflation[iso3]
	if !ok {
		return domain.CountryInflation{}, false
	}
	return domain.CountryInflation{ISO3: iso3, Country: e.Name, Year: t.Snapshot.InflationYear, RatePct: e.Rate}, true
}

// Debt returns the static debt snapshot. The previous record is back-filled
// one day earlier at the static daily rate.
func (t *Tables) Debt() domain.DebtSnapshot {
	latest, _ := t.Snapshot.Debt.record()
	rate := t.Snapshot.Debt.DailyRate
	previous := domain.DebtRecord{
		RecordDate:        latest.RecordDate.AddDate(0, 0, -1),
		TotalDebt:         latest.TotalDebt - rate,
		HeldByPublic:      latest.HeldByPublic,
		Intragovernmental: latest.Intragovernmental,
	}
	return domain.DebtSnapshot{Latest: latest, Previous: previous, DailyRate: rate}
}

// Population is the static US population used for per-capita figures.
func (t *Tables) Population() float64 {
	return t.Snapshot.Debt.Population
}

func (d debtEntry) record() (domain.DebtRecord, error) {
	date, err := time.Parse(time.DateOnly, d.RecordDate)
	if err != nil {
		return domain.DebtRecord{}, fmt.Errorf("debt record_date: %w", err)
	}
	amounts := make([]float64, 0, 3)
	for _, raw := range []string{d.Total, d.HeldByPublic, d.Intragovernmental} {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.DebtRecord{}, fmt.Errorf("debt amount %q: %w", raw, err)
		}
		amounts = append(amounts, v.InexactFloat64())
	}
	return domain.DebtRecord{
		RecordDate:        date,
		TotalDebt:         amounts[0],
		HeldByPublic:      amounts[1],
		Intragovernmental: amounts[2],
	}, nil
}
