package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	worldBankBaseURL = "https://api.worldbank.org/v2"
	worldBankTTL     = 24 * time.Hour

	// InflationIndicator is the annual consumer price inflation series.
	InflationIndicator = "FP.CPI.TOTL.ZG"

	inflationYearFallbacks = 2
)

// WorldBankProvider reads country indicators.
type WorldBankProvider struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
}

func NewWorldBankProvider(client *fetch.Client, tracer trace.Tracer, baseURL string) *WorldBankProvider {
	return &WorldBankProvider{
		fetch:   client,
		baseURL: trimBase(baseURL, worldBankBaseURL),
		tracer:  tracer,
	}
}

type worldBankRow struct {
	Indicator struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"indicator"`
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
}

// worldBankPage is the [metadata, rows] tuple the API returns in place of an
// object. The metadata element is discarded.
type worldBankPage struct {
	Rows []worldBankRow
}

func (p *worldBankPage) UnmarshalJSON(b []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(b, &tuple); err != nil {
		return err
	}
	if len(tuple) < 2 {
		// An error reply is a one-element array holding a message object.
		return nil
	}
	if string(tuple[1]) == "null" {
		return nil
	}
	return json.Unmarshal(tuple[1], &p.Rows)
}

// FetchInflation returns the CPI inflation rate for a country in year. When
// that year has not been published it tries the two years before it.
func (p *WorldBankProvider) FetchInflation(ctx context.Context, iso3 string, year int) (domain.CountryInflation, error) {
	ctx, span := p.tracer.Start(ctx, "worldbank.fetch-inflation")
	defer span.End()
	span.SetAttributes(attribute.String("country", iso3), attribute.Int("year", year))

	u := fmt.Sprintf("%s/country/%s/indicator/%s?format=json&date=%d:%d",
		p.baseURL, url.PathEscape(strings.ToLower(iso3)), InflationIndicator, year-inflationYearFallbacks, year)
	page, err := getJSON[worldBankPage](ctx, p.fetch, nil, u, worldBankTTL)
	if err != nil {
		return domain.CountryInflation{}, fmt.Errorf("fetch inflation for %s: %w", iso3, err)
	}

	byYear := make(map[int]worldBankRow, len(page.Rows))
	for _, row := range page.Rows {
		y, err := strconv.Atoi(strings.TrimSpace(row.Date))
		if err != nil || row.Value == nil {
			continue
		}
		byYear[y] = row
	}

	for y := year; y >= year-inflationYearFallbacks; y-- {
		row, ok := byYear[y]
		if !ok {
			continue
		}
		code := row.CountryISO3
		if code == "" {
			code = strings.ToUpper(iso3)
		}
		return domain.CountryInflation{
			ISO3:    code,
			Country: row.Country.Value,
			Year:    y,
			RatePct: *row.Value,
		}, nil
	}
	return domain.CountryInflation{}, fmt.Errorf("inflation for %s in %d-%d: %w", iso3, year-inflationYearFallbacks, year, ErrNoData)
}
