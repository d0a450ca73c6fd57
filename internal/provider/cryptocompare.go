package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const (
	cryptoCompareBaseURL = "https://min-api.cryptocompare.com"
	cryptoCompareTTL     = 15 * time.Minute
)

// CryptoCompareProvider reads the latest crypto news headlines.
type CryptoCompareProvider struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
}

func NewCryptoCompareProvider(client *fetch.Client, tracer trace.Tracer, baseURL string) *CryptoCompareProvider {
	return &CryptoCompareProvider{
		fetch:   client,
		baseURL: trimBase(baseURL, cryptoCompareBaseURL),
		tracer:  tracer,
	}
}

type cryptoCompareNews struct {
	Data []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		PublishedOn int64  `json:"published_on"`
		ImageURL    string `json:"imageurl"`
		SourceInfo  struct {
			Name string `json:"name"`
		} `json:"source_info"`
	} `json:"Data"`
}

// FetchHeadlines returns at most limit headlines, newest first.
func (p *CryptoCompareProvider) FetchHeadlines(ctx context.Context, limit int) ([]domain.Headline, error) {
	ctx, span := p.tracer.Start(ctx, "cryptocompare.fetch-headlines")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}
	payload, err := getJSON[cryptoCompareNews](ctx, p.fetch, nil, p.baseURL+"/data/v2/news/?lang=EN", cryptoCompareTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}

	out := make([]domain.Headline, 0, min(limit, len(payload.Data)))
	for _, row := range payload.Data {
		if len(out) >= limit {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		source := row.SourceInfo.Name
		if source == "" {
			source = row.Source
		}
		id := row.ID
		if id == "" {
			id = strconv.FormatInt(row.PublishedOn, 10) + ":" + title
		}
		out = append(out, domain.Headline{
			ID:          id,
			Title:       title,
			URL:         row.URL,
			Source:      sanitizeText(source, 120),
			PublishedAt: unixTime(row.PublishedOn),
			ImageURL:    row.ImageURL,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("news payload has no headlines: %w", ErrNoData)
	}
	return out, nil
}
