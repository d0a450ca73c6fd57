package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const (
	fearGreedBaseURL = "https://api.alternative.me"
	fearGreedTTL     = 10 * time.Minute
)

type FearGreedProvider struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
}

func NewFearGreedProvider(client *fetch.Client, tracer trace.Tracer, baseURL string) *FearGreedProvider {
	return &FearGreedProvider{
		fetch:   client,
		baseURL: trimBase(baseURL, fearGreedBaseURL),
		tracer:  tracer,
	}
}

type fearGreedPayload struct {
	Name string `json:"name"`
	Data []struct {
		Value           string `json:"value"`
		Classification  string `json:"value_classification"`
		Timestamp       string `json:"timestamp"`
		TimeUntilUpdate string `json:"time_until_update"`
	} `json:"data"`
}

func (p *FearGreedProvider) FetchLatest(ctx context.Context) (domain.SentimentReading, error) {
	ctx, span := p.tracer.Start(ctx, "feargreed.fetch-latest")
	defer span.End()

	rows, err := p.fetchRows(ctx, 1)
	if err != nil {
		return domain.SentimentReading{}, err
	}
	return rows[0], nil
}

// FetchHistory returns up to limit daily readings, newest first.
func (p *FearGreedProvider) FetchHistory(ctx context.Context, limit int) ([]domain.SentimentReading, error) {
	ctx, span := p.tracer.Start(ctx, "feargreed.fetch-history")
	defer span.End()

	if limit <= 0 {
		limit = 30
	}
	return p.fetchRows(ctx, limit)
}

func (p *FearGreedProvider) fetchRows(ctx context.Context, limit int) ([]domain.SentimentReading, error) {
	u := p.baseURL + "/fng/?limit=" + strconv.Itoa(limit)
	payload, err := getJSON[fearGreedPayload](ctx, p.fetch, nil, u, fearGreedTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch fear & greed: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("fear & greed response has no rows: %w", ErrNoData)
	}

	out := make([]domain.SentimentReading, 0, len(payload.Data))
	for _, row := range payload.Data {
		reading := domain.SentimentReading{
			Value:          int(parseFloatOr(row.Value, 0)),
			Classification: strings.TrimSpace(row.Classification),
			Timestamp:      unixTime(parseIntOr(row.Timestamp, 0)),
		}
		if s := parseIntOr(row.TimeUntilUpdate, -1); s >= 0 {
			reading.TimeUntilUpdate = time.Duration(s) * time.Second
		}
		out = append(out, reading)
	}
	return out, nil
}
