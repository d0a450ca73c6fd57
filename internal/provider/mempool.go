package provider

import (
	"context"
	"fmt"
	"time"

	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const (
	mempoolBaseURL = "https://mempool.space"
	mempoolTTL     = 10 * time.Minute

	hashesPerEH = 1e18
)

// MempoolProvider reads network difficulty and hashrate from mempool.space.
type MempoolProvider struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
}

func NewMempoolProvider(client *fetch.Client, tracer trace.Tracer, baseURL string) *MempoolProvider {
	return &MempoolProvider{
		fetch:   client,
		baseURL: trimBase(baseURL, mempoolBaseURL),
		tracer:  tracer,
	}
}

func (p *MempoolProvider) FetchDifficulty(ctx context.Context) (domain.DifficultyAdjustment, error) {
	ctx, span := p.tracer.Start(ctx, "mempool.fetch-difficulty")
	defer span.End()

	raw, err := getJSON[struct {
		ProgressPercent       float64 `json:"progressPercent"`
		DifficultyChange      float64 `json:"difficultyChange"`
		EstimatedRetargetDate int64   `json:"estimatedRetargetDate"`
		RemainingBlocks       int     `json:"remainingBlocks"`
		RemainingTime         int64   `json:"remainingTime"`
	}](ctx, p.fetch, nil, p.baseURL+"/api/v1/difficulty-adjustment", mempoolTTL)
	if err != nil {
		return domain.DifficultyAdjustment{}, fmt.Errorf("fetch difficulty adjustment: %w", err)
	}

	return domain.DifficultyAdjustment{
		ProgressPercent:   raw.ProgressPercent,
		DifficultyChange:  raw.DifficultyChange,
		EstimatedRetarget: unixTime(raw.EstimatedRetargetDate),
		RemainingBlocks:   raw.RemainingBlocks,
		RemainingTime:     time.Duration(raw.RemainingTime) * time.Millisecond,
	}, nil
}

// FetchHashrate returns the current network hashrate in EH/s.
func (p *MempoolProvider) FetchHashrate(ctx context.Context) (domain.NetworkHashrate, error) {
	ctx, span := p.tracer.Start(ctx, "mempool.fetch-hashrate")
	defer span.End()

	raw, err := getJSON[struct {
		CurrentHashrate   float64 `json:"currentHashrate"`
		CurrentDifficulty float64 `json:"currentDifficulty"`
	}](ctx, p.fetch, nil, p.baseURL+"/api/v1/mining/hashrate/3d", mempoolTTL)
	if err != nil {
		return domain.NetworkHashrate{}, fmt.Errorf("fetch hashrate: %w", err)
	}
	if raw.CurrentHashrate <= 0 {
		return domain.NetworkHashrate{}, fmt.Errorf("hashrate payload has no current value: %w", ErrNoData)
	}

	return domain.NetworkHashrate{
		HashrateEH: raw.CurrentHashrate / hashesPerEH,
		Difficulty: raw.CurrentDifficulty,
		AsOf:       time.Now().UTC(),
	}, nil
}
