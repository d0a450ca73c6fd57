package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestMempoolFetchDifficulty(t *testing.T) {
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if req.URL.Path != "/api/v1/difficulty-adjustment" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return http.StatusOK, `{"progressPercent":42.5,"difficultyChange":-1.25,"estimatedRetargetDate":1771009800000,"remainingBlocks":1159,"remainingTime":695400000}`
	})
	p := NewMempoolProvider(client, testTracer(), "http://example")

	d, err := p.FetchDifficulty(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ProgressPercent != 42.5 || d.DifficultyChange != -1.25 || d.RemainingBlocks != 1159 {
		t.Fatalf("unexpected adjustment: %+v", d)
	}
	if !d.EstimatedRetarget.Equal(time.UnixMilli(1771009800000)) {
		t.Fatalf("unexpected retarget: %v", d.EstimatedRetarget)
	}
	if d.RemainingTime != 695400*time.Second {
		t.Fatalf("unexpected remaining time: %v", d.RemainingTime)
	}
}

func TestMempoolFetchHashrate(t *testing.T) {
	client, _ := stubClient(t, func(req *http.Request) (int, string) {
		if req.URL.Path != "/api/v1/mining/hashrate/3d" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		return http.StatusOK, `{"hashrates":[],"difficulty":[],"currentHashrate":6.5e20,"currentDifficulty":1.1e14}`
	})
	p := NewMempoolProvider(client, testTracer(), "http://example")

	h, err := p.FetchHashrate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.HashrateEH != 650 || h.Difficulty != 1.1e14 {
		t.Fatalf("unexpected hashrate: %+v", h)
	}
}

func TestMempoolHashrateMissing(t *testing.T) {
	client, _ := stubClient(t, func(*http.Request) (int, string) {
		return http.StatusOK, `{"currentHashrate":0}`
	})
	p := NewMempoolProvider(client, testTracer(), "http://example")

	if _, err := p.FetchHashrate(context.Background()); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
