package aggregate

import (
	"context"
	"testing"
	"time"

	"btcpulse/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDebtRefresh(t *testing.T) {
	recordDate := testNow.Add(-36 * time.Hour)
	snap := domain.DebtSnapshot{
		Latest:    domain.DebtRecord{RecordDate: recordDate, TotalDebt: 38e12},
		DailyRate: 8.64e9,
	}
	svc := NewDebtService(fakeDebt{snap: snap}, &fakePrices{price: 100000}, testOptions())

	got := svc.Refresh(context.Background())

	assert.Equal(t, domain.SourceAPI, got.Source)
	assert.InDelta(t, 1e5, got.PerSecondRate, 1e-9)
	want := 38e12 + 1e5*36*3600
	assert.InDelta(t, want, got.EstimatedTotal, 1)
	assert.InDelta(t, want/335e6, got.PerCapita, 1e-3)
	assert.InDelta(t, want/100000, got.InBTC, 1e-3)

	assert.Equal(t, 38e12, DebtAt(got, recordDate.Add(-time.Hour)), "no extrapolation backwards")
	assert.InDelta(t, 38e12+1e5*60, DebtAt(got, recordDate.Add(time.Minute)), 1e-3)
}

func TestDebtFallback(t *testing.T) {
	svc := NewDebtService(fakeDebt{err: errUpstream}, &fakePrices{errs: []error{errUpstream}}, testOptions())

	got := svc.Refresh(context.Background())

	assert.Equal(t, domain.SourceFallback, got.Source)
	assert.Equal(t, domain.StatusFallback, got.Snapshot.Status)
	assert.Equal(t, 36.2e12, got.Snapshot.Value.Latest.TotalDebt)
	assert.Greater(t, got.EstimatedTotal, 36.2e12)
	assert.Equal(t, 95000.0, got.BTCPrice.Value)
}

func TestDebtSingleRecordFlagsEstimatedRate(t *testing.T) {
	recordDate := testNow.Add(-24 * time.Hour)
	snap := domain.DebtSnapshot{
		Latest:   domain.DebtRecord{RecordDate: recordDate, TotalDebt: 38e12},
		Previous: domain.DebtRecord{RecordDate: recordDate, TotalDebt: 38e12},
	}
	svc := NewDebtService(fakeDebt{snap: snap}, &fakePrices{price: 100000}, testOptions())

	got := svc.Refresh(context.Background())

	assert.Equal(t, domain.SourceAPI, got.Source)
	assert.Equal(t, domain.StatusLive, got.Snapshot.Status)
	assert.True(t, got.Snapshot.Value.RateEstimated)
	assert.Equal(t, 5e9, got.Snapshot.Value.DailyRate)
	assert.Contains(t, got.Error, "debt_rate")
	assert.InDelta(t, 38e12+5e9, got.EstimatedTotal, 1)
}
