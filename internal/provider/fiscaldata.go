package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"btcpulse/internal/derive"
	"btcpulse/internal/domain"
	"btcpulse/internal/fetch"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

const (
	fiscalDataBaseURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service"
	fiscalDataTTL     = 12 * time.Hour
	debtToPennyPath   = "/v2/accounting/od/debt_to_penny"
)

// FiscalDataProvider reads the daily public debt series from the Treasury.
type FiscalDataProvider struct {
	fetch   *fetch.Client
	baseURL string
	tracer  trace.Tracer
}

func NewFiscalDataProvider(client *fetch.Client, tracer trace.Tracer, baseURL string) *FiscalDataProvider {
	return &FiscalDataProvider{
		fetch:   client,
		baseURL: trimBase(baseURL, fiscalDataBaseURL),
		tracer:  tracer,
	}
}

type debtToPennyPayload struct {
	Data []struct {
		RecordDate        string `json:"record_date"`
		TotalDebt         string `json:"tot_pub_debt_out_amt"`
		HeldByPublic      string `json:"debt_held_public_amt"`
		Intragovernmental string `json:"intragov_hold_amt"`
	} `json:"data"`
}

// FetchDebt returns the two most recent records and the daily growth
// measured between them.
func (p *FiscalDataProvider) FetchDebt(ctx context.Context) (domain.DebtSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "fiscaldata.fetch-debt")
	defer span.End()

	u := p.baseURL + debtToPennyPath + "?sort=-record_date&page%5Bsize%5D=2"
	payload, err := getJSON[debtToPennyPayload](ctx, p.fetch, nil, u, fiscalDataTTL)
	if err != nil {
		return domain.DebtSnapshot{}, fmt.Errorf("fetch debt to the penny: %w", err)
	}
	if len(payload.Data) == 0 {
		return domain.DebtSnapshot{}, fmt.Errorf("debt to the penny has no rows: %w", ErrNoData)
	}

	records := make([]domain.DebtRecord, 0, len(payload.Data))
	for _, row := range payload.Data {
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(row.RecordDate))
		if err != nil {
			return domain.DebtSnapshot{}, fmt.Errorf("parse record_date %q: %w", row.RecordDate, err)
		}
		records = append(records, domain.DebtRecord{
			RecordDate:        date,
			TotalDebt:         parseAmount(row.TotalDebt),
			HeldByPublic:      parseAmount(row.HeldByPublic),
			Intragovernmental: parseAmount(row.Intragovernmental),
		})
	}
	if records[0].TotalDebt <= 0 {
		return domain.DebtSnapshot{}, fmt.Errorf("latest debt record has no total: %w", ErrNoData)
	}

	snap := domain.DebtSnapshot{Latest: records[0], Previous: records[0]}
	if len(records) > 1 {
		snap.Previous = records[1]
		snap.DailyRate = derive.DailyRate(
			snap.Latest.TotalDebt, snap.Previous.TotalDebt,
			snap.Latest.RecordDate, snap.Previous.RecordDate,
		)
	}
	return snap, nil
}

// parseAmount reads a dollar string like "36218604205871.47". Anything
// unparseable is 0.
func parseAmount(v string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
