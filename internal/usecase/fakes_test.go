package usecase

import (
	"context"
	"sync"
	"time"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	"QuantDesk/pkg/logger"
)

func testLogger() *logger.Logger {
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		panic(err)
	}
	return l
}

type fakeStore struct {
	closes      map[string][]float64
	stmts       map[string]*models.StatementHistory
	targets     map[string]*models.AnalystTargets
	quotes      map[string]float64
	betas       map[string]float64
	universe    []models.Instrument
	fail        map[string]error
	universeErr error

	mu    sync.Mutex
	calls int
}

func (f *fakeStore) GetPriceSeries(_ context.Context, ticker string, _ drepo.Period) (*models.PriceSeries, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.fail[ticker]; ok {
		return nil, err
	}
	closes, ok := f.closes[ticker]
	if !ok {
		return nil, drepo.ErrUnavailable
	}
	bars := make([]models.PriceBar, len(closes))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.PriceBar{Date: day.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return &models.PriceSeries{Ticker: ticker, Bars: bars}, nil
}

func (f *fakeStore) GetStatements(_ context.Context, ticker string) (*models.StatementHistory, error) {
	if s, ok := f.stmts[ticker]; ok {
		return s, nil
	}
	return nil, drepo.ErrUnavailable
}

func (f *fakeStore) GetAnalystTargets(_ context.Context, ticker string) (*models.AnalystTargets, error) {
	if t, ok := f.targets[ticker]; ok {
		return t, nil
	}
	return nil, drepo.ErrUnavailable
}

func (f *fakeStore) GetUniverse(_ context.Context) ([]models.Instrument, error) {
	if f.universeErr != nil {
		return nil, f.universeErr
	}
	return f.universe, nil
}

func (f *fakeStore) GetQuote(_ context.Context, ticker string) (float64, float64, error) {
	p, ok := f.quotes[ticker]
	if !ok {
		return 0, 0, drepo.ErrUnavailable
	}
	return p, f.betas[ticker], nil
}

type nopMetrics struct{}

func (nopMetrics) RecordEvaluation(string, string) {}
func (nopMetrics) RecordScanDuration(float64)      {}
func (nopMetrics) RecordAlerts(int)                {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordCache(bool)                {}

type capturePublisher struct {
	mu      sync.Mutex
	batches [][]models.Alert
}

func (p *capturePublisher) PublishBatch(_ context.Context, alerts []models.Alert) error {
	p.mu.Lock()
	p.batches = append(p.batches, alerts)
	p.mu.Unlock()
	return nil
}

func (p *capturePublisher) Close() error { return nil }

// fakeTech maps tickers to canned readings so scanner tests control the
// criteria exactly.
type fakeTech struct {
	readings map[string]models.TechnicalReading
}

func (f *fakeTech) Analyze(series models.PriceSeries) models.TechnicalReading {
	if r, ok := f.readings[series.Ticker]; ok {
		return r
	}
	return models.TechnicalReading{Ticker: series.Ticker}
}

func fp(v float64) *float64 { return &v }
