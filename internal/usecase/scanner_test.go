package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	"QuantDesk/internal/repository"
)

func scannerForTest(store drepo.MarketStore, tech *fakeTech, alerts drepo.AlertStore, pub drepo.AlertPublisher) *Scanner {
	return NewScanner(store, tech, alerts, pub, nil, DefaultAlertCriteria(), 4, 0, 0, nopMetrics{}, testLogger())
}

func oversoldReading(ticker string) models.TechnicalReading {
	return models.TechnicalReading{
		Ticker:              ticker,
		RSI14:               fp(22),
		DistanceFromHigh52w: fp(-0.45),
		BollingerPosition:   fp(0.03),
		Signals: []models.Signal{
			{Type: models.SignalRSIOversold, Bullish: true},
			{Type: models.SignalBBLowerTouch, Bullish: true},
		},
	}
}

func calmReading(ticker string) models.TechnicalReading {
	return models.TechnicalReading{
		Ticker:              ticker,
		RSI14:               fp(55),
		DistanceFromHigh52w: fp(-0.02),
		BollingerPosition:   fp(0.6),
	}
}

func TestScanFiltersByDomain(t *testing.T) {
	store := &fakeStore{
		closes: map[string][]float64{
			"DEEP": {100, 99, 98},
			"COAL": {50, 49, 48},
		},
		universe: []models.Instrument{
			{Ticker: "DEEP", DomainID: "tech"},
			{Ticker: "COAL", DomainID: "energy"},
		},
	}
	tech := &fakeTech{readings: map[string]models.TechnicalReading{
		"DEEP": oversoldReading("DEEP"),
		"COAL": oversoldReading("COAL"),
	}}

	res, err := scannerForTest(store, tech, repository.NewMemoryAlertStore(), &capturePublisher{}).Scan(context.Background(), "energy")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Scanned != 1 {
		t.Fatalf("scanned = %d, want only the energy instrument", res.Scanned)
	}
	if len(res.Alerts) != 1 || res.Alerts[0].Ticker != "COAL" {
		t.Fatalf("alerts = %+v, want COAL only", res.Alerts)
	}

	_, err = scannerForTest(store, tech, repository.NewMemoryAlertStore(), &capturePublisher{}).Scan(context.Background(), "crypto")
	if !errors.Is(err, ErrEmptyUniverse) {
		t.Fatalf("err = %v, want ErrEmptyUniverse for a domain with no instruments", err)
	}
}

func TestScanEmitsAlertWithAllMatchingReasons(t *testing.T) {
	store := &fakeStore{
		closes:   map[string][]float64{"DEEP": {100, 99, 98}},
		universe: []models.Instrument{{Ticker: "DEEP", DomainID: "energy"}},
	}
	tech := &fakeTech{readings: map[string]models.TechnicalReading{"DEEP": oversoldReading("DEEP")}}
	alerts := repository.NewMemoryAlertStore()
	pub := &capturePublisher{}

	res, err := scannerForTest(store, tech, alerts, pub).Scan(context.Background(), "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(res.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(res.Alerts))
	}
	a := res.Alerts[0]
	// All four criteria matched; every reason must be on the single alert.
	if len(a.Reasons) != 4 {
		t.Fatalf("reasons = %v, want 4 entries", a.Reasons)
	}
	joined := strings.Join(a.Reasons, "; ")
	for _, frag := range []string{"RSI", "52-week high", "bullish signals", "Bollinger"} {
		if !strings.Contains(joined, frag) {
			t.Fatalf("reasons %q missing %q", joined, frag)
		}
	}
	if a.DomainID != "energy" {
		t.Fatalf("domain = %s, want energy", a.DomainID)
	}

	stored, _ := alerts.QueryByTicker(context.Background(), "DEEP", 10)
	if len(stored) != 1 {
		t.Fatalf("stored alerts = %d, want 1", len(stored))
	}
	if len(pub.batches) != 1 || len(pub.batches[0]) != 1 {
		t.Fatalf("published batches = %v, want one batch of one", len(pub.batches))
	}
}

func TestScanQuietUniverseProducesNoAlerts(t *testing.T) {
	store := &fakeStore{
		closes:   map[string][]float64{"CALM": {100, 100, 100}},
		universe: []models.Instrument{{Ticker: "CALM"}},
	}
	tech := &fakeTech{readings: map[string]models.TechnicalReading{"CALM": calmReading("CALM")}}
	pub := &capturePublisher{}

	res, err := scannerForTest(store, tech, repository.NewMemoryAlertStore(), pub).Scan(context.Background(), "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(res.Alerts) != 0 {
		t.Fatalf("alerts = %v, want none", res.Alerts)
	}
	if len(pub.batches) != 0 {
		t.Fatal("empty scans must not publish")
	}
}

func TestScanSkipsFailedInstrumentAndContinues(t *testing.T) {
	store := &fakeStore{
		closes: map[string][]float64{
			"DEEP": {100, 99},
			"CALM": {100, 100},
		},
		fail:     map[string]error{"BAD": drepo.ErrUnavailable},
		universe: []models.Instrument{{Ticker: "BAD"}, {Ticker: "DEEP"}, {Ticker: "CALM"}},
	}
	tech := &fakeTech{readings: map[string]models.TechnicalReading{
		"DEEP": oversoldReading("DEEP"),
		"CALM": calmReading("CALM"),
	}}

	res, err := scannerForTest(store, tech, repository.NewMemoryAlertStore(), &capturePublisher{}).Scan(context.Background(), "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Scanned != 3 {
		t.Fatalf("scanned = %d, want 3", res.Scanned)
	}
	if _, ok := res.Skipped["BAD"]; !ok {
		t.Fatalf("skipped = %v, want BAD recorded", res.Skipped)
	}
	if len(res.Alerts) != 1 || res.Alerts[0].Ticker != "DEEP" {
		t.Fatalf("alerts = %v, want only DEEP", res.Alerts)
	}
	if res.Partial {
		t.Fatal("a per-instrument failure must not mark the scan partial")
	}
}

func TestScanAlertsSortedByTicker(t *testing.T) {
	store := &fakeStore{
		closes: map[string][]float64{
			"ZZZ": {100, 99}, "AAA": {100, 99}, "MMM": {100, 99},
		},
		universe: []models.Instrument{{Ticker: "ZZZ"}, {Ticker: "AAA"}, {Ticker: "MMM"}},
	}
	tech := &fakeTech{readings: map[string]models.TechnicalReading{
		"ZZZ": oversoldReading("ZZZ"),
		"AAA": oversoldReading("AAA"),
		"MMM": oversoldReading("MMM"),
	}}

	res, err := scannerForTest(store, tech, repository.NewMemoryAlertStore(), &capturePublisher{}).Scan(context.Background(), "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(res.Alerts) != 3 {
		t.Fatalf("alerts = %d, want 3", len(res.Alerts))
	}
	for i, want := range []string{"AAA", "MMM", "ZZZ"} {
		if res.Alerts[i].Ticker != want {
			t.Fatalf("alerts[%d] = %s, want %s", i, res.Alerts[i].Ticker, want)
		}
	}
}

func TestScanEmptyUniverseIsAnError(t *testing.T) {
	store := &fakeStore{universe: nil}
	_, err := scannerForTest(store, &fakeTech{}, repository.NewMemoryAlertStore(), &capturePublisher{}).Scan(context.Background(), "")
	if !errors.Is(err, ErrEmptyUniverse) {
		t.Fatalf("err = %v, want ErrEmptyUniverse", err)
	}
}

func TestScanCancelledContextMarksPartial(t *testing.T) {
	universe := make([]models.Instrument, 200)
	closes := make(map[string][]float64, 200)
	for i := range universe {
		ticker := "T" + string(rune('A'+i%26)) + string(rune('A'+(i/26)%26)) + string(rune('A'+i%10))
		universe[i] = models.Instrument{Ticker: ticker}
		closes[ticker] = []float64{100, 100}
	}
	store := &fakeStore{closes: closes, universe: universe}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := scannerForTest(store, &fakeTech{}, repository.NewMemoryAlertStore(), &capturePublisher{}).Scan(ctx, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !res.Partial {
		t.Fatal("cancelled scan must report partial")
	}
	if res.Scanned >= len(universe) {
		t.Fatalf("scanned = %d, want fewer than %d after cancellation", res.Scanned, len(universe))
	}
}

func TestScanIdempotentContentKey(t *testing.T) {
	store := &fakeStore{
		closes:   map[string][]float64{"DEEP": {100, 99}},
		universe: []models.Instrument{{Ticker: "DEEP"}},
	}
	tech := &fakeTech{readings: map[string]models.TechnicalReading{"DEEP": oversoldReading("DEEP")}}
	s := scannerForTest(store, tech, repository.NewMemoryAlertStore(), &capturePublisher{})

	r1, err := s.Scan(context.Background(), "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	r2, err := s.Scan(context.Background(), "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	day := time.Now().UTC()
	k1 := r1.Alerts[0].ContentKey(day)
	k2 := r2.Alerts[0].ContentKey(day)
	if k1 != k2 {
		t.Fatalf("content keys differ across identical scans: %s vs %s", k1, k2)
	}
}
