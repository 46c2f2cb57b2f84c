package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	"QuantDesk/internal/service/cache"
)

type fakeValuer struct {
	val   models.CompositeValuation
	calls int
}

func (f *fakeValuer) Value(models.Snapshot) models.CompositeValuation {
	f.calls++
	return f.val
}

type fakeQuality struct{ score models.QualityScore }

func (f *fakeQuality) Score(models.StatementHistory) models.QualityScore { return f.score }

func statementHistory() *models.StatementHistory {
	rev := 1000.0
	return &models.StatementHistory{
		Ticker: "AAPL",
		Periods: []models.StatementSnapshot{
			{Revenue: &rev},
			{Revenue: &rev},
		},
	}
}

func evaluatorForTest(store drepo.MarketStore, c cache.BytesCache) (*Evaluator, *fakeValuer) {
	tech := &fakeTech{readings: map[string]models.TechnicalReading{
		"AAPL": calmReading("AAPL"),
	}}
	valuer := &fakeValuer{val: models.CompositeValuation{Applicable: true, FairValuePerShare: 120, UpsidePct: 20}}
	quality := &fakeQuality{score: models.QualityScore{Overall: 75}}
	ev := NewEvaluator(store, tech, valuer, quality, DefaultScoringParams(), c, time.Hour, 0.04, nopMetrics{}, testLogger())
	return ev, valuer
}

func TestEvaluateFullPipeline(t *testing.T) {
	store := &fakeStore{
		closes:  map[string][]float64{"AAPL": {98, 99, 100}},
		stmts:   map[string]*models.StatementHistory{"AAPL": statementHistory()},
		targets: map[string]*models.AnalystTargets{"AAPL": {Mean: 120, Count: 12}},
		quotes:  map[string]float64{"AAPL": 100},
		betas:   map[string]float64{"AAPL": 1.1},
	}
	ev, _ := evaluatorForTest(store, nil)

	res, err := ev.Evaluate(context.Background(), "aapl", "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Ticker != "AAPL" {
		t.Fatalf("ticker = %s, want normalized AAPL", res.Ticker)
	}
	if res.Technical == nil || res.Valuation == nil || res.Quality == nil {
		t.Fatal("all three engine outputs expected")
	}
	if res.Composite == nil {
		t.Fatal("composite result missing")
	}
	if len(res.Degraded) != 0 {
		t.Fatalf("degraded = %v, want none", res.Degraded)
	}
	// Every dimension except insider should be available.
	available := 0
	for _, d := range res.Composite.Dimensions {
		if d.Available {
			available++
		}
	}
	if available != 5 {
		t.Fatalf("available dimensions = %d, want 5", available)
	}
}

func TestEvaluateInvalidTicker(t *testing.T) {
	ev, _ := evaluatorForTest(&fakeStore{}, nil)
	for _, raw := range []string{"", "   ", "TOOLONGTICKER1", "BAD TICKER", "aa$"} {
		if _, err := ev.Evaluate(context.Background(), raw, ""); !errors.Is(err, ErrInvalidTicker) {
			t.Fatalf("ticker %q: err = %v, want ErrInvalidTicker", raw, err)
		}
	}
}

func TestEvaluateMissingPricesFails(t *testing.T) {
	store := &fakeStore{closes: map[string][]float64{}}
	ev, _ := evaluatorForTest(store, nil)
	_, err := ev.Evaluate(context.Background(), "AAPL", "")
	if !errors.Is(err, drepo.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestEvaluateDegradesOnMissingStatements(t *testing.T) {
	store := &fakeStore{
		closes: map[string][]float64{"AAPL": {98, 99, 100}},
		quotes: map[string]float64{"AAPL": 100},
	}
	ev, _ := evaluatorForTest(store, nil)

	res, err := ev.Evaluate(context.Background(), "AAPL", "1y")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if _, ok := res.Degraded["statements"]; !ok {
		t.Fatalf("degraded = %v, want statements recorded", res.Degraded)
	}
	if res.Quality != nil {
		t.Fatal("quality must be absent without statements")
	}
	if res.Technical == nil {
		t.Fatal("technical must still run on prices alone")
	}
	if res.Composite == nil {
		t.Fatal("composite must still be produced, over fewer dimensions")
	}
	for _, d := range res.Composite.Dimensions {
		if d.Dimension == models.DimFundamental && d.Available {
			t.Fatal("fundamental dimension must be unavailable without statements")
		}
	}
}

func TestEvaluateCachesPerDay(t *testing.T) {
	store := &fakeStore{
		closes: map[string][]float64{"AAPL": {98, 99, 100}},
		stmts:  map[string]*models.StatementHistory{"AAPL": statementHistory()},
		quotes: map[string]float64{"AAPL": 100},
	}
	ev, valuer := evaluatorForTest(store, cache.NewTTLCache())

	first, err := ev.Evaluate(context.Background(), "AAPL", "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	second, err := ev.Evaluate(context.Background(), "AAPL", "")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if valuer.calls != 1 {
		t.Fatalf("valuer calls = %d, want 1 (second hit served from cache)", valuer.calls)
	}
	if first.Composite.CompositeScore != second.Composite.CompositeScore {
		t.Fatal("cached evaluation must round-trip the composite score")
	}
}

func TestEvaluateCacheIsWindowScoped(t *testing.T) {
	store := &fakeStore{
		closes: map[string][]float64{"AAPL": {98, 99, 100}},
		stmts:  map[string]*models.StatementHistory{"AAPL": statementHistory()},
		quotes: map[string]float64{"AAPL": 100},
	}
	ev, valuer := evaluatorForTest(store, cache.NewTTLCache())

	if _, err := ev.Evaluate(context.Background(), "AAPL", "2y"); err != nil {
		t.Fatalf("evaluate 2y: %v", err)
	}
	if _, err := ev.Evaluate(context.Background(), "AAPL", "1mo"); err != nil {
		t.Fatalf("evaluate 1mo: %v", err)
	}
	if valuer.calls != 2 {
		t.Fatalf("valuer calls = %d, want 2 (a 1mo request must not reuse the 2y entry)", valuer.calls)
	}
	if _, err := ev.Evaluate(context.Background(), "AAPL", "1mo"); err != nil {
		t.Fatalf("evaluate 1mo again: %v", err)
	}
	if valuer.calls != 2 {
		t.Fatalf("valuer calls = %d, want 2 (repeat window served from cache)", valuer.calls)
	}
}

func TestNormalizeTicker(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"aapl", "AAPL", true},
		{" BRK.B ", "BRK.B", true},
		{"RDS-A", "RDS-A", true},
		{"", "", false},
		{"lower case", "", false},
	}
	for _, c := range cases {
		got, err := NormalizeTicker(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Fatalf("NormalizeTicker(%q) = %q, %v; want %q", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Fatalf("NormalizeTicker(%q) succeeded, want error", c.in)
		}
	}
}
