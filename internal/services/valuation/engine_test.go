package valuation

import (
	"math"
	"testing"
	"time"

	"QuantDesk/internal/domain/models"
)

func f(v float64) *float64 { return &v }

func statementYear(year int, scale float64) models.StatementSnapshot {
	return models.StatementSnapshot{
		PeriodEnd:          time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
		Revenue:            f(1000 * scale),
		NetIncome:          f(120 * scale),
		OperatingCashFlow:  f(150 * scale),
		CapitalExpenditure: f(40 * scale),
		Depreciation:       f(30 * scale),
		EBIT:               f(160 * scale),
		EBITDA:             f(190 * scale),
		TotalDebt:          f(300),
		Cash:               f(150),
		Equity:             f(600 * scale),
		TotalAssets:        f(1200 * scale),
		SharesOutstanding:  f(100),
	}
}

func snapshot() models.Snapshot {
	hist := models.StatementHistory{
		Ticker: "TEST",
		Periods: []models.StatementSnapshot{
			statementYear(2021, 1.00),
			statementYear(2022, 1.08),
			statementYear(2023, 1.17),
			statementYear(2024, 1.26),
		},
	}
	return models.Snapshot{
		Ticker:     "TEST",
		AsOf:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Statements: &hist,
		Targets:    &models.AnalystTargets{Low: 18, Mean: 25, Median: 24, High: 32, Count: 12},
		Price:      20,
		Beta:       1.1,
		RiskFree:   0.04,
	}
}

func TestEngineValueAllMethods(t *testing.T) {
	cv := NewEngine(DefaultParams()).Value(snapshot())
	if !cv.Applicable {
		t.Fatalf("expected applicable valuation: %s", cv.Reason)
	}
	if len(cv.Estimates) != 4 {
		t.Fatalf("expected 4 method estimates, got %d", len(cv.Estimates))
	}
	weightSum := 0.0
	for _, est := range cv.Estimates {
		if !est.Applicable {
			t.Fatalf("method %s inapplicable on full synthetic data: %s", est.Method, est.Reason)
		}
		weightSum += est.Weight
	}
	if math.Abs(weightSum-1.0) > 1e-9 {
		t.Fatalf("weights over available methods must sum to 1, got %v", weightSum)
	}
	if cv.Sensitivity == nil || cv.Reverse == nil || cv.Scenarios == nil {
		t.Fatalf("expected sensitivity, reverse DCF, and scenarios on the primary case")
	}
}

func TestEngineValueDeterministic(t *testing.T) {
	e := NewEngine(DefaultParams())
	a := e.Value(snapshot())
	b := e.Value(snapshot())
	if a.FairValuePerShare != b.FairValuePerShare {
		t.Fatalf("identical snapshots must value identically: %v vs %v", a.FairValuePerShare, b.FairValuePerShare)
	}
}

func TestEngineRenormalizesWithoutAnalysts(t *testing.T) {
	snap := snapshot()
	snap.Targets = nil
	cv := NewEngine(DefaultParams()).Value(snap)
	if !cv.Applicable {
		t.Fatalf("expected applicable without analyst coverage: %s", cv.Reason)
	}
	weightSum := 0.0
	for _, est := range cv.Estimates {
		if est.Method == models.MethodAnalystConsensus {
			if est.Applicable || est.Weight != 0 {
				t.Fatalf("consensus must be excluded without coverage")
			}
			continue
		}
		weightSum += est.Weight
	}
	if math.Abs(weightSum-1.0) > 1e-9 {
		t.Fatalf("remaining weights must renormalize to 1, got %v", weightSum)
	}
}

func TestEngineNoStatements(t *testing.T) {
	snap := snapshot()
	snap.Statements = nil
	cv := NewEngine(DefaultParams()).Value(snap)
	if cv.Applicable {
		t.Fatalf("expected inapplicable without statements")
	}
	if cv.Reason == "" {
		t.Fatalf("expected a reason")
	}
}

func TestRevenueCAGR(t *testing.T) {
	hist := models.StatementHistory{Periods: []models.StatementSnapshot{
		{Revenue: f(100)},
		{Revenue: f(110)},
		{Revenue: f(121)},
	}}
	g, ok := RevenueCAGR(hist)
	if !ok {
		t.Fatalf("expected a CAGR")
	}
	if math.Abs(g-0.10) > 1e-9 {
		t.Fatalf("expected 10%% CAGR, got %v", g)
	}
}

func TestBlendedGrowthClamped(t *testing.T) {
	hist := models.StatementHistory{Periods: []models.StatementSnapshot{
		{Revenue: f(100)},
		{Revenue: f(500)}, // 400% growth
	}}
	g := BlendedGrowth(hist, nil, 0, 0.02)
	if g > maxGrowth {
		t.Fatalf("growth must be clamped to %v, got %v", maxGrowth, g)
	}
}
