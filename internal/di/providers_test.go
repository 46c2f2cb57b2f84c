package di

import (
	"testing"

	"QuantDesk/internal/domain/models"
	"QuantDesk/pkg/config"
)

func TestProvideValuerAppliesConfigOverrides(t *testing.T) {
	cfg := &config.Config{}
	cfg.Engine.Valuation.ProjectionYears = 7
	cfg.Engine.Valuation.EquityRiskPremium = 0.06
	cfg.Engine.Valuation.TerminalGrowth = 0.02

	if v := ProvideValuer(cfg); v == nil {
		t.Fatal("expected a valuation engine")
	}

	// Zero config falls through to defaults without panicking.
	if v := ProvideValuer(&config.Config{}); v == nil {
		t.Fatal("expected a default-parameter engine")
	}
}

func TestScoringParamsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Engine.Scoring.Fundamental = 0.40
	cfg.Engine.Scoring.Valuation = 0.30
	cfg.Engine.Scoring.Technical = 0.10
	cfg.Engine.Scoring.Risk = 0.10
	cfg.Engine.Scoring.Sentiment = 0.10
	cfg.Engine.Scoring.StrongBuy = 85

	p := scoringParamsFromConfig(cfg)
	if got := p.Weights[models.DimFundamental]; got != 0.40 {
		t.Fatalf("fundamental weight = %v, want 0.40", got)
	}
	if p.StrongBuyMin != 85 {
		t.Fatalf("strong buy min = %v, want 85", p.StrongBuyMin)
	}
	if p.BuyMin == 0 || p.HoldMin == 0 {
		t.Fatal("unset thresholds must keep their defaults")
	}
}

func TestScoringParamsFromConfigDefaults(t *testing.T) {
	p := scoringParamsFromConfig(&config.Config{})
	var sum float64
	for _, v := range p.Weights {
		sum += v
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("default weights sum = %v, want 1", sum)
	}
}
