package valuation

import (
	"math"
	"testing"

	"QuantDesk/internal/domain/models"
)

func TestScenarioProbabilitiesSumToOne(t *testing.T) {
	set := Scenarios(baseInputs(), 15, DefaultParams(), models.SourceMechanical)
	if set == nil {
		t.Fatalf("expected a scenario set")
	}
	if len(set.Scenarios) != 3 {
		t.Fatalf("expected bear/base/bull, got %d", len(set.Scenarios))
	}
	sum := 0.0
	for _, s := range set.Scenarios {
		sum += s.Probability
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Fatalf("probabilities must sum to 1, got %v", sum)
	}
}

func TestScenarioWeightedValueBetweenBearAndBull(t *testing.T) {
	set := Scenarios(baseInputs(), 15, DefaultParams(), models.SourceMechanical)
	var bear, bull float64
	for _, s := range set.Scenarios {
		switch s.Label {
		case models.ScenarioBear:
			bear = s.FairValuePerShare
		case models.ScenarioBull:
			bull = s.FairValuePerShare
		}
	}
	lo, hi := math.Min(bear, bull), math.Max(bear, bull)
	if set.WeightedFairValue < lo || set.WeightedFairValue > hi {
		t.Fatalf("weighted value %v outside [%v, %v]", set.WeightedFairValue, lo, hi)
	}
}

func TestScenarioRiskRewardUndefined(t *testing.T) {
	// Price at zero: downside denominator <= 0, risk/reward unavailable.
	set := Scenarios(baseInputs(), 0, DefaultParams(), models.SourceMechanical)
	if set.RiskRewardAvailable {
		t.Fatalf("risk/reward must be unavailable when price <= bear value")
	}
}

func TestScenarioSourceTag(t *testing.T) {
	set := Scenarios(baseInputs(), 15, DefaultParams(), models.SourceExternallyValidated)
	if set.Source != models.SourceExternallyValidated {
		t.Fatalf("source must be the caller's choice, got %s", set.Source)
	}
}

func TestReverseDCFRecoversGrowth(t *testing.T) {
	in := baseInputs()
	in.TerminalEBITDA = nil
	fv := TwoStageDCF(in)
	if !fv.Applicable {
		t.Fatalf("base case must be applicable")
	}

	res := ReverseDCF(in, fv.FairValuePerShare, in.Growth)
	if !res.Converged {
		t.Fatalf("expected convergence: %s", res.Reason)
	}
	if math.Abs(res.ImpliedGrowth-in.Growth) > 1e-3 {
		t.Fatalf("implied growth %v should recover the input growth %v", res.ImpliedGrowth, in.Growth)
	}
	if math.Abs(res.Gap) > 1e-3 {
		t.Fatalf("gap should be near zero, got %v", res.Gap)
	}
}

func TestReverseDCFPriceOutOfRange(t *testing.T) {
	res := ReverseDCF(baseInputs(), 1e9, 0.10)
	if res.Converged {
		t.Fatalf("absurd price must not converge")
	}
	if res.Reason == "" {
		t.Fatalf("expected an explicit non-convergence reason")
	}
}

func TestReverseDCFDegenerateWACC(t *testing.T) {
	in := baseInputs()
	in.WACC = 0.01
	in.TerminalGrowth = 0.02
	res := ReverseDCF(in, 15, 0.10)
	if res.Converged {
		t.Fatalf("WACC <= terminal growth must be rejected")
	}
}
