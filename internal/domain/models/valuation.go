package models

// ValuationMethod identifies one independent intrinsic-value method.
type ValuationMethod string

const (
	MethodFCFDCF           ValuationMethod = "fcf_dcf"
	MethodOwnerEarningsDCF ValuationMethod = "owner_earnings_dcf"
	MethodEPV              ValuationMethod = "epv"
	MethodAnalystConsensus ValuationMethod = "analyst_consensus"
)

// FairValueEstimate is one method's fair value with its blending weight.
// Applicable is false when the method is mathematically undefined for this
// instrument; Reason then carries a human-readable explanation and the
// estimate is excluded from the composite (weights renormalize).
type FairValueEstimate struct {
	Method            ValuationMethod
	FairValuePerShare float64
	Weight            float64
	Applicable        bool
	Reason            string
}

// CompositeValuation aggregates the weighted mean of available estimates.
type CompositeValuation struct {
	Ticker            string
	FairValuePerShare float64
	CurrentPrice      float64
	UpsidePct         float64
	Estimates         []FairValueEstimate
	WACC              float64
	TerminalGrowth    float64
	EstimatedGrowth   float64
	Applicable        bool
	Reason            string
	Sensitivity       *SensitivityMatrix
	Reverse           *ReverseDCF
	Scenarios         *ScenarioSet
}

// ScenarioLabel enumerates the three valuation scenarios.
type ScenarioLabel string

const (
	ScenarioBear ScenarioLabel = "bear"
	ScenarioBase ScenarioLabel = "base"
	ScenarioBull ScenarioLabel = "bull"
)

// ScenarioSource tells how scenario inputs were produced. The caller selects
// it explicitly; it is never inferred from payload shape.
type ScenarioSource string

const (
	SourceMechanical          ScenarioSource = "MECHANICAL"
	SourceExternallyValidated ScenarioSource = "EXTERNALLY_VALIDATED"
)

// ValuationScenario is one bear/base/bull case. Probabilities across the
// three scenarios of a set sum to 1.0 within floating tolerance.
type ValuationScenario struct {
	Label             ScenarioLabel
	GrowthRate        float64
	WACC              float64
	TerminalGrowth    float64
	Probability       float64
	FairValuePerShare float64
}

// ScenarioSet bundles the three scenarios with derived aggregates.
type ScenarioSet struct {
	Source              ScenarioSource
	Scenarios           []ValuationScenario
	WeightedFairValue   float64
	RiskReward          float64
	RiskRewardAvailable bool
}

// SensitivityMatrix holds fair values over a WACC x terminal-growth grid
// centered on the base case. Values[i][j] corresponds to WACCs[i], Growths[j];
// cells where WACC <= growth are NaN-free and simply marked unavailable via Valid.
type SensitivityMatrix struct {
	WACCs   []float64
	Growths []float64
	Values  [][]float64
	Valid   [][]bool
}

// ReverseDCF reports the growth rate the market is pricing in.
type ReverseDCF struct {
	ImpliedGrowth   float64
	EstimatedGrowth float64
	Gap             float64
	Converged       bool
	Reason          string
}
