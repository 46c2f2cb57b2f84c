package valuation

import "QuantDesk/internal/domain/models"

// Params are the valuation assumptions, sourced from configuration so they
// can be tuned per strategy without code changes.
type Params struct {
	ProjectionYears   int
	EquityRiskPremium float64
	CountryPremium    float64
	CostOfDebt        float64
	TaxRate           float64
	TerminalGrowth    float64
	ExitMultiple      float64
	MinWACC           float64
	MethodWeights     map[models.ValuationMethod]float64
	// Scenario perturbations around the base case.
	BearGrowthDelta   float64
	BullGrowthDelta   float64
	BearWACCDelta     float64
	BullWACCDelta     float64
	BearProbability   float64
	BaseProbability   float64
	BullProbability   float64
}

// DefaultParams returns the stock assumption set.
func DefaultParams() Params {
	return Params{
		ProjectionYears:   5,
		EquityRiskPremium: 0.055,
		CountryPremium:    0,
		CostOfDebt:        0.05,
		TaxRate:           0.21,
		TerminalGrowth:    0.025,
		ExitMultiple:      10,
		MinWACC:           0.05,
		MethodWeights: map[models.ValuationMethod]float64{
			models.MethodFCFDCF:           0.40,
			models.MethodOwnerEarningsDCF: 0.25,
			models.MethodEPV:              0.20,
			models.MethodAnalystConsensus: 0.15,
		},
		BearGrowthDelta: -0.04,
		BullGrowthDelta: 0.03,
		BearWACCDelta:   0.01,
		BullWACCDelta:   -0.005,
		BearProbability: 0.25,
		BaseProbability: 0.50,
		BullProbability: 0.25,
	}
}
