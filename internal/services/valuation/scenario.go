package valuation

import (
	"QuantDesk/internal/domain/models"
)

// Scenarios builds bear/base/bull cases by perturbing growth and WACC around
// the base inputs with the configured probabilities. The source tag is chosen
// by the caller, never inferred from the payload.
func Scenarios(base DCFInputs, price float64, p Params, source models.ScenarioSource) *models.ScenarioSet {
	cases := []struct {
		label  models.ScenarioLabel
		gDelta float64
		wDelta float64
		prob   float64
	}{
		{models.ScenarioBear, p.BearGrowthDelta, p.BearWACCDelta, p.BearProbability},
		{models.ScenarioBase, 0, 0, p.BaseProbability},
		{models.ScenarioBull, p.BullGrowthDelta, p.BullWACCDelta, p.BullProbability},
	}

	set := &models.ScenarioSet{Source: source}
	weighted := 0.0
	values := map[models.ScenarioLabel]float64{}
	for _, c := range cases {
		in := base
		in.Growth = clampGrowth(base.Growth + c.gDelta)
		in.WACC = base.WACC + c.wDelta
		out := TwoStageDCF(in)
		if !out.Applicable {
			return nil
		}
		set.Scenarios = append(set.Scenarios, models.ValuationScenario{
			Label:             c.label,
			GrowthRate:        in.Growth,
			WACC:              in.WACC,
			TerminalGrowth:    in.TerminalGrowth,
			Probability:       c.prob,
			FairValuePerShare: out.FairValuePerShare,
		})
		weighted += c.prob * out.FairValuePerShare
		values[c.label] = out.FairValuePerShare
	}
	set.WeightedFairValue = weighted

	// Risk/reward: upside to the bull case per unit of downside to the bear
	// case. Undefined when the price is at or below the bear value.
	downside := price - values[models.ScenarioBear]
	if price > 0 && downside > 0 {
		set.RiskReward = (values[models.ScenarioBull] - price) / downside
		set.RiskRewardAvailable = true
	}
	return set
}
