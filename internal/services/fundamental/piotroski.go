package fundamental

import (
	"QuantDesk/internal/domain/models"
)

// fRatio is a helper for ratio checks tolerant of missing fields.
// ok is false when either operand is missing or the denominator is zero.
func fRatio(num, den *float64) (float64, bool) {
	if num == nil || den == nil || *den == 0 {
		return 0, false
	}
	return *num / *den, true
}

// Piotroski runs the 9-point F-Score checklist against the latest vs prior
// period. A check whose inputs are missing is excluded from both the score
// and its maximum rather than failing the computation.
func Piotroski(hist models.StatementHistory) models.PiotroskiResult {
	res := models.PiotroskiResult{Signal: models.PiotroskiWeak}
	cur := hist.Latest()
	prev := hist.Prior()
	if cur == nil || prev == nil {
		return res
	}

	add := func(name string, passed, evaluable bool) {
		res.Checks = append(res.Checks, models.PiotroskiCheck{Name: name, Passed: passed && evaluable, Evaluable: evaluable})
		if evaluable {
			res.MaxScore++
			if passed {
				res.Score++
			}
		}
	}

	// Profitability
	roa, roaOK := fRatio(cur.NetIncome, cur.TotalAssets)
	add("positive_roa", roa > 0, roaOK)

	add("positive_ocf", cur.OperatingCashFlow != nil && *cur.OperatingCashFlow > 0, cur.OperatingCashFlow != nil)

	prevROA, prevROAOK := fRatio(prev.NetIncome, prev.TotalAssets)
	add("improving_roa", roa > prevROA, roaOK && prevROAOK)

	add("cash_exceeds_earnings",
		cur.OperatingCashFlow != nil && cur.NetIncome != nil && *cur.OperatingCashFlow > *cur.NetIncome,
		cur.OperatingCashFlow != nil && cur.NetIncome != nil)

	// Leverage and liquidity
	lev, levOK := fRatio(cur.TotalDebt, cur.TotalAssets)
	prevLev, prevLevOK := fRatio(prev.TotalDebt, prev.TotalAssets)
	add("decreasing_leverage", lev < prevLev, levOK && prevLevOK)

	curRatio, curOK := fRatio(cur.CurrentAssets, cur.CurrentLiabilities)
	prevRatio, prevOK := fRatio(prev.CurrentAssets, prev.CurrentLiabilities)
	add("improving_liquidity", curRatio > prevRatio, curOK && prevOK)

	add("no_dilution",
		cur.SharesOutstanding != nil && prev.SharesOutstanding != nil && *cur.SharesOutstanding <= *prev.SharesOutstanding,
		cur.SharesOutstanding != nil && prev.SharesOutstanding != nil)

	// Efficiency
	add("improving_gross_margin",
		cur.GrossMargin != nil && prev.GrossMargin != nil && *cur.GrossMargin > *prev.GrossMargin,
		cur.GrossMargin != nil && prev.GrossMargin != nil)

	turn, turnOK := fRatio(cur.Revenue, cur.TotalAssets)
	prevTurn, prevTurnOK := fRatio(prev.Revenue, prev.TotalAssets)
	add("improving_asset_turnover", turn > prevTurn, turnOK && prevTurnOK)

	res.Signal = piotroskiSignal(res.Score, res.MaxScore)
	return res
}

// piotroskiSignal buckets the score. When some checks were not evaluable the
// score is rescaled to the 9-point range before bucketing.
func piotroskiSignal(score, max int) models.PiotroskiSignal {
	if max == 0 {
		return models.PiotroskiWeak
	}
	scaled := float64(score) * 9 / float64(max)
	switch {
	case scaled >= 7:
		return models.PiotroskiStrong
	case scaled >= 4:
		return models.PiotroskiModerate
	default:
		return models.PiotroskiWeak
	}
}
