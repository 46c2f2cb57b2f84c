package fundamental

import (
	"fmt"

	"QuantDesk/internal/domain/models"
)

// CapitalAllocation scores how management deploys capital: reinvestment
// (capex vs depreciation), R&D intensity, buybacks, and the net debt trend.
// Each dimension contributes up to 2.5 points; dimensions with missing
// inputs shrink the maximum instead of scoring zero.
func CapitalAllocation(hist models.StatementHistory) models.CapitalAllocation {
	res := models.CapitalAllocation{}
	cur := hist.Latest()
	prev := hist.Prior()
	if cur == nil {
		return res
	}

	const dimMax = 2.5

	// Reinvestment: capex above depreciation signals net investment.
	if ratio, ok := fRatio(cur.CapitalExpenditure, cur.Depreciation); ok {
		res.CapexToDepreciation = &ratio
		res.MaxScore += dimMax
		switch {
		case ratio > 1.5:
			res.Score += dimMax
		case ratio > 1.0:
			res.Score += 1.5
			res.Notes = append(res.Notes, "capex modestly above depreciation")
		case ratio > 0.7:
			res.Score += 1.0
		default:
			res.Notes = append(res.Notes, fmt.Sprintf("capex/depreciation %.2f: harvesting, not investing", ratio))
		}
	}

	// R&D intensity relative to revenue.
	if intensity, ok := fRatio(cur.RnD, cur.Revenue); ok {
		res.RnDIntensity = &intensity
		res.MaxScore += dimMax
		switch {
		case intensity > 0.10:
			res.Score += dimMax
		case intensity > 0.03:
			res.Score += 1.5
		default:
			res.Score += 0.5
		}
	}

	// Buyback yield: share count shrinking year over year.
	if prev != nil && cur.SharesOutstanding != nil && prev.SharesOutstanding != nil && *prev.SharesOutstanding > 0 {
		yield := (*prev.SharesOutstanding - *cur.SharesOutstanding) / *prev.SharesOutstanding * 100
		res.BuybackYieldPct = &yield
		res.MaxScore += dimMax
		switch {
		case yield > 2:
			res.Score += dimMax
		case yield > 0:
			res.Score += 1.5
		case yield < -2:
			res.Notes = append(res.Notes, fmt.Sprintf("share count grew %.1f%%: dilution", -yield))
		default:
			res.Score += 0.5
		}
	}

	// Net debt trend.
	if prev != nil && cur.TotalDebt != nil && cur.Cash != nil && prev.TotalDebt != nil && prev.Cash != nil {
		curNet := *cur.TotalDebt - *cur.Cash
		prevNet := *prev.TotalDebt - *prev.Cash
		trend := curNet - prevNet
		res.NetDebtTrend = &trend
		res.MaxScore += dimMax
		if trend < 0 {
			res.Score += dimMax
		} else if curNet <= 0 {
			// net cash even while debt grew
			res.Score += 1.5
		} else {
			res.Notes = append(res.Notes, "net debt increasing")
		}
	}

	return res
}
