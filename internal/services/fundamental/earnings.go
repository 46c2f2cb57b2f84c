package fundamental

import (
	"fmt"

	"QuantDesk/internal/domain/models"
)

// EarningsQuality checks whether reported earnings are cash-backed.
func EarningsQuality(hist models.StatementHistory) models.EarningsQuality {
	cur := hist.Latest()
	if cur == nil || cur.NetIncome == nil || cur.OperatingCashFlow == nil {
		return models.EarningsQuality{}
	}

	res := models.EarningsQuality{Available: true}

	if cur.TotalAssets != nil && *cur.TotalAssets != 0 {
		res.AccrualsRatio = (*cur.NetIncome - *cur.OperatingCashFlow) / *cur.TotalAssets
		if res.AccrualsRatio > 0.05 {
			res.RedFlags = append(res.RedFlags,
				fmt.Sprintf("accruals ratio %.3f exceeds 0.05: earnings running ahead of cash", res.AccrualsRatio))
		}
	}

	if cur.CapitalExpenditure != nil && *cur.NetIncome != 0 {
		fcf := *cur.OperatingCashFlow - *cur.CapitalExpenditure
		res.FCFToNetIncome = fcf / *cur.NetIncome
		if res.FCFToNetIncome < 0.5 && *cur.NetIncome > 0 {
			res.RedFlags = append(res.RedFlags,
				fmt.Sprintf("FCF/NI %.2f below 0.5: earnings not cash-backed", res.FCFToNetIncome))
		}
	}

	// Persistent shortfall of cash flow versus earnings across recent periods.
	trailing := 0
	for i := len(hist.Periods) - 1; i >= 0 && trailing < 3; i-- {
		p := hist.Periods[i]
		if p.NetIncome == nil || p.OperatingCashFlow == nil || *p.OperatingCashFlow >= *p.NetIncome {
			break
		}
		trailing++
	}
	if trailing >= 3 {
		res.RedFlags = append(res.RedFlags,
			"operating cash flow below net income for 3 consecutive periods")
	}

	return res
}
