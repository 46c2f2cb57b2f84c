package fundamental

import (
	"QuantDesk/internal/domain/models"
)

const daysPerYear = 365.0

// CashCycle computes DSO + DIO - DPO from the standard turnover-day formulas
// on the latest period. Negative CCC is favorable: the business collects cash
// before it pays suppliers.
func CashCycle(hist models.StatementHistory) models.CashConversion {
	cur := hist.Latest()
	if cur == nil {
		return models.CashConversion{}
	}

	dso, dsoOK := fRatio(cur.Receivables, cur.Revenue)
	dio, dioOK := fRatio(cur.Inventory, cur.CostOfRevenue)
	dpo, dpoOK := fRatio(cur.Payables, cur.CostOfRevenue)
	if !dsoOK || !dioOK || !dpoOK {
		return models.CashConversion{}
	}

	res := models.CashConversion{
		DSO:       dso * daysPerYear,
		DIO:       dio * daysPerYear,
		DPO:       dpo * daysPerYear,
		Available: true,
	}
	res.CCC = res.DSO + res.DIO - res.DPO
	return res
}
