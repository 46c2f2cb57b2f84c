package fundamental

import (
	"QuantDesk/internal/domain/models"
)

// DuPont decomposes ROE of the latest period into the 3-way product
// (net margin x asset turnover x equity multiplier) and, when pre-tax income
// and EBIT are reported, the 5-way form splitting net margin into tax burden,
// interest burden, and operating margin. Both products reproduce ROE exactly
// by construction.
func DuPont(hist models.StatementHistory) models.DuPontResult {
	cur := hist.Latest()
	if cur == nil {
		return models.DuPontResult{Reason: "no statement periods"}
	}
	if cur.NetIncome == nil || cur.Revenue == nil || cur.TotalAssets == nil || cur.Equity == nil {
		return models.DuPontResult{Reason: "missing net income, revenue, assets, or equity"}
	}
	if *cur.Revenue == 0 || *cur.TotalAssets == 0 || *cur.Equity == 0 {
		return models.DuPontResult{Reason: "zero revenue, assets, or equity"}
	}

	res := models.DuPontResult{
		NetMargin:        *cur.NetIncome / *cur.Revenue,
		AssetTurnover:    *cur.Revenue / *cur.TotalAssets,
		EquityMultiplier: *cur.TotalAssets / *cur.Equity,
		ROE:              *cur.NetIncome / *cur.Equity,
		Available:        true,
	}

	if cur.PretaxIncome != nil && cur.EBIT != nil && *cur.PretaxIncome != 0 && *cur.EBIT != 0 {
		res.TaxBurden = *cur.NetIncome / *cur.PretaxIncome
		res.InterestBurden = *cur.PretaxIncome / *cur.EBIT
		res.OperatingMargin = *cur.EBIT / *cur.Revenue
	}

	return res
}
