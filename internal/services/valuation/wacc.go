package valuation

// CostOfEquity applies CAPM: risk-free + beta x equity risk premium, plus an
// optional country premium.
func CostOfEquity(riskFree, beta, equityRiskPremium, countryPremium float64) float64 {
	return riskFree + beta*equityRiskPremium + countryPremium
}

// WACC blends the cost of equity and after-tax cost of debt by capital
// structure weights. Floor prevents a degenerate discount rate when the
// inputs are noisy.
func WACC(costOfEquity, costOfDebt, taxRate, marketCap, totalDebt, floor float64) float64 {
	total := marketCap + totalDebt
	if total <= 0 {
		if costOfEquity > floor {
			return costOfEquity
		}
		return floor
	}
	eW := marketCap / total
	dW := totalDebt / total
	w := eW*costOfEquity + dW*costOfDebt*(1-taxRate)
	if w < floor {
		return floor
	}
	return w
}
