package valuation

import (
	"QuantDesk/internal/domain/models"
)

// latestFCF returns operating cash flow minus capital expenditure for the
// most recent period that reports both.
func latestFCF(hist models.StatementHistory) (float64, bool) {
	for i := len(hist.Periods) - 1; i >= 0; i-- {
		p := hist.Periods[i]
		if p.OperatingCashFlow != nil && p.CapitalExpenditure != nil {
			return *p.OperatingCashFlow - *p.CapitalExpenditure, true
		}
	}
	return 0, false
}

// ownerEarnings replaces full capex with maintenance-only capex, proxied by
// the smaller of capex and depreciation: growth capex is discretionary and
// should not reduce the owner's take.
func ownerEarnings(hist models.StatementHistory) (float64, bool) {
	for i := len(hist.Periods) - 1; i >= 0; i-- {
		p := hist.Periods[i]
		if p.OperatingCashFlow == nil || p.CapitalExpenditure == nil {
			continue
		}
		maint := *p.CapitalExpenditure
		if p.Depreciation != nil && *p.Depreciation < maint {
			maint = *p.Depreciation
		}
		return *p.OperatingCashFlow - maint, true
	}
	return 0, false
}

// normalizedEBIT averages the EBIT margin across reported periods and
// applies it to the latest revenue, smoothing one-off years.
func normalizedEBIT(hist models.StatementHistory) (float64, bool) {
	sum, n := 0.0, 0
	var latestRev *float64
	for i := range hist.Periods {
		p := hist.Periods[i]
		if p.Revenue == nil || *p.Revenue <= 0 {
			continue
		}
		latestRev = p.Revenue
		if p.EBIT != nil {
			sum += *p.EBIT / *p.Revenue
			n++
		}
	}
	if n == 0 || latestRev == nil {
		return 0, false
	}
	return (sum / float64(n)) * *latestRev, true
}

func netDebt(hist models.StatementHistory) float64 {
	cur := hist.Latest()
	if cur == nil || cur.TotalDebt == nil {
		return 0
	}
	nd := *cur.TotalDebt
	if cur.Cash != nil {
		nd -= *cur.Cash
	}
	return nd
}

func latestEBITDA(hist models.StatementHistory) *float64 {
	for i := len(hist.Periods) - 1; i >= 0; i-- {
		if hist.Periods[i].EBITDA != nil {
			return hist.Periods[i].EBITDA
		}
	}
	return nil
}

func dilutedShares(hist models.StatementHistory) float64 {
	cur := hist.Latest()
	if cur == nil || cur.SharesOutstanding == nil {
		return 0
	}
	return *cur.SharesOutstanding
}

// epv computes Earnings Power Value: normalized after-tax EBIT capitalized
// at WACC with no growth, less net debt, per share.
func epv(hist models.StatementHistory, wacc, taxRate float64) models.FairValueEstimate {
	est := models.FairValueEstimate{Method: models.MethodEPV}
	ebit, ok := normalizedEBIT(hist)
	if !ok {
		est.Reason = "EPV not applicable: no EBIT history"
		return est
	}
	if ebit <= 0 {
		est.Reason = "EPV not applicable: non-positive normalized EBIT"
		return est
	}
	if wacc <= 0 {
		est.Reason = "EPV not applicable: non-positive WACC"
		return est
	}
	shares := dilutedShares(hist)
	if shares <= 0 {
		est.Reason = "EPV not applicable: non-positive share count"
		return est
	}
	ev := ebit * (1 - taxRate) / wacc
	est.FairValuePerShare = (ev - netDebt(hist)) / shares
	est.Applicable = est.FairValuePerShare > 0
	if !est.Applicable {
		est.Reason = "EPV not applicable: debt exceeds earnings power"
	}
	return est
}

// analystConsensus uses the mean price target as an independent estimate.
func analystConsensus(targets *models.AnalystTargets) models.FairValueEstimate {
	est := models.FairValueEstimate{Method: models.MethodAnalystConsensus}
	if targets == nil || targets.Count == 0 || targets.Mean <= 0 {
		est.Reason = "no analyst coverage"
		return est
	}
	est.FairValuePerShare = targets.Mean
	est.Applicable = true
	return est
}

// composite renormalizes the configured per-method weights over the
// applicable estimates and returns their weighted mean.
func composite(estimates []models.FairValueEstimate, weights map[models.ValuationMethod]float64) (float64, []models.FairValueEstimate, bool) {
	totalW := 0.0
	for i := range estimates {
		if estimates[i].Applicable {
			totalW += weights[estimates[i].Method]
		}
	}
	if totalW == 0 {
		return 0, estimates, false
	}
	fv := 0.0
	for i := range estimates {
		if !estimates[i].Applicable {
			estimates[i].Weight = 0
			continue
		}
		w := weights[estimates[i].Method] / totalW
		estimates[i].Weight = w
		fv += w * estimates[i].FairValuePerShare
	}
	return fv, estimates, true
}
