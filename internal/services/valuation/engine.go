package valuation

import (
	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
)

// Engine is the Valuation Engine: multi-method intrinsic value plus the
// sensitivity, reverse-DCF, and scenario analyses. Stateless; parameters are
// fixed at construction.
type Engine struct {
	params Params
}

func NewEngine(params Params) *Engine {
	if params.ProjectionYears <= 0 {
		params = DefaultParams()
	}
	return &Engine{params: params}
}

// Value computes the composite valuation for one snapshot. Individual
// methods degrade independently: an inapplicable method carries a reason and
// zero weight while the rest renormalize.
func (e *Engine) Value(snap models.Snapshot) models.CompositeValuation {
	cv := models.CompositeValuation{Ticker: snap.Ticker, CurrentPrice: snap.Price}
	if snap.Statements == nil || len(snap.Statements.Periods) == 0 {
		cv.Reason = "valuation not applicable: no financial statements"
		return cv
	}
	hist := *snap.Statements
	p := e.params

	shares := dilutedShares(hist)
	marketCap := snap.Price * shares
	coe := CostOfEquity(snap.RiskFree, snap.Beta, p.EquityRiskPremium, p.CountryPremium)
	nd := netDebt(hist)
	totalDebt := 0.0
	if cur := hist.Latest(); cur != nil && cur.TotalDebt != nil {
		totalDebt = *cur.TotalDebt
	}
	wacc := WACC(coe, p.CostOfDebt, p.TaxRate, marketCap, totalDebt, p.MinWACC)
	growth := BlendedGrowth(hist, snap.Targets, snap.Price, p.TerminalGrowth)

	cv.WACC = wacc
	cv.TerminalGrowth = p.TerminalGrowth
	cv.EstimatedGrowth = growth

	base := DCFInputs{
		NetDebt:        nd,
		DilutedShares:  shares,
		TerminalEBITDA: latestEBITDA(hist),
		Growth:         growth,
		WACC:           wacc,
		TerminalGrowth: p.TerminalGrowth,
		ExitMultiple:   p.ExitMultiple,
		Years:          p.ProjectionYears,
	}

	estimates := make([]models.FairValueEstimate, 0, 4)

	fcfEst := models.FairValueEstimate{Method: models.MethodFCFDCF}
	if fcf, ok := latestFCF(hist); ok {
		in := base
		in.BaseCashFlow = fcf
		out := TwoStageDCF(in)
		fcfEst.FairValuePerShare = out.FairValuePerShare
		fcfEst.Applicable = out.Applicable
		fcfEst.Reason = out.Reason
		if out.Applicable {
			// Sensitivity, reverse DCF, and scenarios all pivot on the
			// primary FCF DCF case.
			cv.Sensitivity = Sensitivity(in)
			cv.Reverse = ReverseDCF(in, snap.Price, growth)
			cv.Scenarios = Scenarios(in, snap.Price, p, models.SourceMechanical)
		}
	} else {
		fcfEst.Reason = "DCF not applicable: no cash flow statement data"
	}
	estimates = append(estimates, fcfEst)

	oeEst := models.FairValueEstimate{Method: models.MethodOwnerEarningsDCF}
	if oe, ok := ownerEarnings(hist); ok {
		in := base
		in.BaseCashFlow = oe
		out := TwoStageDCF(in)
		oeEst.FairValuePerShare = out.FairValuePerShare
		oeEst.Applicable = out.Applicable
		oeEst.Reason = out.Reason
	} else {
		oeEst.Reason = "owner earnings not applicable: no cash flow statement data"
	}
	estimates = append(estimates, oeEst)

	estimates = append(estimates, epv(hist, wacc, p.TaxRate))
	estimates = append(estimates, analystConsensus(snap.Targets))

	fv, estimates, ok := composite(estimates, p.MethodWeights)
	cv.Estimates = estimates
	if !ok {
		cv.Reason = "valuation not applicable: no method produced a fair value"
		return cv
	}
	cv.FairValuePerShare = fv
	cv.Applicable = true
	if snap.Price > 0 {
		cv.UpsidePct = (fv - snap.Price) / snap.Price * 100
	}
	return cv
}

var _ domsvc.Valuer = (*Engine)(nil)
