package valuation

import (
	"fmt"
	"math"

	"QuantDesk/internal/domain/models"
)

// Reverse-DCF search domain and convergence settings. The domain is bounded
// explicitly; outside it the result is reported as non-converged rather than
// guessed.
const (
	reverseLo      = -0.50
	reverseHi      = 0.60
	reverseTol     = 1e-5
	reverseMaxIter = 100
)

// ReverseDCF bisects for the stage-1 growth rate that makes fair value equal
// the current price, holding WACC and terminal growth fixed. The gap between
// implied and estimated growth tells how much optimism the market is pricing
// in.
func ReverseDCF(base DCFInputs, price, estimatedGrowth float64) *models.ReverseDCF {
	res := &models.ReverseDCF{EstimatedGrowth: estimatedGrowth}
	if price <= 0 {
		res.Reason = "non-positive price"
		return res
	}
	if base.WACC <= base.TerminalGrowth {
		res.Reason = fmt.Sprintf("WACC %.4f <= terminal growth %.4f: fair value not monotone in growth", base.WACC, base.TerminalGrowth)
		return res
	}

	fv := func(g float64) (float64, bool) {
		in := base
		in.Growth = g
		in.TerminalEBITDA = nil
		out := TwoStageDCF(in)
		return out.FairValuePerShare, out.Applicable
	}

	lo, hi := reverseLo, reverseHi
	fvLo, okLo := fv(lo)
	fvHi, okHi := fv(hi)
	if !okLo || !okHi {
		res.Reason = "base DCF not applicable"
		return res
	}
	if price < fvLo || price > fvHi {
		res.Reason = fmt.Sprintf("price %.2f outside fair-value range [%.2f, %.2f] for growth in [%.0f%%, %.0f%%]",
			price, fvLo, fvHi, reverseLo*100, reverseHi*100)
		return res
	}

	for i := 0; i < reverseMaxIter; i++ {
		mid := (lo + hi) / 2
		v, ok := fv(mid)
		if !ok {
			res.Reason = "DCF became inapplicable during search"
			return res
		}
		if math.Abs(v-price) <= reverseTol*price {
			res.ImpliedGrowth = mid
			res.Gap = mid - estimatedGrowth
			res.Converged = true
			return res
		}
		if v < price {
			lo = mid
		} else {
			hi = mid
		}
	}

	// Interval collapsed without hitting the price tolerance; report the
	// midpoint but flag non-convergence.
	res.ImpliedGrowth = (lo + hi) / 2
	res.Gap = res.ImpliedGrowth - estimatedGrowth
	res.Reason = "did not converge within iteration budget"
	return res
}
