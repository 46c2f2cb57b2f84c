package valuation

import (
	"fmt"
	"math"
)

// DCFInputs carries everything one two-stage DCF run needs.
type DCFInputs struct {
	BaseCashFlow   float64  // most recent annual free cash flow
	NetDebt        float64  // total debt minus cash
	DilutedShares  float64
	TerminalEBITDA *float64 // latest EBITDA for the exit-multiple terminal; nil to skip
	Growth         float64  // stage-1 starting growth
	WACC           float64
	TerminalGrowth float64
	ExitMultiple   float64
	Years          int
}

// DCFOutcome is one DCF run. Applicable is false for mathematically
// undefined cases; Reason then explains why, and no NaN ever escapes.
type DCFOutcome struct {
	FairValuePerShare float64
	StagePV           float64
	TerminalPV        float64
	Applicable        bool
	Reason            string
}

func inapplicable(format string, a ...interface{}) DCFOutcome {
	return DCFOutcome{Reason: fmt.Sprintf(format, a...)}
}

// TwoStageDCF projects stage-1 cash flows with growth fading linearly toward
// terminal growth, discounts them at WACC, and adds a terminal value computed
// two ways (Gordon Growth and exit multiple) averaged when both are
// available.
func TwoStageDCF(in DCFInputs) DCFOutcome {
	if in.DilutedShares <= 0 {
		return inapplicable("DCF not applicable: non-positive share count")
	}
	if in.BaseCashFlow <= 0 {
		return inapplicable("DCF not applicable: non-positive base cash flow %.1f", in.BaseCashFlow)
	}
	if in.Years <= 0 {
		return inapplicable("DCF not applicable: no projection years")
	}
	if in.WACC <= 0 {
		return inapplicable("DCF not applicable: non-positive WACC %.4f", in.WACC)
	}

	gordonOK := in.WACC > in.TerminalGrowth
	exitOK := in.TerminalEBITDA != nil && *in.TerminalEBITDA > 0 && in.ExitMultiple > 0
	if !gordonOK && !exitOK {
		return inapplicable("DCF not applicable: WACC %.4f <= terminal growth %.4f and no exit multiple", in.WACC, in.TerminalGrowth)
	}

	// Stage 1: growth fades linearly from the starting rate to terminal
	// growth over the projection years.
	cf := in.BaseCashFlow
	stagePV := 0.0
	for y := 1; y <= in.Years; y++ {
		fade := float64(y-1) / float64(in.Years)
		g := in.Growth + (in.TerminalGrowth-in.Growth)*fade
		cf *= 1 + g
		stagePV += cf / math.Pow(1+in.WACC, float64(y))
	}

	discountN := math.Pow(1+in.WACC, float64(in.Years))

	var terminals []float64
	if gordonOK {
		gordon := cf * (1 + in.TerminalGrowth) / (in.WACC - in.TerminalGrowth)
		if gordon > 0 {
			terminals = append(terminals, gordon/discountN)
		}
	}
	if exitOK {
		// Project terminal EBITDA at the same fade-adjusted stage growth.
		ebitda := *in.TerminalEBITDA
		for y := 1; y <= in.Years; y++ {
			fade := float64(y-1) / float64(in.Years)
			g := in.Growth + (in.TerminalGrowth-in.Growth)*fade
			ebitda *= 1 + g
		}
		terminals = append(terminals, ebitda*in.ExitMultiple/discountN)
	}
	if len(terminals) == 0 {
		return inapplicable("DCF not applicable: negative terminal value")
	}

	terminalPV := 0.0
	for _, t := range terminals {
		terminalPV += t
	}
	terminalPV /= float64(len(terminals))

	equity := stagePV + terminalPV - in.NetDebt
	fv := equity / in.DilutedShares
	if math.IsNaN(fv) || math.IsInf(fv, 0) {
		return inapplicable("DCF not applicable: undefined fair value")
	}

	return DCFOutcome{
		FairValuePerShare: fv,
		StagePV:           stagePV,
		TerminalPV:        terminalPV,
		Applicable:        true,
	}
}
