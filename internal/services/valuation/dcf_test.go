package valuation

import (
	"math"
	"strings"
	"testing"
)

func baseInputs() DCFInputs {
	return DCFInputs{
		BaseCashFlow:   100,
		NetDebt:        200,
		DilutedShares:  100,
		Growth:         0.10,
		WACC:           0.08,
		TerminalGrowth: 0.02,
		ExitMultiple:   10,
		Years:          5,
	}
}

func TestTwoStageDCFDeterministic(t *testing.T) {
	// WACC 8%, terminal growth 2%, FCF 100 growing 10%/yr fading to 2%.
	a := TwoStageDCF(baseInputs())
	b := TwoStageDCF(baseInputs())
	if !a.Applicable || !b.Applicable {
		t.Fatalf("expected applicable: %s %s", a.Reason, b.Reason)
	}
	if a.FairValuePerShare != b.FairValuePerShare || a.StagePV != b.StagePV || a.TerminalPV != b.TerminalPV {
		t.Fatalf("identical inputs must produce bit-identical output")
	}
	if a.FairValuePerShare <= 0 {
		t.Fatalf("expected positive fair value, got %v", a.FairValuePerShare)
	}
}

func TestTwoStageDCFNegativeBase(t *testing.T) {
	in := baseInputs()
	in.BaseCashFlow = -50
	out := TwoStageDCF(in)
	if out.Applicable {
		t.Fatalf("negative base cash flow must be inapplicable")
	}
	if !strings.Contains(out.Reason, "not applicable") {
		t.Fatalf("expected a readable reason, got %q", out.Reason)
	}
}

func TestTwoStageDCFWACCBelowTerminalGrowth(t *testing.T) {
	in := baseInputs()
	in.WACC = 0.02
	in.TerminalGrowth = 0.03
	in.TerminalEBITDA = nil
	out := TwoStageDCF(in)
	if out.Applicable {
		t.Fatalf("WACC <= terminal growth without exit multiple must be inapplicable")
	}
	if math.IsNaN(out.FairValuePerShare) {
		t.Fatalf("no NaN may escape")
	}
}

func TestTwoStageDCFExitMultipleFallback(t *testing.T) {
	ebitda := 150.0
	in := baseInputs()
	in.WACC = 0.02
	in.TerminalGrowth = 0.03
	in.TerminalEBITDA = &ebitda
	out := TwoStageDCF(in)
	if !out.Applicable {
		t.Fatalf("exit multiple should rescue an undefined Gordon terminal: %s", out.Reason)
	}
}

func TestTwoStageDCFTerminalAveraging(t *testing.T) {
	gordonOnly := TwoStageDCF(baseInputs())

	ebitda := 150.0
	in := baseInputs()
	in.TerminalEBITDA = &ebitda
	both := TwoStageDCF(in)
	if !gordonOnly.Applicable || !both.Applicable {
		t.Fatalf("both runs should be applicable")
	}
	if gordonOnly.TerminalPV == both.TerminalPV {
		t.Fatalf("averaging in the exit multiple should move the terminal value")
	}
	if gordonOnly.StagePV != both.StagePV {
		t.Fatalf("stage PV must not depend on the terminal method")
	}
}

func TestWACCBlend(t *testing.T) {
	coe := CostOfEquity(0.04, 1.2, 0.055, 0)
	want := 0.04 + 1.2*0.055
	if math.Abs(coe-want) > 1e-12 {
		t.Fatalf("CAPM cost of equity: want %v got %v", want, coe)
	}
	w := WACC(coe, 0.05, 0.21, 800, 200, 0.05)
	wantW := 0.8*coe + 0.2*0.05*0.79
	if math.Abs(w-wantW) > 1e-12 {
		t.Fatalf("WACC: want %v got %v", wantW, w)
	}
}

func TestWACCFloor(t *testing.T) {
	if w := WACC(0.01, 0.01, 0.21, 800, 200, 0.05); w != 0.05 {
		t.Fatalf("expected floor 0.05, got %v", w)
	}
}

func TestSensitivityMonotonicity(t *testing.T) {
	m := Sensitivity(baseInputs())
	for i := 0; i < len(m.WACCs); i++ {
		for j := 0; j < len(m.Growths); j++ {
			if !m.Valid[i][j] {
				if m.WACCs[i] > m.Growths[j] {
					t.Fatalf("cell (%d,%d) invalid although WACC %.3f > growth %.3f", i, j, m.WACCs[i], m.Growths[j])
				}
				continue
			}
			// Strictly decreasing along the WACC axis.
			if i > 0 && m.Valid[i-1][j] && m.Values[i][j] >= m.Values[i-1][j] {
				t.Fatalf("fair value not decreasing in WACC at (%d,%d): %v >= %v", i, j, m.Values[i][j], m.Values[i-1][j])
			}
			// Strictly increasing along the terminal-growth axis.
			if j > 0 && m.Valid[i][j-1] && m.Values[i][j] <= m.Values[i][j-1] {
				t.Fatalf("fair value not increasing in terminal growth at (%d,%d): %v <= %v", i, j, m.Values[i][j], m.Values[i][j-1])
			}
		}
	}
}
