package valuation

import (
	"QuantDesk/internal/domain/models"
)

// Sensitivity grid shape: 5x5 centered on the base case.
const (
	gridSize   = 5
	waccStep   = 0.01
	growthStep = 0.005
)

// Sensitivity recomputes fair value over a WACC x terminal-growth grid.
// Only the Gordon terminal is used inside the grid so the documented
// monotonicity holds: fair value strictly decreases along the WACC axis and
// strictly increases along the terminal-growth axis wherever WACC exceeds
// terminal growth. Cells where it does not are marked invalid.
func Sensitivity(base DCFInputs) *models.SensitivityMatrix {
	half := gridSize / 2
	m := &models.SensitivityMatrix{
		WACCs:   make([]float64, gridSize),
		Growths: make([]float64, gridSize),
		Values:  make([][]float64, gridSize),
		Valid:   make([][]bool, gridSize),
	}
	for i := 0; i < gridSize; i++ {
		m.WACCs[i] = base.WACC + float64(i-half)*waccStep
	}
	for j := 0; j < gridSize; j++ {
		m.Growths[j] = base.TerminalGrowth + float64(j-half)*growthStep
	}

	for i := 0; i < gridSize; i++ {
		m.Values[i] = make([]float64, gridSize)
		m.Valid[i] = make([]bool, gridSize)
		for j := 0; j < gridSize; j++ {
			in := base
			in.WACC = m.WACCs[i]
			in.TerminalGrowth = m.Growths[j]
			in.TerminalEBITDA = nil
			out := TwoStageDCF(in)
			if out.Applicable {
				m.Values[i][j] = out.FairValuePerShare
				m.Valid[i][j] = true
			}
		}
	}
	return m
}
