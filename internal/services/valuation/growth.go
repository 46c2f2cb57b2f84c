package valuation

import (
	"math"

	"QuantDesk/internal/domain/models"
)

// Growth estimate bounds. The blend is clamped so a noisy history cannot
// push the projection into implausible territory.
const (
	minGrowth = -0.20
	maxGrowth = 0.25
)

// RevenueCAGR computes the compound annual growth rate of revenue across the
// statement history. Returns false when fewer than two usable periods exist
// or the endpoint revenues are non-positive.
func RevenueCAGR(hist models.StatementHistory) (float64, bool) {
	var first, last *float64
	firstIdx, lastIdx := -1, -1
	for i := range hist.Periods {
		if hist.Periods[i].Revenue == nil || *hist.Periods[i].Revenue <= 0 {
			continue
		}
		if first == nil {
			first = hist.Periods[i].Revenue
			firstIdx = i
		}
		last = hist.Periods[i].Revenue
		lastIdx = i
	}
	if first == nil || lastIdx <= firstIdx {
		return 0, false
	}
	years := float64(lastIdx - firstIdx)
	return math.Pow(*last / *first, 1/years) - 1, true
}

// BlendedGrowth combines historical revenue CAGR, the analyst-implied growth
// rate, and a fade toward terminal growth into the stage-1 growth estimate.
func BlendedGrowth(hist models.StatementHistory, targets *models.AnalystTargets, price, terminalGrowth float64) float64 {
	parts := 0.0
	weight := 0.0

	if cagr, ok := RevenueCAGR(hist); ok {
		parts += 0.5 * cagr
		weight += 0.5
	}
	if targets != nil && targets.Count > 0 && price > 0 && targets.Mean > 0 {
		implied := targets.Mean/price - 1
		parts += 0.3 * implied
		weight += 0.3
	}
	parts += 0.2 * terminalGrowth
	weight += 0.2

	g := parts / weight
	return clampGrowth(g)
}

func clampGrowth(g float64) float64 {
	if g < minGrowth {
		return minGrowth
	}
	if g > maxGrowth {
		return maxGrowth
	}
	return g
}
