package fundamental

import (
	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
)

// Engine is the Fundamental Quality Engine. Stateless and safe for
// concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Score computes all quality sub-scores and blends them into an overall
// [0,100] score. Sub-scores whose inputs are unavailable drop out of the
// blend; their weight shifts to the remaining components.
func (e *Engine) Score(hist models.StatementHistory) models.QualityScore {
	qs := models.QualityScore{
		Ticker:            hist.Ticker,
		Piotroski:         Piotroski(hist),
		DuPont:            DuPont(hist),
		Earnings:          EarningsQuality(hist),
		CashCycle:         CashCycle(hist),
		CapitalAllocation: CapitalAllocation(hist),
	}
	qs.Overall = blend(qs)
	return qs
}

// Component weights of the overall quality score, out of 100.
const (
	wPiotroski = 40.0
	wEarnings  = 20.0
	wCapital   = 20.0
	wROE       = 10.0
	wCCC       = 10.0
)

func blend(qs models.QualityScore) float64 {
	total, max := 0.0, 0.0

	if qs.Piotroski.MaxScore > 0 {
		total += float64(qs.Piotroski.Score) / float64(qs.Piotroski.MaxScore) * wPiotroski
		max += wPiotroski
	}

	if qs.Earnings.Available {
		s := wEarnings - float64(len(qs.Earnings.RedFlags))*7.0
		if s < 0 {
			s = 0
		}
		total += s
		max += wEarnings
	}

	if qs.CapitalAllocation.MaxScore > 0 {
		total += qs.CapitalAllocation.Score / qs.CapitalAllocation.MaxScore * wCapital
		max += wCapital
	}

	if qs.DuPont.Available {
		switch {
		case qs.DuPont.ROE > 0.15:
			total += wROE
		case qs.DuPont.ROE > 0.08:
			total += 6
		case qs.DuPont.ROE > 0:
			total += 3
		}
		max += wROE
	}

	if qs.CashCycle.Available {
		switch {
		case qs.CashCycle.CCC < 0:
			total += wCCC
		case qs.CashCycle.CCC < 60:
			total += 7
		case qs.CashCycle.CCC < 120:
			total += 4
		default:
			total += 1
		}
		max += wCCC
	}

	if max == 0 {
		return 0
	}
	return total / max * 100
}

var _ domsvc.QualityAnalyzer = (*Engine)(nil)
