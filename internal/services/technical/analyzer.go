package technical

import (
	"math"

	"QuantDesk/internal/domain/models"
	domsvc "QuantDesk/internal/domain/service"
)

// Analyzer computes the full technical reading for a price series.
// Stateless; a single instance is shared across goroutines.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze derives every indicator the lookback allows plus the discrete
// signal events. An empty series yields an empty-signal reading, not an
// error; missing-series handling belongs to the caller.
func (a *Analyzer) Analyze(series models.PriceSeries) models.TechnicalReading {
	r := models.TechnicalReading{Ticker: series.Ticker}
	closes := series.Closes()
	if len(closes) == 0 {
		return r
	}

	r.RSI14 = RSI(closes, rsiPeriod)
	r.SMA50 = SMA(closes, smaShort)
	r.SMA200 = SMA(closes, smaLong)
	r.DistanceFromHigh52w, r.DistanceFromLow52w = Distance52w(closes)

	macdHist := MACDHistogramSeries(closes)
	if last := macdHist[len(macdHist)-1]; !math.IsNaN(last) {
		v := last
		r.MACDHistogram = &v
	}

	pos, _, _, _ := Bollinger(closes, bollingerPeriod, bollingerWidth)
	r.BollingerPosition = pos

	r.Signals = deriveSignals(closes, &r, macdHist)
	return r
}

var _ domsvc.TechnicalAnalyzer = (*Analyzer)(nil)
