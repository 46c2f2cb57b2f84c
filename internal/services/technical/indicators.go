package technical

import "math"

// Indicator lookbacks. An indicator whose lookback is not satisfied reports
// unavailable (nil), never an error.
const (
	rsiPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerPeriod = 20
	bollingerWidth  = 2.0
	smaShort        = 50
	smaLong         = 200
	yearBars        = 252
)

// SMA computes the simple moving average of the trailing period, or nil when
// fewer than period values are present.
func SMA(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	v := sum / float64(period)
	return &v
}

// EMASeries computes the exponential moving average series, seeded with the
// SMA of the first period values. Index i holds the EMA ending at values[i];
// entries before the seed index are NaN.
func EMASeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema
	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		ema = values[i]*k + ema*(1-k)
		out[i] = ema
	}
	return out
}

// RSI computes the Wilder-smoothed relative strength index over the trailing
// period. Requires period+1 closes; returns nil otherwise. Bounded to [0,100].
func RSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		v := 100.0
		return &v
	}
	rs := avgGain / avgLoss
	v := 100.0 - 100.0/(1.0+rs)
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}

// MACDHistogramSeries computes histogram = (EMA12 - EMA26) - EMA9(EMA12 - EMA26)
// aligned to closes. Entries where the lookback is not satisfied are NaN.
func MACDHistogramSeries(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) < macdSlow {
		return out
	}
	fast := EMASeries(closes, macdFast)
	slow := EMASeries(closes, macdSlow)

	// MACD line defined from index macdSlow-1 on.
	macd := make([]float64, 0, len(closes)-macdSlow+1)
	for i := macdSlow - 1; i < len(closes); i++ {
		macd = append(macd, fast[i]-slow[i])
	}
	sig := EMASeries(macd, macdSignal)
	for j := range macd {
		if math.IsNaN(sig[j]) {
			continue
		}
		out[macdSlow-1+j] = macd[j] - sig[j]
	}
	return out
}

// Bollinger computes the 20-period bands and the clamped position of the last
// close within them. Position is nil when the band width is zero or the
// lookback is not satisfied.
func Bollinger(closes []float64, period int, width float64) (position *float64, upper, lower float64, ok bool) {
	mid := SMA(closes, period)
	if mid == nil {
		return nil, 0, 0, false
	}
	var sumSq float64
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - *mid
		sumSq += d * d
	}
	sd := math.Sqrt(sumSq / float64(period))
	upper = *mid + width*sd
	lower = *mid - width*sd
	if upper == lower {
		return nil, upper, lower, true
	}
	p := (closes[len(closes)-1] - lower) / (upper - lower)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return &p, upper, lower, true
}

// Distance52w returns (close - extreme) / extreme against the trailing
// 252-bar close high and low. High distance is always <= 0, low distance >= 0.
func Distance52w(closes []float64) (fromHigh, fromLow *float64) {
	if len(closes) == 0 {
		return nil, nil
	}
	start := len(closes) - yearBars
	if start < 0 {
		start = 0
	}
	hi := math.Inf(-1)
	lo := math.Inf(1)
	for i := start; i < len(closes); i++ {
		if closes[i] > hi {
			hi = closes[i]
		}
		if closes[i] < lo {
			lo = closes[i]
		}
	}
	last := closes[len(closes)-1]
	if hi > 0 {
		d := (last - hi) / hi
		fromHigh = &d
	}
	if lo > 0 {
		d := (last - lo) / lo
		fromLow = &d
	}
	return fromHigh, fromLow
}
