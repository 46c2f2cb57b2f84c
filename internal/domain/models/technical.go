package models

// SignalType enumerates the discrete technical events the analyzer derives.
type SignalType string

const (
	SignalRSIOversold      SignalType = "RSI_OVERSOLD"
	SignalRSIOverbought    SignalType = "RSI_OVERBOUGHT"
	SignalMACDBullishCross SignalType = "MACD_BULLISH_CROSS"
	SignalMACDBearishCross SignalType = "MACD_BEARISH_CROSS"
	SignalBBLowerTouch     SignalType = "BB_LOWER_TOUCH"
	SignalBBUpperTouch     SignalType = "BB_UPPER_TOUCH"
	SignalGoldenCross      SignalType = "GOLDEN_CROSS"
	SignalDeathCross       SignalType = "DEATH_CROSS"
)

// Signal is a discrete bullish/bearish event derived from the latest bars.
// Signals are ephemeral: regenerated on every evaluation, never persisted
// independently of the alert they produced.
type Signal struct {
	Type    SignalType
	Bullish bool
	Message string
}

// TechnicalReading is the full indicator snapshot for one instrument.
// Nil pointer fields mean the lookback window for that indicator was not
// satisfied (unavailable, not an error).
type TechnicalReading struct {
	Ticker              string
	RSI14               *float64
	MACDHistogram       *float64
	BollingerPosition   *float64 // in [0,1]; nil when band width is zero
	SMA50               *float64
	SMA200              *float64
	DistanceFromHigh52w *float64 // always <= 0
	DistanceFromLow52w  *float64 // always >= 0
	Signals             []Signal
}

// BullishCount returns the number of currently active bullish signals.
func (r TechnicalReading) BullishCount() int {
	n := 0
	for _, s := range r.Signals {
		if s.Bullish {
			n++
		}
	}
	return n
}
