package technical

import (
	"fmt"
	"math"

	"QuantDesk/internal/domain/models"
)

// deriveSignals evaluates every signal rule independently; rules are not
// mutually exclusive and all matches are reported.
func deriveSignals(closes []float64, r *models.TechnicalReading, macdHist []float64) []models.Signal {
	var out []models.Signal

	if r.RSI14 != nil {
		switch {
		case *r.RSI14 < 30:
			out = append(out, models.Signal{
				Type:    models.SignalRSIOversold,
				Bullish: true,
				Message: fmt.Sprintf("RSI(14) %.1f below 30", *r.RSI14),
			})
		case *r.RSI14 > 70:
			out = append(out, models.Signal{
				Type:    models.SignalRSIOverbought,
				Bullish: false,
				Message: fmt.Sprintf("RSI(14) %.1f above 70", *r.RSI14),
			})
		}
	}

	// MACD histogram crossing zero between the last two bars.
	if n := len(macdHist); n >= 2 {
		prev, cur := macdHist[n-2], macdHist[n-1]
		if !math.IsNaN(prev) && !math.IsNaN(cur) {
			if prev <= 0 && cur > 0 {
				out = append(out, models.Signal{
					Type:    models.SignalMACDBullishCross,
					Bullish: true,
					Message: fmt.Sprintf("MACD histogram crossed positive (%.3f)", cur),
				})
			}
			if prev >= 0 && cur < 0 {
				out = append(out, models.Signal{
					Type:    models.SignalMACDBearishCross,
					Bullish: false,
					Message: fmt.Sprintf("MACD histogram crossed negative (%.3f)", cur),
				})
			}
		}
	}

	if r.BollingerPosition != nil {
		switch {
		case *r.BollingerPosition < 0.1:
			out = append(out, models.Signal{
				Type:    models.SignalBBLowerTouch,
				Bullish: true,
				Message: fmt.Sprintf("price at %.0f%% of Bollinger range", *r.BollingerPosition*100),
			})
		case *r.BollingerPosition > 0.9:
			out = append(out, models.Signal{
				Type:    models.SignalBBUpperTouch,
				Bullish: false,
				Message: fmt.Sprintf("price at %.0f%% of Bollinger range", *r.BollingerPosition*100),
			})
		}
	}

	// SMA50/SMA200 crossing between the last two evaluations.
	if len(closes) >= smaLong+1 {
		prev50 := SMA(closes[:len(closes)-1], smaShort)
		prev200 := SMA(closes[:len(closes)-1], smaLong)
		if prev50 != nil && prev200 != nil && r.SMA50 != nil && r.SMA200 != nil {
			if *prev50 <= *prev200 && *r.SMA50 > *r.SMA200 {
				out = append(out, models.Signal{
					Type:    models.SignalGoldenCross,
					Bullish: true,
					Message: "SMA50 crossed above SMA200",
				})
			}
			if *prev50 >= *prev200 && *r.SMA50 < *r.SMA200 {
				out = append(out, models.Signal{
					Type:    models.SignalDeathCross,
					Bullish: false,
					Message: "SMA50 crossed below SMA200",
				})
			}
		}
	}

	return out
}
