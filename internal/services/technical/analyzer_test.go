package technical

import (
	"testing"
	"time"

	"QuantDesk/internal/domain/models"
)

func seriesFromCloses(closes []float64) models.PriceSeries {
	bars := make([]models.PriceBar, len(closes))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.PriceBar{Date: day.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return models.PriceSeries{Ticker: "TEST", Bars: bars}
}

func hasSignal(r models.TechnicalReading, st models.SignalType) bool {
	for _, s := range r.Signals {
		if s.Type == st {
			return true
		}
	}
	return false
}

func TestAnalyzeEmptySeries(t *testing.T) {
	r := NewAnalyzer().Analyze(models.PriceSeries{Ticker: "EMPTY"})
	if r.RSI14 != nil || r.SMA50 != nil || r.SMA200 != nil || r.MACDHistogram != nil {
		t.Fatalf("empty series must yield nil indicators")
	}
	if len(r.Signals) != 0 {
		t.Fatalf("empty series must yield no signals")
	}
}

func TestAnalyzeShortSeriesDegrades(t *testing.T) {
	r := NewAnalyzer().Analyze(seriesFromCloses(linear(60, 100, 110)))
	if r.RSI14 == nil || r.SMA50 == nil {
		t.Fatalf("short lookbacks should be available at 60 bars")
	}
	if r.SMA200 != nil {
		t.Fatalf("SMA200 must be nil below 200 bars")
	}
}

func TestAnalyzeRisingEndToEnd(t *testing.T) {
	// 300 daily closes rising linearly from 100 to 150.
	r := NewAnalyzer().Analyze(seriesFromCloses(linear(300, 100, 150)))

	if r.RSI14 == nil || *r.RSI14 <= 60 {
		t.Fatalf("expected RSI > 60 on rising series, got %v", r.RSI14)
	}
	if r.SMA50 == nil || r.SMA200 == nil {
		t.Fatalf("expected both moving averages at 300 bars")
	}
	if *r.SMA50 <= *r.SMA200 {
		t.Fatalf("SMA50 should exceed SMA200 in an uptrend")
	}
	if r.DistanceFromHigh52w == nil || *r.DistanceFromHigh52w != 0 {
		t.Fatalf("final bar is the 52w high, expected distance 0, got %v", r.DistanceFromHigh52w)
	}
	if r.DistanceFromLow52w == nil || *r.DistanceFromLow52w < 0 {
		t.Fatalf("distance from low must be >= 0")
	}
}

func TestGoldenCrossAtCrossoverBar(t *testing.T) {
	// 150 flat bars at 100, 50 bars at 98 (SMA50 below SMA200), then a spike
	// that lifts SMA50 back above SMA200 on the final bar only.
	closes := make([]float64, 0, 201)
	for i := 0; i < 150; i++ {
		closes = append(closes, 100)
	}
	for i := 0; i < 50; i++ {
		closes = append(closes, 98)
	}
	closes = append(closes, 200)

	r := NewAnalyzer().Analyze(seriesFromCloses(closes))
	if !hasSignal(r, models.SignalGoldenCross) {
		t.Fatalf("expected GOLDEN_CROSS at the crossover bar, signals: %v", r.Signals)
	}
}

func TestDeathCrossAtCrossoverBar(t *testing.T) {
	closes := make([]float64, 0, 201)
	for i := 0; i < 150; i++ {
		closes = append(closes, 100)
	}
	for i := 0; i < 50; i++ {
		closes = append(closes, 101)
	}
	closes = append(closes, 10)

	r := NewAnalyzer().Analyze(seriesFromCloses(closes))
	if !hasSignal(r, models.SignalDeathCross) {
		t.Fatalf("expected DEATH_CROSS at the crossover bar, signals: %v", r.Signals)
	}
}

func TestRSIOversoldSignal(t *testing.T) {
	r := NewAnalyzer().Analyze(seriesFromCloses(linear(60, 200, 100)))
	if !hasSignal(r, models.SignalRSIOversold) {
		t.Fatalf("expected RSI_OVERSOLD on falling series")
	}
	for _, s := range r.Signals {
		if s.Type == models.SignalRSIOversold && !s.Bullish {
			t.Fatalf("RSI_OVERSOLD must be bullish")
		}
	}
}

func TestMACDBullishCrossAppearsOnReversal(t *testing.T) {
	// V-shaped series: decline then recovery. Walking forward bar by bar,
	// the histogram must flip sign somewhere on the way up.
	closes := append(linear(60, 150, 100), linear(60, 100, 150)...)
	found := false
	for n := 40; n <= len(closes); n++ {
		r := NewAnalyzer().Analyze(seriesFromCloses(closes[:n]))
		if hasSignal(r, models.SignalMACDBullishCross) {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected a MACD_BULLISH_CROSS during the recovery leg")
	}
}

func TestSignalsIndependent(t *testing.T) {
	// A deep falling series trips both RSI oversold and the lower band touch;
	// rules are evaluated independently and both must be reported.
	r := NewAnalyzer().Analyze(seriesFromCloses(linear(60, 300, 100)))
	if !hasSignal(r, models.SignalRSIOversold) || !hasSignal(r, models.SignalBBLowerTouch) {
		t.Fatalf("expected both RSI_OVERSOLD and BB_LOWER_TOUCH, got %v", r.Signals)
	}
}

func TestBullishCount(t *testing.T) {
	r := models.TechnicalReading{Signals: []models.Signal{
		{Type: models.SignalRSIOversold, Bullish: true},
		{Type: models.SignalBBLowerTouch, Bullish: true},
		{Type: models.SignalRSIOverbought, Bullish: false},
	}}
	if got := r.BullishCount(); got != 2 {
		t.Fatalf("expected 2 bullish signals, got %d", got)
	}
}
