package usecase

import (
	"testing"

	"QuantDesk/internal/domain/models"
)

func allBullishDims() []models.DimensionScore {
	p := DefaultScoringParams()
	dims := []models.DimensionScore{}
	for _, d := range []models.Dimension{
		models.DimFundamental, models.DimValuation, models.DimTechnical,
		models.DimRisk, models.DimSentiment,
	} {
		dims = append(dims, models.DimensionScore{
			Dimension: d, Score: 90, Direction: models.DirBullish,
			Weight: p.Weights[d], Available: true,
		})
	}
	dims = append(dims, models.DimensionScore{Dimension: models.DimInsider, Direction: models.DirNeutral})
	return dims
}

func TestComposeStrongBuyHighConviction(t *testing.T) {
	res := Compose("AAPL", allBullishDims(), DefaultScoringParams())
	if res.Recommendation != models.RecStrongBuy {
		t.Fatalf("recommendation = %s, want STRONG_BUY", res.Recommendation)
	}
	if res.CompositeScore < 89.9 || res.CompositeScore > 90.1 {
		t.Fatalf("composite = %v, want 90", res.CompositeScore)
	}
	if res.ConvictionLevel != models.ConvictionHigh {
		t.Fatalf("conviction = %s, want HIGH", res.ConvictionLevel)
	}
	if res.ConvictionScore != 100 {
		t.Fatalf("conviction score = %v, want 100", res.ConvictionScore)
	}
}

func TestComposeUnavailableDimensionDropsOut(t *testing.T) {
	p := DefaultScoringParams()
	dims := allBullishDims()
	// Mark sentiment unavailable; the remaining four renormalize and the
	// composite stays at 90.
	for i := range dims {
		if dims[i].Dimension == models.DimSentiment {
			dims[i].Available = false
			dims[i].Score = 0
		}
	}
	res := Compose("AAPL", dims, p)
	if res.CompositeScore < 89.9 || res.CompositeScore > 90.1 {
		t.Fatalf("composite = %v, want 90 after renormalizing", res.CompositeScore)
	}
	if res.ConvictionLevel != models.ConvictionHigh {
		t.Fatalf("conviction = %s, want HIGH with 4 of 4 agreeing", res.ConvictionLevel)
	}
}

func TestComposeMixedDirectionsLowersConviction(t *testing.T) {
	p := DefaultScoringParams()
	dims := allBullishDims()
	for i := range dims {
		switch dims[i].Dimension {
		case models.DimTechnical, models.DimRisk, models.DimSentiment:
			dims[i].Score = 20
			dims[i].Direction = models.DirBearish
		}
	}
	res := Compose("XOM", dims, p)
	// 90*.30 + 90*.25 + 20*.20 + 20*.15 + 20*.10 = 58.5 -> HOLD.
	if res.Recommendation != models.RecHold {
		t.Fatalf("recommendation = %s, want HOLD", res.Recommendation)
	}
	// HOLD is directionally neutral; no dimension is neutral, so agreement
	// is zero and conviction is LOW.
	if res.ConvictionLevel != models.ConvictionLow {
		t.Fatalf("conviction = %s, want LOW", res.ConvictionLevel)
	}
}

func TestComposeAvoidOnWeakScores(t *testing.T) {
	p := DefaultScoringParams()
	dims := allBullishDims()
	for i := range dims {
		if dims[i].Available {
			dims[i].Score = 20
			dims[i].Direction = models.DirBearish
		}
	}
	res := Compose("WEAK", dims, p)
	if res.Recommendation != models.RecAvoid {
		t.Fatalf("recommendation = %s, want AVOID", res.Recommendation)
	}
	if res.ConvictionLevel != models.ConvictionHigh {
		t.Fatalf("conviction = %s, want HIGH with all dims bearish", res.ConvictionLevel)
	}
}

func TestDirectionBands(t *testing.T) {
	if d := direction(60); d != models.DirBullish {
		t.Fatalf("direction(60) = %s", d)
	}
	if d := direction(40); d != models.DirBearish {
		t.Fatalf("direction(40) = %s", d)
	}
	if d := direction(50); d != models.DirNeutral {
		t.Fatalf("direction(50) = %s", d)
	}
}

func TestDimensionScoresValuationClamp(t *testing.T) {
	val := &models.CompositeValuation{Applicable: true, UpsidePct: 200}
	dims := dimensionScores(nil, val, nil, nil, 0, 0, DefaultScoringParams())
	for _, d := range dims {
		if d.Dimension == models.DimValuation {
			if !d.Available {
				t.Fatal("valuation dimension should be available")
			}
			if d.Score != 100 {
				t.Fatalf("valuation score = %v, want clamped to 100", d.Score)
			}
			return
		}
	}
	t.Fatal("valuation dimension missing")
}

func TestDimensionScoresInsiderAlwaysUnavailable(t *testing.T) {
	dims := dimensionScores(nil, nil, nil, nil, 0, 0, DefaultScoringParams())
	found := false
	for _, d := range dims {
		if d.Dimension == models.DimInsider {
			found = true
			if d.Available {
				t.Fatal("insider dimension must be unavailable")
			}
		}
	}
	if !found {
		t.Fatal("insider dimension missing from tagged records")
	}
}

func TestTechnicalScoreOversoldBullish(t *testing.T) {
	r := &models.TechnicalReading{
		RSI14:   fp(25),
		Signals: []models.Signal{{Type: models.SignalRSIOversold, Bullish: true}},
	}
	if s := technicalScore(r); s <= 60 {
		t.Fatalf("oversold score = %v, want > 60", s)
	}
	r2 := &models.TechnicalReading{
		RSI14:   fp(80),
		Signals: []models.Signal{{Type: models.SignalRSIOverbought, Bullish: false}},
	}
	if s := technicalScore(r2); s >= 40 {
		t.Fatalf("overbought score = %v, want < 40", s)
	}
}

func TestRiskScorePenalizesDrawdownAndBeta(t *testing.T) {
	calm := riskScore(&models.TechnicalReading{DistanceFromHigh52w: fp(-0.05)}, 0.8)
	risky := riskScore(&models.TechnicalReading{DistanceFromHigh52w: fp(-0.60)}, 2.0)
	if risky >= calm {
		t.Fatalf("risky %v should score below calm %v", risky, calm)
	}
}
