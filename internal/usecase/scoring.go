package usecase

import (
	"QuantDesk/internal/domain/models"
)

// ScoringParams holds the composite weights and recommendation thresholds.
// They come from configuration so strategies can tune them; nothing here is
// a hard literal at the call sites.
type ScoringParams struct {
	Weights        map[models.Dimension]float64
	StrongBuyMin   float64
	BuyMin         float64
	HoldMin        float64
	HighConviction int
	MedConviction  int
}

// DefaultScoringParams returns the stock blend: fundamental 30%, valuation
// 25%, technical 20%, risk 15%, sentiment 10%.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		Weights: map[models.Dimension]float64{
			models.DimFundamental: 0.30,
			models.DimValuation:   0.25,
			models.DimTechnical:   0.20,
			models.DimRisk:        0.15,
			models.DimSentiment:   0.10,
		},
		StrongBuyMin:   80,
		BuyMin:         65,
		HoldMin:        45,
		HighConviction: 4,
		MedConviction:  2,
	}
}

func clamp01to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func direction(score float64) models.Direction {
	switch {
	case score >= 60:
		return models.DirBullish
	case score <= 40:
		return models.DirBearish
	default:
		return models.DirNeutral
	}
}

// dimensionScores derives one tagged record per dimension from the engine
// outputs. Dimensions whose inputs were unavailable are marked so; they drop
// out of the weighted blend and of the conviction denominator.
func dimensionScores(tech *models.TechnicalReading, val *models.CompositeValuation, qual *models.QualityScore, targets *models.AnalystTargets, price, beta float64, p ScoringParams) []models.DimensionScore {
	dims := make([]models.DimensionScore, 0, 6)

	add := func(d models.Dimension, score float64, available bool) {
		ds := models.DimensionScore{Dimension: d, Weight: p.Weights[d], Available: available}
		if available {
			ds.Score = clamp01to100(score)
			ds.Direction = direction(ds.Score)
		} else {
			ds.Direction = models.DirNeutral
		}
		dims = append(dims, ds)
	}

	if qual != nil {
		add(models.DimFundamental, qual.Overall, true)
	} else {
		add(models.DimFundamental, 0, false)
	}

	if val != nil && val.Applicable {
		add(models.DimValuation, 50+val.UpsidePct, true)
	} else {
		add(models.DimValuation, 0, false)
	}

	if tech != nil {
		add(models.DimTechnical, technicalScore(tech), true)
	} else {
		add(models.DimTechnical, 0, false)
	}

	if tech != nil {
		add(models.DimRisk, riskScore(tech, beta), true)
	} else {
		add(models.DimRisk, 0, false)
	}

	if targets != nil && targets.Count > 0 && price > 0 {
		upside := (targets.Mean - price) / price * 100
		add(models.DimSentiment, 50+upside, true)
	} else {
		add(models.DimSentiment, 0, false)
	}

	// Insider activity is a conviction dimension the data feed does not
	// cover yet; it stays unavailable and neutral.
	add(models.DimInsider, 0, false)

	return dims
}

// technicalScore folds the reading into a [0,100] buy-side score: oversold
// conditions and bullish events raise it, overbought and bearish lower it.
func technicalScore(r *models.TechnicalReading) float64 {
	score := 50.0
	if r.RSI14 != nil {
		// Oversold adds, overbought subtracts, linearly around the midpoint.
		score += (50 - *r.RSI14) * 0.6
	}
	for _, s := range r.Signals {
		if s.Bullish {
			score += 8
		} else {
			score -= 8
		}
	}
	if r.SMA50 != nil && r.SMA200 != nil {
		if *r.SMA50 > *r.SMA200 {
			score += 5
		} else {
			score -= 5
		}
	}
	return clamp01to100(score)
}

// riskScore: deeper drawdowns and higher beta reduce it.
func riskScore(r *models.TechnicalReading, beta float64) float64 {
	score := 70.0
	if r.DistanceFromHigh52w != nil && *r.DistanceFromHigh52w < -0.40 {
		score -= 25
	}
	if beta > 0 {
		score -= (beta - 1) * 30
	}
	return clamp01to100(score)
}

// Compose blends the dimension scores, buckets the recommendation, and
// counts directional agreement into the conviction meta-metric.
func Compose(ticker string, dims []models.DimensionScore, p ScoringParams) *models.CompositeResult {
	total, weight := 0.0, 0.0
	for _, d := range dims {
		if !d.Available || d.Weight == 0 {
			continue
		}
		total += d.Score * d.Weight
		weight += d.Weight
	}
	var score float64
	if weight > 0 {
		score = total / weight
	}

	var rec models.Recommendation
	switch {
	case score >= p.StrongBuyMin:
		rec = models.RecStrongBuy
	case score >= p.BuyMin:
		rec = models.RecBuy
	case score >= p.HoldMin:
		rec = models.RecHold
	default:
		rec = models.RecAvoid
	}

	recDir := models.DirNeutral
	switch rec {
	case models.RecStrongBuy, models.RecBuy:
		recDir = models.DirBullish
	case models.RecAvoid:
		recDir = models.DirBearish
	}

	agree, available := 0, 0
	for _, d := range dims {
		if !d.Available {
			continue
		}
		available++
		if d.Direction == recDir {
			agree++
		}
	}

	res := &models.CompositeResult{
		Ticker:         ticker,
		CompositeScore: score,
		Recommendation: rec,
		Dimensions:     dims,
	}
	if available > 0 {
		res.ConvictionScore = float64(agree) / float64(available) * 100
	}
	switch {
	case agree >= p.HighConviction:
		res.ConvictionLevel = models.ConvictionHigh
	case agree >= p.MedConviction:
		res.ConvictionLevel = models.ConvictionMedium
	default:
		res.ConvictionLevel = models.ConvictionLow
	}
	return res
}
