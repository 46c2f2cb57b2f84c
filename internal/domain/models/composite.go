package models

import "time"

// Recommendation is the discrete action bucket for a composite score.
type Recommendation string

const (
	RecStrongBuy Recommendation = "STRONG_BUY"
	RecBuy       Recommendation = "BUY"
	RecHold      Recommendation = "HOLD"
	RecAvoid     Recommendation = "AVOID"
)

// ConvictionLevel buckets how many dimensions agree with the recommendation.
type ConvictionLevel string

const (
	ConvictionHigh   ConvictionLevel = "HIGH"
	ConvictionMedium ConvictionLevel = "MEDIUM"
	ConvictionLow    ConvictionLevel = "LOW"
)

// Direction is the stance of one scoring dimension.
type Direction string

const (
	DirBullish Direction = "bullish"
	DirBearish Direction = "bearish"
	DirNeutral Direction = "neutral"
)

// Dimension names the independent axes feeding conviction.
type Dimension string

const (
	DimFundamental Dimension = "fundamental"
	DimValuation   Dimension = "valuation"
	DimTechnical   Dimension = "technical"
	DimRisk        Dimension = "risk"
	DimSentiment   Dimension = "sentiment"
	DimInsider     Dimension = "insider"
)

// DimensionScore is one tagged record per dimension: a normalized [0,100]
// score plus a discrete direction, fed into a single agreement counter.
type DimensionScore struct {
	Dimension Dimension
	Score     float64 // [0,100]
	Direction Direction
	Weight    float64
	Available bool
}

// CompositeResult blends the dimension scores into the final call.
// It is derived on every evaluation and never mutated directly.
type CompositeResult struct {
	Ticker          string
	CompositeScore  float64 // [0,100]
	Recommendation  Recommendation
	ConvictionScore float64 // [0,100]
	ConvictionLevel ConvictionLevel
	Dimensions      []DimensionScore
}

// Evaluation is the full engine output for one instrument.
type Evaluation struct {
	Ticker    string
	AsOf      time.Time
	Technical *TechnicalReading
	Valuation *CompositeValuation
	Quality   *QualityScore
	Composite *CompositeResult
	// Degraded lists the upstream inputs that were unavailable, keyed by
	// input name with a reason.
	Degraded map[string]string
}
