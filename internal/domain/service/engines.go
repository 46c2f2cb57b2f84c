package service

import (
	"QuantDesk/internal/domain/models"
)

// TechnicalAnalyzer computes indicators and discrete signal events from a
// price series. Pure: same series in, same reading out.
type TechnicalAnalyzer interface {
	Analyze(series models.PriceSeries) models.TechnicalReading
}

// Valuer computes multi-method intrinsic value for one snapshot.
type Valuer interface {
	Value(snap models.Snapshot) models.CompositeValuation
}

// QualityAnalyzer computes structured quality scores from statement history.
type QualityAnalyzer interface {
	Score(hist models.StatementHistory) models.QualityScore
}
