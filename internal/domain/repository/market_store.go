package repository

import (
	"context"
	"errors"

	"QuantDesk/internal/domain/models"
)

// ErrUnavailable reports that an upstream snapshot is missing or partial.
// Callers degrade the dependent metric instead of failing the evaluation.
var ErrUnavailable = errors.New("upstream data unavailable")

// Period represents a requested price-history window.
type Period string

const (
	P1Mo Period = "1mo"
	P3Mo Period = "3mo"
	P6Mo Period = "6mo"
	P1Y  Period = "1y"
	P2Y  Period = "2y"
)

// MarketStore provides read-only snapshot access for the engines. All I/O
// happens here, once per instrument, before any engine runs.
type MarketStore interface {
	GetPriceSeries(ctx context.Context, ticker string, period Period) (*models.PriceSeries, error)
	GetStatements(ctx context.Context, ticker string) (*models.StatementHistory, error)
	GetAnalystTargets(ctx context.Context, ticker string) (*models.AnalystTargets, error)
	GetUniverse(ctx context.Context) ([]models.Instrument, error)
	GetQuote(ctx context.Context, ticker string) (price, beta float64, err error)
}

// BarStore is the ingest-side write interface for daily bars.
type BarStore interface {
	StoreBars(ctx context.Context, ticker string, bars []models.PriceBar) error
	Health(ctx context.Context) error
}
