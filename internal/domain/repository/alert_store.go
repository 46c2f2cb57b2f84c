package repository

import (
	"context"

	"QuantDesk/internal/domain/models"
)

// AlertStore is the append-only record of generated alerts. The scanner
// itself holds no state; a store implementation is injected into it.
type AlertStore interface {
	Insert(ctx context.Context, alerts []models.Alert) error
	QueryByTicker(ctx context.Context, ticker string, limit int) ([]models.Alert, error)
	QueryByDomain(ctx context.Context, domainID string, limit int) ([]models.Alert, error)
	Health(ctx context.Context) error
	Close() error
}

// AlertPublisher pushes generated alerts to downstream consumers.
type AlertPublisher interface {
	PublishBatch(ctx context.Context, alerts []models.Alert) error
	Close() error
}

// Metrics records operational counters for the engine layer.
type Metrics interface {
	RecordEvaluation(ticker, outcome string)
	RecordScanDuration(seconds float64)
	RecordAlerts(n int)
	RecordError(kind string)
	RecordCache(hit bool)
}
