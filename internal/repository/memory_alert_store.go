package repository

import (
	"context"
	"sync"

	"QuantDesk/internal/domain/models"
)

// MemoryAlertStore is an append-only in-memory alert store. It backs tests
// and single-node deployments that run without ClickHouse.
type MemoryAlertStore struct {
	mu     sync.RWMutex
	alerts []models.Alert
}

func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{}
}

func (s *MemoryAlertStore) Insert(_ context.Context, alerts []models.Alert) error {
	s.mu.Lock()
	s.alerts = append(s.alerts, alerts...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryAlertStore) QueryByTicker(_ context.Context, ticker string, limit int) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterAlerts(s.alerts, limit, func(a models.Alert) bool { return a.Ticker == ticker }), nil
}

func (s *MemoryAlertStore) QueryByDomain(_ context.Context, domainID string, limit int) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterAlerts(s.alerts, limit, func(a models.Alert) bool { return a.DomainID == domainID }), nil
}

func (s *MemoryAlertStore) Health(_ context.Context) error { return nil }

func (s *MemoryAlertStore) Close() error { return nil }

// filterAlerts walks newest-first so limit keeps the most recent entries.
func filterAlerts(alerts []models.Alert, limit int, keep func(models.Alert) bool) []models.Alert {
	var out []models.Alert
	for i := len(alerts) - 1; i >= 0; i-- {
		if !keep(alerts[i]) {
			continue
		}
		out = append(out, alerts[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
