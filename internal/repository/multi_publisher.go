package repository

import (
	"context"
	"errors"

	"QuantDesk/internal/domain/models"
	"QuantDesk/internal/domain/repository"
)

// MultiPublisher fans one alert batch out to several sinks. A failing sink
// does not stop delivery to the others.
type MultiPublisher struct {
	sinks []repository.AlertPublisher
}

func NewMultiPublisher(sinks ...repository.AlertPublisher) repository.AlertPublisher {
	filtered := make([]repository.AlertPublisher, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return &MultiPublisher{sinks: filtered}
}

func (m *MultiPublisher) PublishBatch(ctx context.Context, alerts []models.Alert) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.PublishBatch(ctx, alerts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
