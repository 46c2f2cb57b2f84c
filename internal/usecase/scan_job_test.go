package usecase

import (
	"context"
	"testing"
	"time"

	"QuantDesk/internal/domain/models"
	"QuantDesk/internal/repository"
	"QuantDesk/pkg/cache"
)

func flatCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

func scanJobForTest(store *fakeStore, lock cache.Service) *ScanJob {
	tech := &fakeTech{readings: map[string]models.TechnicalReading{}}
	scanner := scannerForTest(store, tech, repository.NewMemoryAlertStore(), &capturePublisher{})
	return NewScanJob(scanner, lock, time.Minute, testLogger())
}

func TestScanJobRunsScan(t *testing.T) {
	store := &fakeStore{
		closes:   map[string][]float64{"AAPL": flatCloses(60, 100)},
		universe: []models.Instrument{{Ticker: "AAPL"}},
	}
	job := scanJobForTest(store, cache.NewMemoryCache())

	err := job.Handle(context.Background(), ScanJobPayload{RequestedBy: "test"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if store.calls == 0 {
		t.Fatal("expected scan to fetch prices")
	}
}

func TestScanJobSkipsWhenLocked(t *testing.T) {
	store := &fakeStore{
		closes:   map[string][]float64{"AAPL": flatCloses(60, 100)},
		universe: []models.Instrument{{Ticker: "AAPL"}},
	}
	lock := cache.NewMemoryCache()
	if ok, err := lock.TryLock(context.Background(), scanLockKey, time.Minute); err != nil || !ok {
		t.Fatalf("prelock: ok=%v err=%v", ok, err)
	}
	job := scanJobForTest(store, lock)

	if err := job.Handle(context.Background(), ScanJobPayload{}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("expected scan to be skipped, got %d store calls", store.calls)
	}
}

func TestScanJobReleasesLock(t *testing.T) {
	store := &fakeStore{
		closes:   map[string][]float64{"AAPL": flatCloses(60, 100)},
		universe: []models.Instrument{{Ticker: "AAPL"}},
	}
	lock := cache.NewMemoryCache()
	job := scanJobForTest(store, lock)

	if err := job.Handle(context.Background(), ScanJobPayload{}); err != nil {
		t.Fatalf("first Handle: %v", err)
	}
	if err := job.Handle(context.Background(), ScanJobPayload{}); err != nil {
		t.Fatalf("second Handle: %v", err)
	}
	if store.calls < 2 {
		t.Fatalf("expected both scans to run, got %d store calls", store.calls)
	}
}

func TestScanJobRejectsBadPayload(t *testing.T) {
	job := scanJobForTest(&fakeStore{universe: []models.Instrument{}}, nil)
	if err := job.Handle(context.Background(), 42); err == nil {
		t.Fatal("expected payload error")
	}
}
