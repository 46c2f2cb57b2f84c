package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"QuantDesk/internal/domain/models"
)

func alertAt(ticker, domain string, ts time.Time) models.Alert {
	return models.Alert{Ticker: ticker, DomainID: domain, Reasons: []string{"RSI 22.0 below 35"}, Timestamp: ts}
}

func TestMemoryAlertStoreAppendOnly(t *testing.T) {
	s := NewMemoryAlertStore()
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	if err := s.Insert(ctx, []models.Alert{alertAt("AAPL", "tech", day)}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, []models.Alert{alertAt("AAPL", "tech", day.AddDate(0, 0, 1))}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.QueryByTicker(ctx, "AAPL", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both inserts retained, got %d", len(got))
	}
	if !got[0].Timestamp.After(got[1].Timestamp) {
		t.Fatal("expected newest alert first")
	}
}

func TestMemoryAlertStoreQueryByDomain(t *testing.T) {
	s := NewMemoryAlertStore()
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	batch := []models.Alert{
		alertAt("AAPL", "tech", day),
		alertAt("XOM", "energy", day),
		alertAt("MSFT", "tech", day),
	}
	if err := s.Insert(ctx, batch); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.QueryByDomain(ctx, "tech", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tech alerts, got %d", len(got))
	}
	for _, a := range got {
		if a.DomainID != "tech" {
			t.Fatalf("unexpected domain %q", a.DomainID)
		}
	}
}

func TestMemoryAlertStoreLimitKeepsNewest(t *testing.T) {
	s := NewMemoryAlertStore()
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if err := s.Insert(ctx, []models.Alert{alertAt("AAPL", "tech", day.AddDate(0, 0, i))}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	got, err := s.QueryByTicker(ctx, "AAPL", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
	want := day.AddDate(0, 0, 4)
	if !got[0].Timestamp.Equal(want) {
		t.Fatalf("expected newest alert %v first, got %v", want, got[0].Timestamp)
	}
}

func TestMemoryAlertStoreMissingTicker(t *testing.T) {
	s := NewMemoryAlertStore()
	got, err := s.QueryByTicker(context.Background(), "NOPE", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no alerts, got %d", len(got))
	}
}

func TestMemoryAlertStoreConcurrentInserts(t *testing.T) {
	s := NewMemoryAlertStore()
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func(i int) {
			done <- s.Insert(ctx, []models.Alert{alertAt(fmt.Sprintf("T%d", i), "tech", day)})
		}(i)
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.QueryByDomain(ctx, "tech", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 alerts, got %d", len(got))
	}
}
