package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	pkgkafka "QuantDesk/pkg/kafka"
)

// BarIngestHandler consumes end-of-day bar messages and writes them to the
// bar store. One message carries the full day for one ticker.
type BarIngestHandler struct {
	topic   string
	store   drepo.BarStore
	metrics drepo.Metrics
}

func NewBarIngestHandler(topic string, store drepo.BarStore, metrics drepo.Metrics) *BarIngestHandler {
	return &BarIngestHandler{topic: topic, store: store, metrics: metrics}
}

func (h *BarIngestHandler) Topic() string { return h.topic }

// incoming message schema: {ticker, t, o, h, l, c, v}
func (h *BarIngestHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Ticker string  `json:"ticker"`
		T      int64   `json:"t"`
		O      float64 `json:"o"`
		H      float64 `json:"h"`
		L      float64 `json:"l"`
		C      float64 `json:"c"`
		V      float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("ingest_unmarshal")
		return err
	}
	if m.Ticker == "" || m.C <= 0 {
		h.metrics.RecordError("ingest_invalid")
		return fmt.Errorf("bar message missing ticker or close")
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}

	bar := models.PriceBar{
		Date:   time.Unix(m.T, 0).UTC().Truncate(24 * time.Hour),
		Open:   m.O,
		High:   m.H,
		Low:    m.L,
		Close:  m.C,
		Volume: m.V,
	}
	if err := h.store.StoreBars(ctx, m.Ticker, []models.PriceBar{bar}); err != nil {
		h.metrics.RecordError("ingest_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*BarIngestHandler)(nil)
