package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/internal/service/ratelimit"
	"QuantDesk/pkg/logger"
)

// ErrEmptyUniverse reports a scan request over a universe with no instruments.
var ErrEmptyUniverse = errors.New("scan universe is empty")

// AlertCriteria are the buy-alert thresholds. Any single match produces an
// alert; all matching reasons are recorded on it.
type AlertCriteria struct {
	RSIBelow          float64
	DistanceBelow     float64 // fraction off the 52w high, e.g. -0.25
	MinBullishSignals int
	BollingerBelow    float64
}

func DefaultAlertCriteria() AlertCriteria {
	return AlertCriteria{
		RSIBelow:          35,
		DistanceBelow:     -0.25,
		MinBullishSignals: 2,
		BollingerBelow:    0.10,
	}
}

// Scanner sweeps a universe of instruments through the technical analyzer
// and emits buy-alerts for the ones matching the criteria. It holds no
// alert state of its own; persistence and fan-out are injected.
type Scanner struct {
	store     drepo.MarketStore
	tech      domsvc.TechnicalAnalyzer
	alerts    drepo.AlertStore
	publisher drepo.AlertPublisher
	limiter   *ratelimit.Limiter
	criteria  AlertCriteria
	workers   int
	rateCap   float64
	ratePerS  float64
	metrics   drepo.Metrics
	log       *logger.Logger
}

func NewScanner(
	store drepo.MarketStore,
	tech domsvc.TechnicalAnalyzer,
	alerts drepo.AlertStore,
	publisher drepo.AlertPublisher,
	limiter *ratelimit.Limiter,
	criteria AlertCriteria,
	workers int,
	rateCap, ratePerSec float64,
	metrics drepo.Metrics,
	log *logger.Logger,
) *Scanner {
	if workers < 1 {
		workers = 4
	}
	return &Scanner{
		store:     store,
		tech:      tech,
		alerts:    alerts,
		publisher: publisher,
		limiter:   limiter,
		criteria:  criteria,
		workers:   workers,
		rateCap:   rateCap,
		ratePerS:  ratePerSec,
		metrics:   metrics,
		log:       log,
	}
}

// evaluateInstrument loads the price series for one instrument and applies
// the alert criteria. Returns nil when nothing matched.
func (s *Scanner) evaluateInstrument(ctx context.Context, inst models.Instrument, now time.Time) (*models.Alert, error) {
	series, err := s.store.GetPriceSeries(ctx, inst.Ticker, drepo.P1Y)
	if err != nil {
		return nil, err
	}

	reading := s.tech.Analyze(*series)

	var reasons []string
	if reading.RSI14 != nil && *reading.RSI14 < s.criteria.RSIBelow {
		reasons = append(reasons, fmt.Sprintf("RSI %.1f below %.0f", *reading.RSI14, s.criteria.RSIBelow))
	}
	if reading.DistanceFromHigh52w != nil && *reading.DistanceFromHigh52w < s.criteria.DistanceBelow {
		reasons = append(reasons, fmt.Sprintf("%.0f%% below 52-week high", *reading.DistanceFromHigh52w*100))
	}
	if n := reading.BullishCount(); n >= s.criteria.MinBullishSignals {
		reasons = append(reasons, fmt.Sprintf("%d bullish signals active", n))
	}
	if reading.BollingerPosition != nil && *reading.BollingerPosition < s.criteria.BollingerBelow {
		reasons = append(reasons, "price near lower Bollinger band")
	}
	if len(reasons) == 0 {
		return nil, nil
	}

	return &models.Alert{
		Ticker:           inst.Ticker,
		DomainID:         inst.DomainID,
		Reasons:          reasons,
		RSI:              reading.RSI14,
		DistanceFromHigh: reading.DistanceFromHigh52w,
		Timestamp:        now,
	}, nil
}

// Scan sweeps the universe with a bounded worker pool, restricted to one
// domain when domain is non-empty. Cancellation stops dispatch, lets
// in-flight work finish, and marks the result partial.
func (s *Scanner) Scan(ctx context.Context, domain string) (*models.ScanResult, error) {
	universe, err := s.store.GetUniverse(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	if domain != "" {
		kept := universe[:0]
		for _, inst := range universe {
			if inst.DomainID == domain {
				kept = append(kept, inst)
			}
		}
		universe = kept
	}
	if len(universe) == 0 {
		return nil, ErrEmptyUniverse
	}

	started := time.Now().UTC()
	res := &models.ScanResult{
		StartedAt: started,
		Skipped:   make(map[string]string),
	}

	type outcome struct {
		ticker string
		alert  *models.Alert
		err    error
	}

	jobs := make(chan models.Instrument)
	outs := make(chan outcome, len(universe))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inst := range jobs {
				s.waitForToken(ctx)
				alert, aerr := s.evaluateInstrument(ctx, inst, started)
				outs <- outcome{ticker: inst.Ticker, alert: alert, err: aerr}
			}
		}()
	}

	dispatched := 0
dispatch:
	for _, inst := range universe {
		select {
		case jobs <- inst:
			dispatched++
		case <-ctx.Done():
			res.Partial = true
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	close(outs)

	for o := range outs {
		res.Scanned++
		if o.err != nil {
			res.Skipped[o.ticker] = o.err.Error()
			s.metrics.RecordError("scan_instrument")
			s.log.Warn("instrument skipped during scan",
				logger.String("ticker", o.ticker),
				logger.Error(o.err))
			continue
		}
		if o.alert != nil {
			res.Alerts = append(res.Alerts, *o.alert)
		}
	}
	if dispatched < len(universe) {
		res.Partial = true
	}

	sort.Slice(res.Alerts, func(i, j int) bool {
		return res.Alerts[i].Ticker < res.Alerts[j].Ticker
	})
	res.Duration = time.Since(started)

	if len(res.Alerts) > 0 {
		if s.alerts != nil {
			if ierr := s.alerts.Insert(ctx, res.Alerts); ierr != nil {
				s.metrics.RecordError("alert_store")
				s.log.Error("alert insert failed", logger.Error(ierr))
			}
		}
		if s.publisher != nil {
			if perr := s.publisher.PublishBatch(ctx, res.Alerts); perr != nil {
				s.metrics.RecordError("alert_publish")
				s.log.Error("alert publish failed", logger.Error(perr))
			}
		}
	}

	s.metrics.RecordScanDuration(res.Duration.Seconds())
	s.metrics.RecordAlerts(len(res.Alerts))
	s.log.Info("universe scan complete",
		logger.Int("scanned", res.Scanned),
		logger.Int("alerts", len(res.Alerts)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Bool("partial", res.Partial))

	return res, nil
}

// waitForToken blocks until the store rate budget allows another fetch or
// the context ends.
func (s *Scanner) waitForToken(ctx context.Context) {
	if s.limiter == nil {
		return
	}
	for !s.limiter.Allow("market_store", s.rateCap, s.ratePerS) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}
