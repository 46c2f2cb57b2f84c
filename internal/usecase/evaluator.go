package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	domsvc "QuantDesk/internal/domain/service"
	"QuantDesk/internal/service/cache"
	"QuantDesk/pkg/logger"
)

const maxTickerLen = 12

// ErrInvalidTicker reports a malformed ticker in the request itself.
var ErrInvalidTicker = errors.New("invalid ticker")

// Evaluator runs the full pipeline for one instrument: snapshot acquisition,
// then the three engines, then composite scoring. Missing upstream data
// degrades the dependent dimension instead of failing the evaluation.
type Evaluator struct {
	store    drepo.MarketStore
	tech     domsvc.TechnicalAnalyzer
	valuer   domsvc.Valuer
	quality  domsvc.QualityAnalyzer
	scoring  ScoringParams
	cache    cache.BytesCache
	ttl      time.Duration
	riskFree float64
	metrics  drepo.Metrics
	log      *logger.Logger
}

func NewEvaluator(
	store drepo.MarketStore,
	tech domsvc.TechnicalAnalyzer,
	valuer domsvc.Valuer,
	quality domsvc.QualityAnalyzer,
	scoring ScoringParams,
	c cache.BytesCache,
	ttl time.Duration,
	riskFree float64,
	metrics drepo.Metrics,
	log *logger.Logger,
) *Evaluator {
	return &Evaluator{
		store:    store,
		tech:     tech,
		valuer:   valuer,
		quality:  quality,
		scoring:  scoring,
		cache:    c,
		ttl:      ttl,
		riskFree: riskFree,
		metrics:  metrics,
		log:      log,
	}
}

// NormalizeTicker validates and canonicalizes a raw ticker string.
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" || len(t) > maxTickerLen {
		return "", ErrInvalidTicker
	}
	for _, r := range t {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) && r != '.' && r != '-' {
			return "", ErrInvalidTicker
		}
	}
	return t, nil
}

func cacheKey(ticker string, period drepo.Period, asOf time.Time) string {
	return fmt.Sprintf("eval:%s:%s:%s", ticker, period, asOf.Format("2006-01-02"))
}

// Evaluate produces the full Evaluation for one ticker. A cache hit
// short-circuits the pipeline; results are keyed per ticker, window, and
// trading day so different windows never share a cached result.
func (e *Evaluator) Evaluate(ctx context.Context, rawTicker, rawPeriod string) (*models.Evaluation, error) {
	ticker, err := NormalizeTicker(rawTicker)
	if err != nil {
		e.metrics.RecordEvaluation(rawTicker, "invalid")
		return nil, err
	}
	period := drepo.NormalizePeriod(rawPeriod)

	now := time.Now().UTC()
	key := cacheKey(ticker, period, now)
	if e.cache != nil {
		if b, ok, cerr := e.cache.GetBytes(key); cerr == nil && ok {
			var ev models.Evaluation
			if jerr := json.Unmarshal(b, &ev); jerr == nil {
				e.metrics.RecordCache(true)
				return &ev, nil
			}
		}
		e.metrics.RecordCache(false)
	}

	snap, degraded, err := e.acquire(ctx, ticker, period)
	if err != nil {
		e.metrics.RecordEvaluation(ticker, "unavailable")
		return nil, err
	}

	ev := &models.Evaluation{
		Ticker:   ticker,
		AsOf:     now,
		Degraded: degraded,
	}

	if snap.Prices != nil {
		reading := e.tech.Analyze(*snap.Prices)
		ev.Technical = &reading
	}
	if snap.Statements != nil || snap.Targets != nil {
		val := e.valuer.Value(*snap)
		ev.Valuation = &val
	}
	if snap.Statements != nil {
		qs := e.quality.Score(*snap.Statements)
		ev.Quality = &qs
	}

	dims := dimensionScores(ev.Technical, ev.Valuation, ev.Quality, snap.Targets, snap.Price, snap.Beta, e.scoring)
	ev.Composite = Compose(ticker, dims, e.scoring)

	if e.cache != nil {
		if b, jerr := json.Marshal(ev); jerr == nil {
			if cerr := e.cache.SetBytes(key, b, e.ttl); cerr != nil {
				e.log.Warn("evaluation cache write failed",
					logger.String("ticker", ticker),
					logger.Error(cerr))
			}
		}
	}

	e.metrics.RecordEvaluation(ticker, "ok")
	return ev, nil
}

// acquire loads prices, statements, targets, and quote for one ticker.
// Price history is the one hard requirement; everything else degrades.
func (e *Evaluator) acquire(ctx context.Context, ticker string, period drepo.Period) (*models.Snapshot, map[string]string, error) {
	degraded := make(map[string]string)

	prices, err := e.store.GetPriceSeries(ctx, ticker, period)
	if err != nil {
		if errors.Is(err, drepo.ErrUnavailable) {
			return nil, nil, fmt.Errorf("price series for %s: %w", ticker, err)
		}
		return nil, nil, fmt.Errorf("get price series: %w", err)
	}

	snap := &models.Snapshot{
		Ticker:   ticker,
		AsOf:     time.Now().UTC(),
		Prices:   prices,
		RiskFree: e.riskFree,
	}
	if last := prices.LastClose(); last > 0 {
		snap.Price = last
	}

	price, beta, err := e.store.GetQuote(ctx, ticker)
	if err != nil {
		degraded["quote"] = err.Error()
	} else {
		if price > 0 {
			snap.Price = price
		}
		snap.Beta = beta
	}

	stmts, err := e.store.GetStatements(ctx, ticker)
	if err != nil {
		degraded["statements"] = err.Error()
		e.log.Debug("statements unavailable",
			logger.String("ticker", ticker),
			logger.Error(err))
	} else {
		snap.Statements = stmts
	}

	targets, err := e.store.GetAnalystTargets(ctx, ticker)
	if err != nil {
		degraded["analyst_targets"] = err.Error()
	} else {
		snap.Targets = targets
	}

	return snap, degraded, nil
}
