package api

import (
	"encoding/json"
	"net/http"
	"time"

	icache "QuantDesk/internal/service/cache"
	"QuantDesk/internal/service/metrics"
	"QuantDesk/internal/service/ratelimit"
	"QuantDesk/internal/usecase"
	applogger "QuantDesk/pkg/logger"
)

// EngineHandler is the plain net/http flavor of the evaluation endpoints,
// used by the readiness probe and internal tooling that bypasses Echo.
type EngineHandler struct {
	evaluator *usecase.Evaluator
	cache     icache.BytesCache
	rl        *ratelimit.Limiter
	l         *applogger.Logger
}

func NewEngineHandler(evaluator *usecase.Evaluator) *EngineHandler {
	metrics.Register()
	return &EngineHandler{evaluator: evaluator, rl: ratelimit.New()}
}

func (h *EngineHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetLogger injects a structured logger.
func (h *EngineHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *EngineHandler) Evaluate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "evaluate"
		defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		ticker := r.URL.Query().Get("ticker")
		if ticker == "" {
			if h.l != nil {
				h.l.Warn("engine.evaluate missing ticker")
			}
			http.Error(w, "ticker required", http.StatusBadRequest)
			return
		}
		period := r.URL.Query().Get("period")
		if !h.rl.Allow(r.RemoteAddr+":evaluate", 5, 2) {
			if h.l != nil {
				h.l.Warn("engine.evaluate rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		cacheKey := "evaluate:" + ticker + ":" + period
		if h.cache != nil {
			if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
				if h.l != nil {
					h.l.Warn("engine.evaluate cache_get_error", applogger.Error(err))
				}
			} else if ok {
				w.Header().Set("Content-Type", "application/json")
				if _, err := w.Write(b); err != nil && h.l != nil {
					h.l.Warn("engine.evaluate write_error", applogger.Error(err))
				}
				return
			}
		}
		res, err := h.evaluator.Evaluate(r.Context(), ticker, period)
		if err != nil {
			metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("engine.evaluate error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		b, err := json.Marshal(res)
		if err != nil {
			if h.l != nil {
				h.l.Error("engine.evaluate marshal_error", applogger.Error(err))
			}
			http.Error(w, "encode error", http.StatusInternalServerError)
			return
		}
		if h.cache != nil {
			if err := h.cache.SetBytes(cacheKey, b, 60*time.Second); err != nil && h.l != nil {
				h.l.Warn("engine.evaluate cache_set_error", applogger.Error(err))
			}
		}
		if _, err := w.Write(b); err != nil && h.l != nil {
			h.l.Warn("engine.evaluate write_error", applogger.Error(err))
		}
	}
}
