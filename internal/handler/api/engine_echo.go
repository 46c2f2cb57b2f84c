package api

import (
	"context"
	"errors"
	"time"

	models "QuantDesk/internal/domain/models"
	domrepo "QuantDesk/internal/domain/repository"
	"QuantDesk/internal/usecase"
	xhttp "QuantDesk/pkg/http"
	xlogger "QuantDesk/pkg/logger"
	"QuantDesk/pkg/queue"

	"github.com/labstack/echo/v4"
)

// EngineEchoHandler exposes the evaluation, scan, and alert endpoints.
type EngineEchoHandler struct {
	logger    *xlogger.Logger
	evaluator *usecase.Evaluator
	scanner   *usecase.Scanner
	alerts    domrepo.AlertStore
	queue     queue.QueueService
	plain     *EngineHandler
	scanTO    time.Duration
}

func NewEngineEchoHandler(
	logger *xlogger.Logger,
	evaluator *usecase.Evaluator,
	scanner *usecase.Scanner,
	alerts domrepo.AlertStore,
	q queue.QueueService,
	plain *EngineHandler,
	scanTimeout time.Duration,
) *EngineEchoHandler {
	if scanTimeout <= 0 {
		scanTimeout = 5 * time.Minute
	}
	return &EngineEchoHandler{
		logger:    logger,
		evaluator: evaluator,
		scanner:   scanner,
		alerts:    alerts,
		queue:     q,
		plain:     plain,
		scanTO:    scanTimeout,
	}
}

func (h *EngineEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/evaluate", h.Evaluate)
	g.POST("/scan", h.Scan)
	g.GET("/alerts", h.Alerts)
	if h.plain != nil {
		// Pre-Echo route kept for tooling that still calls the flat path.
		e.GET("/evaluate", echo.WrapHandler(h.plain.Evaluate()))
	}
}

func (h *EngineEchoHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.evaluator.Evaluate(c.Request().Context(), req.Ticker, req.Period)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidTicker) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		if errors.Is(err, domrepo.ErrUnavailable) {
			return xhttp.NotFoundResponse(c, err.Error())
		}
		h.logger.Error("evaluate usecase error",
			xlogger.String("ticker", req.Ticker),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Async && h.queue != nil {
		payload := usecase.ScanJobPayload{
			RequestedBy:    c.RealIP(),
			Domain:         req.Domain,
			TimeoutSeconds: int(h.scanTO.Seconds()),
		}
		if err := h.queue.PublishMessage(c.Request().Context(), usecase.ScanJobType, payload); err != nil {
			h.logger.Error("scan enqueue error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.SuccessResponse(c, map[string]string{"status": "queued"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.scanTO)
	defer cancel()

	res, err := h.scanner.Scan(ctx, req.Domain)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyUniverse) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineEchoHandler) Alerts(c echo.Context) error {
	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	var (
		alerts []models.Alert
		err    error
	)
	switch {
	case req.Ticker != "":
		alerts, err = h.alerts.QueryByTicker(ctx, req.Ticker, req.Limit)
	case req.Domain != "":
		alerts, err = h.alerts.QueryByDomain(ctx, req.Domain, req.Limit)
	default:
		return xhttp.BadRequestResponse(c, "ticker or domain is required")
	}
	if err != nil {
		h.logger.Error("alerts query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if s := c.QueryParam("since"); s != "" {
		since, ok := xhttp.ParseTime(s)
		if !ok {
			return xhttp.BadRequestResponse(c, "since must be RFC3339 or unix seconds")
		}
		filtered := alerts[:0]
		for _, a := range alerts {
			if !a.Timestamp.Before(since) {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}
	return xhttp.ListResponse(c, alerts, int64(len(alerts)))
}
