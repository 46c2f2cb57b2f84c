package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"QuantDesk/internal/handler/api"
	"QuantDesk/internal/handler/ws"
	"QuantDesk/internal/usecase"
	pkgch "QuantDesk/pkg/clickhouse"
	"QuantDesk/pkg/config"
	xhttp "QuantDesk/pkg/http"
	pkgkafka "QuantDesk/pkg/kafka"
	applogger "QuantDesk/pkg/logger"
	"QuantDesk/pkg/queue"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    *api.EngineEchoHandler
	feed       *ws.AlertFeed
	consumer   *pkgkafka.Consumer
	ingest     *usecase.BarIngestHandler
	scanQueue  *queue.RedisQueue
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler *api.EngineEchoHandler,
	feed *ws.AlertFeed,
	consumer *pkgkafka.Consumer,
	ingest *usecase.BarIngestHandler,
	scanQueue *queue.RedisQueue,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		feed:      feed,
		consumer:  consumer,
		ingest:    ingest,
		scanQueue: scanQueue,
		chClient:  chClient,
	}
}

// RegisterRoutes wires the HTTP and websocket routes onto one Echo instance.
func (a *App) RegisterRoutes(e *echo.Echo) {
	a.handler.RegisterRoutes(e)
	a.feed.RegisterRoutes(e)
	e.GET("/healthz", a.health)
}

func (a *App) health(c echo.Context) error {
	if a.chClient != nil {
		if err := a.chClient.Health(c.Request().Context()); err != nil {
			return xhttp.AppErrorResponse(c, err)
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start the bar-ingest consumer if configured
	if a.consumer != nil && a.ingest != nil && a.ingest.Topic() != "" {
		a.consumer.RegisterHandler(a.ingest)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.ingest.Topic()))
	}

	// Start the scan queue workers if Redis is configured
	if a.scanQueue != nil {
		if err := a.scanQueue.Start(); err != nil {
			a.log.Error("scan queue start error", applogger.Error(err))
		} else {
			a.log.Info("scan queue started")
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("engine ready", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.feed != nil {
		if err := a.feed.Close(); err != nil {
			a.log.Warn("alert feed close error", applogger.Error(err))
		}
	}

	if a.scanQueue != nil {
		if err := a.scanQueue.Stop(shutdownCtx); err != nil {
			a.log.Warn("scan queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
