package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"QuantDesk/internal/domain/models"
	drepo "QuantDesk/internal/domain/repository"
	xlogger "QuantDesk/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// AlertFeed fans freshly generated alerts out to connected websocket
// clients. It implements AlertPublisher so the scanner treats it like any
// other downstream sink.
type AlertFeed struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     *xlogger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []models.Alert
	done chan struct{}
}

func NewAlertFeed(log *xlogger.Logger) *AlertFeed {
	return &AlertFeed{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (f *AlertFeed) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/alerts", f.Serve)
}

// Serve upgrades the connection and streams alert batches until the client
// disconnects.
func (f *AlertFeed) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{
		conn: conn,
		send: make(chan []models.Alert, sendBuffer),
		done: make(chan struct{}),
	}
	f.mu.Lock()
	f.clients[cl] = struct{}{}
	n := len(f.clients)
	f.mu.Unlock()
	f.log.Info("alert feed client connected", xlogger.Int("clients", n))

	go f.writeLoop(cl)
	f.readLoop(cl)
	return nil
}

// readLoop drains and discards client frames; its only job is noticing the
// disconnect.
func (f *AlertFeed) readLoop(cl *client) {
	defer f.drop(cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *AlertFeed) writeLoop(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case alerts, ok := <-cl.send:
			if !ok {
				return
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(alerts); err != nil {
				f.drop(cl)
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.drop(cl)
				return
			}
		case <-cl.done:
			return
		}
	}
}

func (f *AlertFeed) drop(cl *client) {
	f.mu.Lock()
	if _, ok := f.clients[cl]; ok {
		delete(f.clients, cl)
		close(cl.done)
	}
	f.mu.Unlock()
	_ = cl.conn.Close()
}

// PublishBatch delivers one scan's alerts to every connected client.
// Slow clients get skipped rather than stalling the scan.
func (f *AlertFeed) PublishBatch(_ context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	f.mu.Lock()
	for cl := range f.clients {
		select {
		case cl.send <- alerts:
		default:
		}
	}
	f.mu.Unlock()
	return nil
}

func (f *AlertFeed) Close() error {
	f.mu.Lock()
	for cl := range f.clients {
		close(cl.done)
		_ = cl.conn.Close()
		delete(f.clients, cl)
	}
	f.mu.Unlock()
	return nil
}

var _ drepo.AlertPublisher = (*AlertFeed)(nil)
