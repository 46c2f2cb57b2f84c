package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"QuantDesk/internal/domain/models"
	"QuantDesk/internal/domain/repository"
	pkgch "QuantDesk/pkg/clickhouse"
)

// CHAlertStore implements AlertStore for ClickHouse. Alerts are append-only;
// there is no update path.
type CHAlertStore struct {
	db    *sql.DB
	table string
}

func NewCHAlertStore(ch *pkgch.Client, table string) repository.AlertStore {
	if table == "" {
		table = "quantdesk.alerts"
	}
	return &CHAlertStore{db: ch.DB(), table: table}
}

func (s *CHAlertStore) Insert(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	values := make([]string, 0, len(alerts))
	args := make([]interface{}, 0, len(alerts)*6)
	for _, a := range alerts {
		if a.Ticker == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?)")
		args = append(args,
			a.Ticker,
			a.DomainID,
			strings.Join(a.Reasons, "; "),
			nullable(a.RSI),
			nullable(a.DistanceFromHigh),
			a.Timestamp,
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (ticker, domain_id, reasons, rsi, distance_from_high, ts) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert alerts: %w", err)
	}
	return nil
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func (s *CHAlertStore) QueryByTicker(ctx context.Context, ticker string, limit int) ([]models.Alert, error) {
	q := fmt.Sprintf("SELECT ticker, domain_id, reasons, rsi, distance_from_high, ts FROM %s WHERE ticker = ? ORDER BY ts DESC LIMIT ?", s.table)
	return s.query(ctx, q, ticker, limit)
}

func (s *CHAlertStore) QueryByDomain(ctx context.Context, domainID string, limit int) ([]models.Alert, error) {
	q := fmt.Sprintf("SELECT ticker, domain_id, reasons, rsi, distance_from_high, ts FROM %s WHERE domain_id = ? ORDER BY ts DESC LIMIT ?", s.table)
	return s.query(ctx, q, domainID, limit)
}

func (s *CHAlertStore) query(ctx context.Context, q string, key string, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, q, key, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var a models.Alert
		var reasons string
		var rsi, dist sql.NullFloat64
		var ts time.Time
		if err := rows.Scan(&a.Ticker, &a.DomainID, &reasons, &rsi, &dist, &ts); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if reasons != "" {
			a.Reasons = strings.Split(reasons, "; ")
		}
		if rsi.Valid {
			v := rsi.Float64
			a.RSI = &v
		}
		if dist.Valid {
			v := dist.Float64
			a.DistanceFromHigh = &v
		}
		a.Timestamp = ts
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *CHAlertStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHAlertStore) Close() error {
	return nil // Managed by pkg
}
