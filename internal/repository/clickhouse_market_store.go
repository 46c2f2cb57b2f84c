package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"QuantDesk/internal/domain/models"
	domrepo "QuantDesk/internal/domain/repository"
	pkgch "QuantDesk/pkg/clickhouse"
	applogger "QuantDesk/pkg/logger"
)

// CHMarketStore implements MarketStore and BarStore backed by ClickHouse.
type CHMarketStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHMarketStore(ch *pkgch.Client) *CHMarketStore {
	return &CHMarketStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHMarketStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHMarketStore) GetPriceSeries(ctx context.Context, ticker string, period domrepo.Period) (*models.PriceSeries, error) {
	start := time.Now()
	n := domrepo.BarsForPeriod(period)
	const q = `
        SELECT day, open, high, low, close, volume
        FROM quantdesk.daily_bars FINAL
        WHERE ticker = ?
        ORDER BY day DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, ticker, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_bars query error",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.PriceBar, 0, n)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(tmp) == 0 {
		return nil, domrepo.ErrUnavailable
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse get_bars ok",
			applogger.String("ticker", ticker),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return &models.PriceSeries{Ticker: ticker, Bars: tmp}, nil
}

func (s *CHMarketStore) GetStatements(ctx context.Context, ticker string) (*models.StatementHistory, error) {
	const q = `
        SELECT period_end,
               revenue, net_income, operating_cash_flow, capital_expenditure,
               depreciation, rnd, ebit, ebitda,
               total_assets, current_assets, current_liabilities,
               inventory, receivables, payables, cost_of_revenue,
               total_debt, cash, equity, shares_outstanding,
               gross_margin, pretax_income, interest_expense
        FROM quantdesk.statements FINAL
        WHERE ticker = ?
        ORDER BY period_end DESC
        LIMIT 8
    `
	rows, err := s.db.QueryContext(ctx, q, ticker)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_statements query error",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get statements: %w", err)
	}
	defer rows.Close()

	var snaps []models.StatementSnapshot
	for rows.Next() {
		snap, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(snaps) == 0 {
		return nil, domrepo.ErrUnavailable
	}
	// query is newest-first; history is oldest-first
	for i, j := 0, len(snaps)-1; i < j; i, j = i+1, j-1 {
		snaps[i], snaps[j] = snaps[j], snaps[i]
	}
	return &models.StatementHistory{Ticker: ticker, Periods: snaps}, nil
}

func scanStatement(rows *sql.Rows) (models.StatementSnapshot, error) {
	var snap models.StatementSnapshot
	cols := make([]sql.NullFloat64, 22)
	dest := make([]interface{}, 0, 23)
	dest = append(dest, &snap.PeriodEnd)
	for i := range cols {
		dest = append(dest, &cols[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return snap, err
	}
	fields := []**float64{
		&snap.Revenue, &snap.NetIncome, &snap.OperatingCashFlow, &snap.CapitalExpenditure,
		&snap.Depreciation, &snap.RnD, &snap.EBIT, &snap.EBITDA,
		&snap.TotalAssets, &snap.CurrentAssets, &snap.CurrentLiabilities,
		&snap.Inventory, &snap.Receivables, &snap.Payables, &snap.CostOfRevenue,
		&snap.TotalDebt, &snap.Cash, &snap.Equity, &snap.SharesOutstanding,
		&snap.GrossMargin, &snap.PretaxIncome, &snap.InterestExpense,
	}
	for i, f := range fields {
		if cols[i].Valid {
			v := cols[i].Float64
			*f = &v
		}
	}
	return snap, nil
}

func (s *CHMarketStore) GetAnalystTargets(ctx context.Context, ticker string) (*models.AnalystTargets, error) {
	const q = `
        SELECT low, mean, median, high, analyst_count
        FROM quantdesk.analyst_targets FINAL
        WHERE ticker = ?
        ORDER BY updated_at DESC
        LIMIT 1
    `
	var t models.AnalystTargets
	err := s.db.QueryRowContext(ctx, q, ticker).Scan(&t.Low, &t.Mean, &t.Median, &t.High, &t.Count)
	if err == sql.ErrNoRows {
		return nil, domrepo.ErrUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("get analyst targets: %w", err)
	}
	if t.Count == 0 {
		return nil, domrepo.ErrUnavailable
	}
	return &t, nil
}

func (s *CHMarketStore) GetUniverse(ctx context.Context) ([]models.Instrument, error) {
	const q = `
        SELECT ticker, domain_id
        FROM quantdesk.universe FINAL
        WHERE active = 1
        ORDER BY ticker ASC
    `
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("get universe: %w", err)
	}
	defer rows.Close()

	out := make([]models.Instrument, 0, 256)
	for rows.Next() {
		var inst models.Instrument
		if err := rows.Scan(&inst.Ticker, &inst.DomainID); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func (s *CHMarketStore) GetQuote(ctx context.Context, ticker string) (float64, float64, error) {
	const q = `
        SELECT b.close, u.beta
        FROM quantdesk.daily_bars b FINAL
        INNER JOIN quantdesk.universe u ON u.ticker = b.ticker
        WHERE b.ticker = ?
        ORDER BY b.day DESC
        LIMIT 1
    `
	var price, beta float64
	err := s.db.QueryRowContext(ctx, q, ticker).Scan(&price, &beta)
	if err == sql.ErrNoRows {
		return 0, 0, domrepo.ErrUnavailable
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get quote: %w", err)
	}
	return price, beta, nil
}

func (s *CHMarketStore) StoreBars(ctx context.Context, ticker string, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	values := make([]string, 0, len(bars))
	args := make([]interface{}, 0, len(bars)*7)
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, ticker, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	if len(values) == 0 {
		return nil
	}
	q := "INSERT INTO quantdesk.daily_bars (ticker, day, open, high, low, close, volume) VALUES " + strings.Join(values, ",")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store bars: %w", err)
	}
	return nil
}

func (s *CHMarketStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
