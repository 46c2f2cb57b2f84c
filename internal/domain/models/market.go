package models

import "time"

// PriceBar represents one daily OHLCV record. Bars are immutable once fetched.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is an ordered daily price history for one instrument,
// ascending by date, no duplicate dates.
type PriceSeries struct {
	Ticker string
	Bars   []PriceBar
}

// Closes extracts the close column.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// LastClose returns the most recent close, or 0 if the series is empty.
func (s PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// StatementSnapshot holds one reporting period of financial statement data.
// Fields that the upstream source did not provide are nil; every consumer
// must treat a nil field as "check not evaluable", never as zero.
type StatementSnapshot struct {
	PeriodEnd          time.Time
	Revenue            *float64
	NetIncome          *float64
	OperatingCashFlow  *float64
	CapitalExpenditure *float64
	Depreciation       *float64
	RnD                *float64
	EBIT               *float64
	EBITDA             *float64
	TotalAssets        *float64
	CurrentAssets      *float64
	CurrentLiabilities *float64
	Inventory          *float64
	Receivables        *float64
	Payables           *float64
	CostOfRevenue      *float64
	TotalDebt          *float64
	Cash               *float64
	Equity             *float64
	SharesOutstanding  *float64
	GrossMargin        *float64
	PretaxIncome       *float64
	InterestExpense    *float64
}

// StatementHistory is an ordered sequence of statement snapshots, oldest first.
type StatementHistory struct {
	Ticker  string
	Periods []StatementSnapshot
}

// Latest returns the most recent period, or nil if the history is empty.
func (h StatementHistory) Latest() *StatementSnapshot {
	if len(h.Periods) == 0 {
		return nil
	}
	return &h.Periods[len(h.Periods)-1]
}

// Prior returns the second most recent period, or nil.
func (h StatementHistory) Prior() *StatementSnapshot {
	if len(h.Periods) < 2 {
		return nil
	}
	return &h.Periods[len(h.Periods)-2]
}

// AnalystTargets is the price-target consensus for one instrument.
type AnalystTargets struct {
	Low    float64
	Mean   float64
	Median float64
	High   float64
	Count  int
}

// Instrument identifies one scannable entry of the universe.
type Instrument struct {
	Ticker   string
	DomainID string
}

// Snapshot bundles everything the engines consume for one instrument.
// Nil members mean the corresponding upstream fetch was unavailable;
// dependent metrics degrade, they are never fabricated.
type Snapshot struct {
	Ticker     string
	AsOf       time.Time
	Prices     *PriceSeries
	Statements *StatementHistory
	Targets    *AnalystTargets
	Price      float64
	Beta       float64
	RiskFree   float64
}
