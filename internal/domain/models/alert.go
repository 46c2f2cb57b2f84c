package models

import "time"

// Alert is one buy-alert produced by a universe scan. At most one alert per
// instrument per scan run; historical alerts are append-only records.
type Alert struct {
	Ticker           string
	DomainID         string
	Reasons          []string
	RSI              *float64
	DistanceFromHigh *float64
	Timestamp        time.Time
}

// ContentKey identifies an alert by what it says rather than when it was
// produced. Re-running a scan on identical snapshots regenerates the same
// key, which is what makes scans idempotent by content.
func (a Alert) ContentKey(day time.Time) string {
	return a.Ticker + "|" + day.Format("2006-01-02")
}

// ScanResult is the outcome of one universe scan run.
type ScanResult struct {
	Alerts    []Alert
	Scanned   int
	Skipped   map[string]string // ticker -> reason for instruments that could not be evaluated
	StartedAt time.Time
	Duration  time.Duration
	Partial   bool // true when the scan was cancelled before covering the universe
}
