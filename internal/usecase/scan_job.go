package usecase

import (
	"context"
	"fmt"
	"time"

	"QuantDesk/pkg/cache"
	"QuantDesk/pkg/logger"
	"QuantDesk/pkg/queue"
)

const ScanJobType = "universe_scan"

// scanLockKey guards against two workers scanning the universe at once.
var scanLockKey = cache.GenerateKey("lock", ScanJobType)

// ScanJobPayload is the queued request for an asynchronous universe scan.
type ScanJobPayload struct {
	RequestedBy    string `json:"requested_by"`
	Domain         string `json:"domain,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ScanJob runs queued universe scans. Enqueueing instead of scanning inline
// keeps the HTTP handler fast and serializes scans through the queue workers.
type ScanJob struct {
	scanner        *Scanner
	lock           cache.Service
	defaultTimeout time.Duration
	log            *logger.Logger
}

func NewScanJob(scanner *Scanner, lock cache.Service, defaultTimeout time.Duration, log *logger.Logger) *ScanJob {
	return &ScanJob{scanner: scanner, lock: lock, defaultTimeout: defaultTimeout, log: log}
}

func (j *ScanJob) Name() string { return "universe-scanner" }

func (j *ScanJob) Type() string { return ScanJobType }

func (j *ScanJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[ScanJobPayload](payload)
	if err != nil {
		return fmt.Errorf("scan job payload: %w", err)
	}

	timeout := j.defaultTimeout
	if p.TimeoutSeconds > 0 {
		timeout = time.Duration(p.TimeoutSeconds) * time.Second
	}
	if j.lock != nil {
		ok, err := j.lock.TryLock(ctx, scanLockKey, timeout+time.Minute)
		if err != nil {
			return fmt.Errorf("scan lock: %w", err)
		}
		if !ok {
			j.log.Warn("scan already running, skipping",
				logger.String("requested_by", p.RequestedBy))
			return nil
		}
		defer func() {
			if err := j.lock.Unlock(context.WithoutCancel(ctx), scanLockKey); err != nil {
				j.log.Warn("scan unlock failed", logger.Error(err))
			}
		}()
	}

	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := j.scanner.Scan(scanCtx, p.Domain)
	if err != nil {
		return fmt.Errorf("queued scan: %w", err)
	}
	j.log.Info("queued scan finished",
		logger.String("requested_by", p.RequestedBy),
		logger.Int("alerts", len(res.Alerts)),
		logger.Bool("partial", res.Partial))
	return nil
}

var _ queue.Job = (*ScanJob)(nil)
