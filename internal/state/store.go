// File path: internal/state/store.go
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/report"
)

// Status is a report job's lifecycle phase. Transitions are monotonic:
// pending -> processing -> {completed|error}; terminal states only leave the
// store through Delete.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

var (
	ErrNotFound          = errors.New("report state not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Record tracks one report's background-job lifecycle. A single logical
// writer per ReportID is assumed; the store enforces only that terminal
// states never regress.
type Record struct {
	ReportID       string                    `json:"reportId"`
	Status         Status                    `json:"status"`
	Documents      []report.UploadedDocument `json:"documents,omitempty"`
	ProjectContext string                    `json:"projectContext,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
	Result         *report.ReportState       `json:"result,omitempty"`
	Error          string                    `json:"error,omitempty"`
}

// Terminal reports whether no further status transitions are allowed.
func (r Record) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusError
}

// Store is the processing-state record keyed by report ID. Backends provide
// atomic per-key writes; readers polling mid-write observe either the old or
// the new record, never a torn one.
type Store interface {
	Get(ctx context.Context, reportID string) (Record, error)
	Set(ctx context.Context, rec Record) error
	Delete(ctx context.Context, reportID string) error
	List(ctx context.Context) ([]Record, error)
	// Cleanup evicts records older than maxAge and returns the count removed.
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)
}

func validateTransition(existing *Record, next Record) error {
	if next.Status != StatusPending && next.Status != StatusProcessing && !next.Terminal() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next.Status)
	}
	if existing == nil {
		return nil
	}
	if existing.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrInvalidTransition, existing.ReportID, existing.Status)
	}
	if existing.Status == StatusProcessing && next.Status == StatusPending {
		return fmt.Errorf("%w: %s cannot regress to pending", ErrInvalidTransition, existing.ReportID)
	}
	return nil
}

// ReconcileStuck marks records stranded in processing beyond ttl as errored.
// Run at startup and by the janitor: a process restart mid-job would
// otherwise leave the record in processing forever.
func ReconcileStuck(ctx context.Context, store Store, ttl time.Duration) (int, error) {
	logger := common.Logger()
	records, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-ttl)
	reconciled := 0
	for _, rec := range records {
		if rec.Status != StatusProcessing || rec.UpdatedAt.After(cutoff) {
			continue
		}
		rec.Status = StatusError
		rec.Error = "processing timed out"
		rec.UpdatedAt = time.Now().UTC()
		if err := store.Set(ctx, rec); err != nil {
			logger.Warn("state: failed to reconcile stuck report", "report", rec.ReportID, "error", err)
			continue
		}
		logger.Info("state: marked stuck report as errored", "report", rec.ReportID)
		reconciled++
	}
	return reconciled, nil
}

// RunJanitor periodically evicts stale records and reconciles stuck jobs
// until ctx is cancelled.
func RunJanitor(ctx context.Context, store Store, interval, maxAge, stuckTTL time.Duration) {
	logger := common.Logger()
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted, err := store.Cleanup(ctx, maxAge); err != nil {
				logger.Warn("state: cleanup failed", "error", err)
			} else if evicted > 0 {
				logger.Info("state: evicted stale reports", "count", evicted)
			}
			if _, err := ReconcileStuck(ctx, store, stuckTTL); err != nil {
				logger.Warn("state: reconciliation failed", "error", err)
			}
		}
	}
}
