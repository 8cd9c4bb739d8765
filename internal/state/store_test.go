// File path: internal/state/store_test.go
package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeworks/academy/internal/report"
)

func newRecord(id string, status Status) Record {
	now := time.Now().UTC()
	return Record{
		ReportID:  id,
		Status:    status,
		Documents: []report.UploadedDocument{{ID: "d1", Name: "notes.md", TextContent: "text"}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rec := newRecord("r1", StatusPending)
	require.NoError(t, store.Set(ctx, rec))

	rec.Status = StatusProcessing
	require.NoError(t, store.Set(ctx, rec))

	rec.Status = StatusCompleted
	rec.Result = &report.ReportState{Title: "Status Report"}
	require.NoError(t, store.Set(ctx, rec))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "Status Report", got.Result.Title)

	require.NoError(t, store.Delete(ctx, "r1"))
	_, err = store.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRejectsTransitionOutOfCompleted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rec := newRecord("r2", StatusPending)
	require.NoError(t, store.Set(ctx, rec))
	rec.Status = StatusProcessing
	require.NoError(t, store.Set(ctx, rec))
	rec.Status = StatusCompleted
	require.NoError(t, store.Set(ctx, rec))

	rec.Status = StatusProcessing
	err := store.Set(ctx, rec)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := store.Get(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestMemoryStoreRejectsTransitionOutOfError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rec := newRecord("r3", StatusPending)
	require.NoError(t, store.Set(ctx, rec))
	rec.Status = StatusError
	rec.Error = "upstream failure"
	require.NoError(t, store.Set(ctx, rec))

	rec.Status = StatusCompleted
	assert.ErrorIs(t, store.Set(ctx, rec), ErrInvalidTransition)
}

func TestMemoryStoreRejectsRegressionToPending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rec := newRecord("r4", StatusProcessing)
	require.NoError(t, store.Set(ctx, rec))
	rec.Status = StatusPending
	assert.ErrorIs(t, store.Set(ctx, rec), ErrInvalidTransition)
}

func TestMemoryStoreCleanupEvictsStaleRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	stale := newRecord("old", StatusCompleted)
	stale.UpdatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.Set(ctx, stale))

	fresh := newRecord("new", StatusPending)
	require.NoError(t, store.Set(ctx, fresh))

	evicted, err := store.Cleanup(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestReconcileStuckMarksStaleProcessingAsError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	stuck := newRecord("stuck", StatusProcessing)
	stuck.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Set(ctx, stuck))

	active := newRecord("active", StatusProcessing)
	require.NoError(t, store.Set(ctx, active))

	done := newRecord("done", StatusCompleted)
	done.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Set(ctx, done))

	reconciled, err := ReconcileStuck(ctx, store, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, reconciled)

	got, err := store.Get(ctx, "stuck")
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "processing timed out", got.Error)

	got, err = store.Get(ctx, "active")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)

	got, err = store.Get(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestMemoryStoreSetStampsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rec := Record{ReportID: "r5", Status: StatusPending}
	require.NoError(t, store.Set(ctx, rec))
	got, err := store.Get(ctx, "r5")
	require.NoError(t, err)
	assert.False(t, got.UpdatedAt.IsZero())
}
