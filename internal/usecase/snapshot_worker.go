package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/urjaconsultants/lead-pipeline/internal/config"
	"github.com/urjaconsultants/lead-pipeline/internal/observer"
	"github.com/urjaconsultants/lead-pipeline/internal/storage"
)

// SnapshotKey is where the full-dataset snapshot lives in the KV store.
const SnapshotKey = "leads:snapshot"

// ISnapshotWorker defines the interface for the snapshot flush worker.
type ISnapshotWorker interface {
	NotifyChange()
	Flush(ctx context.Context) error
	Stop()
}

// SnapshotWorker debounces change notifications and serializes the full
// lead set into the KV store once writes go quiet. Flushes run on an ants
// pool so callers never block on persistence.
type SnapshotWorker struct {
	pool       *ants.PoolWithFunc
	repo       storage.LeadRepo
	kv         storage.KVStore
	debounce   time.Duration
	baseLogger *zap.Logger

	mu    sync.Mutex
	timer *time.Timer
}

var _ ISnapshotWorker = (*SnapshotWorker)(nil)

// NewSnapshotWorker creates and initializes the snapshot flush pool.
func NewSnapshotWorker(
	cfg config.SnapshotWorkerPoolConfig,
	debounce time.Duration,
	repo storage.LeadRepo,
	kv storage.KVStore,
	baseLogger *zap.Logger,
) (*SnapshotWorker, error) {
	worker := &SnapshotWorker{
		repo:       repo,
		kv:         kv,
		debounce:   debounce,
		baseLogger: baseLogger.Named("snapshot_worker"),
	}

	pool, err := ants.NewPoolWithFunc(cfg.PoolSize, func(i interface{}) {
		ctx, ok := i.(context.Context)
		if !ok {
			worker.baseLogger.Error("Invalid task data type received", zap.Any("data", i))
			return
		}
		if err := worker.Flush(ctx); err != nil {
			worker.baseLogger.Error("Snapshot flush failed", zap.Error(err))
		}
	},
		ants.WithExpiryDuration(cfg.ExpiryTime),
		ants.WithNonblocking(false),
		ants.WithMaxBlockingTasks(cfg.QueueSize),
		ants.WithPanicHandler(func(p interface{}) {
			worker.baseLogger.Error("Panic recovered in snapshot worker", zap.Any("panic_error", p), zap.Stack("stack"))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot worker pool: %w", err)
	}
	worker.pool = pool
	worker.baseLogger.Info("Snapshot worker pool initialized",
		zap.Int("pool_size", cfg.PoolSize),
		zap.Int("queue_size", cfg.QueueSize),
		zap.Duration("debounce", debounce),
	)
	return worker, nil
}

// NotifyChange arms (or re-arms) the debounce timer. Only the last call in
// a burst of writes actually schedules a flush.
func (w *SnapshotWorker) NotifyChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.submit)
}

func (w *SnapshotWorker) submit() {
	err := w.pool.Invoke(context.Background())
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			w.baseLogger.Warn("Snapshot pool overloaded, dropping flush", zap.Error(err))
			return
		}
		w.baseLogger.Error("Failed to submit snapshot flush", zap.Error(err))
	}
}

// Flush serializes the full lead set into the KV store immediately,
// bypassing the debounce. Used by the pool and at shutdown.
func (w *SnapshotWorker) Flush(ctx context.Context) error {
	start := time.Now()

	leads, err := w.repo.FindAll(ctx)
	if err != nil {
		observer.ObserveSnapshotFlush(time.Since(start), err)
		return fmt.Errorf("failed to load leads for snapshot: %w", err)
	}

	payload, err := json.Marshal(leads)
	if err != nil {
		observer.ObserveSnapshotFlush(time.Since(start), err)
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	err = w.kv.Set(ctx, SnapshotKey, payload)
	observer.ObserveSnapshotFlush(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	w.baseLogger.Debug("Snapshot flushed",
		zap.Int("leads", len(leads)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// Stop cancels any pending debounce and releases the pool. A final flush
// is the caller's responsibility before Stop.
func (w *SnapshotWorker) Stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	w.pool.Release()
	w.baseLogger.Info("Snapshot worker pool stopped")
}
