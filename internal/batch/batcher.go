// Package batch debounces the persistence of propagation results and
// flushes them as one batch of concurrent per-record writes.
package batch

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Fred49680/operaflow-gantt/internal/events"
	"github.com/Fred49680/operaflow-gantt/internal/lock"
	"github.com/Fred49680/operaflow-gantt/internal/model"
	"github.com/Fred49680/operaflow-gantt/internal/store"
)

// DefaultDebounce is the quiet period after the last accepted gesture
// before a flush fires.
const DefaultDebounce = 2 * time.Second

// Patcher is the slice of the external store the batcher needs. Each
// call targets one record; calls for distinct records may run
// concurrently.
type Patcher interface {
	PatchTask(ctx context.Context, id string, patch store.TaskPatch) (model.Task, error)
	PatchMilestone(ctx context.Context, id string, patch store.MilestonePatch) (model.Milestone, error)
}

// Batcher accumulates task and milestone patches keyed by id. A later
// write to the same id within the debounce window overwrites the
// earlier one. A flush issues the writes concurrently; entries that
// fail stay queued for the next flush unless a newer write for the
// same id arrived meanwhile.
type Batcher struct {
	mu         sync.Mutex
	tasks      map[string]store.TaskPatch
	milestones map[string]store.MilestonePatch
	timer      *time.Timer

	debounce time.Duration
	store    Patcher
	locks    *lock.MutexMap
	logger   *log.Logger
	bus      *events.Bus
}

// New creates a Batcher. A non-positive debounce falls back to
// DefaultDebounce.
func New(st Patcher, debounce time.Duration, logger *log.Logger) *Batcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Batcher{
		tasks:      make(map[string]store.TaskPatch),
		milestones: make(map[string]store.MilestonePatch),
		debounce:   debounce,
		store:      st,
		locks:      lock.NewMutexMap(),
		logger:     logger,
	}
}

// SetBus wires an event bus for flush notifications.
func (b *Batcher) SetBus(bus *events.Bus) {
	b.bus = bus
}

// EnqueueTask queues a task patch, replacing any pending patch for the
// same id, and (re)arms the debounce timer.
func (b *Batcher) EnqueueTask(id string, patch store.TaskPatch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks[id] = patch
	b.armTimerLocked()
}

// EnqueueMilestone queues a milestone patch, last-write-wins per id.
func (b *Batcher) EnqueueMilestone(id string, patch store.MilestonePatch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.milestones[id] = patch
	b.armTimerLocked()
}

func (b *Batcher) armTimerLocked() {
	if b.timer == nil {
		b.timer = time.AfterFunc(b.debounce, func() {
			if err := b.Flush(context.Background()); err != nil {
				b.logger.Printf("batch: debounced flush: %v", err)
			}
		})
	} else {
		b.timer.Reset(b.debounce)
	}
}

// PendingCount returns the number of queued record writes.
func (b *Batcher) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tasks) + len(b.milestones)
}

// Flush writes every pending entry now. All writes run concurrently;
// a per-id lock guarantees two flushes never have the same record in
// flight at once. The first error is returned after every write has
// been attempted.
func (b *Batcher) Flush(ctx context.Context) error {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	tasks := b.tasks
	milestones := b.milestones
	b.tasks = make(map[string]store.TaskPatch)
	b.milestones = make(map[string]store.MilestonePatch)
	b.mu.Unlock()

	if len(tasks) == 0 && len(milestones) == 0 {
		return nil
	}

	var g errgroup.Group
	for id, patch := range tasks {
		g.Go(func() error {
			key := "task:" + id
			b.locks.Lock(key)
			defer b.locks.Unlock(key)
			if _, err := b.store.PatchTask(ctx, id, patch); err != nil {
				b.requeueTask(id, patch)
				b.logger.Printf("batch: patch task id=%s error=%v", id, err)
				return err
			}
			return nil
		})
	}
	for id, patch := range milestones {
		g.Go(func() error {
			key := "milestone:" + id
			b.locks.Lock(key)
			defer b.locks.Unlock(key)
			if _, err := b.store.PatchMilestone(ctx, id, patch); err != nil {
				b.requeueMilestone(id, patch)
				b.logger.Printf("batch: patch milestone id=%s error=%v", id, err)
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	if b.bus != nil {
		b.bus.Publish(events.EventBatchFlushed, map[string]interface{}{
			"tasks":      len(tasks),
			"milestones": len(milestones),
			"ok":         err == nil,
		})
	}
	return err
}

// Close collapses the debounce window: it flushes whatever is pending
// so closing the editing view never silently drops changes.
func (b *Batcher) Close(ctx context.Context) error {
	return b.Flush(ctx)
}

// requeueTask puts a failed write back in the queue unless a newer
// write for the id arrived during the flush (last-write-wins).
func (b *Batcher) requeueTask(id string, patch store.TaskPatch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tasks[id]; !ok {
		b.tasks[id] = patch
	}
}

func (b *Batcher) requeueMilestone(id string, patch store.MilestonePatch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.milestones[id]; !ok {
		b.milestones[id] = patch
	}
}
