// Package locks provides exclusive, context-aware locks keyed by an id.
package locks

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/tosh-m12/courtmatch/internal/errors"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Keyed hands out one exclusive lock per key. Entries are dropped once no
// caller holds or waits on them.
type Keyed struct {
	mu      sync.Mutex
	entries map[int]*entry
	timeout time.Duration
	onWait  func(time.Duration)
}

// NewKeyed creates a Keyed lock set. A zero timeout waits until ctx is done.
func NewKeyed(timeout time.Duration) *Keyed {
	return &Keyed{entries: make(map[int]*entry), timeout: timeout}
}

// OnWait registers a callback receiving how long each acquisition waited
func (k *Keyed) OnWait(fn func(time.Duration)) {
	k.onWait = fn
}

// Acquire blocks until the lock for key is held and returns its release func.
// If the timeout elapses first a schedule_busy conflict is returned; if ctx
// ends first the conflict carries request_canceled and wraps ctx's error.
func (k *Keyed) Acquire(ctx context.Context, key int) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	waitCtx := ctx
	if k.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := e.sem.Acquire(waitCtx, 1); err != nil {
		k.drop(key, e)
		if stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errors.ConflictCode(errors.CodeScheduleBusy, "schedule is being modified, try again")
		}
		return nil, errors.WrapCode(err, errors.ErrConflict, errors.CodeRequestCanceled, "request canceled while waiting for the schedule")
	}
	if k.onWait != nil {
		k.onWait(time.Since(start))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			k.drop(key, e)
		})
	}, nil
}

func (k *Keyed) drop(key int, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}

// Len reports how many keys currently have holders or waiters
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
