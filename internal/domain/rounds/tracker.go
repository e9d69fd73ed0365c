// Package rounds tracks committed comparison rounds so a resubmitted vote is
// applied at most once.
package rounds

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 10000

// Tracker records committed round IDs.
type Tracker interface {
	// Claim atomically checks whether id was already claimed and claims it if not.
	// Returns true if id was already claimed.
	Claim(ctx context.Context, id string) bool

	// Release forgets id so the round can be submitted again. Used when the
	// commit that followed a successful Claim failed.
	Release(ctx context.Context, id string)

	// Reset forgets every round.
	Reset(ctx context.Context)

	// Snapshot returns the remembered round IDs, oldest first.
	Snapshot() []string

	// Restore replaces the remembered rounds with ids, oldest first. When
	// bounded only the newest ids are kept.
	Restore(ctx context.Context, ids []string)

	Size() int64
}

// memoryTracker keeps claimed IDs in a map plus an insertion-ordered list.
// When bounded the oldest claim is evicted first.
type memoryTracker struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int // 0 or negative = unbounded
	size    atomic.Int64
}

// NewTracker creates an in-memory tracker.
func NewTracker(opts ...Option) Tracker {
	t := &memoryTracker{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.seen = make(map[string]*list.Element)
	t.order = list.New()
	return t
}

func (t *memoryTracker) Claim(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return true
	}
	t.push(id)
	return false
}

func (t *memoryTracker) Release(_ context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if el, ok := t.seen[id]; ok {
		t.order.Remove(el)
		delete(t.seen, id)
		t.size.Add(-1)
	}
}

func (t *memoryTracker) Reset(context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seen = make(map[string]*list.Element)
	t.order.Init()
	t.size.Store(0)
}

func (t *memoryTracker) Snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, t.order.Len())
	for el := t.order.Front(); el != nil; el = el.Next() {
		ids = append(ids, el.Value.(string))
	}
	return ids
}

func (t *memoryTracker) Restore(_ context.Context, ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seen = make(map[string]*list.Element, len(ids))
	t.order.Init()
	t.size.Store(0)
	for _, id := range ids {
		if _, ok := t.seen[id]; ok || id == "" {
			continue
		}
		t.push(id)
	}
}

// push must be called with t.mu held.
func (t *memoryTracker) push(id string) {
	if t.maxSize > 0 && len(t.seen) >= t.maxSize {
		t.evictOldest()
	}
	t.seen[id] = t.order.PushBack(id)
	t.size.Add(1)
}

// evictOldest must be called with t.mu held.
func (t *memoryTracker) evictOldest() {
	front := t.order.Front()
	if front == nil {
		return
	}
	t.order.Remove(front)
	delete(t.seen, front.Value.(string))
	t.size.Add(-1)
}

func (t *memoryTracker) Size() int64 {
	return t.size.Load()
}
