package portal

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ensab/scolarite/internal/pkg/listing"
)

// MsgLoadFailed is the banner shown when a collection cannot be fetched.
const MsgLoadFailed = "Erreur lors du chargement des données."

// Snapshot is an immutable copy of a collection at load time.
type Snapshot[T listing.Record] struct {
	items    []T
	LoadedAt time.Time
}

// Items returns a copy of the loaded records.
func (s Snapshot[T]) Items() []T { return slices.Clone(s.items) }

func (s Snapshot[T]) Len() int { return len(s.items) }

// Filtered returns the records matching criteria, in load order.
func (s Snapshot[T]) Filtered(criteria listing.Criteria) []T {
	return listing.Apply(s.items, criteria)
}

// Collection is the in-memory view of one record kind. Every successful
// mutation is followed by a full Reload; concurrent reloads are not merged
// and the last one to finish wins.
type Collection[T listing.Record] struct {
	fetch   func(context.Context) ([]T, error)
	now     func() time.Time
	failMsg string

	mu      sync.RWMutex
	snap    Snapshot[T]
	loading int
	banner  string
}

// NewCollection creates a collection loaded by fetch. failMsg replaces
// MsgLoadFailed when not empty.
func NewCollection[T listing.Record](fetch func(context.Context) ([]T, error), failMsg string) *Collection[T] {
	if failMsg == "" {
		failMsg = MsgLoadFailed
	}
	return &Collection[T]{fetch: fetch, now: time.Now, failMsg: failMsg}
}

// Reload fetches every record of the scope. On failure the collection is
// emptied and the error banner set.
func (c *Collection[T]) Reload(ctx context.Context) (Snapshot[T], error) {
	c.mu.Lock()
	c.loading++
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		c.snap = Snapshot[T]{LoadedAt: c.now()}
		c.banner = c.failMsg
		return c.snap, err
	}
	c.snap = Snapshot[T]{items: slices.Clone(items), LoadedAt: c.now()}
	c.banner = ""
	return c.snap, nil
}

// Refetch is Reload without the snapshot, as expected by NewWorkflow.
func (c *Collection[T]) Refetch(ctx context.Context) error {
	_, err := c.Reload(ctx)
	return err
}

// Snapshot returns the last loaded snapshot.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Filtered applies criteria to the last loaded snapshot.
func (c *Collection[T]) Filtered(criteria listing.Criteria) []T {
	return c.Snapshot().Filtered(criteria)
}

// Loading reports whether a fetch is outstanding.
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading > 0
}

// Error returns the fetch failure banner, or "".
func (c *Collection[T]) Error() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.banner
}
