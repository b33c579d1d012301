package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
)

// MemoryIndex provides in-memory storage and lookup for subscriptions.
// It is the runtime read path; Redis is the durable copy behind it.
type MemoryIndex struct {
	mu         sync.RWMutex
	subs       map[string]*domain.Subscription // ID -> Subscription
	lastReload time.Time                       // Timestamp of last seed reload
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		subs: make(map[string]*domain.Subscription),
	}
}

// ReplaceAll swaps in a full new collection (startup sync, seed reload).
func (idx *MemoryIndex) ReplaceAll(subs []*domain.Subscription) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.subs = make(map[string]*domain.Subscription, len(subs))
	for _, sub := range subs {
		idx.subs[sub.ID] = sub
	}
	idx.lastReload = time.Now()
}

// Get retrieves a subscription by ID.
func (idx *MemoryIndex) Get(id string) (*domain.Subscription, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	sub, ok := idx.subs[id]
	return sub, ok
}

// All returns every subscription, soft-deleted ones included, ordered by
// creation time (ties broken by ID). The stable order matters: the reminder
// aggregator breaks DaysLeft ties by collection order.
func (idx *MemoryIndex) All() []*domain.Subscription {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	subs := make([]*domain.Subscription, 0, len(idx.subs))
	for _, sub := range idx.subs {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].CreatedAt.Before(subs[j].CreatedAt)
		}
		return subs[i].ID < subs[j].ID
	})
	return subs
}

// Visible returns the collection without soft-deleted records, same order
// as All.
func (idx *MemoryIndex) Visible() []*domain.Subscription {
	all := idx.All()
	visible := make([]*domain.Subscription, 0, len(all))
	for _, sub := range all {
		if !sub.Deleted {
			visible = append(visible, sub)
		}
	}
	return visible
}

// Put adds or updates a single subscription.
func (idx *MemoryIndex) Put(sub *domain.Subscription) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.subs[sub.ID] = sub
}

// Delete removes a subscription from the index.
func (idx *MemoryIndex) Delete(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.subs, id)
}

// Count returns the number of indexed subscriptions.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.subs)
}

// LastReload returns the timestamp of the last full replacement.
func (idx *MemoryIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
