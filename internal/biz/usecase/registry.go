package usecase

import (
	"sync"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

// Registry maps content ids to the in-review content items. All
// mutation is funneled through Apply, which holds the per-content lock
// for the duration of the mutation so two concurrent revisions never
// interleave reads and writes on the same item.
type Registry struct {
	locks *KeyLocks

	mu    sync.RWMutex // guards the map structure only
	items map[string]*domain.ContentItem
}

// NewRegistry creates an empty registry sharing the given lock set.
func NewRegistry(locks *KeyLocks) *Registry {
	return &Registry{
		locks: locks,
		items: make(map[string]*domain.ContentItem),
	}
}

// Get returns a copy of the item, or false if the id is unknown.
func (r *Registry) Get(contentID string) (*domain.ContentItem, bool) {
	r.locks.Lock(contentID)
	defer r.locks.Unlock(contentID)

	item, ok := r.lookup(contentID)
	if !ok {
		return nil, false
	}
	return item.Clone(), true
}

// Put registers an item under contentID, replacing any existing one.
func (r *Registry) Put(contentID string, item *domain.ContentItem) {
	r.locks.Lock(contentID)
	defer r.locks.Unlock(contentID)

	cp := item.Clone()
	cp.ID = contentID

	r.mu.Lock()
	r.items[contentID] = cp
	r.mu.Unlock()
}

// Apply runs mutate against the live item under the per-content lock
// and returns a copy of the result. The second return is false if the
// id is unknown.
func (r *Registry) Apply(contentID string, mutate func(*domain.ContentItem) error) (*domain.ContentItem, bool, error) {
	r.locks.Lock(contentID)
	defer r.locks.Unlock(contentID)

	item, ok := r.lookup(contentID)
	if !ok {
		return nil, false, nil
	}
	if err := mutate(item); err != nil {
		return nil, true, err
	}
	return item.Clone(), true, nil
}

// Delete removes an item. The review core never deletes content on
// behalf of content-targeted commands; this serves administrative
// cleanup only.
func (r *Registry) Delete(contentID string) {
	r.locks.Lock(contentID)
	defer r.locks.Unlock(contentID)

	r.mu.Lock()
	delete(r.items, contentID)
	r.mu.Unlock()
}

// List returns copies of all registered items.
func (r *Registry) List() []*domain.ContentItem {
	items := make([]*domain.ContentItem, 0)
	for _, id := range r.ids() {
		if item, ok := r.Get(id); ok {
			items = append(items, item)
		}
	}
	return items
}

// Export returns the items keyed by id for snapshot flushing.
func (r *Registry) Export() map[string]*domain.ContentItem {
	out := make(map[string]*domain.ContentItem)
	for _, id := range r.ids() {
		if item, ok := r.Get(id); ok {
			out[id] = item
		}
	}
	return out
}

// Restore loads items from a snapshot, replacing matching ids.
func (r *Registry) Restore(items map[string]*domain.ContentItem) {
	for id, item := range items {
		if item == nil {
			continue
		}
		r.Put(id, item)
	}
}

func (r *Registry) lookup(contentID string) (*domain.ContentItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[contentID]
	return item, ok
}

func (r *Registry) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	return ids
}
