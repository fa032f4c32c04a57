package dashboard

import (
	"errors"
	"sort"
	"sync"
)

// ErrMissingViewID is returned when a view is opened without an id.
var ErrMissingViewID = errors.New("dashboard: view id is required")

// Views keeps one Store per open dashboard view.
type Views struct {
	opts StoreOptions

	mu     sync.RWMutex
	stores map[string]*Store
}

// NewViews builds a registry whose stores share the given options.
func NewViews(opts StoreOptions) *Views {
	if opts.Widgets == nil {
		opts.Widgets = NewRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	return &Views{
		opts:   opts,
		stores: make(map[string]*Store),
	}
}

// Open returns the store of a view, creating it on first use.
func (v *Views) Open(viewID string) (*Store, error) {
	if viewID == "" {
		return nil, ErrMissingViewID
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if store, ok := v.stores[viewID]; ok {
		return store, nil
	}
	store := NewStore(v.opts)
	v.stores[viewID] = store
	return store, nil
}

// Get returns the store of an open view.
func (v *Views) Get(viewID string) (*Store, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	store, ok := v.stores[viewID]
	return store, ok
}

// Close resets and forgets the store of a view.
func (v *Views) Close(viewID string) bool {
	v.mu.Lock()
	store, ok := v.stores[viewID]
	delete(v.stores, viewID)
	v.mu.Unlock()
	if ok {
		store.ResetDashboardData()
	}
	return ok
}

// IDs lists the open view ids in sorted order.
func (v *Views) IDs() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ids := make([]string, 0, len(v.stores))
	for id := range v.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of open views.
func (v *Views) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.stores)
}

// Widgets exposes the shared widget config registry.
func (v *Views) Widgets() WidgetConfigRegistry {
	return v.opts.Widgets
}
