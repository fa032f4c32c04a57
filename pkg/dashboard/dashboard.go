package dashboard

import (
	core "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// Store exposes the underlying components/dashboard.Store type.
type Store = core.Store

// StoreOptions re-export for convenience.
type StoreOptions = core.StoreOptions

// Views exposes the per-view store registry.
type Views = core.Views

// DashboardRecord re-export for convenience.
type DashboardRecord = core.DashboardRecord

// NewStore proxies to the internal constructor.
func NewStore(opts StoreOptions) *Store {
	return core.NewStore(opts)
}

// NewViews proxies to the internal constructor.
func NewViews(opts StoreOptions) *Views {
	return core.NewViews(opts)
}

// ConvertDashboardInfo proxies to the legacy conversion pipeline.
func ConvertDashboardInfo(record DashboardRecord) (DashboardRecord, []error) {
	return core.ConvertDashboardInfo(record)
}
