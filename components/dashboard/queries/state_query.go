package queries

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// ErrViewNotOpen is returned when the queried view has no store.
var ErrViewNotOpen = errors.New("queries: dashboard view is not open")

type viewStores interface {
	Get(viewID string) (*dashboard.Store, bool)
}

// StateInput identifies the view to read.
type StateInput struct {
	ViewID string `json:"view_id"`
}

// StateQuery returns a snapshot of a view's dashboard state.
type StateQuery struct {
	views viewStores
}

// NewStateQuery builds the query.
func NewStateQuery(views viewStores) *StateQuery {
	return &StateQuery{views: views}
}

var _ gocommand.Querier[StateInput, dashboard.Snapshot] = (*StateQuery)(nil)

// Query resolves the snapshot for the view.
func (q *StateQuery) Query(_ context.Context, msg StateInput) (dashboard.Snapshot, error) {
	store, err := lookup(q.views, msg.ViewID)
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	return store.Snapshot(), nil
}

// WidgetThemesQuery returns the palette index of each themed widget in a view.
type WidgetThemesQuery struct {
	views viewStores
}

// NewWidgetThemesQuery builds the query.
func NewWidgetThemesQuery(views viewStores) *WidgetThemesQuery {
	return &WidgetThemesQuery{views: views}
}

var _ gocommand.Querier[StateInput, map[string]int] = (*WidgetThemesQuery)(nil)

// Query resolves the theme assignment.
func (q *WidgetThemesQuery) Query(_ context.Context, msg StateInput) (map[string]int, error) {
	store, err := lookup(q.views, msg.ViewID)
	if err != nil {
		return nil, err
	}
	return store.WidgetThemes(), nil
}

func lookup(views viewStores, viewID string) (*dashboard.Store, error) {
	if views == nil {
		return nil, errors.New("queries: view stores not configured")
	}
	store, ok := views.Get(viewID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotOpen, viewID)
	}
	return store, nil
}
