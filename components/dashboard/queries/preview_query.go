package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// PreviewQuery renders the widget layout of a view as an HTML chart.
type PreviewQuery struct {
	views   viewStores
	options dashboard.PreviewOptions
}

// NewPreviewQuery builds the query. Options without a cache render on every call.
func NewPreviewQuery(views viewStores, options dashboard.PreviewOptions) *PreviewQuery {
	return &PreviewQuery{views: views, options: options}
}

var _ gocommand.Querier[StateInput, string] = (*PreviewQuery)(nil)

// Query renders the preview.
func (q *PreviewQuery) Query(_ context.Context, msg StateInput) (string, error) {
	store, err := lookup(q.views, msg.ViewID)
	if err != nil {
		return "", err
	}
	snapshot := store.Snapshot()
	options := q.options
	if options.Title == "" {
		options.Title = snapshot.Name
	}
	return dashboard.RenderLayoutPreview(snapshot.WidgetInfoList, options)
}
