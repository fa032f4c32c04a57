package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

type widgetConfigs interface {
	Configs() []dashboard.WidgetConfig
}

// WidgetConfigsInput is the (empty) request for the widget config catalogue.
type WidgetConfigsInput struct{}

// WidgetConfigsQuery lists the registered widget configs.
type WidgetConfigsQuery struct {
	registry widgetConfigs
}

// NewWidgetConfigsQuery builds the query.
func NewWidgetConfigsQuery(registry widgetConfigs) *WidgetConfigsQuery {
	return &WidgetConfigsQuery{registry: registry}
}

var _ gocommand.Querier[WidgetConfigsInput, []dashboard.WidgetConfig] = (*WidgetConfigsQuery)(nil)

// Query returns the configs sorted by widget name.
func (q *WidgetConfigsQuery) Query(context.Context, WidgetConfigsInput) ([]dashboard.WidgetConfig, error) {
	if q.registry == nil {
		return nil, nil
	}
	return q.registry.Configs(), nil
}
