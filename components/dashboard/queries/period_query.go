package queries

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// PeriodInput asks for the date range a view's widgets should query.
type PeriodInput struct {
	ViewID      string                    `json:"view_id"`
	Granularity dashboard.Granularity     `json:"granularity"`
	Relative    *dashboard.RelativePeriod `json:"relative_period,omitempty"`
}

// PeriodQuery resolves a relative period, or falls back to the view's date range.
type PeriodQuery struct {
	views viewStores
	now   func() time.Time
}

// NewPeriodQuery builds the query.
func NewPeriodQuery(views viewStores) *PeriodQuery {
	return &PeriodQuery{views: views, now: time.Now}
}

var _ gocommand.Querier[PeriodInput, dashboard.Period] = (*PeriodQuery)(nil)

// Query returns the refined relative period when one is given, otherwise the
// view's enabled date range or the initial period for the granularity.
func (q *PeriodQuery) Query(_ context.Context, msg PeriodInput) (dashboard.Period, error) {
	store, err := lookup(q.views, msg.ViewID)
	if err != nil {
		return dashboard.Period{}, err
	}
	today := q.now()
	if msg.Relative != nil {
		return dashboard.RefinedPeriod(msg.Granularity, *msg.Relative, today), nil
	}
	return store.DateRangePeriod(msg.Granularity, today), nil
}
