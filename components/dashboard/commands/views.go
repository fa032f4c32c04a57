package commands

import (
	"context"
	"errors"
	"fmt"

	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// ErrViewNotOpen is returned when a command targets a view without a store.
var ErrViewNotOpen = errors.New("commands: dashboard view is not open")

// ViewStores resolves the store backing a dashboard view.
type ViewStores interface {
	Open(viewID string) (*dashboard.Store, error)
	Get(viewID string) (*dashboard.Store, bool)
	Close(viewID string) bool
}

// Dependencies are shared by every view command.
type Dependencies struct {
	Views     ViewStores
	Hook      dashboard.ChangeHook
	Telemetry Telemetry
}

type viewCommand struct {
	views     ViewStores
	hook      dashboard.ChangeHook
	telemetry Telemetry
}

func newViewCommand(deps Dependencies) viewCommand {
	return viewCommand{
		views:     deps.Views,
		hook:      normalizeHook(deps.Hook),
		telemetry: normalizeTelemetry(deps.Telemetry),
	}
}

func (c viewCommand) store(viewID string) (*dashboard.Store, error) {
	if c.views == nil {
		return nil, errors.New("commands: view stores not configured")
	}
	store, ok := c.views.Get(viewID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotOpen, viewID)
	}
	return store, nil
}

// changed records telemetry and notifies the change hook.
func (c viewCommand) changed(ctx context.Context, store *dashboard.Store, viewID, widgetKey, reason string) error {
	event := dashboard.DashboardEvent{
		ViewID:    viewID,
		WidgetKey: widgetKey,
		Reason:    reason,
	}
	if store != nil {
		event.DashboardID = store.Snapshot().DashboardID
	}
	payload := map[string]any{"view_id": viewID}
	if event.DashboardID != "" {
		payload["dashboard_id"] = event.DashboardID
	}
	if widgetKey != "" {
		payload["widget_key"] = widgetKey
	}
	c.telemetry.Record(ctx, "dashboard.view."+reason, payload)
	return c.hook.DashboardChanged(ctx, event)
}
