package commands

import (
	"context"

	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// Telemetry allows commands to emit structured events.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

type noopChangeHook struct{}

func (noopChangeHook) DashboardChanged(context.Context, dashboard.DashboardEvent) error { return nil }

func normalizeHook(h dashboard.ChangeHook) dashboard.ChangeHook {
	if h == nil {
		return noopChangeHook{}
	}
	return h
}
