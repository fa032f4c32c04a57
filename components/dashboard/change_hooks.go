package dashboard

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ChangeHooks fans an event out to several hooks. Every hook runs even when an
// earlier one fails; the errors are joined.
type ChangeHooks []ChangeHook

// DashboardChanged satisfies ChangeHook.
func (hooks ChangeHooks) DashboardChanged(ctx context.Context, event DashboardEvent) error {
	var errs error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.DashboardChanged(ctx, event); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// LoggerHook writes every dashboard event to a zap logger at debug level.
type LoggerHook struct {
	Logger *zap.Logger
}

// DashboardChanged satisfies ChangeHook.
func (h *LoggerHook) DashboardChanged(_ context.Context, event DashboardEvent) error {
	if h == nil || h.Logger == nil {
		return nil
	}
	h.Logger.Debug("dashboard changed",
		zap.String("view_id", event.ViewID),
		zap.String("dashboard_id", event.DashboardID),
		zap.String("widget_key", event.WidgetKey),
		zap.String("reason", event.Reason),
	)
	return nil
}
