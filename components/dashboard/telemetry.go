package dashboard

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Telemetry records dashboard events for observability.
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

// LoggerTelemetry writes telemetry events as structured log entries.
type LoggerTelemetry struct {
	logger *zap.Logger
}

// NewLoggerTelemetry builds a Telemetry backed by zap.
func NewLoggerTelemetry(logger *zap.Logger) *LoggerTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerTelemetry{logger: logger}
}

// Record logs the event with its payload fields in key order.
func (t *LoggerTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, payload[k]))
	}
	t.logger.Info(event, fields...)
}
