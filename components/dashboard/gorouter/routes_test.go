package gorouter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-detail/pkg/spaceconnector"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router is missing")
	}
	if err := Register(Config[struct{}]{Router: newMockRouter()}); err == nil {
		t.Fatalf("expected error when executor is missing")
	}
}

func TestRegisterMountsRoutes(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newExecutor(), Broadcast: dashboard.NewBroadcastHook()}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	expected := []string{
		"GET:/api/widget-configs",
		"GET:/api/views/:view",
		"DELETE:/api/views/:view",
		"POST:/api/views/:view/load",
		"POST:/api/views/:view/revert",
		"PUT:/api/views/:view/name",
		"PUT:/api/views/:view/variables",
		"POST:/api/views/:view/variables/reset",
		"GET:/api/views/:view/themes",
		"GET:/api/views/:view/preview",
		"POST:/api/views/:view/period",
		"PUT:/api/views/:view/widgets/:key",
		"DELETE:/api/views/:view/widgets/:key",
		"POST:/api/views/:view/widgets/:key/toggle-size",
		"POST:/api/views/:view/widgets/:key/clone",
		"PUT:/api/views/:view/widgets/:key/validation",
		"POST:/api/views/:view/widgets/:key/validate",
	}
	for _, key := range expected {
		if _, ok := mock.routes[key]; !ok {
			t.Fatalf("expected route %s to be registered", key)
		}
	}
	if _, ok := mock.ws["/api/ws"]; !ok {
		t.Fatalf("expected websocket route to be registered")
	}
}

func TestRegisterHonoursBasePathWithoutBroadcast(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newExecutor(), BasePath: "/dash"}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if _, ok := mock.routes["GET:/dash/views/:view"]; !ok {
		t.Fatalf("expected routes under the custom base path")
	}
	if len(mock.ws) != 0 {
		t.Fatalf("expected no websocket route without a broadcast hook")
	}
}

func TestLoadAndToggleHandlers(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newExecutor()}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.params["view"] = "main"
	ctx.body = []byte(`{"dashboard_id":"domain-ops"}`)
	if err := mock.routes["POST:/api/views/:view/load"](ctx); err != nil {
		t.Fatalf("load handler returned error: %v", err)
	}
	snap := ctx.snapshot(t)
	if snap.DashboardID != "domain-ops" || len(snap.WidgetInfoList) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	ctx = newMockContext()
	ctx.params["view"] = "main"
	ctx.params["key"] = "w1"
	if err := mock.routes["POST:/api/views/:view/widgets/:key/toggle-size"](ctx); err != nil {
		t.Fatalf("toggle handler returned error: %v", err)
	}
	if size := ctx.snapshot(t).WidgetInfoList[0].Size; size != dashboard.WidgetSizeMD {
		t.Fatalf("expected md after toggle, got %s", size)
	}

	ctx = newMockContext()
	ctx.params["view"] = "main"
	if err := mock.routes["GET:/api/views/:view/preview"](ctx); err != nil {
		t.Fatalf("preview handler returned error: %v", err)
	}
	if ctx.headers["Content-Type"] != "text/html; charset=utf-8" || len(ctx.sent) == 0 {
		t.Fatalf("expected html preview body")
	}
}

func TestPeriodHandler(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newExecutor()}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.params["view"] = "main"
	ctx.body = []byte(`{"dashboard_id":"domain-ops"}`)
	if err := mock.routes["POST:/api/views/:view/load"](ctx); err != nil {
		t.Fatalf("load handler returned error: %v", err)
	}

	ctx = newMockContext()
	ctx.params["view"] = "main"
	ctx.body = []byte(`{"granularity":"MONTHLY","relative_period":{"unit":"year","value":1}}`)
	if err := mock.routes["POST:/api/views/:view/period"](ctx); err != nil {
		t.Fatalf("period handler returned error: %v", err)
	}
	if ctx.status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.status, ctx.sent)
	}
	var period dashboard.Period
	if err := json.Unmarshal(ctx.sent, &period); err != nil {
		t.Fatalf("decode period: %v", err)
	}
	if !strings.HasSuffix(period.Start, "-01") || !strings.HasSuffix(period.End, "-12") {
		t.Fatalf("expected a whole calendar year, got %+v", period)
	}
}

func TestHandlersReportErrors(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newExecutor()}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.params["view"] = "ghost"
	if err := mock.routes["GET:/api/views/:view"](ctx); err != nil {
		t.Fatalf("state handler returned error: %v", err)
	}
	if ctx.status != http.StatusNotFound {
		t.Fatalf("expected 404 for unopened view, got %d", ctx.status)
	}

	ctx = newMockContext()
	ctx.params["view"] = "main"
	ctx.body = []byte("{")
	if err := mock.routes["PUT:/api/views/:view/name"](ctx); err != nil {
		t.Fatalf("rename handler returned error: %v", err)
	}
	if ctx.status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", ctx.status)
	}
}

func newExecutor() httpapi.Executor {
	client := spaceconnector.NewMockClient(dashboard.DashboardRecord{
		DashboardID: "domain-ops",
		Name:        "Ops",
		Layouts: [][]dashboard.WidgetLayoutInfo{{
			{WidgetKey: "w1", WidgetName: "costTrend", Title: "Trend", Size: dashboard.WidgetSizeFull},
		}},
	})
	return httpapi.NewCommandExecutor(httpapi.ExecutorOptions{
		Views: dashboard.NewViews(dashboard.StoreOptions{Client: client}),
	})
}

// --- Test helpers ---

type mockRouter struct {
	router.Router[struct{}]
	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	full := m.prefix + path
	m.routes[method+":"+full] = handler
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.PUT), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.DELETE), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	full := m.prefix + path
	m.ws[full] = handler
	return mockRouteInfo{}
}

type mockRouteInfo struct {
	router.RouteInfo
}

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

type mockContext struct {
	router.Context
	ctx     context.Context
	headers map[string]string
	body    []byte
	sent    []byte
	params  map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		params:  map[string]string{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Send(b []byte) error {
	m.sent = append([]byte{}, b...)
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.sent = data
	return nil
}

func (m *mockContext) Body() []byte { return m.body }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) snapshot(t *testing.T) dashboard.Snapshot {
	t.Helper()
	if m.status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", m.status, m.sent)
	}
	var snap dashboard.Snapshot
	if err := json.Unmarshal(m.sent, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}
