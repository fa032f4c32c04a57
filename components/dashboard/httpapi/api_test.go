package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/queries"
	"github.com/goliatone/go-dashboard-detail/pkg/spaceconnector"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubHook struct {
	reasons []string
}

func (h *stubHook) DashboardChanged(_ context.Context, event dashboard.DashboardEvent) error {
	h.reasons = append(h.reasons, event.Reason)
	return nil
}

func newServer(t *testing.T) (*httptest.Server, *stubHook) {
	t.Helper()
	client := spaceconnector.NewMockClient(dashboard.DashboardRecord{
		DashboardID: "domain-ops",
		Name:        "Ops",
		Settings: &dashboard.DashboardSettings{
			DateRange: &dashboard.DateRange{Enabled: true, Start: "2024-01", End: "2024-06"},
		},
		VariablesSchema: &dashboard.VariablesSchema{
			Properties: map[string]dashboard.PropertySchema{
				dashboard.VariableRegion: {Key: dashboard.VariableRegion, VariableType: dashboard.VariableTypeManaged, Use: true},
			},
			Order: []string{dashboard.VariableRegion},
		},
		Layouts: [][]dashboard.WidgetLayoutInfo{{
			{WidgetKey: "w1", WidgetName: "costTrend", Title: "Trend", Size: dashboard.WidgetSizeFull},
			{WidgetKey: "w2", WidgetName: "table", Title: "Table", Size: dashboard.WidgetSizeMD},
		}},
	})
	hook := &stubHook{}
	executor := NewCommandExecutor(ExecutorOptions{
		Views: dashboard.NewViews(dashboard.StoreOptions{Client: client}),
		Hook:  hook,
	})
	srv := httptest.NewServer((&Handlers{API: executor}).Mux())
	t.Cleanup(srv.Close)
	return srv, hook
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeSnapshot(t *testing.T, resp *http.Response) dashboard.Snapshot {
	t.Helper()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var snap dashboard.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestLoadAndMutateOverHTTP(t *testing.T) {
	srv, hook := newServer(t)

	snap := decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/load", map[string]any{"dashboard_id": "domain-ops"}))
	if snap.DashboardID != "domain-ops" || len(snap.WidgetInfoList) != 2 {
		t.Fatalf("unexpected snapshot after load: %+v", snap)
	}

	snap = decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/widgets/w1/toggle-size", nil))
	if snap.WidgetInfoList[0].Size != dashboard.WidgetSizeMD {
		t.Fatalf("expected md after toggle, got %s", snap.WidgetInfoList[0].Size)
	}

	snap = decodeSnapshot(t, do(t, srv, http.MethodPut, "/views/main/widgets/w2/validation", map[string]any{"is_valid": false}))
	if snap.IsWidgetLayoutValid {
		t.Fatalf("expected layout to be invalid")
	}

	snap = decodeSnapshot(t, do(t, srv, http.MethodDelete, "/views/main/widgets/w2", nil))
	if len(snap.WidgetInfoList) != 1 || !snap.IsWidgetLayoutValid {
		t.Fatalf("expected delete to drop widget and its validation entry: %+v", snap)
	}

	snap = decodeSnapshot(t, do(t, srv, http.MethodPut, "/views/main/name", map[string]any{"name": "Ops v2"}))
	if snap.Name != "Ops v2" || snap.OriginName != "Ops" {
		t.Fatalf("unexpected names: %s %s", snap.Name, snap.OriginName)
	}

	snap = decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/revert", nil))
	if len(snap.WidgetInfoList) != 2 || snap.Name != "Ops" {
		t.Fatalf("expected revert to restore the loaded dashboard: %+v", snap)
	}

	want := "load,widget.toggle_size,widget.validation,widget.delete,name,revert"
	if got := strings.Join(hook.reasons, ","); got != want {
		t.Fatalf("expected events %s, got %s", want, got)
	}
}

func TestUpdateAndCloneWidgetOverHTTP(t *testing.T) {
	srv, _ := newServer(t)
	decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/load", map[string]any{"dashboard_id": "domain-ops"}))

	patch := dashboard.UpdatableWidgetInfo{Title: "Daily", WidgetOptions: dashboard.WidgetOptions{"cost_data_field": "region_code"}}
	snap := decodeSnapshot(t, do(t, srv, http.MethodPut, "/views/main/widgets/w1", patch))
	if snap.WidgetInfoList[0].Title != "Daily" {
		t.Fatalf("expected updated title, got %s", snap.WidgetInfoList[0].Title)
	}

	snap = decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/widgets/w1/clone", nil))
	if len(snap.WidgetInfoList) != 3 || snap.WidgetInfoList[2].Title != "Daily (2)" {
		t.Fatalf("unexpected clone: %+v", snap.WidgetInfoList)
	}

	snap = decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/widgets/w1/validate", nil))
	if !snap.WidgetValidMap["w1"] {
		t.Fatalf("expected w1 to validate")
	}
}

func TestValidateWidgetReportsInvalidOptions(t *testing.T) {
	srv, _ := newServer(t)
	decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/load", map[string]any{"dashboard_id": "domain-ops"}))
	decodeSnapshot(t, do(t, srv, http.MethodPut, "/views/main/widgets/w1", dashboard.UpdatableWidgetInfo{
		Title:         "Trend",
		WidgetOptions: dashboard.WidgetOptions{"cost_data_field": 42},
	}))

	resp := do(t, srv, http.MethodPost, "/views/main/widgets/w1/validate", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(body["error"], "costTrend") {
		t.Fatalf("expected error to name the widget, got %q", body["error"])
	}
}

func TestVariablesThemesAndPreviewOverHTTP(t *testing.T) {
	srv, _ := newServer(t)
	decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/load", map[string]any{"dashboard_id": "domain-ops"}))

	snap := decodeSnapshot(t, do(t, srv, http.MethodPut, "/views/main/variables", map[string]any{
		"variables": map[string]any{"region": []string{"eu-west-1"}},
	}))
	if _, ok := snap.Variables["region"]; !ok {
		t.Fatalf("expected region variable, got %v", snap.Variables)
	}
	snap = decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/variables/reset", nil))
	if _, ok := snap.Variables["region"]; ok {
		t.Fatalf("expected reset to drop variables absent from the origin")
	}

	resp := do(t, srv, http.MethodGet, "/views/main/themes", nil)
	var themes map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&themes); err != nil {
		t.Fatalf("decode themes: %v", err)
	}
	if len(themes) != 1 || themes["w1"] != 0 {
		t.Fatalf("unexpected themes: %v", themes)
	}

	resp = do(t, srv, http.MethodGet, "/views/main/preview", nil)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("expected html preview, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestStateAndCloseOverHTTP(t *testing.T) {
	srv, _ := newServer(t)

	if resp := do(t, srv, http.MethodGet, "/views/main", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unopened view, got %d", resp.StatusCode)
	}
	decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/load", map[string]any{"dashboard_id": "domain-ops"}))
	decodeSnapshot(t, do(t, srv, http.MethodGet, "/views/main", nil))

	if resp := do(t, srv, http.MethodDelete, "/views/main", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp := do(t, srv, http.MethodGet, "/views/main", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", resp.StatusCode)
	}
}

func TestWidgetConfigsOverHTTP(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, srv, http.MethodGet, "/widget-configs", nil)
	var configs []dashboard.WidgetConfig
	if err := json.NewDecoder(resp.Body).Decode(&configs); err != nil {
		t.Fatalf("decode configs: %v", err)
	}
	if len(configs) != len(dashboard.DefaultWidgetConfigs()) {
		t.Fatalf("expected %d configs, got %d", len(dashboard.DefaultWidgetConfigs()), len(configs))
	}
}

func TestHandleLoadRejectsBadJSON(t *testing.T) {
	load := &stubCommander[commands.LoadDashboardInput]{}
	api := &Handlers{API: &CommandExecutor{LoadCommand: load}}
	req := httptest.NewRequest(http.MethodPost, "/views/main/load", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	api.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if load.calls != 0 {
		t.Fatalf("expected load not to execute")
	}
}

func TestHandleLoadUsesPathViewID(t *testing.T) {
	load := &stubCommander[commands.LoadDashboardInput]{}
	api := &Handlers{API: &CommandExecutor{LoadCommand: load}}
	req := httptest.NewRequest(http.MethodPost, "/views/side/load", strings.NewReader(`{"view_id":"spoofed","dashboard_id":"project-1","force":true}`))
	rec := httptest.NewRecorder()

	api.Mux().ServeHTTP(rec, req)

	if load.calls != 1 || load.last.ViewID != "side" || !load.last.Force {
		t.Fatalf("unexpected load input: %+v", load.last)
	}
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 without a state query, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("wrap: %w", commands.ErrViewNotOpen), http.StatusNotFound},
		{queries.ErrViewNotOpen, http.StatusNotFound},
		{dashboard.ErrLoadSuperseded, http.StatusConflict},
		{dashboard.ErrMissingViewID, http.StatusBadRequest},
		{dashboard.ErrMissingDashboardID, http.StatusBadRequest},
		{fmt.Errorf("%w for x", dashboard.ErrInvalidWidgetOptions), http.StatusUnprocessableEntity},
		{errNotConfigured, http.StatusNotImplemented},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestPeriodOverHTTP(t *testing.T) {
	srv, _ := newServer(t)
	decodeSnapshot(t, do(t, srv, http.MethodPost, "/views/main/load", map[string]any{"dashboard_id": "domain-ops"}))

	resp := do(t, srv, http.MethodPost, "/views/main/period", map[string]any{"granularity": "MONTHLY"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var period dashboard.Period
	if err := json.NewDecoder(resp.Body).Decode(&period); err != nil {
		t.Fatalf("decode period: %v", err)
	}
	if period.Start != "2024-01" || period.End != "2024-06" {
		t.Fatalf("expected the dashboard date range, got %+v", period)
	}

	resp = do(t, srv, http.MethodPost, "/views/ghost/period", map[string]any{"granularity": "DAILY"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unopened view, got %d", resp.StatusCode)
	}
}
