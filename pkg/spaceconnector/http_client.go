package spaceconnector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

const (
	projectDashboardGetPath = "/dashboard/project-dashboard/get"
	domainDashboardGetPath  = "/dashboard/domain-dashboard/get"
)

// ErrNotFound is returned when the remote API reports an unknown dashboard.
var ErrNotFound = errors.New("spaceconnector: dashboard not found")

// HTTPConfig configures the HTTP SpaceConnector client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient reads dashboards from the SpaceConnector REST gateway.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the dashboard read endpoints.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("spaceconnector: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var _ dashboard.DashboardClient = (*HTTPClient)(nil)

// GetProjectDashboard implements DashboardClient via the project dashboard endpoint.
func (c *HTTPClient) GetProjectDashboard(ctx context.Context, dashboardID string) (dashboard.DashboardRecord, error) {
	req := getRequest{ProjectDashboardID: dashboardID}
	var record dashboard.DashboardRecord
	if err := c.do(ctx, projectDashboardGetPath, req, &record); err != nil {
		return dashboard.DashboardRecord{}, err
	}
	return withID(record, dashboardID), nil
}

// GetDomainDashboard implements DashboardClient via the domain dashboard endpoint.
func (c *HTTPClient) GetDomainDashboard(ctx context.Context, dashboardID string) (dashboard.DashboardRecord, error) {
	req := getRequest{DomainDashboardID: dashboardID}
	var record dashboard.DashboardRecord
	if err := c.do(ctx, domainDashboardGetPath, req, &record); err != nil {
		return dashboard.DashboardRecord{}, err
	}
	return withID(record, dashboardID), nil
}

type getRequest struct {
	ProjectDashboardID string `json:"project_dashboard_id,omitempty"`
	DomainDashboardID  string `json:"domain_dashboard_id,omitempty"`
}

// remoteRecord carries the id fields the API returns alongside the dashboard body.
type remoteRecord struct {
	ProjectDashboardID string `json:"project_dashboard_id"`
	DomainDashboardID  string `json:"domain_dashboard_id"`
}

func withID(record dashboard.DashboardRecord, dashboardID string) dashboard.DashboardRecord {
	if record.DashboardID == "" {
		record.DashboardID = dashboardID
	}
	return record
}

func (c *HTTPClient) do(ctx context.Context, path string, payload any, target *dashboard.DashboardRecord) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("spaceconnector: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("spaceconnector: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("spaceconnector: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("spaceconnector: remote error %d: %s", resp.StatusCode, buf.String())
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("spaceconnector: decode response: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("spaceconnector: decode dashboard: %w", err)
	}
	var ids remoteRecord
	if err := json.Unmarshal(raw, &ids); err == nil && target.DashboardID == "" {
		if ids.ProjectDashboardID != "" {
			target.DashboardID = ids.ProjectDashboardID
		} else {
			target.DashboardID = ids.DomainDashboardID
		}
	}
	return nil
}
