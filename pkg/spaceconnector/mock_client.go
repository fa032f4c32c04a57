package spaceconnector

import (
	"context"
	"sync"

	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// MockClient implements DashboardClient using in-memory fixtures.
type MockClient struct {
	mu         sync.RWMutex
	dashboards map[string]dashboard.DashboardRecord
	calls      map[string]int
}

// NewMockClient builds a mock client seeded with the given records, keyed by
// their dashboard id.
func NewMockClient(records ...dashboard.DashboardRecord) *MockClient {
	c := &MockClient{
		dashboards: make(map[string]dashboard.DashboardRecord, len(records)),
		calls:      map[string]int{},
	}
	for _, record := range records {
		c.dashboards[record.DashboardID] = record.Clone()
	}
	return c
}

var _ dashboard.DashboardClient = (*MockClient)(nil)

// Put stores or replaces a fixture.
func (c *MockClient) Put(record dashboard.DashboardRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dashboards[record.DashboardID] = record.Clone()
}

// GetProjectDashboard returns the fixture for a project dashboard id.
func (c *MockClient) GetProjectDashboard(_ context.Context, dashboardID string) (dashboard.DashboardRecord, error) {
	return c.get("project", dashboardID)
}

// GetDomainDashboard returns the fixture for a domain dashboard id.
func (c *MockClient) GetDomainDashboard(_ context.Context, dashboardID string) (dashboard.DashboardRecord, error) {
	return c.get("domain", dashboardID)
}

// Calls reports how many times an endpoint family ("project" or "domain") was hit.
func (c *MockClient) Calls(family string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls[family]
}

func (c *MockClient) get(family, dashboardID string) (dashboard.DashboardRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[family]++
	record, ok := c.dashboards[dashboardID]
	if !ok {
		return dashboard.DashboardRecord{}, ErrNotFound
	}
	return record.Clone(), nil
}
