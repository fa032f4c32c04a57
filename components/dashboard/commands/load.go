package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// LoadDashboardInput opens a view and loads a dashboard into it.
type LoadDashboardInput struct {
	ViewID      string `json:"view_id"`
	DashboardID string `json:"dashboard_id"`
	Force       bool   `json:"force"`
}

// LoadDashboardCommand wraps Store.GetDashboardInfo.
type LoadDashboardCommand struct {
	viewCommand
}

// NewLoadDashboardCommand creates the command.
func NewLoadDashboardCommand(deps Dependencies) *LoadDashboardCommand {
	return &LoadDashboardCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[LoadDashboardInput] = (*LoadDashboardCommand)(nil)

// Execute loads the dashboard, opening the view when needed.
func (c *LoadDashboardCommand) Execute(ctx context.Context, msg LoadDashboardInput) error {
	if c.views == nil {
		return errors.New("load command requires view stores")
	}
	store, err := c.views.Open(msg.ViewID)
	if err != nil {
		return err
	}
	if err := store.GetDashboardInfo(ctx, msg.DashboardID, msg.Force); err != nil {
		return err
	}
	return c.changed(ctx, store, msg.ViewID, "", "load")
}
