package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// RenameDashboardInput edits the dashboard name of a view.
type RenameDashboardInput struct {
	ViewID  string `json:"view_id"`
	Name    string `json:"name"`
	IsValid *bool  `json:"is_valid,omitempty"`
}

// RenameDashboardCommand updates the working name and its validity.
type RenameDashboardCommand struct {
	viewCommand
}

// NewRenameDashboardCommand creates the command.
func NewRenameDashboardCommand(deps Dependencies) *RenameDashboardCommand {
	return &RenameDashboardCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[RenameDashboardInput] = (*RenameDashboardCommand)(nil)

// Execute renames the dashboard.
func (c *RenameDashboardCommand) Execute(ctx context.Context, msg RenameDashboardInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	store.SetDashboardName(msg.Name)
	if msg.IsValid != nil {
		store.SetNameValidity(*msg.IsValid)
	}
	return c.changed(ctx, store, msg.ViewID, "", "name")
}
