package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// ViewInput targets an open view.
type ViewInput struct {
	ViewID string `json:"view_id"`
}

// RevertDashboardCommand discards the edits of a view.
type RevertDashboardCommand struct {
	viewCommand
}

// NewRevertDashboardCommand creates the command.
func NewRevertDashboardCommand(deps Dependencies) *RevertDashboardCommand {
	return &RevertDashboardCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[ViewInput] = (*RevertDashboardCommand)(nil)

// Execute reverts the view to the loaded record.
func (c *RevertDashboardCommand) Execute(ctx context.Context, msg ViewInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	store.RevertDashboardData()
	return c.changed(ctx, store, msg.ViewID, "", "revert")
}

// CloseViewCommand resets a view and releases its store.
type CloseViewCommand struct {
	viewCommand
}

// NewCloseViewCommand creates the command.
func NewCloseViewCommand(deps Dependencies) *CloseViewCommand {
	return &CloseViewCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[ViewInput] = (*CloseViewCommand)(nil)

// Execute closes the view. Closing an unknown view is a no-op.
func (c *CloseViewCommand) Execute(ctx context.Context, msg ViewInput) error {
	if c.views == nil || !c.views.Close(msg.ViewID) {
		return nil
	}
	return c.changed(ctx, nil, msg.ViewID, "", "close")
}
