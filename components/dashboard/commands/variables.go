package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// ResetVariablesInput reconciles a view's variables toward an origin. Empty
// origins fall back to the loaded dashboard.
type ResetVariablesInput struct {
	ViewID          string                     `json:"view_id"`
	Variables       dashboard.Variables        `json:"variables,omitempty"`
	VariablesSchema *dashboard.VariablesSchema `json:"variables_schema,omitempty"`
}

// ResetVariablesCommand wraps Store.ResetVariables.
type ResetVariablesCommand struct {
	viewCommand
}

// NewResetVariablesCommand creates the command.
func NewResetVariablesCommand(deps Dependencies) *ResetVariablesCommand {
	return &ResetVariablesCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[ResetVariablesInput] = (*ResetVariablesCommand)(nil)

// Execute resets the variables.
func (c *ResetVariablesCommand) Execute(ctx context.Context, msg ResetVariablesInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	store.ResetVariables(msg.Variables, msg.VariablesSchema)
	return c.changed(ctx, store, msg.ViewID, "", "variables.reset")
}

// SetVariablesInput replaces the working variable values of a view.
type SetVariablesInput struct {
	ViewID    string              `json:"view_id"`
	Variables dashboard.Variables `json:"variables"`
}

// SetVariablesCommand wraps Store.SetVariables.
type SetVariablesCommand struct {
	viewCommand
}

// NewSetVariablesCommand creates the command.
func NewSetVariablesCommand(deps Dependencies) *SetVariablesCommand {
	return &SetVariablesCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[SetVariablesInput] = (*SetVariablesCommand)(nil)

// Execute replaces the variables.
func (c *SetVariablesCommand) Execute(ctx context.Context, msg SetVariablesInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	store.SetVariables(msg.Variables)
	return c.changed(ctx, store, msg.ViewID, "", "variables.set")
}
