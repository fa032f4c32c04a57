package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// DeleteWidgetCommand removes a widget together with its validation entry.
type DeleteWidgetCommand struct {
	viewCommand
}

// NewDeleteWidgetCommand builds a command instance.
func NewDeleteWidgetCommand(deps Dependencies) *DeleteWidgetCommand {
	return &DeleteWidgetCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[WidgetInput] = (*DeleteWidgetCommand)(nil)

// Execute removes the widget. Unknown widget keys are ignored.
func (c *DeleteWidgetCommand) Execute(ctx context.Context, msg WidgetInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	if !store.DeleteWidget(msg.WidgetKey) {
		return nil
	}
	return c.changed(ctx, store, msg.ViewID, msg.WidgetKey, "widget.delete")
}
