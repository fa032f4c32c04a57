package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-detail/components/dashboard"
)

// WidgetInput targets a widget of an open view.
type WidgetInput struct {
	ViewID    string `json:"view_id"`
	WidgetKey string `json:"widget_key"`
}

// UpdateWidgetInput captures the editable widget fields.
type UpdateWidgetInput struct {
	ViewID    string                        `json:"view_id"`
	WidgetKey string                        `json:"widget_key"`
	Patch     dashboard.UpdatableWidgetInfo `json:"patch"`
}

// UpdateWidgetCommand wraps Store.UpdateWidgetInfo.
type UpdateWidgetCommand struct {
	viewCommand
}

// NewUpdateWidgetCommand creates the command.
func NewUpdateWidgetCommand(deps Dependencies) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

// Execute updates the widget. Unknown widget keys are ignored.
func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	if !store.UpdateWidgetInfo(msg.WidgetKey, msg.Patch) {
		return nil
	}
	return c.changed(ctx, store, msg.ViewID, msg.WidgetKey, "widget.update")
}

// ToggleWidgetSizeCommand wraps Store.ToggleWidgetSize.
type ToggleWidgetSizeCommand struct {
	viewCommand
}

// NewToggleWidgetSizeCommand creates the command.
func NewToggleWidgetSizeCommand(deps Dependencies) *ToggleWidgetSizeCommand {
	return &ToggleWidgetSizeCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[WidgetInput] = (*ToggleWidgetSizeCommand)(nil)

// Execute toggles the widget size. Unknown widget keys are ignored.
func (c *ToggleWidgetSizeCommand) Execute(ctx context.Context, msg WidgetInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	if !store.ToggleWidgetSize(msg.WidgetKey) {
		return nil
	}
	return c.changed(ctx, store, msg.ViewID, msg.WidgetKey, "widget.toggle_size")
}

// CloneWidgetCommand wraps Store.CloneWidget. The change event carries the
// key of the new widget.
type CloneWidgetCommand struct {
	viewCommand
}

// NewCloneWidgetCommand creates the command.
func NewCloneWidgetCommand(deps Dependencies) *CloneWidgetCommand {
	return &CloneWidgetCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[WidgetInput] = (*CloneWidgetCommand)(nil)

// Execute clones the widget. Unknown widget keys are ignored.
func (c *CloneWidgetCommand) Execute(ctx context.Context, msg WidgetInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	key, ok := store.CloneWidget(msg.WidgetKey)
	if !ok {
		return nil
	}
	return c.changed(ctx, store, msg.ViewID, key, "widget.clone")
}
