package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// WidgetValidationInput records a widget form validation result.
type WidgetValidationInput struct {
	ViewID    string `json:"view_id"`
	WidgetKey string `json:"widget_key"`
	IsValid   bool   `json:"is_valid"`
}

// UpdateWidgetValidationCommand wraps Store.UpdateWidgetValidation.
type UpdateWidgetValidationCommand struct {
	viewCommand
}

// NewUpdateWidgetValidationCommand creates the command.
func NewUpdateWidgetValidationCommand(deps Dependencies) *UpdateWidgetValidationCommand {
	return &UpdateWidgetValidationCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[WidgetValidationInput] = (*UpdateWidgetValidationCommand)(nil)

// Execute records the validation result.
func (c *UpdateWidgetValidationCommand) Execute(ctx context.Context, msg WidgetValidationInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	if !store.UpdateWidgetValidation(msg.IsValid, msg.WidgetKey) {
		return nil
	}
	return c.changed(ctx, store, msg.ViewID, msg.WidgetKey, "widget.validation")
}

// ValidateWidgetCommand checks widget options against the widget schema. The
// result is recorded in the view even when validation fails.
type ValidateWidgetCommand struct {
	viewCommand
}

// NewValidateWidgetCommand creates the command.
func NewValidateWidgetCommand(deps Dependencies) *ValidateWidgetCommand {
	return &ValidateWidgetCommand{viewCommand: newViewCommand(deps)}
}

var _ gocommand.Commander[WidgetInput] = (*ValidateWidgetCommand)(nil)

// Execute validates the widget and returns the schema error, if any.
func (c *ValidateWidgetCommand) Execute(ctx context.Context, msg WidgetInput) error {
	store, err := c.store(msg.ViewID)
	if err != nil {
		return err
	}
	_, validateErr := store.ValidateWidget(msg.WidgetKey)
	if err := c.changed(ctx, store, msg.ViewID, msg.WidgetKey, "widget.validate"); err != nil {
		return err
	}
	return validateErr
}
