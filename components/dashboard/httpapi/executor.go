package httpapi

import (
	"context"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/queries"
)

// Executor is the transport-facing surface shared by net/http and go-router.
type Executor interface {
	Load(ctx context.Context, input commands.LoadDashboardInput) error
	Revert(ctx context.Context, input commands.ViewInput) error
	Close(ctx context.Context, input commands.ViewInput) error
	Rename(ctx context.Context, input commands.RenameDashboardInput) error
	ResetVariables(ctx context.Context, input commands.ResetVariablesInput) error
	SetVariables(ctx context.Context, input commands.SetVariablesInput) error
	UpdateWidget(ctx context.Context, input commands.UpdateWidgetInput) error
	ToggleWidgetSize(ctx context.Context, input commands.WidgetInput) error
	CloneWidget(ctx context.Context, input commands.WidgetInput) error
	DeleteWidget(ctx context.Context, input commands.WidgetInput) error
	UpdateWidgetValidation(ctx context.Context, input commands.WidgetValidationInput) error
	ValidateWidget(ctx context.Context, input commands.WidgetInput) error
	State(ctx context.Context, input queries.StateInput) (dashboard.Snapshot, error)
	Themes(ctx context.Context, input queries.StateInput) (map[string]int, error)
	WidgetConfigs(ctx context.Context) ([]dashboard.WidgetConfig, error)
	Preview(ctx context.Context, input queries.StateInput) (string, error)
	Period(ctx context.Context, input queries.PeriodInput) (dashboard.Period, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	LoadCommand             gocommand.Commander[commands.LoadDashboardInput]
	RevertCommand           gocommand.Commander[commands.ViewInput]
	CloseCommand            gocommand.Commander[commands.ViewInput]
	RenameCommand           gocommand.Commander[commands.RenameDashboardInput]
	ResetVariablesCommand   gocommand.Commander[commands.ResetVariablesInput]
	SetVariablesCommand     gocommand.Commander[commands.SetVariablesInput]
	UpdateWidgetCommand     gocommand.Commander[commands.UpdateWidgetInput]
	ToggleSizeCommand       gocommand.Commander[commands.WidgetInput]
	CloneWidgetCommand      gocommand.Commander[commands.WidgetInput]
	DeleteWidgetCommand     gocommand.Commander[commands.WidgetInput]
	WidgetValidationCommand gocommand.Commander[commands.WidgetValidationInput]
	ValidateWidgetCommand   gocommand.Commander[commands.WidgetInput]
	StateQuery              gocommand.Querier[queries.StateInput, dashboard.Snapshot]
	ThemesQuery             gocommand.Querier[queries.StateInput, map[string]int]
	WidgetConfigsQuery      gocommand.Querier[queries.WidgetConfigsInput, []dashboard.WidgetConfig]
	PreviewQuery            gocommand.Querier[queries.StateInput, string]
	PeriodQuery             gocommand.Querier[queries.PeriodInput, dashboard.Period]
}

// ExecutorOptions configures NewCommandExecutor.
type ExecutorOptions struct {
	Views     *dashboard.Views
	Hook      dashboard.ChangeHook
	Telemetry commands.Telemetry
	Preview   dashboard.PreviewOptions
}

// NewCommandExecutor wires every command and query against a view registry.
func NewCommandExecutor(opts ExecutorOptions) *CommandExecutor {
	if opts.Views == nil {
		opts.Views = dashboard.NewViews(dashboard.StoreOptions{})
	}
	deps := commands.Dependencies{
		Views:     opts.Views,
		Hook:      opts.Hook,
		Telemetry: opts.Telemetry,
	}
	return &CommandExecutor{
		LoadCommand:             commands.NewLoadDashboardCommand(deps),
		RevertCommand:           commands.NewRevertDashboardCommand(deps),
		CloseCommand:            commands.NewCloseViewCommand(deps),
		RenameCommand:           commands.NewRenameDashboardCommand(deps),
		ResetVariablesCommand:   commands.NewResetVariablesCommand(deps),
		SetVariablesCommand:     commands.NewSetVariablesCommand(deps),
		UpdateWidgetCommand:     commands.NewUpdateWidgetCommand(deps),
		ToggleSizeCommand:       commands.NewToggleWidgetSizeCommand(deps),
		CloneWidgetCommand:      commands.NewCloneWidgetCommand(deps),
		DeleteWidgetCommand:     commands.NewDeleteWidgetCommand(deps),
		WidgetValidationCommand: commands.NewUpdateWidgetValidationCommand(deps),
		ValidateWidgetCommand:   commands.NewValidateWidgetCommand(deps),
		StateQuery:              queries.NewStateQuery(opts.Views),
		ThemesQuery:             queries.NewWidgetThemesQuery(opts.Views),
		WidgetConfigsQuery:      queries.NewWidgetConfigsQuery(opts.Views.Widgets()),
		PreviewQuery:            queries.NewPreviewQuery(opts.Views, opts.Preview),
		PeriodQuery:             queries.NewPeriodQuery(opts.Views),
	}
}

var _ Executor = (*CommandExecutor)(nil)

var errNotConfigured = errors.New("httpapi: operation not configured")

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

func query[T, R any](ctx context.Context, q gocommand.Querier[T, R], msg T) (R, error) {
	if q == nil {
		var zero R
		return zero, errNotConfigured
	}
	return q.Query(ctx, msg)
}

func (e *CommandExecutor) Load(ctx context.Context, input commands.LoadDashboardInput) error {
	return execute(ctx, e.LoadCommand, input)
}

func (e *CommandExecutor) Revert(ctx context.Context, input commands.ViewInput) error {
	return execute(ctx, e.RevertCommand, input)
}

func (e *CommandExecutor) Close(ctx context.Context, input commands.ViewInput) error {
	return execute(ctx, e.CloseCommand, input)
}

func (e *CommandExecutor) Rename(ctx context.Context, input commands.RenameDashboardInput) error {
	return execute(ctx, e.RenameCommand, input)
}

func (e *CommandExecutor) ResetVariables(ctx context.Context, input commands.ResetVariablesInput) error {
	return execute(ctx, e.ResetVariablesCommand, input)
}

func (e *CommandExecutor) SetVariables(ctx context.Context, input commands.SetVariablesInput) error {
	return execute(ctx, e.SetVariablesCommand, input)
}

func (e *CommandExecutor) UpdateWidget(ctx context.Context, input commands.UpdateWidgetInput) error {
	return execute(ctx, e.UpdateWidgetCommand, input)
}

func (e *CommandExecutor) ToggleWidgetSize(ctx context.Context, input commands.WidgetInput) error {
	return execute(ctx, e.ToggleSizeCommand, input)
}

func (e *CommandExecutor) CloneWidget(ctx context.Context, input commands.WidgetInput) error {
	return execute(ctx, e.CloneWidgetCommand, input)
}

func (e *CommandExecutor) DeleteWidget(ctx context.Context, input commands.WidgetInput) error {
	return execute(ctx, e.DeleteWidgetCommand, input)
}

func (e *CommandExecutor) UpdateWidgetValidation(ctx context.Context, input commands.WidgetValidationInput) error {
	return execute(ctx, e.WidgetValidationCommand, input)
}

func (e *CommandExecutor) ValidateWidget(ctx context.Context, input commands.WidgetInput) error {
	return execute(ctx, e.ValidateWidgetCommand, input)
}

func (e *CommandExecutor) State(ctx context.Context, input queries.StateInput) (dashboard.Snapshot, error) {
	return query(ctx, e.StateQuery, input)
}

func (e *CommandExecutor) Themes(ctx context.Context, input queries.StateInput) (map[string]int, error) {
	return query(ctx, e.ThemesQuery, input)
}

func (e *CommandExecutor) WidgetConfigs(ctx context.Context) ([]dashboard.WidgetConfig, error) {
	return query(ctx, e.WidgetConfigsQuery, queries.WidgetConfigsInput{})
}

func (e *CommandExecutor) Preview(ctx context.Context, input queries.StateInput) (string, error) {
	return query(ctx, e.PreviewQuery, input)
}

func (e *CommandExecutor) Period(ctx context.Context, input queries.PeriodInput) (dashboard.Period, error) {
	return query(ctx, e.PeriodQuery, input)
}

// StatusFor maps command and query errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, commands.ErrViewNotOpen), errors.Is(err, queries.ErrViewNotOpen):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrLoadSuperseded):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrMissingViewID), errors.Is(err, dashboard.ErrMissingDashboardID):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrInvalidWidgetOptions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
