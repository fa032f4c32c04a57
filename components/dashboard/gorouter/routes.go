package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/queries"
)

// Config wires go-router with the dashboard executor and change stream.
type Config[T any] struct {
	Router    router.Router[T]
	API       httpapi.Executor
	Broadcast *dashboard.BroadcastHook
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	WidgetConfigs    string
	View             string
	Load             string
	Revert           string
	Name             string
	Variables        string
	ResetVariables   string
	Themes           string
	Preview          string
	Period           string
	Widget           string
	ToggleSize       string
	Clone            string
	WidgetValidation string
	Validate         string
	WebSocket        string
}

// Register mounts dashboard routes (JSON, HTML preview, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: executor is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/api"
	}
	group := cfg.Router.Group(base)
	registerAPI(group, cfg.API, routes)
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Get(routes.WidgetConfigs, router.WrapHandler(func(ctx router.Context) error {
		configs, err := api.WidgetConfigs(ctx.Context())
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, configs)
	}))

	r.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		return respondState(ctx, api, ctx.Param("view"), nil)
	}))

	r.Delete(routes.View, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Close(ctx.Context(), commands.ViewInput{ViewID: ctx.Param("view")}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))

	r.Post(routes.Load, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.LoadDashboardInput
		if err := decode(ctx, &payload); err != nil {
			return badRequest(ctx, err)
		}
		payload.ViewID = ctx.Param("view")
		return respondState(ctx, api, payload.ViewID, api.Load(ctx.Context(), payload))
	}))

	r.Post(routes.Revert, router.WrapHandler(func(ctx router.Context) error {
		viewID := ctx.Param("view")
		return respondState(ctx, api, viewID, api.Revert(ctx.Context(), commands.ViewInput{ViewID: viewID}))
	}))

	r.Put(routes.Name, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RenameDashboardInput
		if err := decode(ctx, &payload); err != nil {
			return badRequest(ctx, err)
		}
		payload.ViewID = ctx.Param("view")
		return respondState(ctx, api, payload.ViewID, api.Rename(ctx.Context(), payload))
	}))

	r.Put(routes.Variables, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetVariablesInput
		if err := decode(ctx, &payload); err != nil {
			return badRequest(ctx, err)
		}
		payload.ViewID = ctx.Param("view")
		return respondState(ctx, api, payload.ViewID, api.SetVariables(ctx.Context(), payload))
	}))

	r.Post(routes.ResetVariables, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ResetVariablesInput
		if err := decode(ctx, &payload); err != nil {
			return badRequest(ctx, err)
		}
		payload.ViewID = ctx.Param("view")
		return respondState(ctx, api, payload.ViewID, api.ResetVariables(ctx.Context(), payload))
	}))

	r.Get(routes.Themes, router.WrapHandler(func(ctx router.Context) error {
		themes, err := api.Themes(ctx.Context(), queries.StateInput{ViewID: ctx.Param("view")})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, themes)
	}))

	r.Get(routes.Preview, router.WrapHandler(func(ctx router.Context) error {
		html, err := api.Preview(ctx.Context(), queries.StateInput{ViewID: ctx.Param("view")})
		if err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))

	r.Post(routes.Period, router.WrapHandler(func(ctx router.Context) error {
		var payload queries.PeriodInput
		if err := decode(ctx, &payload); err != nil {
			return badRequest(ctx, err)
		}
		payload.ViewID = ctx.Param("view")
		period, err := api.Period(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, period)
	}))

	r.Put(routes.Widget, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.UpdateWidgetInput
		if err := decode(ctx, &payload.Patch); err != nil {
			return badRequest(ctx, err)
		}
		payload.ViewID = ctx.Param("view")
		payload.WidgetKey = ctx.Param("key")
		return respondState(ctx, api, payload.ViewID, api.UpdateWidget(ctx.Context(), payload))
	}))

	r.Delete(routes.Widget, router.WrapHandler(func(ctx router.Context) error {
		input := widgetInput(ctx)
		return respondState(ctx, api, input.ViewID, api.DeleteWidget(ctx.Context(), input))
	}))

	r.Post(routes.ToggleSize, router.WrapHandler(func(ctx router.Context) error {
		input := widgetInput(ctx)
		return respondState(ctx, api, input.ViewID, api.ToggleWidgetSize(ctx.Context(), input))
	}))

	r.Post(routes.Clone, router.WrapHandler(func(ctx router.Context) error {
		input := widgetInput(ctx)
		return respondState(ctx, api, input.ViewID, api.CloneWidget(ctx.Context(), input))
	}))

	r.Put(routes.WidgetValidation, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.WidgetValidationInput
		if err := decode(ctx, &payload); err != nil {
			return badRequest(ctx, err)
		}
		payload.ViewID = ctx.Param("view")
		payload.WidgetKey = ctx.Param("key")
		return respondState(ctx, api, payload.ViewID, api.UpdateWidgetValidation(ctx.Context(), payload))
	}))

	r.Post(routes.Validate, router.WrapHandler(func(ctx router.Context) error {
		input := widgetInput(ctx)
		return respondState(ctx, api, input.ViewID, api.ValidateWidget(ctx.Context(), input))
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func widgetInput(ctx router.Context) commands.WidgetInput {
	return commands.WidgetInput{ViewID: ctx.Param("view"), WidgetKey: ctx.Param("key")}
}

// decode parses the request body. An empty body leaves target untouched.
func decode(ctx router.Context, target any) error {
	body := ctx.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, target)
}

func badRequest(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func respondState(ctx router.Context, api httpapi.Executor, viewID string, err error) error {
	if err != nil {
		return respondError(ctx, err)
	}
	snapshot, err := api.State(ctx.Context(), queries.StateInput{ViewID: viewID})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.WidgetConfigs == "" {
		routes.WidgetConfigs = "/widget-configs"
	}
	if routes.View == "" {
		routes.View = "/views/:view"
	}
	if routes.Load == "" {
		routes.Load = "/views/:view/load"
	}
	if routes.Revert == "" {
		routes.Revert = "/views/:view/revert"
	}
	if routes.Name == "" {
		routes.Name = "/views/:view/name"
	}
	if routes.Variables == "" {
		routes.Variables = "/views/:view/variables"
	}
	if routes.ResetVariables == "" {
		routes.ResetVariables = "/views/:view/variables/reset"
	}
	if routes.Themes == "" {
		routes.Themes = "/views/:view/themes"
	}
	if routes.Preview == "" {
		routes.Preview = "/views/:view/preview"
	}
	if routes.Period == "" {
		routes.Period = "/views/:view/period"
	}
	if routes.Widget == "" {
		routes.Widget = "/views/:view/widgets/:key"
	}
	if routes.ToggleSize == "" {
		routes.ToggleSize = "/views/:view/widgets/:key/toggle-size"
	}
	if routes.Clone == "" {
		routes.Clone = "/views/:view/widgets/:key/clone"
	}
	if routes.WidgetValidation == "" {
		routes.WidgetValidation = "/views/:view/widgets/:key/validation"
	}
	if routes.Validate == "" {
		routes.Validate = "/views/:view/widgets/:key/validate"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
