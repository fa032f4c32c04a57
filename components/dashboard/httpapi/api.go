package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/goliatone/go-dashboard-detail/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-detail/components/dashboard/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands. Mutating
// endpoints answer with the resulting view snapshot.
type Handlers struct {
	API Executor
}

// Mux mounts every handler on a ServeMux using path wildcards.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /widget-configs", h.HandleWidgetConfigs)
	mux.HandleFunc("GET /views/{view}", h.HandleState)
	mux.HandleFunc("DELETE /views/{view}", h.HandleClose)
	mux.HandleFunc("POST /views/{view}/load", h.HandleLoad)
	mux.HandleFunc("POST /views/{view}/revert", h.HandleRevert)
	mux.HandleFunc("PUT /views/{view}/name", h.HandleRename)
	mux.HandleFunc("PUT /views/{view}/variables", h.HandleSetVariables)
	mux.HandleFunc("POST /views/{view}/variables/reset", h.HandleResetVariables)
	mux.HandleFunc("GET /views/{view}/themes", h.HandleThemes)
	mux.HandleFunc("GET /views/{view}/preview", h.HandlePreview)
	mux.HandleFunc("POST /views/{view}/period", h.HandlePeriod)
	mux.HandleFunc("PUT /views/{view}/widgets/{key}", h.HandleUpdateWidget)
	mux.HandleFunc("DELETE /views/{view}/widgets/{key}", h.HandleDeleteWidget)
	mux.HandleFunc("POST /views/{view}/widgets/{key}/toggle-size", h.HandleToggleWidgetSize)
	mux.HandleFunc("POST /views/{view}/widgets/{key}/clone", h.HandleCloneWidget)
	mux.HandleFunc("PUT /views/{view}/widgets/{key}/validation", h.HandleWidgetValidation)
	mux.HandleFunc("POST /views/{view}/widgets/{key}/validate", h.HandleValidateWidget)
	return mux
}

func (h *Handlers) HandleLoad(w http.ResponseWriter, r *http.Request) {
	var payload commands.LoadDashboardInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ViewID = r.PathValue("view")
	h.respondAfter(w, r, payload.ViewID, h.API.Load(r.Context(), payload))
}

func (h *Handlers) HandleRevert(w http.ResponseWriter, r *http.Request) {
	viewID := r.PathValue("view")
	h.respondAfter(w, r, viewID, h.API.Revert(r.Context(), commands.ViewInput{ViewID: viewID}))
}

func (h *Handlers) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.API.Close(r.Context(), commands.ViewInput{ViewID: r.PathValue("view")}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleRename(w http.ResponseWriter, r *http.Request) {
	var payload commands.RenameDashboardInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ViewID = r.PathValue("view")
	h.respondAfter(w, r, payload.ViewID, h.API.Rename(r.Context(), payload))
}

func (h *Handlers) HandleSetVariables(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetVariablesInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ViewID = r.PathValue("view")
	h.respondAfter(w, r, payload.ViewID, h.API.SetVariables(r.Context(), payload))
}

func (h *Handlers) HandleResetVariables(w http.ResponseWriter, r *http.Request) {
	var payload commands.ResetVariablesInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ViewID = r.PathValue("view")
	h.respondAfter(w, r, payload.ViewID, h.API.ResetVariables(r.Context(), payload))
}

func (h *Handlers) HandleUpdateWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.UpdateWidgetInput
	if !decode(w, r, &payload.Patch) {
		return
	}
	payload.ViewID = r.PathValue("view")
	payload.WidgetKey = r.PathValue("key")
	h.respondAfter(w, r, payload.ViewID, h.API.UpdateWidget(r.Context(), payload))
}

func (h *Handlers) HandleDeleteWidget(w http.ResponseWriter, r *http.Request) {
	input := widgetInput(r)
	h.respondAfter(w, r, input.ViewID, h.API.DeleteWidget(r.Context(), input))
}

func (h *Handlers) HandleToggleWidgetSize(w http.ResponseWriter, r *http.Request) {
	input := widgetInput(r)
	h.respondAfter(w, r, input.ViewID, h.API.ToggleWidgetSize(r.Context(), input))
}

func (h *Handlers) HandleCloneWidget(w http.ResponseWriter, r *http.Request) {
	input := widgetInput(r)
	h.respondAfter(w, r, input.ViewID, h.API.CloneWidget(r.Context(), input))
}

func (h *Handlers) HandleWidgetValidation(w http.ResponseWriter, r *http.Request) {
	var payload commands.WidgetValidationInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ViewID = r.PathValue("view")
	payload.WidgetKey = r.PathValue("key")
	h.respondAfter(w, r, payload.ViewID, h.API.UpdateWidgetValidation(r.Context(), payload))
}

func (h *Handlers) HandleValidateWidget(w http.ResponseWriter, r *http.Request) {
	input := widgetInput(r)
	h.respondAfter(w, r, input.ViewID, h.API.ValidateWidget(r.Context(), input))
}

func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	h.respondAfter(w, r, r.PathValue("view"), nil)
}

func (h *Handlers) HandleThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.API.Themes(r.Context(), queries.StateInput{ViewID: r.PathValue("view")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themes)
}

func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	html, err := h.API.Preview(r.Context(), queries.StateInput{ViewID: r.PathValue("view")})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, html)
}

func (h *Handlers) HandlePeriod(w http.ResponseWriter, r *http.Request) {
	var payload queries.PeriodInput
	if !decode(w, r, &payload) {
		return
	}
	payload.ViewID = r.PathValue("view")
	period, err := h.API.Period(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

func (h *Handlers) HandleWidgetConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.API.WidgetConfigs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, configs)
}

// respondAfter writes err, or the view snapshot when err is nil.
func (h *Handlers) respondAfter(w http.ResponseWriter, r *http.Request, viewID string, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	snapshot, err := h.API.State(r.Context(), queries.StateInput{ViewID: viewID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func widgetInput(r *http.Request) commands.WidgetInput {
	return commands.WidgetInput{ViewID: r.PathValue("view"), WidgetKey: r.PathValue("key")}
}

func decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}
