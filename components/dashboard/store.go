package dashboard

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrLoadSuperseded is returned by GetDashboardInfo when a newer load
	// started before this one finished. State is left to the newer load.
	ErrLoadSuperseded = errors.New("dashboard: load superseded by a newer request")

	// ErrMissingDashboardID is returned by a forced load without an id.
	ErrMissingDashboardID = errors.New("dashboard: dashboard id is required")

	errMissingClient = errors.New("dashboard: dashboard client not configured")
)

// widgetKeyNamespace seeds the deterministic keys generated for widgets stored
// without one.
var widgetKeyNamespace = uuid.MustParse("5b0e2f7c-4a51-4c61-9a7e-3f2d5c8a1e90")

// StoreOptions configures a Store. Every collaborator has a safe default.
type StoreOptions struct {
	Client    DashboardClient
	Widgets   WidgetConfigRegistry
	Validator ConfigValidator
	Telemetry Telemetry
	Logger    *zap.Logger
}

// State is the editable state of the open dashboard.
type State struct {
	DashboardID      string             `json:"dashboard_id"`
	Origin           *DashboardRecord   `json:"origin,omitempty"`
	Name             string             `json:"name"`
	OriginName       string             `json:"origin_name"`
	PlaceholderName  string             `json:"placeholder_name"`
	ProjectID        string             `json:"project_id,omitempty"`
	Viewers          string             `json:"viewers,omitempty"`
	Settings         DashboardSettings  `json:"settings"`
	Labels           []string           `json:"labels"`
	Variables        Variables          `json:"variables"`
	VariablesSchema  VariablesSchema    `json:"variables_schema"`
	VariablesInitMap map[string]bool    `json:"variables_init_map"`
	WidgetInfoList   []WidgetLayoutInfo `json:"widget_info_list"`
	WidgetValidMap   map[string]bool    `json:"widget_valid_map"`
	IsNameValid      *bool              `json:"is_name_valid,omitempty"`
	LoadingDashboard bool               `json:"loading_dashboard"`
}

func (s State) clone() State {
	out := s
	if s.Origin != nil {
		origin := s.Origin.Clone()
		out.Origin = &origin
	}
	out.Settings = s.Settings.Clone()
	out.Labels = cloneStrings(s.Labels)
	out.Variables = s.Variables.Clone()
	out.VariablesSchema = s.VariablesSchema.Clone()
	out.VariablesInitMap = cloneBoolMap(s.VariablesInitMap)
	out.WidgetValidMap = cloneBoolMap(s.WidgetValidMap)
	if s.WidgetInfoList != nil {
		out.WidgetInfoList = make([]WidgetLayoutInfo, len(s.WidgetInfoList))
		for i, info := range s.WidgetInfoList {
			out.WidgetInfoList[i] = info.Clone()
		}
	}
	if s.IsNameValid != nil {
		valid := *s.IsNameValid
		out.IsNameValid = &valid
	}
	return out
}

// Snapshot is a deep copy of the store state plus its derived values.
type Snapshot struct {
	State
	IsProjectDashboard        bool   `json:"is_project_dashboard"`
	IsWidgetLayoutValid       bool   `json:"is_widget_layout_valid"`
	IsAllVariablesInitialized bool   `json:"is_all_variables_initialized"`
	DashboardViewer           string `json:"dashboard_viewer"`
}

// Store owns the editable state of one open dashboard view.
type Store struct {
	opts StoreOptions

	mu         sync.RWMutex
	state      State
	generation uint64
}

// NewStore builds an empty Store with safe defaults.
func NewStore(opts StoreOptions) *Store {
	if opts.Widgets == nil {
		opts.Widgets = NewRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	s := &Store{opts: opts}
	s.state = defaultState()
	return s
}

func defaultState() State {
	return State{
		Settings:         defaultSettings(),
		Variables:        Variables{},
		VariablesSchema:  VariablesSchema{Properties: map[string]PropertySchema{}, Order: []string{}},
		VariablesInitMap: map[string]bool{},
		WidgetValidMap:   map[string]bool{},
	}
}

func defaultSettings() DashboardSettings {
	return DashboardSettings{
		DateRange:             &DateRange{Enabled: false},
		RefreshIntervalOption: DefaultRefreshInterval,
	}
}

// IsProjectDashboard reports whether the open dashboard is project scoped.
func (s *Store) IsProjectDashboard() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isProjectDashboardLocked()
}

func (s *Store) isProjectDashboardLocked() bool {
	return s.state.ProjectID != "" || IsProjectDashboardID(s.state.DashboardID)
}

// IsWidgetLayoutValid reports whether every tracked widget form is valid.
func (s *Store) IsWidgetLayoutValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isWidgetLayoutValidLocked()
}

func (s *Store) isWidgetLayoutValidLocked() bool {
	for _, valid := range s.state.WidgetValidMap {
		if !valid {
			return false
		}
	}
	return true
}

// IsAllVariablesInitialized reports whether every used variable has resolved
// its initial value. It is false while no dashboard is loaded.
func (s *Store) IsAllVariablesInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAllVariablesInitializedLocked()
}

func (s *Store) isAllVariablesInitializedLocked() bool {
	if s.state.Origin == nil {
		return false
	}
	for _, initialized := range s.state.VariablesInitMap {
		if !initialized {
			return false
		}
	}
	return true
}

// DashboardViewer returns the viewer scope of the open dashboard.
func (s *Store) DashboardViewer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboardViewerLocked()
}

func (s *Store) dashboardViewerLocked() string {
	if s.state.Viewers == "" {
		return ViewerPrivate
	}
	return s.state.Viewers
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		State:                     s.state.clone(),
		IsProjectDashboard:        s.isProjectDashboardLocked(),
		IsWidgetLayoutValid:       s.isWidgetLayoutValidLocked(),
		IsAllVariablesInitialized: s.isAllVariablesInitializedLocked(),
		DashboardViewer:           s.dashboardViewerLocked(),
	}
}

// ResetDashboardData clears the editable state back to defaults. A load still
// in flight is superseded and will not write its result.
func (s *Store) ResetDashboardData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.resetLocked()
	s.state.LoadingDashboard = false
}

func (s *Store) resetLocked() {
	loading := s.state.LoadingDashboard
	s.state = defaultState()
	s.state.LoadingDashboard = loading
}

// SetDashboardInfo populates the state from a record. A nil or empty record
// is logged and ignored.
func (s *Store) SetDashboardInfo(record *DashboardRecord) {
	if record == nil || record.IsEmpty() {
		s.opts.Logger.Error("set dashboard info failed", zap.Bool("nil_record", record == nil))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDashboardInfoLocked(*record)
}

func (s *Store) setDashboardInfoLocked(record DashboardRecord) {
	origin := record.Clone()
	working := record.Clone()

	dashboardID := working.DashboardID
	if dashboardID == "" {
		dashboardID = s.state.DashboardID
	}
	projectID := working.ProjectID

	settings := defaultSettings()
	if working.Settings != nil {
		if working.Settings.DateRange != nil {
			dr := *working.Settings.DateRange
			settings.DateRange = &dr
		}
		if working.Settings.RefreshIntervalOption != "" {
			settings.RefreshIntervalOption = working.Settings.RefreshIntervalOption
		}
	}

	schema := VariablesSchema{Properties: map[string]PropertySchema{}, Order: []string{}}
	if working.VariablesSchema != nil {
		schema = working.VariablesSchema.Clone()
		if schema.Properties == nil {
			schema.Properties = map[string]PropertySchema{}
		}
		order := make([]string, len(schema.Order))
		for i, key := range schema.Order {
			order[i] = renameVariableKey(key)
		}
		schema.Order = order
	}
	variables := working.Variables
	if variables == nil {
		variables = Variables{}
	}
	if projectID != "" {
		schema = pinProjectSchema(schema)
		variables = pinProjectVariables(variables, projectID)
	}

	initMap := make(map[string]bool, len(schema.Properties))
	for key, prop := range schema.Properties {
		if prop.Use {
			initMap[key] = false
		}
	}

	widgets := flattenLayouts(dashboardID, working.Layouts)
	validMap := make(map[string]bool, len(widgets))
	for _, widget := range widgets {
		if valid, ok := s.state.WidgetValidMap[widget.WidgetKey]; ok {
			validMap[widget.WidgetKey] = valid
		}
	}

	s.state = State{
		DashboardID:      dashboardID,
		Origin:           &origin,
		Name:             working.Name,
		OriginName:       working.Name,
		PlaceholderName:  working.Name,
		ProjectID:        projectID,
		Viewers:          working.Viewers,
		Settings:         settings,
		Labels:           cloneStrings(working.Labels),
		Variables:        variables,
		VariablesSchema:  schema,
		VariablesInitMap: initMap,
		WidgetInfoList:   widgets,
		WidgetValidMap:   validMap,
		IsNameValid:      s.state.IsNameValid,
		LoadingDashboard: s.state.LoadingDashboard,
	}
}

// flattenLayouts turns layout rows into a single widget list. Missing or
// duplicate keys are replaced with a key derived from the dashboard id and the
// widget position, so repeated calls produce the same keys.
func flattenLayouts(dashboardID string, layouts [][]WidgetLayoutInfo) []WidgetLayoutInfo {
	widgets := make([]WidgetLayoutInfo, 0)
	seen := map[string]struct{}{}
	for row, layout := range layouts {
		for col, info := range layout {
			if _, dup := seen[info.WidgetKey]; info.WidgetKey == "" || dup {
				info.WidgetKey = generatedWidgetKey(dashboardID, row, col)
			}
			seen[info.WidgetKey] = struct{}{}
			widgets = append(widgets, info)
		}
	}
	return widgets
}

func generatedWidgetKey(dashboardID string, row, col int) string {
	name := fmt.Sprintf("%s/%d/%d", dashboardID, row, col)
	return uuid.NewSHA1(widgetKeyNamespace, []byte(name)).String()
}

// pinProjectSchema forces a fixed, required project property at the front of order.
func pinProjectSchema(schema VariablesSchema) VariablesSchema {
	prop, ok := ManagedProperty(VariableProject)
	if !ok {
		prop = PropertySchema{Key: VariableProject, Name: "Project", VariableType: VariableTypeManaged}
	}
	prop.Use = true
	prop.Readonly = true
	prop.Fixed = true
	prop.Required = true
	schema.Properties[VariableProject] = prop

	order := make([]string, 0, len(schema.Order)+1)
	order = append(order, VariableProject)
	for _, key := range schema.Order {
		if key != VariableProject {
			order = append(order, key)
		}
	}
	schema.Order = order
	return schema
}

func pinProjectVariables(variables Variables, projectID string) Variables {
	variables[VariableProject] = []string{projectID}
	return variables
}

// RevertDashboardData discards edits by re-applying the loaded record.
func (s *Store) RevertDashboardData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Origin == nil {
		return
	}
	origin := s.state.Origin.Clone()
	s.setDashboardInfoLocked(origin)
}

// GetDashboardInfo loads a dashboard through the client, converts it to the
// current schema, and populates the state. Without force it is a no-op when id
// is empty or already loaded. A failed fetch resets the state.
func (s *Store) GetDashboardInfo(ctx context.Context, dashboardID string, force bool) error {
	s.mu.Lock()
	if dashboardID == "" {
		s.mu.Unlock()
		if force {
			return ErrMissingDashboardID
		}
		return nil
	}
	if !force && dashboardID == s.state.DashboardID {
		s.mu.Unlock()
		return nil
	}
	if s.opts.Client == nil {
		s.mu.Unlock()
		return errMissingClient
	}
	s.generation++
	generation := s.generation
	s.state.DashboardID = dashboardID
	s.state.LoadingDashboard = true
	s.mu.Unlock()

	record, err := s.fetch(ctx, dashboardID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return ErrLoadSuperseded
	}
	defer func() { s.state.LoadingDashboard = false }()
	if err != nil {
		s.resetLocked()
		s.opts.Telemetry.Record(ctx, "dashboard.load.error", map[string]any{
			"dashboard_id": dashboardID,
			"error":        err.Error(),
		})
		return fmt.Errorf("dashboard: load %s: %w", dashboardID, err)
	}

	converted, convErrs := ConvertDashboardInfo(record)
	for _, convErr := range convErrs {
		s.logConversionError(dashboardID, convErr)
	}
	if converted.DashboardID == "" {
		converted.DashboardID = dashboardID
	}
	s.setDashboardInfoLocked(converted)
	s.opts.Telemetry.Record(ctx, "dashboard.load", map[string]any{
		"dashboard_id":      dashboardID,
		"widgets":           len(s.state.WidgetInfoList),
		"conversion_errors": len(convErrs),
	})
	return nil
}

func (s *Store) fetch(ctx context.Context, dashboardID string) (DashboardRecord, error) {
	if IsProjectDashboardID(dashboardID) {
		return s.opts.Client.GetProjectDashboard(ctx, dashboardID)
	}
	return s.opts.Client.GetDomainDashboard(ctx, dashboardID)
}

func (s *Store) logConversionError(dashboardID string, err error) {
	fields := []zap.Field{zap.String("dashboard_id", dashboardID), zap.Error(err)}
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		fields = append(fields, zap.String("key", convErr.Key), zap.Any("payload", convErr.Payload))
	}
	s.opts.Logger.Error("dashboard conversion failed", fields...)
}

// SetOriginDashboardName records the name the dashboard was saved under.
func (s *Store) SetOriginDashboardName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.OriginName = name
}

// SetDashboardName updates the working name.
func (s *Store) SetDashboardName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Name = name
}

// SetNameValidity records the name form validation result.
func (s *Store) SetNameValidity(valid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsNameValid = &valid
}

// SetVariableInitialized marks whether a used variable resolved its initial value.
func (s *Store) SetVariableInitialized(key string, initialized bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.VariablesInitMap[key]; !ok {
		return
	}
	s.state.VariablesInitMap[key] = initialized
}

// SetVariables replaces the working variable values.
func (s *Store) SetVariables(variables Variables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	variables = variables.Clone()
	if variables == nil {
		variables = Variables{}
	}
	if s.state.ProjectID != "" {
		variables = pinProjectVariables(variables, s.state.ProjectID)
	}
	s.state.Variables = variables
}

func (s *Store) widgetIndexLocked(widgetKey string) int {
	for i, info := range s.state.WidgetInfoList {
		if info.WidgetKey == widgetKey {
			return i
		}
	}
	return -1
}

// ToggleWidgetSize flips a widget between full and its alternate size.
// It reports whether the widget was found.
func (s *Store) ToggleWidgetSize(widgetKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.widgetIndexLocked(widgetKey)
	if idx < 0 {
		return false
	}
	widget := &s.state.WidgetInfoList[idx]
	if widget.Size == WidgetSizeFull {
		alternate := WidgetSizeMD
		if cfg, ok := s.opts.Widgets.Config(widget.WidgetName); ok {
			alternate = cfg.AlternateSize()
		}
		widget.Size = alternate
	} else {
		widget.Size = WidgetSizeFull
	}
	return true
}

// UpdateWidgetInfo replaces the editable fields of a widget.
// It reports whether the widget was found.
func (s *Store) UpdateWidgetInfo(widgetKey string, patch UpdatableWidgetInfo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.widgetIndexLocked(widgetKey)
	if idx < 0 {
		return false
	}
	widget := &s.state.WidgetInfoList[idx]
	widget.Title = patch.Title
	widget.InheritOptions = patch.InheritOptions.Clone()
	widget.WidgetOptions = patch.WidgetOptions.Clone()
	widget.SchemaProperties = cloneStrings(patch.SchemaProperties)
	return true
}

// DeleteWidget removes a widget and its validation entry together.
// It reports whether the widget was found.
func (s *Store) DeleteWidget(widgetKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.widgetIndexLocked(widgetKey)
	delete(s.state.WidgetValidMap, widgetKey)
	if idx < 0 {
		return false
	}
	s.state.WidgetInfoList = append(s.state.WidgetInfoList[:idx], s.state.WidgetInfoList[idx+1:]...)
	return true
}

// UpdateWidgetValidation records the form validity of a listed widget.
// Keys that are not in the widget list are ignored and report false, so a
// widget must be added before its validity can be recorded.
func (s *Store) UpdateWidgetValidation(isValid bool, widgetKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.widgetIndexLocked(widgetKey) < 0 {
		return false
	}
	s.state.WidgetValidMap[widgetKey] = isValid
	return true
}

// ValidateWidget checks the widget options against its config schema and
// records the result in the validation map.
func (s *Store) ValidateWidget(widgetKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.widgetIndexLocked(widgetKey)
	if idx < 0 {
		return false, nil
	}
	widget := s.state.WidgetInfoList[idx]
	cfg, ok := s.opts.Widgets.Config(widget.WidgetName)
	if !ok {
		s.state.WidgetValidMap[widgetKey] = true
		return true, nil
	}
	if err := s.opts.Validator.Validate(cfg, widget.WidgetOptions); err != nil {
		s.state.WidgetValidMap[widgetKey] = false
		return false, err
	}
	s.state.WidgetValidMap[widgetKey] = true
	return true, nil
}

// CloneWidget appends a copy of a widget with a fresh key and a title that
// does not collide with existing titles. It returns the new key.
func (s *Store) CloneWidget(widgetKey string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.widgetIndexLocked(widgetKey)
	if idx < 0 {
		return "", false
	}
	source := s.state.WidgetInfoList[idx]
	clone := source.Clone()
	clone.WidgetKey = uuid.NewString()
	titles := make([]string, len(s.state.WidgetInfoList))
	for i, info := range s.state.WidgetInfoList {
		titles[i] = info.Title
	}
	clone.Title = UniqueName(source.Title, titles)
	s.state.WidgetInfoList = append(s.state.WidgetInfoList, clone)
	return clone.WidgetKey, true
}

// WidgetThemes returns the palette index assigned to each themed widget.
func (s *Store) WidgetThemes() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AssignWidgetThemes(s.state.WidgetInfoList, s.opts.Widgets)
}

// DateRangePeriod returns the dashboard date range when it is enabled and
// bounded, otherwise the initial period for granularity.
func (s *Store) DateRangePeriod(granularity Granularity, today time.Time) Period {
	s.mu.RLock()
	dr := s.state.Settings.DateRange
	s.mu.RUnlock()
	if dr != nil && dr.Enabled && (dr.Start != "" || dr.End != "") {
		return Period{Start: dr.Start, End: dr.End}
	}
	period, _ := InitialPeriod(granularity, today)
	return period
}

// ResetVariables reconciles the working variables and schema toward an origin.
// Nil arguments fall back to the loaded record.
func (s *Store) ResetVariables(originVariables Variables, originSchema *VariablesSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var origin DashboardRecord
	if s.state.Origin != nil {
		origin = *s.state.Origin
	}
	if originVariables == nil {
		originVariables = ConvertVariables(origin.Variables)
	}
	var schemaOrigin VariablesSchema
	switch {
	case originSchema != nil:
		schemaOrigin = originSchema.Clone()
	case origin.VariablesSchema != nil:
		schemaOrigin = origin.VariablesSchema.Clone()
	}
	if schemaOrigin.Properties == nil {
		schemaOrigin.Properties = map[string]PropertySchema{}
	}

	current := s.state.VariablesSchema.Clone()
	if current.Properties == nil {
		current.Properties = map[string]PropertySchema{}
	}
	for _, key := range current.Order {
		prop, ok := current.Properties[key]
		if !ok {
			continue
		}
		if originProp, found := schemaOrigin.Properties[key]; found {
			prop.Use = originProp.Use
			current.Properties[key] = prop
		}
	}
	if s.state.ProjectID != "" {
		current = pinProjectSchema(current)
	}

	variables := s.state.Variables.Clone()
	if variables == nil {
		variables = Variables{}
	}
	initMap := map[string]bool{}
	for _, key := range schemaOrigin.Order {
		key = renameVariableKey(key)
		currentProp, ok := current.Properties[key]
		if !ok {
			continue
		}
		originProp, ok := schemaOrigin.Properties[key]
		if ok && reflect.DeepEqual(originProp, currentProp) {
			if value, has := originVariables[key]; has {
				variables[key] = cloneValue(value)
			} else {
				delete(variables, key)
			}
			initMap[key] = true
		} else {
			initMap[key] = false
		}
	}
	if s.state.ProjectID != "" {
		variables = pinProjectVariables(variables, s.state.ProjectID)
	}

	s.state.VariablesSchema = current
	s.state.Variables = variables
	s.state.VariablesInitMap = initMap
}

func cloneBoolMap(in map[string]bool) map[string]bool {
	if in == nil {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
