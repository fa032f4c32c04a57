package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DashboardClient reads persisted dashboards from the remote dashboard API.
// Only the two read endpoints are used; saves happen elsewhere.
type DashboardClient interface {
	GetProjectDashboard(ctx context.Context, dashboardID string) (DashboardRecord, error)
	GetDomainDashboard(ctx context.Context, dashboardID string) (DashboardRecord, error)
}

// WidgetConfigRegistry resolves widget reference data by widget name.
type WidgetConfigRegistry interface {
	RegisterConfig(cfg WidgetConfig) error
	Config(widgetName string) (WidgetConfig, bool)
	Configs() []WidgetConfig
}

// ChangeHook notifies transports (REST/WebSocket) about dashboard state changes.
type ChangeHook interface {
	DashboardChanged(ctx context.Context, event DashboardEvent) error
}

// DashboardEvent describes a state change transports might care about.
type DashboardEvent struct {
	ViewID      string `json:"view_id,omitempty"`
	DashboardID string `json:"dashboard_id,omitempty"`
	WidgetKey   string `json:"widget_key,omitempty"`
	Reason      string `json:"reason"`
}

// DashboardRecord is the persisted dashboard as returned by the remote API.
type DashboardRecord struct {
	DashboardID     string               `json:"dashboard_id,omitempty" yaml:"dashboard_id,omitempty"`
	ProjectID       string               `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Name            string               `json:"name" yaml:"name"`
	Version         string               `json:"version,omitempty" yaml:"version,omitempty"`
	Viewers         string               `json:"viewers,omitempty" yaml:"viewers,omitempty"`
	Settings        *DashboardSettings   `json:"settings,omitempty" yaml:"settings,omitempty"`
	Labels          []string             `json:"labels,omitempty" yaml:"labels,omitempty"`
	Variables       Variables            `json:"variables,omitempty" yaml:"variables,omitempty"`
	VariablesSchema *VariablesSchema     `json:"variables_schema,omitempty" yaml:"variables_schema,omitempty"`
	Layouts         [][]WidgetLayoutInfo `json:"layouts,omitempty" yaml:"layouts,omitempty"`
}

// IsEmpty reports whether the record carries no data at all.
func (r DashboardRecord) IsEmpty() bool {
	return r.DashboardID == "" &&
		r.ProjectID == "" &&
		r.Name == "" &&
		r.Version == "" &&
		r.Viewers == "" &&
		r.Settings == nil &&
		len(r.Labels) == 0 &&
		len(r.Variables) == 0 &&
		r.VariablesSchema == nil &&
		len(r.Layouts) == 0
}

// HasLabel reports whether the dashboard carries the given label.
func (r DashboardRecord) HasLabel(label string) bool {
	return containsString(r.Labels, label)
}

// Clone returns a deep copy of the record.
func (r DashboardRecord) Clone() DashboardRecord {
	out := r
	if r.Settings != nil {
		settings := r.Settings.Clone()
		out.Settings = &settings
	}
	out.Labels = cloneStrings(r.Labels)
	out.Variables = r.Variables.Clone()
	if r.VariablesSchema != nil {
		schema := r.VariablesSchema.Clone()
		out.VariablesSchema = &schema
	}
	if r.Layouts != nil {
		out.Layouts = make([][]WidgetLayoutInfo, len(r.Layouts))
		for i, row := range r.Layouts {
			if row == nil {
				continue
			}
			out.Layouts[i] = make([]WidgetLayoutInfo, len(row))
			for j, info := range row {
				out.Layouts[i][j] = info.Clone()
			}
		}
	}
	return out
}

// DashboardSettings holds the display settings persisted with a dashboard.
type DashboardSettings struct {
	DateRange             *DateRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`
	RefreshIntervalOption string     `json:"refresh_interval_option,omitempty" yaml:"refresh_interval_option,omitempty"`
}

// Clone returns a deep copy of the settings.
func (s DashboardSettings) Clone() DashboardSettings {
	out := s
	if s.DateRange != nil {
		dr := *s.DateRange
		out.DateRange = &dr
	}
	return out
}

// DateRange restricts widget queries to a fixed window when enabled.
type DateRange struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Start   string `json:"start,omitempty" yaml:"start,omitempty"`
	End     string `json:"end,omitempty" yaml:"end,omitempty"`
}

// Variables maps a variable key to its selected value(s).
type Variables map[string]any

// Clone returns a deep copy of the variables.
func (v Variables) Clone() Variables {
	if v == nil {
		return nil
	}
	out := make(Variables, len(v))
	for k, value := range v {
		out[k] = cloneValue(value)
	}
	return out
}

// VariablesSchema is the ordered set of variable definitions of a dashboard.
type VariablesSchema struct {
	Properties map[string]PropertySchema `json:"properties" yaml:"properties"`
	Order      []string                  `json:"order" yaml:"order"`
}

// Clone returns a deep copy of the schema.
func (s VariablesSchema) Clone() VariablesSchema {
	out := VariablesSchema{Order: cloneStrings(s.Order)}
	if s.Properties != nil {
		out.Properties = make(map[string]PropertySchema, len(s.Properties))
		for k, p := range s.Properties {
			out.Properties[k] = p.Clone()
		}
	}
	return out
}

func (s VariablesSchema) isZero() bool {
	return len(s.Properties) == 0 && len(s.Order) == 0
}

// Variable types.
const (
	VariableTypeManaged = "MANAGED"
	VariableTypeCustom  = "CUSTOM"
)

// Selection types.
const (
	SelectionSingle = "SINGLE"
	SelectionMulti  = "MULTI"
)

// PropertySchema describes a single dashboard variable.
type PropertySchema struct {
	Key           string          `json:"key,omitempty" yaml:"key,omitempty"`
	Name          string          `json:"name,omitempty" yaml:"name,omitempty"`
	VariableType  string          `json:"variable_type,omitempty" yaml:"variable_type,omitempty"`
	Use           bool            `json:"use" yaml:"use"`
	SelectionType string          `json:"selection_type,omitempty" yaml:"selection_type,omitempty"`
	Description   string          `json:"description,omitempty" yaml:"description,omitempty"`
	Readonly      bool            `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Fixed         bool            `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Required      bool            `json:"required,omitempty" yaml:"required,omitempty"`
	Hidden        bool            `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Options       PropertyOptions `json:"options,omitzero" yaml:"options,omitempty"`
}

// Clone returns a deep copy of the property.
func (p PropertySchema) Clone() PropertySchema {
	out := p
	out.Options = p.Options.Clone()
	return out
}

// OptionsShape tags which persisted layout a PropertyOptions value came from.
type OptionsShape int

const (
	// OptionsNone means no options were stored.
	OptionsNone OptionsShape = iota
	// OptionsCurrent is a list of option groups: [{type, values:[{key,name}]}].
	OptionsCurrent
	// OptionsLegacyEnum is the single object shape: {type:'ENUM', values:[{key,label}]}.
	OptionsLegacyEnum
	// OptionsUnknown holds a shape no converter understands; the raw payload is kept.
	OptionsUnknown
)

func (s OptionsShape) String() string {
	switch s {
	case OptionsNone:
		return "none"
	case OptionsCurrent:
		return "current"
	case OptionsLegacyEnum:
		return "legacy_enum"
	default:
		return "unknown"
	}
}

// OptionGroup is one enumerated option source of a custom variable.
type OptionGroup struct {
	Type   string        `json:"type"`
	Values []OptionValue `json:"values"`
}

// OptionValue is a selectable value of a custom variable.
type OptionValue struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// LegacyEnumOptions is the custom options layout written by old dashboards.
type LegacyEnumOptions struct {
	Type   string            `json:"type"`
	Values []LegacyEnumValue `json:"values"`
}

// LegacyEnumValue is a selectable value in LegacyEnumOptions.
type LegacyEnumValue struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PropertyOptions is a tagged union over every custom options layout ever persisted.
type PropertyOptions struct {
	Shape   OptionsShape
	Current []OptionGroup
	Legacy  *LegacyEnumOptions
	Raw     json.RawMessage
}

// CurrentOptions builds options in the current layout.
func CurrentOptions(groups ...OptionGroup) PropertyOptions {
	return PropertyOptions{Shape: OptionsCurrent, Current: groups}
}

// IsZero lets encoding/json omit empty options.
func (o PropertyOptions) IsZero() bool {
	return o.Shape == OptionsNone
}

// Clone returns a deep copy of the options.
func (o PropertyOptions) Clone() PropertyOptions {
	out := PropertyOptions{Shape: o.Shape}
	if o.Current != nil {
		out.Current = make([]OptionGroup, len(o.Current))
		for i, g := range o.Current {
			out.Current[i] = OptionGroup{Type: g.Type, Values: append([]OptionValue(nil), g.Values...)}
		}
	}
	if o.Legacy != nil {
		legacy := LegacyEnumOptions{Type: o.Legacy.Type, Values: append([]LegacyEnumValue(nil), o.Legacy.Values...)}
		out.Legacy = &legacy
	}
	if o.Raw != nil {
		out.Raw = append(json.RawMessage(nil), o.Raw...)
	}
	return out
}

// MarshalJSON writes the options back in the layout they were read in.
func (o PropertyOptions) MarshalJSON() ([]byte, error) {
	switch o.Shape {
	case OptionsNone:
		return []byte("null"), nil
	case OptionsCurrent:
		if o.Current == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(o.Current)
	case OptionsLegacyEnum:
		return json.Marshal(o.Legacy)
	default:
		if len(o.Raw) == 0 {
			return []byte("null"), nil
		}
		return o.Raw, nil
	}
}

// UnmarshalJSON classifies the stored payload into one of the known shapes.
func (o *PropertyOptions) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*o = PropertyOptions{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var groups []OptionGroup
		if err := json.Unmarshal(trimmed, &groups); err != nil {
			o.Shape = OptionsUnknown
			o.Raw = append(json.RawMessage(nil), trimmed...)
			return nil
		}
		o.Shape = OptionsCurrent
		o.Current = groups
		return nil
	case '{':
		var legacy LegacyEnumOptions
		if err := json.Unmarshal(trimmed, &legacy); err == nil && isLegacyEnum(legacy) {
			o.Shape = OptionsLegacyEnum
			o.Legacy = &legacy
			return nil
		}
	}
	o.Shape = OptionsUnknown
	o.Raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML documents.
func (o PropertyOptions) MarshalYAML() (any, error) {
	switch o.Shape {
	case OptionsNone:
		return nil, nil
	case OptionsCurrent:
		return o.Current, nil
	case OptionsLegacyEnum:
		return o.Legacy, nil
	default:
		var raw any
		if err := json.Unmarshal(o.Raw, &raw); err != nil {
			return nil, fmt.Errorf("dashboard: decode raw options: %w", err)
		}
		return raw, nil
	}
}

// UnmarshalYAML classifies YAML options the same way UnmarshalJSON does.
func (o *PropertyOptions) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("dashboard: normalize yaml options: %w", err)
	}
	return o.UnmarshalJSON(data)
}

func isLegacyEnum(opts LegacyEnumOptions) bool {
	return opts.Type == "ENUM" && len(opts.Values) > 0 && opts.Values[0].Label != ""
}

// WidgetLayoutInfo is a widget placement inside a dashboard layout row.
type WidgetLayoutInfo struct {
	WidgetKey        string         `json:"widget_key,omitempty" yaml:"widget_key,omitempty"`
	WidgetName       string         `json:"widget_name" yaml:"widget_name"`
	Title            string         `json:"title,omitempty" yaml:"title,omitempty"`
	Size             string         `json:"size,omitempty" yaml:"size,omitempty"`
	Version          string         `json:"version,omitempty" yaml:"version,omitempty"`
	InheritOptions   InheritOptions `json:"inherit_options,omitempty" yaml:"inherit_options,omitempty"`
	WidgetOptions    WidgetOptions  `json:"widget_options,omitempty" yaml:"widget_options,omitempty"`
	SchemaProperties []string       `json:"schema_properties,omitempty" yaml:"schema_properties,omitempty"`
}

// Clone returns a deep copy of the widget entry.
func (w WidgetLayoutInfo) Clone() WidgetLayoutInfo {
	out := w
	out.InheritOptions = w.InheritOptions.Clone()
	out.WidgetOptions = w.WidgetOptions.Clone()
	out.SchemaProperties = cloneStrings(w.SchemaProperties)
	return out
}

// UpdatableWidgetInfo holds the widget fields editable from the widget form.
type UpdatableWidgetInfo struct {
	Title            string         `json:"title"`
	InheritOptions   InheritOptions `json:"inherit_options"`
	WidgetOptions    WidgetOptions  `json:"widget_options"`
	SchemaProperties []string       `json:"schema_properties"`
}

// InheritOption links a widget option field to a dashboard variable.
type InheritOption struct {
	Enabled      bool                `json:"enabled" yaml:"enabled"`
	VariableKey  string              `json:"variable_key,omitempty" yaml:"variable_key,omitempty"`
	VariableInfo *LegacyVariableInfo `json:"variable_info,omitempty" yaml:"variable_info,omitempty"`
}

// LegacyVariableInfo is the nested variable reference used by old inherit options.
type LegacyVariableInfo struct {
	Key string `json:"key" yaml:"key"`
}

// InheritOptions maps widget option fields to inherit settings.
type InheritOptions map[string]InheritOption

// Clone returns a deep copy of the inherit options.
func (o InheritOptions) Clone() InheritOptions {
	if o == nil {
		return nil
	}
	out := make(InheritOptions, len(o))
	for k, opt := range o {
		if opt.VariableInfo != nil {
			info := *opt.VariableInfo
			opt.VariableInfo = &info
		}
		out[k] = opt
	}
	return out
}

// WidgetOptions is the free-form option payload of a widget instance.
type WidgetOptions map[string]any

// Clone returns a deep copy of the widget options.
func (o WidgetOptions) Clone() WidgetOptions {
	if o == nil {
		return nil
	}
	out := make(WidgetOptions, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

// FilterClause is a single query filter stored inside widget options.
type FilterClause struct {
	K string   `json:"k" yaml:"k"`
	V []string `json:"v" yaml:"v"`
	O string   `json:"o" yaml:"o"`
}

// Widget sizes.
const (
	WidgetSizeSM   = "sm"
	WidgetSizeMD   = "md"
	WidgetSizeLG   = "lg"
	WidgetSizeXL   = "xl"
	WidgetSizeFull = "full"
)

// WidgetConfig is read-only reference data describing a widget type.
type WidgetConfig struct {
	WidgetName    string         `json:"widget_name" yaml:"widget_name"`
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Labels        []string       `json:"labels,omitempty" yaml:"labels,omitempty"`
	Sizes         []string       `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	OptionsSchema map[string]any `json:"options_schema,omitempty" yaml:"options_schema,omitempty"`
	Theme         WidgetTheme    `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// AlternateSize returns the first declared size other than full, or md.
func (c WidgetConfig) AlternateSize() string {
	for _, size := range c.Sizes {
		if size != "" && size != WidgetSizeFull {
			return size
		}
	}
	return WidgetSizeMD
}

// WidgetTheme controls whether a widget takes a color theme from the palette.
type WidgetTheme struct {
	Inherit      bool `json:"inherit,omitempty" yaml:"inherit,omitempty"`
	InheritCount *int `json:"inherit_count,omitempty" yaml:"inherit_count,omitempty"`
}

// ConversionError reports a persisted value the legacy converters could not map.
type ConversionError struct {
	Key     string
	Reason  string
	Payload any
}

func (e *ConversionError) Error() string {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		payload = []byte(fmt.Sprintf("%v", e.Payload))
	}
	return fmt.Sprintf("dashboard: conversion failed for %s: %s: %s", e.Key, e.Reason, payload)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case map[string][]FilterClause:
		out := make(map[string][]FilterClause, len(val))
		for k, clauses := range val {
			cp := make([]FilterClause, len(clauses))
			for i, c := range clauses {
				cp[i] = FilterClause{K: c.K, V: append([]string(nil), c.V...), O: c.O}
			}
			out[k] = cp
		}
		return out
	default:
		return v
	}
}
