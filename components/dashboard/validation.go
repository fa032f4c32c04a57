package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidWidgetOptions wraps schema failures of widget options.
var ErrInvalidWidgetOptions = errors.New("dashboard: invalid widget options")

// ConfigValidator validates widget options against the widget type's schema.
type ConfigValidator interface {
	Validate(cfg WidgetConfig, options WidgetOptions) error
}

// JSONSchemaValidator compiles widget option schemas and validates option maps.
// Compiled schemas are cached by schema content, so a config replaced in the
// registry is recompiled.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the provided options satisfy the widget schema.
func (v *JSONSchemaValidator) Validate(cfg WidgetConfig, options WidgetOptions) error {
	if len(cfg.OptionsSchema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(cfg)
	if err != nil {
		return err
	}
	// round trip through JSON so typed values ([]string, FilterClause) look
	// like the generic values the schema validator expects
	var payload map[string]any
	if options == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(options)
		if err != nil {
			return fmt.Errorf("dashboard: marshal options for %s: %w", cfg.WidgetName, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize options for %s: %w", cfg.WidgetName, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w for %s: %w", ErrInvalidWidgetOptions, cfg.WidgetName, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(cfg WidgetConfig) (*jsonschema.Schema, error) {
	cacheKey := cfg.WidgetName + "@" + hashJSON(cfg.OptionsSchema)
	v.mu.RLock()
	schema, ok := v.compiled[cacheKey]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(cfg.OptionsSchema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", cfg.WidgetName, err)
	}
	compiler := jsonschema.NewCompiler()
	name := cfg.WidgetName + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", cfg.WidgetName, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", cfg.WidgetName, err)
	}
	v.mu.Lock()
	v.compiled[cacheKey] = compiled
	v.mu.Unlock()
	return compiled, nil
}
