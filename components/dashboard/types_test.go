package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPropertyOptionsJSONShapes(t *testing.T) {
	cases := map[string]struct {
		payload string
		shape   OptionsShape
	}{
		"none":        {payload: `null`, shape: OptionsNone},
		"current":     {payload: `[{"type":"ENUM","values":[{"key":"a","name":"A"}]}]`, shape: OptionsCurrent},
		"legacy enum": {payload: `{"type":"ENUM","values":[{"key":"a","label":"A"}]}`, shape: OptionsLegacyEnum},
		"unknown":     {payload: `{"source":"search","resource_type":"inventory.CloudService"}`, shape: OptionsUnknown},
		"bad list":    {payload: `[1,2]`, shape: OptionsUnknown},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var opts PropertyOptions
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &opts))
			assert.Equal(t, tc.shape, opts.Shape)

			out, err := json.Marshal(opts)
			require.NoError(t, err)
			assert.JSONEq(t, tc.payload, string(out))
		})
	}
}

func TestPropertySchemaOmitsEmptyOptions(t *testing.T) {
	out, err := json.Marshal(PropertySchema{Key: "team", Use: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"team","use":true}`, string(out))
}

func TestPropertyOptionsYAML(t *testing.T) {
	const doc = `
key: team
variable_type: CUSTOM
options:
  type: ENUM
  values:
    - key: a
      label: Team A
`
	var prop PropertySchema
	require.NoError(t, yaml.Unmarshal([]byte(doc), &prop))
	require.Equal(t, OptionsLegacyEnum, prop.Options.Shape)
	assert.Equal(t, "Team A", prop.Options.Legacy.Values[0].Label)

	out, err := yaml.Marshal(prop)
	require.NoError(t, err)
	var again PropertySchema
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, prop.Options, again.Options)
}

func TestPropertyOptionsCloneIsDeep(t *testing.T) {
	opts := CurrentOptions(OptionGroup{Type: "ENUM", Values: []OptionValue{{Key: "a", Name: "A"}}})
	clone := opts.Clone()
	clone.Current[0].Values[0].Name = "changed"
	assert.Equal(t, "A", opts.Current[0].Values[0].Name)
}

func TestDashboardRecordCloneIsDeep(t *testing.T) {
	record := sampleRecord()
	clone := record.Clone()

	clone.Layouts[0][0].Title = "changed"
	clone.VariablesSchema.Order[0] = "changed"
	clone.Settings.DateRange.Enabled = false
	clone.Variables[VariableProvider].([]any)[0] = "changed"

	assert.Equal(t, "Trend", record.Layouts[0][0].Title)
	assert.Equal(t, VariableProvider, record.VariablesSchema.Order[0])
	assert.True(t, record.Settings.DateRange.Enabled)
	assert.Equal(t, []any{"aws"}, record.Variables[VariableProvider])
}

func TestDashboardRecordIsEmpty(t *testing.T) {
	assert.True(t, DashboardRecord{}.IsEmpty())
	assert.False(t, DashboardRecord{Name: "x"}.IsEmpty())
	assert.True(t, sampleRecord().HasLabel(LabelCost))
	assert.False(t, sampleRecord().HasLabel(LabelAsset))
}

func TestWidgetConfigAlternateSize(t *testing.T) {
	assert.Equal(t, WidgetSizeMD, WidgetConfig{}.AlternateSize())
	assert.Equal(t, WidgetSizeMD, WidgetConfig{Sizes: []string{WidgetSizeFull}}.AlternateSize())
	assert.Equal(t, WidgetSizeLG, WidgetConfig{Sizes: []string{WidgetSizeFull, WidgetSizeLG}}.AlternateSize())
}

func TestConversionErrorMessage(t *testing.T) {
	err := &ConversionError{Key: "team", Reason: "unrecognized custom options", Payload: map[string]any{"a": 1}}
	assert.Equal(t, `dashboard: conversion failed for team: unrecognized custom options: {"a":1}`, err.Error())
}
