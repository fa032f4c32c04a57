package dashboard

func intPtr(v int) *int { return &v }

// DefaultWidgetConfigs returns the widget types every registry starts with.
func DefaultWidgetConfigs() []WidgetConfig {
	return []WidgetConfig{
		{
			WidgetName:  "costTrend",
			Title:       "Cost Trend",
			Description: "Cost over time grouped by a data field",
			Labels:      []string{LabelCost},
			Sizes:       []string{WidgetSizeMD, WidgetSizeFull},
			Theme:       WidgetTheme{Inherit: true},
			OptionsSchema: costOptionsSchema(map[string]any{
				"granularity": map[string]any{"type": "string", "enum": []string{"DAILY", "MONTHLY", "YEARLY"}},
			}),
		},
		{
			WidgetName:  "costByRegionMultiFields",
			Title:       "Cost by Region",
			Description: "Cost per region split by a secondary data field",
			Labels:      []string{LabelCost},
			Sizes:       []string{WidgetSizeFull},
			Theme:       WidgetTheme{Inherit: true, InheritCount: intPtr(1)},
			OptionsSchema: costOptionsSchema(map[string]any{
				"cost_secondary_data_field": map[string]any{"type": "string"},
			}),
		},
		{
			WidgetName:  "costSummaryMultiFields",
			Title:       "Cost Summary",
			Description: "Total cost broken down by up to two data fields",
			Labels:      []string{LabelCost},
			Sizes:       []string{WidgetSizeLG, WidgetSizeFull},
			Theme:       WidgetTheme{Inherit: true},
			OptionsSchema: costOptionsSchema(map[string]any{
				"cost_secondary_data_field": map[string]any{"type": "string"},
			}),
		},
		{
			WidgetName:  "costByProduct",
			Title:       "Cost by Product",
			Description: "Cost share per product",
			Labels:      []string{LabelCost},
			Sizes:       []string{WidgetSizeSM, WidgetSizeMD, WidgetSizeFull},
			Theme:       WidgetTheme{Inherit: true, InheritCount: intPtr(3)},
			OptionsSchema: costOptionsSchema(map[string]any{
				"max_count": map[string]any{"type": "integer", "minimum": 1, "maximum": 15, "default": 5},
			}),
		},
		{
			WidgetName:  "cloudServiceCount",
			Title:       "Cloud Service Count",
			Description: "Number of cloud service resources per query set",
			Labels:      []string{LabelAsset},
			Sizes:       []string{WidgetSizeSM, WidgetSizeMD},
			OptionsSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"asset_data_field": map[string]any{"type": "string"},
				},
			},
		},
		{
			WidgetName:  "table",
			Title:       "Table",
			Description: "Tabular view of a data table",
			Sizes:       []string{WidgetSizeMD, WidgetSizeFull},
		},
		{
			WidgetName:  "heatmap",
			Title:       "Heatmap",
			Description: "Two dimensional heatmap of a data table",
			Sizes:       []string{WidgetSizeMD, WidgetSizeFull},
			Theme:       WidgetTheme{Inherit: true, InheritCount: intPtr(1)},
		},
	}
}

func costOptionsSchema(extra map[string]any) map[string]any {
	properties := map[string]any{
		"cost_data_field": map[string]any{"type": "string", "minLength": 1},
		"filters": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"k", "v", "o"},
					"properties": map[string]any{
						"k": map[string]any{"type": "string"},
						"v": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"o": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
	for k, v := range extra {
		properties[k] = v
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}
