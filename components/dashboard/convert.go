package dashboard

import "sort"

const usageTypeDetailsField = "additional_info.Usage Type Details"

// legacyWidgetRewrite forces the options of a retired AWS widget onto the
// generic cost widget that replaced it.
type legacyWidgetRewrite struct {
	dataField string
	product   string
}

var legacyWidgetRewrites = map[string]legacyWidgetRewrite{
	"awsDataTransferByRegion":  {dataField: "cost_secondary_data_field", product: "AWSDataTransfer"},
	"awsDataTransferCostTrend": {dataField: "cost_data_field", product: "AWSDataTransfer"},
	"awsCloudFrontCost":        {dataField: "cost_secondary_data_field", product: "AmazonCloudFront"},
}

var deprecatedWidgetOptionKeys = map[string]string{
	deprecatedCostGroupBy:  "cost_data_field",
	deprecatedAssetGroupBy: "asset_data_field",
}

// ConvertDashboardInfo normalizes a record stored under an older schema
// version into the current one. The input is never modified. Conversion
// errors leave the affected property untouched and are returned for logging.
func ConvertDashboardInfo(record DashboardRecord) (DashboardRecord, []error) {
	out := record.Clone()
	var errs []error
	if out.VariablesSchema != nil {
		schema, schemaErrs := ConvertVariablesSchema(*out.VariablesSchema, out.Labels)
		out.VariablesSchema = &schema
		errs = append(errs, schemaErrs...)
	}
	out.Variables = ConvertVariables(out.Variables)
	out.Layouts = ConvertWidgetLayouts(out.Layouts)
	return out, errs
}

// ConvertWidgetLayouts rewrites widget entries written under retired widget names and option keys.
func ConvertWidgetLayouts(layouts [][]WidgetLayoutInfo) [][]WidgetLayoutInfo {
	if len(layouts) == 0 {
		return layouts
	}
	out := make([][]WidgetLayoutInfo, len(layouts))
	for i, row := range layouts {
		if row == nil {
			continue
		}
		out[i] = make([]WidgetLayoutInfo, len(row))
		for j, info := range row {
			out[i][j] = convertWidgetInfo(info)
		}
	}
	return out
}

func convertWidgetInfo(info WidgetLayoutInfo) WidgetLayoutInfo {
	out := info.Clone()
	out.InheritOptions = convertInheritOptions(info.InheritOptions)
	out.WidgetOptions = convertWidgetOptions(info.WidgetName, info.WidgetOptions)
	out.SchemaProperties = convertSchemaProperties(info.SchemaProperties)
	out.WidgetName = renameWidgetName(info.WidgetName)
	return out
}

func convertInheritOptions(stored InheritOptions) InheritOptions {
	if len(stored) == 0 {
		return stored
	}
	out := stored.Clone()
	for field, opt := range out {
		if opt.VariableInfo == nil || opt.VariableInfo.Key == "" {
			continue
		}
		out[field] = InheritOption{
			Enabled:     opt.Enabled,
			VariableKey: renameVariableKey(opt.VariableInfo.Key),
		}
	}
	return out
}

func convertWidgetOptions(widgetName string, stored WidgetOptions) WidgetOptions {
	if rewrite, ok := legacyWidgetRewrites[widgetName]; ok {
		out := stored.Clone()
		if out == nil {
			out = WidgetOptions{}
		}
		out[rewrite.dataField] = usageTypeDetailsField
		delete(out, deprecatedCostGroupBy)
		out["filters"] = map[string][]FilterClause{
			VariableCostProduct: {{K: "product", V: []string{rewrite.product}, O: "="}},
		}
		return out
	}
	if len(stored) == 0 {
		return stored
	}
	out := stored.Clone()
	for oldKey, newKey := range deprecatedWidgetOptionKeys {
		if v, ok := out[oldKey]; ok {
			out[newKey] = v
			delete(out, oldKey)
		}
	}
	return out
}

func convertSchemaProperties(stored []string) []string {
	if len(stored) == 0 {
		return nil
	}
	out := make([]string, len(stored))
	for i, key := range stored {
		out[i] = renameVariableKey(key)
	}
	return out
}

// ConvertVariablesSchema replaces managed properties with their current
// built-in definitions, migrates deprecated keys, converts legacy custom
// options, and applies the label-driven fixed flags.
func ConvertVariablesSchema(stored VariablesSchema, labels []string) (VariablesSchema, []error) {
	if stored.isZero() {
		return stored, nil
	}
	out := stored.Clone()
	if out.Properties == nil {
		out.Properties = map[string]PropertySchema{}
	}
	var errs []error
	for _, key := range sortedPropertyKeys(stored.Properties) {
		prop := stored.Properties[key]
		if prop.VariableType == VariableTypeManaged {
			if err := convertManagedProperty(out.Properties, key, prop, labels); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		options, err := convertCustomOptions(key, prop.Options)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		converted := prop.Clone()
		converted.Options = options
		out.Properties[key] = converted
	}

	applyLabelFixed(out.Properties, VariableCloudServiceQuerySet, containsString(labels, LabelAsset))
	applyLabelFixed(out.Properties, VariableCostDataSource, containsString(labels, LabelCost))

	out.Order = reconcileOrder(out.Order, out.Properties)
	return out, errs
}

// reconcileOrder renames deprecated entries and drops entries that are
// duplicated or have no matching property.
func reconcileOrder(order []string, properties map[string]PropertySchema) []string {
	out := make([]string, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, key := range order {
		key = renameVariableKey(key)
		if _, dup := seen[key]; dup {
			continue
		}
		if _, ok := properties[key]; !ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func convertManagedProperty(properties map[string]PropertySchema, key string, prop PropertySchema, labels []string) error {
	if builtin, ok := ManagedProperty(key); ok {
		builtin.Use = prop.Use
		properties[key] = builtin
		return nil
	}
	if replacement, ok := deprecatedVariableRenames[key]; ok {
		builtin, found := ManagedProperty(replacement)
		if !found {
			return &ConversionError{Key: key, Reason: "replacement variable is not managed", Payload: prop}
		}
		builtin.Use = prop.Use
		if containsString(labels, LabelAsset) {
			builtin.Fixed = true
		}
		properties[replacement] = builtin
		delete(properties, key)
		return nil
	}
	return &ConversionError{Key: key, Reason: "unknown managed variable", Payload: prop}
}

func convertCustomOptions(key string, stored PropertyOptions) (PropertyOptions, error) {
	switch stored.Shape {
	case OptionsNone, OptionsCurrent:
		return stored, nil
	case OptionsLegacyEnum:
		values := make([]OptionValue, len(stored.Legacy.Values))
		for i, v := range stored.Legacy.Values {
			values[i] = OptionValue{Key: v.Key, Name: v.Label}
		}
		return CurrentOptions(OptionGroup{Type: "ENUM", Values: values}), nil
	default:
		return stored, &ConversionError{Key: key, Reason: "unrecognized custom options", Payload: stored.Raw}
	}
}

func applyLabelFixed(properties map[string]PropertySchema, key string, labelled bool) {
	prop, ok := properties[key]
	if !ok {
		return
	}
	prop.Fixed = labelled
	properties[key] = prop
}

// ConvertVariables renames deprecated variable keys.
func ConvertVariables(stored Variables) Variables {
	if len(stored) == 0 {
		return stored
	}
	out := stored.Clone()
	for oldKey, newKey := range deprecatedVariableRenames {
		if v, ok := out[oldKey]; ok {
			out[newKey] = v
			delete(out, oldKey)
		}
	}
	return out
}

func sortedPropertyKeys(properties map[string]PropertySchema) []string {
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
