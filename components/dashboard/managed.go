package dashboard

import "strings"

// Dashboard labels that drive label-dependent variable rules.
const (
	LabelAsset = "Asset"
	LabelCost  = "Cost"
)

// Dashboard viewer scopes.
const (
	ViewerPrivate = "PRIVATE"
	ViewerPublic  = "PUBLIC"
)

// Managed variable keys.
const (
	VariableProject              = "project"
	VariableProjectGroup         = "project_group"
	VariableServiceAccount       = "service_account"
	VariableProvider             = "provider"
	VariableRegion               = "region"
	VariableCostDataSource       = "cost_data_source"
	VariableCostProduct          = "cost_product"
	VariableCloudServiceQuerySet = "cloud_service_query_set"
)

// Keys that only exist in dashboards stored before the 2.0 schema.
const (
	deprecatedAssetQuerySet = "asset_query_set"
	deprecatedCostGroupBy   = "cost_group_by"
	deprecatedAssetGroupBy  = "asset_group_by"
)

// DefaultRefreshInterval is applied when a stored dashboard has no refresh interval.
const DefaultRefreshInterval = "5m"

const projectDashboardPrefix = "project"

var managedVariableOrder = []string{
	VariableProject,
	VariableProjectGroup,
	VariableServiceAccount,
	VariableProvider,
	VariableRegion,
	VariableCostDataSource,
	VariableCostProduct,
	VariableCloudServiceQuerySet,
}

var managedVariables = map[string]PropertySchema{
	VariableProject: {
		Key:           VariableProject,
		Name:          "Project",
		VariableType:  VariableTypeManaged,
		SelectionType: SelectionMulti,
		Use:           true,
	},
	VariableProjectGroup: {
		Key:           VariableProjectGroup,
		Name:          "Project Group",
		VariableType:  VariableTypeManaged,
		SelectionType: SelectionMulti,
	},
	VariableServiceAccount: {
		Key:           VariableServiceAccount,
		Name:          "Service Account",
		VariableType:  VariableTypeManaged,
		SelectionType: SelectionMulti,
	},
	VariableProvider: {
		Key:           VariableProvider,
		Name:          "Provider",
		VariableType:  VariableTypeManaged,
		SelectionType: SelectionMulti,
		Use:           true,
	},
	VariableRegion: {
		Key:           VariableRegion,
		Name:          "Region",
		VariableType:  VariableTypeManaged,
		SelectionType: SelectionMulti,
		Use:           true,
	},
	VariableCostDataSource: {
		Key:           VariableCostDataSource,
		Name:          "Data Source",
		VariableType:  VariableTypeManaged,
		SelectionType: SelectionSingle,
		Description:   "Cost data source used by every cost widget on the dashboard.",
		Required:      true,
	},
	VariableCostProduct: {
		Key:           VariableCostProduct,
		Name:          "Product",
		VariableType:  VariableTypeManaged,
		SelectionType: SelectionMulti,
	},
	VariableCloudServiceQuerySet: {
		Key:           VariableCloudServiceQuerySet,
		Name:          "Cloud Service Query Set",
		VariableType:  VariableTypeManaged,
		SelectionType: SelectionSingle,
		Required:      true,
	},
}

// widgetNameRenames maps retired widget types to the widget that replaced them.
var widgetNameRenames = map[string]string{
	"awsDataTransferCostTrend": "costTrend",
	"awsDataTransferByRegion":  "costByRegionMultiFields",
	"awsCloudFrontCost":        "costSummaryMultiFields",
}

// deprecatedVariableRenames maps retired variable keys to their replacements.
var deprecatedVariableRenames = map[string]string{
	deprecatedAssetQuerySet: VariableCloudServiceQuerySet,
}

// ManagedProperty returns a copy of the built-in definition for key.
func ManagedProperty(key string) (PropertySchema, bool) {
	prop, ok := managedVariables[key]
	if !ok {
		return PropertySchema{}, false
	}
	return prop.Clone(), true
}

// ManagedVariablesSchema returns the full built-in variable schema.
func ManagedVariablesSchema() VariablesSchema {
	schema := VariablesSchema{
		Properties: make(map[string]PropertySchema, len(managedVariables)),
		Order:      cloneStrings(managedVariableOrder),
	}
	for _, key := range managedVariableOrder {
		schema.Properties[key] = managedVariables[key].Clone()
	}
	return schema
}

// IsProjectDashboardID reports whether the id addresses a project-scoped dashboard.
func IsProjectDashboardID(dashboardID string) bool {
	return strings.HasPrefix(dashboardID, projectDashboardPrefix)
}

func renameVariableKey(key string) string {
	if renamed, ok := deprecatedVariableRenames[key]; ok {
		return renamed
	}
	return key
}

func renameWidgetName(name string) string {
	if renamed, ok := widgetNameRenames[name]; ok {
		return renamed
	}
	return name
}
