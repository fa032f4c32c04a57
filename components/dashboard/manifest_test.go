package dashboard

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: "1"
name: community-pack
widgets:
  - config:
      widget_name: costForecast
      title: Cost Forecast
      description: Projects month end cost.
      labels: [Cost]
      sizes: [md, full]
      theme:
        inherit: true
      options_schema:
        type: object
        properties:
          horizon:
            type: integer
    maintainers: [finops]
    tags: [cost]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)

	widget := doc.Widgets[0]
	assert.Equal(t, "costForecast", widget.Config.WidgetName)
	assert.Equal(t, "Cost Forecast", widget.Config.Title)
	assert.Equal(t, []string{WidgetSizeMD, WidgetSizeFull}, widget.Config.Sizes)
	assert.True(t, widget.Config.Theme.Inherit)
	assert.Nil(t, widget.Config.Theme.InheritCount)
	assert.Equal(t, []string{"finops"}, widget.Maintainers)
	assert.Contains(t, widget.Config.OptionsSchema, "properties")
}

func TestDecodeManifestDefaultsVersion(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader("widgets:\n  - config:\n      widget_name: a\n      title: A\n"))
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, doc.Version)
}

func TestDecodeManifestErrors(t *testing.T) {
	cases := map[string]struct {
		payload string
		want    string
	}{
		"empty":         {payload: "", want: "manifest is empty"},
		"version":       {payload: "version: \"2\"\nwidgets: []\n", want: "unsupported manifest version"},
		"unknown field": {payload: "widgets:\n  - definition:\n      code: x\n", want: "parse manifest"},
		"missing name":  {payload: "widgets:\n  - config:\n      title: A\n", want: "missing config.widget_name"},
		"missing title": {payload: "widgets:\n  - config:\n      widget_name: a\n", want: "missing config.title"},
		"duplicate": {
			payload: "widgets:\n  - config: {widget_name: a, title: A}\n  - config: {widget_name: a, title: B}\n",
			want:    "duplicates widget a",
		},
		"size": {
			payload: "widgets:\n  - config: {widget_name: a, title: A, sizes: [huge]}\n",
			want:    `unknown size "huge"`,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeManifest(strings.NewReader(tc.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRegistryLoadManifestFile(t *testing.T) {
	reg := NewRegistry()

	doc, err := reg.LoadManifestFile(filepath.Join("testdata", "cost-widgets.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "cost-widgets.yaml"), doc.Source)

	cfg, ok := reg.Config("costAnomaly")
	require.True(t, ok)
	assert.Equal(t, "Cost Anomaly", cfg.Title)
	require.NotNil(t, cfg.Theme.InheritCount)
	assert.Equal(t, 2, *cfg.Theme.InheritCount)
	assert.Equal(t, WidgetSizeMD, cfg.AlternateSize())

	entry, ok := reg.ManifestEntry("costAnomaly")
	require.True(t, ok)
	assert.Equal(t, []string{"cost", "anomaly"}, entry.Tags)

	_, ok = reg.ManifestEntry("costTrend")
	assert.False(t, ok)
	_, ok = reg.Config("costTrend")
	assert.True(t, ok)
}

func TestManifestSchemaValidatesWidgetOptions(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.LoadManifestFile(filepath.Join("testdata", "cost-widgets.yaml"))
	require.NoError(t, err)
	cfg, _ := reg.Config("costAnomaly")

	validator := NewJSONSchemaValidator()
	assert.NoError(t, validator.Validate(cfg, WidgetOptions{"cost_data_field": "product", "threshold": 1.5}))
	assert.ErrorIs(t, validator.Validate(cfg, WidgetOptions{"threshold": 2}), ErrInvalidWidgetOptions)
}

func TestRegistryLoadManifestDocumentRejectsNil(t *testing.T) {
	err := NewRegistry().LoadManifestDocument(nil)
	require.Error(t, err)
}

func TestEncodeManifestRoundTrip(t *testing.T) {
	doc := &WidgetManifestDocument{
		Version: ManifestVersion,
		Name:    "scaffolded",
		Widgets: []ManifestWidget{{
			Config: WidgetConfig{
				WidgetName: "savingsPlan",
				Title:      "Savings Plan",
				Sizes:      []string{WidgetSizeLG},
				Theme:      WidgetTheme{Inherit: true, InheritCount: intPtr(1)},
			},
			Tags: []string{"cost"},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeManifest(&buf, doc))

	decoded, err := DecodeManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Widgets, decoded.Widgets)
	assert.Equal(t, "scaffolded", decoded.Name)
}
