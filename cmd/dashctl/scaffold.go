package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
)

type scaffoldCmd struct {
	Title        string   `required:"" help:"Display title of the widget type."`
	WidgetName   string   `name:"widget-name" help:"Widget name (defaults to the camel-cased title)."`
	Description  string   `help:"One-line description used in manifests."`
	ManifestPath string   `required:"" type:"path" help:"Path to the widget manifest YAML file to update."`
	SchemaPath   string   `type:"path" help:"Optional JSON schema file for the widget options."`
	Size         []string `default:"md,full" help:"Allowed sizes (sm, md, lg, xl, full)."`
	Label        []string `help:"Dashboard labels the widget belongs to (Asset, Cost)."`
	Tag          []string `help:"Optional tags to include in the manifest."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	InheritTheme bool     `name:"inherit-theme" help:"Let the widget take a color theme from the palette."`
	Overwrite    bool     `help:"Replace an existing manifest entry with the same widget name."`
}

func (cmd *scaffoldCmd) Run(_ *runtime) error {
	widgetName := cmd.widgetName()
	if widgetName == "" {
		return errors.New("dashctl: widget name could not be derived from title")
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("dashctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	entry := dashboard.ManifestWidget{
		Config: dashboard.WidgetConfig{
			WidgetName:    widgetName,
			Title:         cmd.Title,
			Description:   cmd.Description,
			Labels:        cmd.Label,
			Sizes:         cmd.Size,
			OptionsSchema: schema,
			Theme:         dashboard.WidgetTheme{Inherit: cmd.InheritTheme},
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Config.WidgetName != widgetName {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("dashctl: manifest already defines widget %s (use --overwrite to replace)", widgetName)
		}
		doc.Widgets[idx] = entry
		replaced = true
		break
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Config.WidgetName < doc.Widgets[j].Config.WidgetName
	})
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", widgetName, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) widgetName() string {
	if name := strings.TrimSpace(cmd.WidgetName); name != "" {
		return name
	}
	return strcase.ToCamel(strings.TrimSpace(cmd.Title))
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("dashctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("dashctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("dashctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dashctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return dashboard.EncodeManifest(file, doc)
}
