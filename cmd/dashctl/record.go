package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// readRecord decodes a dashboard record from a JSON or YAML file.
func readRecord(path string) (dashboard.DashboardRecord, error) {
	var record dashboard.DashboardRecord
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return record, fmt.Errorf("dashctl: read record %s: %w", path, err)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &record)
	} else {
		err = json.Unmarshal(data, &record)
	}
	if err != nil {
		return record, fmt.Errorf("dashctl: decode record %s: %w", path, err)
	}
	return record, nil
}

// readFixtures loads every record file in dir.
func readFixtures(dir string) ([]dashboard.DashboardRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dashctl: read fixtures: %w", err)
	}
	var records []dashboard.DashboardRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		record, err := readRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if record.DashboardID == "" {
			record.DashboardID = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		}
		records = append(records, record)
	}
	return records, nil
}

func writeRecord(w io.Writer, record dashboard.DashboardRecord, format string) error {
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("dashctl: encode yaml: %w", err)
		}
		return encoder.Close()
	case "json", "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("dashctl: encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("dashctl: unknown format %q", format)
	}
}
