package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-dashboard-detail/components/dashboard"
)

type previewCmd struct {
	Input  string `arg:"" type:"existingfile" help:"Stored dashboard record (JSON or YAML)."`
	Out    string `required:"" type:"path" help:"HTML file to write."`
	Theme  string `help:"ECharts theme name."`
	Assets string `name:"assets-host" help:"Host serving the ECharts runtime."`
}

func (cmd *previewCmd) Run(rt *runtime) error {
	logger, err := rt.cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	record, err := readRecord(cmd.Input)
	if err != nil {
		return err
	}
	converted, _ := dashboard.ConvertDashboardInfo(record)
	store := dashboard.NewStore(dashboard.StoreOptions{Logger: logger})
	store.SetDashboardInfo(&converted)
	snapshot := store.Snapshot()

	html, err := dashboard.RenderLayoutPreview(snapshot.WidgetInfoList, dashboard.PreviewOptions{
		Title:      snapshot.Name,
		Theme:      cmd.Theme,
		AssetsHost: cmd.Assets,
	})
	if err != nil {
		return fmt.Errorf("dashctl: render preview: %w", err)
	}
	if err := os.WriteFile(cmd.Out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("dashctl: write preview: %w", err)
	}
	fmt.Fprintf(os.Stdout, "✓ Wrote preview of %d widgets to %s\n", len(snapshot.WidgetInfoList), cmd.Out)
	return nil
}
