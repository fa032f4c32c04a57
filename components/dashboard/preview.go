package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultPreviewHeight = "420px"

// PreviewOptions configures layout preview rendering.
type PreviewOptions struct {
	Title      string
	Theme      string
	AssetsHost string
	Cache      PreviewCache
}

// LayoutSummary counts widgets per widget type and size.
type LayoutSummary struct {
	WidgetNames []string
	Sizes       []string
	Counts      map[string]map[string]int
}

// SummarizeLayout counts the widgets of a flattened widget list.
func SummarizeLayout(widgets []WidgetLayoutInfo) LayoutSummary {
	summary := LayoutSummary{Counts: map[string]map[string]int{}}
	sizes := map[string]struct{}{}
	for _, widget := range widgets {
		size := widget.Size
		if size == "" {
			size = WidgetSizeMD
		}
		bySize, ok := summary.Counts[widget.WidgetName]
		if !ok {
			bySize = map[string]int{}
			summary.Counts[widget.WidgetName] = bySize
			summary.WidgetNames = append(summary.WidgetNames, widget.WidgetName)
		}
		bySize[size]++
		sizes[size] = struct{}{}
	}
	sort.Strings(summary.WidgetNames)
	for size := range sizes {
		summary.Sizes = append(summary.Sizes, size)
	}
	sort.Strings(summary.Sizes)
	return summary
}

// RenderLayoutPreview renders a stacked bar chart of the widget list as HTML.
func RenderLayoutPreview(widgets []WidgetLayoutInfo, options PreviewOptions) (string, error) {
	summary := SummarizeLayout(widgets)
	render := func() (string, error) {
		return renderLayoutChart(summary, options)
	}
	if options.Cache == nil {
		return render()
	}
	return options.Cache.GetOrRender(previewKey(summary, options), render)
}

func renderLayoutChart(summary LayoutSummary, options PreviewOptions) (string, error) {
	theme := options.Theme
	if theme == "" {
		theme = types.ThemeWesteros
	}
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultPreviewHeight,
	}
	if options.AssetsHost != "" {
		initOpts.AssetsHost = options.AssetsHost
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: options.Title, Subtitle: fmt.Sprintf("%d widget types", len(summary.WidgetNames))}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(summary.WidgetNames)
	for _, size := range summary.Sizes {
		data := make([]opts.BarData, len(summary.WidgetNames))
		for i, name := range summary.WidgetNames {
			data[i] = opts.BarData{Name: name, Value: summary.Counts[name][size]}
		}
		bar.AddSeries(size, data, charts.WithBarChartOpts(opts.BarChart{Stack: "size"}))
	}
	return renderChart(bar)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
