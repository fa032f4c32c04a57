package dashboard

// ThemePalette is the palette widgets cycle through when they inherit a theme.
var ThemePalette = []string{"violet", "coral", "peacock", "blue", "indigo", "green", "yellow", "red"}

const defaultThemeInheritCount = 5

// ThemeOption is the theme inheritance declared by a widget type.
type ThemeOption = WidgetTheme

// AssignThemes walks the options in order and returns the palette index
// assigned to each one, or -1 when the option does not inherit a theme. Each
// inheriting option advances the cursor by its inherit count (5 by default).
func AssignThemes(options []ThemeOption) []int {
	assigned := make([]int, len(options))
	cursor := 0
	for i, opt := range options {
		if !opt.Inherit {
			assigned[i] = -1
			continue
		}
		assigned[i] = circularIndex(cursor, len(ThemePalette))
		step := defaultThemeInheritCount
		if opt.InheritCount != nil {
			step = *opt.InheritCount
		}
		cursor += step
	}
	return assigned
}

// AssignWidgetThemes maps widget keys to their palette index using the theme
// declared by each widget config. Widgets without a themed config are omitted.
func AssignWidgetThemes(widgets []WidgetLayoutInfo, registry WidgetConfigRegistry) map[string]int {
	options := make([]ThemeOption, len(widgets))
	for i, widget := range widgets {
		if registry == nil {
			continue
		}
		if cfg, ok := registry.Config(widget.WidgetName); ok {
			options[i] = cfg.Theme
		}
	}
	out := make(map[string]int)
	for i, idx := range AssignThemes(options) {
		if idx < 0 {
			continue
		}
		out[widgets[i].WidgetKey] = idx
	}
	return out
}

func circularIndex(n, size int) int {
	if size == 0 {
		return 0
	}
	return (n%size + size) % size
}
