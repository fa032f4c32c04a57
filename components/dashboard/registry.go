package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// WidgetHook lets packages register widget configs during init().
type WidgetHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []WidgetHook
)

// RegisterWidgetHook registers a hook executed against new registries.
func RegisterWidgetHook(h WidgetHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements WidgetConfigRegistry with hook + manifest support.
type Registry struct {
	mu       sync.RWMutex
	configs  map[string]WidgetConfig
	manifest map[string]ManifestWidget
}

// NewRegistry builds a registry seeded with the default widget configs and
// applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		configs:  map[string]WidgetConfig{},
		manifest: map[string]ManifestWidget{},
	}
	for _, cfg := range DefaultWidgetConfigs() {
		_ = reg.RegisterConfig(cfg)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered widget hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterConfig stores widget reference data, replacing any previous entry.
func (r *Registry) RegisterConfig(cfg WidgetConfig) error {
	if cfg.WidgetName == "" {
		return fmt.Errorf("widget config name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.WidgetName] = cfg
	return nil
}

// Config fetches a widget config by widget name.
func (r *Registry) Config(widgetName string) (WidgetConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[widgetName]
	return cfg, ok
}

// Configs returns all registered configs sorted by widget name.
func (r *Registry) Configs() []WidgetConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	configs := make([]WidgetConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].WidgetName < configs[j].WidgetName
	})
	return configs
}

// ManifestEntry returns the manifest metadata a widget was registered from.
func (r *Registry) ManifestEntry(widgetName string) (ManifestWidget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.manifest[widgetName]
	return entry, ok
}

func (r *Registry) recordManifestEntry(entry ManifestWidget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifest[entry.Config.WidgetName] = entry
}
