package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreviewCache(ttl time.Duration) (*LayoutPreviewCache, *time.Time) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewLayoutPreviewCache(ttl)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestLayoutPreviewCacheSharesEntryForSameLayoutShape(t *testing.T) {
	cache, _ := newTestPreviewCache(time.Minute)
	renders := 0
	render := func() (string, error) {
		renders++
		return "<div>preview</div>", nil
	}
	options := PreviewOptions{Title: "Monthly Cost"}
	first := SummarizeLayout(sampleRecord().Layouts[0])
	// different keys and titles, same widget type and size counts
	reordered := SummarizeLayout([]WidgetLayoutInfo{
		{WidgetKey: "x", WidgetName: "costByProduct", Title: "Other", Size: WidgetSizeSM},
		{WidgetKey: "y", WidgetName: "costTrend", Title: "Other", Size: WidgetSizeFull},
	})

	_, err := cache.GetOrRender(previewKey(first, options), render)
	require.NoError(t, err)
	_, err = cache.GetOrRender(previewKey(reordered, options), render)
	require.NoError(t, err)

	assert.Equal(t, 1, renders)
	assert.Equal(t, 1, cache.Len())
}

func TestLayoutPreviewCacheMissesWhenLayoutChanges(t *testing.T) {
	cache, _ := newTestPreviewCache(time.Minute)
	renders := 0
	render := func() (string, error) {
		renders++
		return "html", nil
	}
	widgets := sampleRecord().Layouts[0]
	options := PreviewOptions{Title: "Monthly Cost"}

	_, err := cache.GetOrRender(previewKey(SummarizeLayout(widgets), options), render)
	require.NoError(t, err)
	widgets[0].Size = WidgetSizeMD
	_, err = cache.GetOrRender(previewKey(SummarizeLayout(widgets), options), render)
	require.NoError(t, err)
	_, err = cache.GetOrRender(previewKey(SummarizeLayout(widgets), PreviewOptions{Title: "Monthly Cost", Theme: "dark"}), render)
	require.NoError(t, err)

	assert.Equal(t, 3, renders)
	assert.Equal(t, 3, cache.Len())
}

func TestLayoutPreviewCacheExpires(t *testing.T) {
	cache, now := newTestPreviewCache(time.Minute)
	renders := 0
	render := func() (string, error) {
		renders++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("layout", render)
	require.NoError(t, err)
	*now = now.Add(30 * time.Second)
	_, err = cache.GetOrRender("layout", render)
	require.NoError(t, err)
	assert.Equal(t, 1, renders)

	*now = now.Add(time.Minute)
	_, err = cache.GetOrRender("layout", render)
	require.NoError(t, err)
	assert.Equal(t, 2, renders)
}

func TestLayoutPreviewCacheSkipsFailedRenders(t *testing.T) {
	cache, _ := newTestPreviewCache(time.Minute)
	boom := errors.New("render failed")

	_, err := cache.GetOrRender("layout", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, cache.Len())
}

func TestLayoutPreviewCacheDisabled(t *testing.T) {
	cache := NewLayoutPreviewCache(0)
	renders := 0
	render := func() (string, error) {
		renders++
		return "html", nil
	}
	_, _ = cache.GetOrRender("layout", render)
	_, _ = cache.GetOrRender("layout", render)

	assert.Equal(t, 2, renders)
	assert.Zero(t, cache.Len())
}

func TestHashJSONIsStable(t *testing.T) {
	a := hashJSON(map[string]any{"type": "object", "required": []string{"x"}})
	b := hashJSON(map[string]any{"required": []string{"x"}, "type": "object"})

	assert.Equal(t, a, b)
	assert.Equal(t, "empty", hashJSON(nil))
	assert.NotEqual(t, a, hashJSON(map[string]any{"type": "object"}))
}
