package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
console:
  base_url: https://console.example.com
  csrf_token: abc
poll:
  interval: 2s
  transitional_refresh: false
ui:
  locale: zh
  page_size: 25
  default_page: missing
pages:
  - name: buckets
    title: Buckets
    path: /buckets
    endpoint: /buckets/json
    storage_service: true
    enrich_url: /buckets/_name_/objectscount.json
    enrich_columns: [object_count]
    columns: [bucket_name]
  - name: instances
    endpoint: /instances/json
    sort_keys:
      - key: name
        name: Name
    actions:
      - name: remove
        url: /instances/terminated/_id_/remove
        field: instance_id
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://console.example.com", cfg.BaseURL)
	assert.Equal(t, "abc", cfg.CSRFToken)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.False(t, cfg.TransitionalRefresh)
	assert.Equal(t, "zh", cfg.Locale)
	assert.Equal(t, 25, cfg.PageSize)
	// unknown default page falls back to the first one
	assert.Equal(t, "buckets", cfg.DefaultPage)

	require.Len(t, cfg.Pages, 2)
	buckets, ok := cfg.Page("buckets")
	require.True(t, ok)
	assert.True(t, buckets.StorageService)
	assert.Equal(t, []string{"object_count"}, buckets.EnrichColumns)

	instances, ok := cfg.Page("instances")
	require.True(t, ok)
	require.Len(t, instances.SortKeys, 1)
	assert.Equal(t, "name", instances.SortKeys[0].Key)
	require.Len(t, instances.Actions, 1)
	assert.Equal(t, "instance_id", instances.Actions[0].Field)
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("CONSOLE_LANDING_CONSOLE_BASE_URL", "http://env.example.com")
	t.Setenv("CONSOLE_LANDING_POLL_INTERVAL", "7s")

	cfg, err := LoadConfig(writeConfig(t, "ui:\n  locale: en\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://env.example.com", cfg.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.PollInterval)
	assert.True(t, cfg.TransitionalRefresh)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, time.Duration(0), cfg.AutoRefresh)
	assert.Equal(t, DefaultPages(), cfg.Pages)
	assert.Equal(t, "instances", cfg.DefaultPage)
}

func TestValidateRejectsBadPages(t *testing.T) {
	cfg := &Config{Pages: []PageConfig{{Name: "a", Endpoint: "/a"}, {Name: "a", Endpoint: "/b"}}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Pages: []PageConfig{{Name: "a"}}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Pages: []PageConfig{{Endpoint: "/a"}}}
	assert.Error(t, cfg.Validate())
}

func TestDefaultPagesAreValid(t *testing.T) {
	cfg := &Config{Pages: DefaultPages(), DefaultPage: "instances"}
	require.NoError(t, cfg.Validate())

	for _, p := range cfg.Pages {
		assert.NotEmpty(t, p.Title, p.Name)
		assert.NotEmpty(t, p.Path, p.Name)
		assert.NotEmpty(t, p.Columns, p.Name)
		for _, k := range p.SortKeys {
			assert.NotEmpty(t, k.Name, "%s sort %s", p.Name, k.Key)
		}
	}

	buckets, ok := cfg.Page("buckets")
	require.True(t, ok)
	assert.True(t, buckets.StorageService)
	assert.Contains(t, buckets.EnrichURL, "_name_")
}
