package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/tidyup/pkg/config"
	"github.com/arthur-debert/tidyup/pkg/errors"
)

const yamlConfig = `
settings:
  trash_dir: /tmp/trash
rules:
  - name: Sort invoices
    locations:
      - ~/Downloads
      - path: /srv/inbox
        max_depth: 2
    filters:
      - extension: pdf
      - not name: {startswith: draft}
    actions:
      - move: ~/Documents/Invoices/
  - name: Disabled
    enabled: false
    locations: /tmp
    actions:
      - echo: hi
`

const tomlConfig = `
[settings]
simulate = true

[[rules]]
name = "Sort invoices"
locations = "~/Downloads"
filters = [{ extension = ["pdf", "PDF"] }]
actions = [{ move = { dest = "~/Documents/" } }]
`

func TestLoadBytesYAML(t *testing.T) {
	cfg, err := config.LoadBytes([]byte(yamlConfig), config.YAML)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/trash", cfg.Settings.TrashDir)
	assert.Equal(t, "{name} {counter}{extension}", cfg.Settings.RenameTemplate, "default kept")
	assert.False(t, cfg.Settings.Simulate)

	require.Len(t, cfg.Rules, 2)
	rule := cfg.Rules[0]
	assert.Equal(t, "Sort invoices", rule.Name)
	assert.True(t, rule.IsEnabled())
	assert.Equal(t, []any{
		"~/Downloads",
		map[string]any{"path": "/srv/inbox", "max_depth": 2},
	}, rule.Locations)
	assert.Equal(t, []any{
		map[string]any{"extension": "pdf"},
		map[string]any{"not name": map[string]any{"startswith": "draft"}},
	}, rule.Filters)
	assert.Equal(t, []any{map[string]any{"move": "~/Documents/Invoices/"}}, rule.Actions)

	assert.False(t, cfg.Rules[1].IsEnabled())
}

func TestLoadBytesTOML(t *testing.T) {
	cfg, err := config.LoadBytes([]byte(tomlConfig), config.TOML)
	require.NoError(t, err)

	assert.True(t, cfg.Settings.Simulate)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "~/Downloads", cfg.Rules[0].Locations)
	assert.Equal(t, []any{map[string]any{"extension": []any{"pdf", "PDF"}}}, cfg.Rules[0].Filters)
	assert.Equal(t, []any{map[string]any{"move": map[string]any{"dest": "~/Documents/"}}}, cfg.Rules[0].Actions)
}

func TestEnvironmentOverridesSettings(t *testing.T) {
	t.Setenv("TIDYUP_SIMULATE", "true")
	t.Setenv("TIDYUP_RENAME_TEMPLATE", "{name}_{counter}{extension}")

	cfg, err := config.LoadBytes([]byte(yamlConfig), config.YAML)
	require.NoError(t, err)
	assert.True(t, cfg.Settings.Simulate)
	assert.Equal(t, "{name}_{counter}{extension}", cfg.Settings.RenameTemplate)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.Path)
		assert.Len(t, cfg.Rules, 2)
	})

	t.Run("toml file", func(t *testing.T) {
		path := filepath.Join(dir, "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Len(t, cfg.Rules, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "nope.yaml"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "config.ini"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("invalid syntax", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rules: [unclosed"), 0644))

		_, err := config.Load(path)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})
}

func TestShow(t *testing.T) {
	cfg, err := config.LoadBytes([]byte(yamlConfig), config.YAML)
	require.NoError(t, err)

	out, err := cfg.Show(config.YAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "trash_dir: /tmp/trash")
	assert.Contains(t, string(out), "name: Sort invoices")

	again, err := config.LoadBytes(out, config.YAML)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rules, again.Rules)

	tomlCfg, err := config.LoadBytes([]byte(tomlConfig), config.TOML)
	require.NoError(t, err)
	out, err = tomlCfg.Show(config.TOML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[settings]")
	assert.Contains(t, string(out), "Sort invoices")

	_, err = cfg.Show("ini")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(config.DefaultPath()))
	assert.Equal(t, "tidyup", filepath.Base(filepath.Dir(config.DefaultPath())))
}
