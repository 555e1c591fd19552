package topics

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"help/filters.md":         {Data: []byte("# Filters\n\nSelect resources.")},
		"help/templates.txt":      {Data: []byte("Templates use {braces}.")},
		"help/option-simulate.md": {Data: []byte("Simulate runs without changes.")},
		"help/notes.json":         {Data: []byte("{}")},
	}
}

type upperRenderer struct{}

func (upperRenderer) Render(content, format string) string {
	return format + ":" + strings.ToUpper(content)
}

func TestLoad(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		m, err := Load(testFS(), "help", Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"filters", "option-simulate", "templates"}, m.List())

		topic, ok := m.Get("templates")
		require.True(t, ok)
		assert.Equal(t, "Templates use {braces}.", topic.Content)
		assert.Equal(t, "help/templates.txt", topic.FilePath)
	})

	t.Run("custom extensions", func(t *testing.T) {
		m, err := Load(testFS(), "help", Options{Extensions: []string{".json"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"notes"}, m.List())
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := Load(testFS(), "nope", Options{})
		assert.Error(t, err)
	})
}

func TestGet_FlagStyle(t *testing.T) {
	m, err := Load(testFS(), "help", Options{})
	require.NoError(t, err)

	for _, name := range []string{"simulate", "--simulate", "-simulate", "option-simulate"} {
		topic, ok := m.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-simulate", topic.Name)
	}
	_, ok := m.Get("missing")
	assert.False(t, ok)
}

func TestRender_UsesRenderer(t *testing.T) {
	m, err := Load(testFS(), "help", Options{Renderer: upperRenderer{}})
	require.NoError(t, err)
	topic, _ := m.Get("filters")
	assert.Equal(t, ".md:# FILTERS\n\nSELECT RESOURCES.", m.Render(topic))
}

func TestPlainRenderer(t *testing.T) {
	assert.Equal(t, "# x", PlainRenderer{}.Render("# x", ".md"))
}

func TestGlamourRenderer_NonMarkdownUnchanged(t *testing.T) {
	assert.Equal(t, "plain text", NewGlamourRenderer().Render("plain text", ".txt"))
}

func newRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "app", Short: "test app"}
	root.AddCommand(&cobra.Command{Use: "run", Short: "Run things", Run: func(*cobra.Command, []string) {}})

	m, err := Load(testFS(), "help", Options{})
	require.NoError(t, err)
	m.Install(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	return root, &out
}

func TestInstall(t *testing.T) {
	t.Run("topic", func(t *testing.T) {
		root, out := newRoot(t)
		root.SetArgs([]string{"help", "filters"})
		require.NoError(t, root.Execute())
		assert.Equal(t, "# Filters\n\nSelect resources.", out.String())
	})

	t.Run("topic list", func(t *testing.T) {
		root, out := newRoot(t)
		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "General topics:\n  filters\n  templates")
		assert.Contains(t, out.String(), "Option topics:\n  --simulate")
		assert.Contains(t, out.String(), "'app help <topic>'")
	})

	t.Run("command help falls back", func(t *testing.T) {
		root, out := newRoot(t)
		root.SetArgs([]string{"help", "run"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "Run things")
	})
}
