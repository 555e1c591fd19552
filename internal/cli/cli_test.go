package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/tidyup/pkg/errors"
)

// setup creates an inbox with a few files and a config moving the text
// files to an outbox. It returns the work dir and the config path.
func setup(t *testing.T, extraRules string) (string, string) {
	t.Helper()
	isolate(t)

	dir := t.TempDir()
	inbox := filepath.Join(dir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0755))
	for name, content := range map[string]string{
		"notes.txt": "notes",
		"todo.txt":  "todo",
		"photo.jpg": "jpeg",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(inbox, name), []byte(content), 0644))
	}

	cfg := fmt.Sprintf(`
rules:
  - name: Text files
    locations: %s
    filters:
      - extension: txt
    actions:
      - move: %s/
%s`, inbox, filepath.Join(dir, "outbox"), extraRules)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return dir, path
}

// isolate keeps the log file and default config out of the user's home
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(append(args, "--no-color"), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestSim_ChangesNothing(t *testing.T) {
	dir, cfg := setup(t, "")

	out, stderr, code := execute(t, "sim", "--config", cfg)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, out, "SIMULATION")
	assert.Contains(t, out, "Text files")
	assert.Contains(t, out, "Moved to")
	assert.Contains(t, out, "success 2")
	assert.FileExists(t, filepath.Join(dir, "inbox", "notes.txt"))
	assert.NoDirExists(t, filepath.Join(dir, "outbox"))
}

func TestRun_MovesFiles(t *testing.T) {
	dir, cfg := setup(t, "")

	out, stderr, code := execute(t, "run", "--config", cfg)
	require.Equal(t, 0, code, stderr)

	assert.NotContains(t, out, "SIMULATION")
	assert.FileExists(t, filepath.Join(dir, "outbox", "notes.txt"))
	assert.FileExists(t, filepath.Join(dir, "outbox", "todo.txt"))
	assert.FileExists(t, filepath.Join(dir, "inbox", "photo.jpg"))
	assert.NoFileExists(t, filepath.Join(dir, "inbox", "notes.txt"))
}

func TestRun_SimulateSetting(t *testing.T) {
	dir, cfg := setup(t, "")
	t.Setenv("TIDYUP_SIMULATE", "true")

	out, stderr, code := execute(t, "run", "--config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "SIMULATION")
	assert.FileExists(t, filepath.Join(dir, "inbox", "notes.txt"))
}

func TestRun_FailuresExitNonZero(t *testing.T) {
	_, cfg := setup(t, `
  - name: Broken
    locations: `+"{{inbox}}"+`
    filters:
      - extension: jpg
    actions:
      - shell: "exit 3"
`)
	// point the second rule at the same inbox
	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	inbox := filepath.Join(filepath.Dir(cfg), "inbox")
	require.NoError(t, os.WriteFile(cfg, []byte(strings.ReplaceAll(string(data), "{{inbox}}", inbox)), 0644))

	out, stderr, code := execute(t, "run", "--config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "fail 1")
	assert.Contains(t, stderr, "1 of 3 resources failed")
}

func TestRun_JSONFormat(t *testing.T) {
	_, cfg := setup(t, "")

	out, stderr, code := execute(t, "sim", "--config", cfg, "--format", "json")
	require.Equal(t, 0, code, stderr)

	var types []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &ev), line)
		types = append(types, ev["type"].(string))
	}
	assert.Equal(t, "simulation", types[0])
	assert.Contains(t, types, "rule")
	assert.Contains(t, types, "action")
	assert.Equal(t, "simulation", types[len(types)-2])
	assert.Equal(t, "report", types[len(types)-1])
}

func TestRun_UnknownFormat(t *testing.T) {
	_, cfg := setup(t, "")
	_, stderr, code := execute(t, "run", "--config", cfg, "--format", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown output format "xml"`)
	assert.Contains(t, stderr, "available:")
}

func TestMissingConfig(t *testing.T) {
	_, _ = setup(t, "")
	_, stderr, code := execute(t, "run", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "does not exist")
	assert.Contains(t, stderr, "hint: create it or pass --config")
}

func TestCheck(t *testing.T) {
	_, cfg := setup(t, `
  - name: Idle
    enabled: false
    locations: /tmp
`)
	out, stderr, code := execute(t, "check", "--config", cfg)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, out, "Text files")
	assert.Contains(t, out, "1 filter(s) [all], 1 action(s)")
	assert.Contains(t, out, "Idle (disabled)")
	assert.Contains(t, out, `warning: rule "Idle" has no actions`)
	assert.Contains(t, out, "2 rule(s) OK")
}

func TestCheck_InvalidRule(t *testing.T) {
	_, cfg := setup(t, `
  - name: Bad
    locations: /tmp
    filters:
      - nosuchfilter
    actions:
      - echo: hi
`)
	_, stderr, code := execute(t, "check", "--config", cfg)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nosuchfilter")
}

func TestConfigCommands(t *testing.T) {
	_, cfg := setup(t, "")

	out, _, code := execute(t, "config", "path", "--config", cfg)
	require.Equal(t, 0, code)
	assert.Equal(t, cfg+"\n", out)

	out, stderr, code := execute(t, "config", "show", "--config", cfg)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "name: Text files")
	assert.Contains(t, out, "rename_template:")

	_, stderr, code = execute(t, "config", "show", "--config", cfg, "--format", "ini")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported format")
}

func TestWorkingDir(t *testing.T) {
	dir, _ := setup(t, "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, stderr, code := execute(t, "config", "path", "-C", dir, "--config", "config.yaml")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "config.yaml\n", out)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, cwd)
}

func TestList(t *testing.T) {
	isolate(t)
	out, _, code := execute(t, "list")
	require.Equal(t, 0, code)
	for _, name := range []string{"extension", "regex", "size", "move", "shell", "trash"} {
		assert.Contains(t, out, "  "+name+"\n")
	}
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, _, code := execute(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "tidyup version dev")
}

func TestHelpTopics(t *testing.T) {
	isolate(t)
	out, _, code := execute(t, "help", "topics")
	require.Equal(t, 0, code)
	for _, name := range []string{"actions", "conflicts", "filters", "locations", "templates"} {
		assert.Contains(t, out, "  "+name+"\n")
	}
	assert.Contains(t, out, "--simulate")

	out, _, code = execute(t, "help", "conflicts")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "rename_existing")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New(errors.ErrConfig, "bad rule").WithDetail("rule", "Rule #1"))
	assert.Contains(t, buf.String(), "Error: bad rule")
	assert.Contains(t, buf.String(), "  rule: Rule #1")
}
