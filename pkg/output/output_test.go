package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_PathPrintedLazily(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, false)

	r.RuleStarted("Sort invoices")
	r.LocationStarted("/in")
	r.ResourceVisited("/in/untouched.txt")
	r.ResourceVisited("/in/invoice.pdf")
	r.Message("move", "Moved to /out/invoice.pdf")
	r.Message("echo", "done")

	out := buf.String()
	assert.Contains(t, out, "Sort invoices")
	assert.Contains(t, out, "/in")
	assert.NotContains(t, out, "untouched.txt")
	assert.Equal(t, 1, strings.Count(out, "/in/invoice.pdf"))
	assert.Contains(t, out, "(move)")
	assert.Contains(t, out, "Moved to /out/invoice.pdf")
}

func TestTerminal_Error(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, false)

	r.ResourceVisited("/in/a.txt")
	r.Error("shell", "exit status 1")

	assert.Contains(t, buf.String(), "/in/a.txt")
	assert.Contains(t, buf.String(), "ERROR! exit status 1")
}

func TestTerminal_Confirm(t *testing.T) {
	t.Run("non-interactive returns default", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewTerminal(&buf, false).WithConfirm(func(string, bool) (bool, error) {
			t.Fatal("prompt must not be shown")
			return false, nil
		})
		assert.True(t, r.Confirm("confirm", "Continue?", true))
		assert.False(t, r.Confirm("confirm", "Continue?", false))
	})

	t.Run("interactive asks", func(t *testing.T) {
		var asked string
		r := NewTerminal(&bytes.Buffer{}, true).WithConfirm(func(text string, def bool) (bool, error) {
			asked = text
			return !def, nil
		})
		assert.True(t, r.Confirm("confirm", "Delete it?", false))
		assert.Equal(t, "Delete it?", asked)
	})

	t.Run("prompt failure returns default", func(t *testing.T) {
		r := NewTerminal(&bytes.Buffer{}, true).WithConfirm(func(string, bool) (bool, error) {
			return false, errors.New("no tty")
		})
		assert.True(t, r.Confirm("confirm", "Continue?", true))
	})
}

func TestTerminal_Summary(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, false)

	r.Summary(0, 0)
	assert.Contains(t, buf.String(), "Nothing to do.")

	buf.Reset()
	r.Summary(3, 0)
	assert.Contains(t, buf.String(), "success 3")
	assert.NotContains(t, buf.String(), "fail")

	buf.Reset()
	r.Summary(3, 2)
	assert.Contains(t, buf.String(), "fail 2")
}

func TestTerminal_SimulationBanner(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, false).SimulationBanner()
	assert.Contains(t, buf.String(), "SIMULATION")
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var events []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev), scanner.Text())
		events = append(events, ev)
	}
	return events
}

func TestJSON_Events(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSON(&buf)

	r.SimulationBanner()
	r.RuleStarted("Cleanup")
	r.LocationStarted("/in")
	r.ResourceVisited("/in/a.txt")
	r.Message("echo", "hello")
	r.Error("move", "boom")
	assert.True(t, r.Confirm("confirm", "Continue?", true))
	r.Summary(1, 1)
	r.SimulationBanner()

	events := decodeLines(t, &buf)
	require.Len(t, events, 8)

	assert.Equal(t, "simulation", events[0]["type"])
	assert.Equal(t, true, events[0]["start"])
	assert.Equal(t, map[string]any{"type": "rule", "rule": "Cleanup"}, events[1])
	assert.Equal(t, "/in", events[2]["location"])

	assert.Equal(t, map[string]any{
		"type": "action", "rule": "Cleanup", "path": "/in/a.txt",
		"sender": "echo", "msg": "hello",
	}, events[3])
	assert.Equal(t, "error", events[4]["type"])
	assert.Equal(t, "boom", events[4]["msg"])
	assert.Equal(t, true, events[5]["answer"])

	assert.Equal(t, "report", events[6]["type"])
	assert.Equal(t, float64(1), events[6]["success"])
	assert.Equal(t, float64(1), events[6]["errors"])
	assert.Equal(t, false, events[7]["start"])
}
