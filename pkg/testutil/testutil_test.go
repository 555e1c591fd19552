package testutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/tidyup/pkg/testutil"
)

func TestMemFS(t *testing.T) {
	fs := testutil.NewTestFSWith(t, map[string]string{
		"/a/b.txt": "b",
		"/c.txt":   "c",
		"/empty/":  "",
	})

	assert.Equal(t, "b", fs.Content(t, "/a/b.txt"))
	assert.Equal(t, []string{"/a/b.txt", "/c.txt"}, fs.Files(t))

	info, err := fs.Stat("/empty")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	mtime := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	fs.SetModTime(t, "/c.txt", mtime)
	info, err = fs.Stat("/c.txt")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
}

func TestCountingFS(t *testing.T) {
	fs := testutil.NewCountingFS(testutil.NewTestFS())

	_, _ = fs.Stat("/nope")
	_, _ = fs.ReadDir("/")
	assert.Equal(t, 0, fs.Mutations())

	require.NoError(t, fs.MkdirAll("/d", 0755))
	require.NoError(t, fs.WriteFile("/d/x", []byte("x"), 0644))
	require.NoError(t, fs.Rename("/d/x", "/d/y"))
	require.NoError(t, fs.Remove("/d/y"))
	require.NoError(t, fs.RemoveAll("/d"))

	assert.Equal(t, 5, fs.Mutations())
	assert.Equal(t, 1, fs.Calls()["Rename"])
}

func TestRecorder(t *testing.T) {
	r := testutil.NewRecorder()
	r.RuleStarted("rule")
	r.Message("echo", "hi")
	assert.True(t, r.Confirm("confirm", "sure?", true))

	r.ConfirmAnswer = testutil.Bool(false)
	assert.False(t, r.Confirm("confirm", "sure?", true))

	r.Summary(2, 1)
	assert.Equal(t, []string{"hi"}, r.Texts("message"))
	assert.Equal(t, 2, r.Done)
	assert.Contains(t, r.Trace(), "message: [echo] hi")

	r.Reset()
	assert.Empty(t, r.Events)
}
