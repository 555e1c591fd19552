package actions_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/tidyup/pkg/actions"
	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/registry"
	"github.com/arthur-debert/tidyup/pkg/resource"
	"github.com/arthur-debert/tidyup/pkg/testutil"
	"github.com/arthur-debert/tidyup/pkg/trash"
	"github.com/arthur-debert/tidyup/pkg/types"
)

var runStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func contextFor(fsys types.FS, path string) *resource.Context {
	return types.NewContext(fsys, "/in", path, runStart, map[string]string{"GREETING": "hello"})
}

func newAction(t *testing.T, name string, raw any) types.Action {
	t.Helper()
	a, err := registry.NewAction(name, types.ArgsFrom(raw))
	require.NoError(t, err)
	return a
}

func envWith(rec *testutil.Recorder, simulate bool) types.Env {
	return types.Env{Simulate: simulate, Reporter: rec}
}

func TestBuiltinActionsRegistered(t *testing.T) {
	for _, name := range []string{
		actions.EchoActionName,
		actions.RenameActionName,
		actions.MoveActionName,
		actions.CopyActionName,
		actions.TrashActionName,
		actions.DeleteActionName,
		actions.ShellActionName,
		actions.ConfirmActionName,
	} {
		assert.Contains(t, registry.Actions(), name)
	}
}

func TestEchoAction(t *testing.T) {
	fs := testutil.NewTestFSWith(t, map[string]string{"/in/report.pdf": "x"})
	ctx := contextFor(fs, "/in/report.pdf")
	ctx.Merge(map[string]any{"extension": map[string]any{"upper": "PDF"}})
	rec := testutil.NewRecorder()

	a := newAction(t, "echo", "Found a {extension.upper}: {pathBase(fs_path)} ({env.GREETING})")
	updates, err := a.Apply(ctx, envWith(rec, false))
	require.NoError(t, err)
	assert.Nil(t, updates)
	assert.Equal(t, []string{"Found a PDF: report.pdf (hello)"}, rec.Texts("message"))

	t.Run("undefined variable", func(t *testing.T) {
		a := newAction(t, "echo", "{nope}")
		_, err := a.Apply(ctx, envWith(rec, false))
		assert.True(t, errors.IsErrorCode(err, errors.ErrAction))
	})

	t.Run("message required", func(t *testing.T) {
		_, err := registry.NewAction("echo", types.Args{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfig))
	})
}

func TestRenameAction(t *testing.T) {
	t.Run("renames in place", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "x"})
		rec := testutil.NewRecorder()
		a := newAction(t, "rename", "{pathStem(fs_path)}-2024.txt")

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		require.NoError(t, err)
		assert.Equal(t, "/in/a-2024.txt", updates[types.KeyFSPath])
		assert.Equal(t, []string{"/in/a-2024.txt"}, fs.Files(t))
		require.Len(t, rec.Texts("message"), 1)
		assert.True(t, strings.HasPrefix(rec.Texts("message")[0], "Renamed to /in/a-2024.txt"))
	})

	t.Run("conflict picks a free name", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a", "/in/b.txt": "b"})
		rec := testutil.NewRecorder()
		a := newAction(t, "rename", "b.txt")

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		require.NoError(t, err)
		assert.Equal(t, "/in/b 1.txt", updates[types.KeyFSPath])
		assert.Equal(t, "a", fs.Content(t, "/in/b 1.txt"))
		assert.Equal(t, "b", fs.Content(t, "/in/b.txt"))
	})

	t.Run("skip leaves resource alone", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a", "/in/b.txt": "b"})
		rec := testutil.NewRecorder()
		a := newAction(t, "rename", map[string]any{"name": "b.txt", "on_conflict": "skip"})

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		require.NoError(t, err)
		assert.Nil(t, updates)
		assert.Equal(t, []string{"/in/a.txt", "/in/b.txt"}, fs.Files(t))
		assert.Contains(t, rec.Texts("message"), "Skipped.")
	})

	t.Run("custom rename template", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a", "/in/b.txt": "b"})
		a := newAction(t, "rename", map[string]any{"name": "b.txt", "rename_template": "{name}_{counter}{extension}"})

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		require.NoError(t, err)
		assert.Equal(t, "/in/b_1.txt", updates[types.KeyFSPath])
	})

	t.Run("unchanged name", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})
		rec := testutil.NewRecorder()
		a := newAction(t, "rename", "a.txt")

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		require.NoError(t, err)
		assert.Nil(t, updates)
		assert.Equal(t, []string{"Name did not change"}, rec.Texts("message"))
	})

	t.Run("separator is rejected", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})
		a := newAction(t, "rename", "sub/a.txt")

		_, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		assert.True(t, errors.IsErrorCode(err, errors.ErrAction))
		assert.Equal(t, []string{"/in/a.txt"}, fs.Files(t))
	})

	t.Run("simulated", func(t *testing.T) {
		mem := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a", "/in/b.txt": "b"})
		fs := testutil.NewCountingFS(mem)
		a := newAction(t, "rename", map[string]any{"name": "b.txt", "on_conflict": "rename_existing"})

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), true))
		require.NoError(t, err)
		assert.Equal(t, "/in/b.txt", updates[types.KeyFSPath])
		assert.Equal(t, 0, fs.Mutations())
		assert.Equal(t, []string{"/in/a.txt", "/in/b.txt"}, mem.Files(t))
	})

	t.Run("invalid policy", func(t *testing.T) {
		_, err := registry.NewAction("rename", types.ArgsFrom(map[string]any{"name": "x", "on_conflict": "explode"}))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfig))
	})
}

func TestMoveAction(t *testing.T) {
	t.Run("into a directory", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})
		rec := testutil.NewRecorder()
		a := newAction(t, "move", "/out/{now.getFullYear()}/")

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		require.NoError(t, err)
		assert.Equal(t, "/out/2024/a.txt", updates[types.KeyFSPath])
		assert.Equal(t, fs, updates[types.KeyFS])
		assert.Equal(t, []string{"/out/2024/a.txt"}, fs.Files(t))
	})

	t.Run("to a full path", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})
		a := newAction(t, "move", map[string]any{"dest": "/out/renamed.txt"})

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		require.NoError(t, err)
		assert.Equal(t, "/out/renamed.txt", updates[types.KeyFSPath])
		assert.Equal(t, "a", fs.Content(t, "/out/renamed.txt"))
	})

	t.Run("same resource", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})
		rec := testutil.NewRecorder()
		a := newAction(t, "move", "/in/")

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		require.NoError(t, err)
		assert.Nil(t, updates)
		assert.Equal(t, []string{"Same resource: Skipped."}, rec.Texts("message"))
	})

	t.Run("overwrite", func(t *testing.T) {
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "new", "/out/a.txt": "old"})
		a := newAction(t, "move", map[string]any{"dest": "/out/", "on_conflict": "overwrite"})

		_, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		require.NoError(t, err)
		assert.Equal(t, []string{"/out/a.txt"}, fs.Files(t))
		assert.Equal(t, "new", fs.Content(t, "/out/a.txt"))
	})

	t.Run("to another filesystem", func(t *testing.T) {
		filesystem.ResetMemory()
		t.Cleanup(filesystem.ResetMemory)
		fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})
		a := newAction(t, "move", map[string]any{"dest": "/archive/", "filesystem": "mem://archive"})

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		require.NoError(t, err)

		archive, err := filesystem.Open("mem://archive")
		require.NoError(t, err)
		assert.Equal(t, archive, updates[types.KeyFS])
		assert.Empty(t, fs.Files(t))
		data, err := archive.ReadFile("/archive/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
	})

	t.Run("simulated", func(t *testing.T) {
		mem := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})
		fs := testutil.NewCountingFS(mem)
		rec := testutil.NewRecorder()
		a := newAction(t, "move", "/out/")

		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, true))
		require.NoError(t, err)
		assert.Equal(t, "/out/a.txt", updates[types.KeyFSPath])
		assert.Equal(t, 0, fs.Mutations())
		assert.Equal(t, []string{"/in/a.txt"}, mem.Files(t))
		require.Len(t, rec.Texts("message"), 1)
		assert.True(t, strings.HasPrefix(rec.Texts("message")[0], "Moved to /out/a.txt"))
	})
}

func TestCopyAction(t *testing.T) {
	fs := testutil.NewTestFSWith(t, map[string]string{
		"/in/a.txt":     "a",
		"/in/dir/b.txt": "b",
	})
	rec := testutil.NewRecorder()

	a := newAction(t, "copy", "/backup/")
	updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
	require.NoError(t, err)
	assert.Equal(t, "/backup/a.txt", updates[types.KeyFSPath])

	_, err = a.Apply(contextFor(fs, "/in/dir"), envWith(rec, false))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/backup/a.txt",
		"/backup/dir/b.txt",
		"/in/a.txt",
		"/in/dir/b.txt",
	}, fs.Files(t))
	assert.Equal(t, "b", fs.Content(t, "/backup/dir/b.txt"))
}

func TestTrashAction(t *testing.T) {
	fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})
	can := &trash.Can{Dir: "/trash", FS: fs, Now: func() time.Time { return runStart }}
	rec := testutil.NewRecorder()
	a := newAction(t, "trash", nil)

	t.Run("simulated", func(t *testing.T) {
		_, err := a.Apply(contextFor(fs, "/in/a.txt"), types.Env{Simulate: true, Reporter: rec, Trasher: can})
		require.NoError(t, err)
		assert.Equal(t, []string{"/in/a.txt"}, fs.Files(t))
	})

	t.Run("real", func(t *testing.T) {
		_, err := a.Apply(contextFor(fs, "/in/a.txt"), types.Env{Reporter: rec, Trasher: can})
		require.NoError(t, err)
		assert.Equal(t, []string{"/trash/files/a.txt", "/trash/info/a.txt.trashinfo"}, fs.Files(t))
	})

	t.Run("without a can", func(t *testing.T) {
		_, err := a.Apply(contextFor(fs, "/in/a.txt"), types.Env{Reporter: rec})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	})

	t.Run("arguments rejected", func(t *testing.T) {
		_, err := registry.NewAction("trash", types.ArgsFrom("now"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfig))
	})
}

func TestDeleteAction(t *testing.T) {
	mem := testutil.NewTestFSWith(t, map[string]string{"/in/dir/a.txt": "a", "/in/b.txt": "b"})
	fs := testutil.NewCountingFS(mem)
	a := newAction(t, "delete", nil)

	_, err := a.Apply(contextFor(fs, "/in/dir"), envWith(testutil.NewRecorder(), true))
	require.NoError(t, err)
	assert.Equal(t, 0, fs.Mutations())

	_, err = a.Apply(contextFor(fs, "/in/dir"), envWith(testutil.NewRecorder(), false))
	require.NoError(t, err)
	assert.Equal(t, []string{"/in/b.txt"}, mem.Files(t))
}

func TestShellAction(t *testing.T) {
	fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})

	t.Run("script with output", func(t *testing.T) {
		rec := testutil.NewRecorder()
		a := newAction(t, "shell", `echo "{upper(pathBase(fs_path))}"; echo $GREETING`)
		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"shell": map[string]any{"output": "A.TXT\nhello", "returncode": int64(0)}}, updates)
		assert.Equal(t, []string{`$ echo "A.TXT"; echo $GREETING`}, rec.Texts("message"))
	})

	t.Run("failing command", func(t *testing.T) {
		a := newAction(t, "shell", "echo oops >&2; exit 3")
		_, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrAction))
		assert.Contains(t, errors.Message(err), "oops")
	})

	t.Run("ignore errors", func(t *testing.T) {
		a := newAction(t, "shell", map[string]any{"cmd": "echo partial; exit 3", "ignore_errors": true})
		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"shell": map[string]any{"output": "partial", "returncode": int64(3)}}, updates)
	})

	t.Run("not run in simulation", func(t *testing.T) {
		rec := testutil.NewRecorder()
		a := newAction(t, "shell", "exit 1")
		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, true))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"shell": map[string]any{"output": "", "returncode": int64(0)}}, updates)
		assert.Equal(t, []string{"** not run in simulation ** $ exit 1"}, rec.Texts("message"))
	})

	t.Run("run in simulation", func(t *testing.T) {
		a := newAction(t, "shell", map[string]any{"cmd": "echo sim", "run_in_simulation": true})
		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), true))
		require.NoError(t, err)
		assert.Equal(t, "sim", updates["shell"].(map[string]any)["output"])
	})

	t.Run("without a shell", func(t *testing.T) {
		a := newAction(t, "shell", map[string]any{"cmd": `echo "two words" '$GREETING'`, "shell": false})
		updates, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		require.NoError(t, err)
		assert.Equal(t, "two words $GREETING", updates["shell"].(map[string]any)["output"])
	})

	t.Run("syntax error", func(t *testing.T) {
		a := newAction(t, "shell", "echo 'unterminated")
		_, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		assert.True(t, errors.IsErrorCode(err, errors.ErrAction))
	})
}

func TestConfirmAction(t *testing.T) {
	fs := testutil.NewTestFSWith(t, map[string]string{"/in/a.txt": "a"})

	t.Run("accepted", func(t *testing.T) {
		rec := testutil.NewRecorder()
		rec.ConfirmAnswer = testutil.Bool(true)
		a := newAction(t, "confirm", "Delete {pathBase(fs_path)}?")
		_, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		require.NoError(t, err)
		assert.Equal(t, []string{"Delete a.txt?"}, rec.Texts("confirm"))
	})

	t.Run("declined", func(t *testing.T) {
		rec := testutil.NewRecorder()
		rec.ConfirmAnswer = testutil.Bool(false)
		a := newAction(t, "confirm", nil)
		_, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(rec, false))
		assert.True(t, errors.IsErrorCode(err, errors.ErrAction))
		assert.Equal(t, []string{"Continue?"}, rec.Texts("confirm"))
	})

	t.Run("default answer", func(t *testing.T) {
		a := newAction(t, "confirm", map[string]any{"default": true})
		_, err := a.Apply(contextFor(fs, "/in/a.txt"), envWith(testutil.NewRecorder(), false))
		require.NoError(t, err)
	})
}
