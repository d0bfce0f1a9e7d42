package fileagg_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/fileagg/cli"
	"github.com/sokinpui/fileagg/fileagg"
	"github.com/sokinpui/fileagg/internal/errors"
	"github.com/sokinpui/fileagg/internal/transport"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestAggregate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello")
	writeFile(t, root, "src/main.go", "package main\n")

	mem := &transport.Memory{}
	app := fileagg.New(&cli.Config{
		Command:    cli.CommandAggregate,
		Path:       root,
		Extensions: []string{"txt"},
		Erase:      []string{"old.txt", " "},
	}, fileagg.WithTransport(mem))

	summary, err := app.Execute()
	require.NoError(t, err)

	assert.Equal(t, "=== FILE => a.txt\nhello\n=== ERASE => old.txt\n", mem.Text)
	assert.Equal(t, []string{"a.txt"}, summary.Collected)
	assert.Equal(t, []string{"old.txt"}, summary.Erased)
	assert.Contains(t, summary.Message, "memory")
}

func TestAggregateNothingSelected(t *testing.T) {
	mem := &transport.Memory{Text: "untouched"}
	app := fileagg.New(&cli.Config{Command: cli.CommandAggregate, Path: t.TempDir()}, fileagg.WithTransport(mem))

	summary, err := app.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, "untouched", mem.Text)
	assert.Equal(t, "No matching files found. The memory was left unchanged.", summary.Message)
}

func TestAggregateTransportFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello")

	mem := &transport.Memory{WriteErr: stderrors.New("clipboard unavailable")}
	app := fileagg.New(&cli.Config{Command: cli.CommandAggregate, Path: root}, fileagg.WithTransport(mem))

	_, err := app.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTransport))
}

func TestDistribute(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "old.txt", "bye")

	mem := &transport.Memory{Text: "=== FILE => a.txt\nhello\n=== ERASE => old.txt\n"}
	app := fileagg.New(&cli.Config{Command: cli.CommandDistribute, Path: root}, fileagg.WithTransport(mem))

	var calls int
	app.SetProgressCallback(func(current, total int) {
		calls++
		assert.Equal(t, 2, total)
	})

	summary, err := app.Execute()
	require.NoError(t, err)

	assert.Equal(t, "hello\n", readFile(t, root, "a.txt"))
	assert.NoFileExists(t, filepath.Join(root, "old.txt"))
	assert.Equal(t, []string{"a.txt"}, summary.Written)
	assert.Equal(t, []string{"old.txt"}, summary.Deleted)
	assert.Equal(t, 3, calls)
}

func TestDistributeOptions(t *testing.T) {
	blob := "Here you go:\n\n```\n=== FILE => keep.go\npackage keep\n=== FILE => skip.md\n# skip\n```\n"

	t.Run("markdown and extension filter", func(t *testing.T) {
		root := t.TempDir()
		app := fileagg.New(&cli.Config{
			Command:    cli.CommandDistribute,
			Path:       root,
			Markdown:   true,
			Extensions: []string{"go"},
		}, fileagg.WithTransport(&transport.Memory{Text: blob}))

		summary, err := app.Distribute()
		require.NoError(t, err)
		assert.Equal(t, []string{"keep.go"}, summary.Written)
		assert.Equal(t, "package keep\n", readFile(t, root, "keep.go"))
		assert.NoFileExists(t, filepath.Join(root, "skip.md"))
	})

	t.Run("dry run", func(t *testing.T) {
		root := t.TempDir()
		app := fileagg.New(&cli.Config{
			Command:  cli.CommandDistribute,
			Path:     root,
			Markdown: true,
			DryRun:   true,
		}, fileagg.WithTransport(&transport.Memory{Text: blob}))

		summary, err := app.Distribute()
		require.NoError(t, err)
		assert.Equal(t, []string{"keep.go", "skip.md"}, summary.Written)
		assert.Contains(t, summary.Message, "Dry run")
		assert.NoFileExists(t, filepath.Join(root, "keep.go"))
	})

	t.Run("empty transport", func(t *testing.T) {
		app := fileagg.New(&cli.Config{Command: cli.CommandDistribute, Path: t.TempDir()},
			fileagg.WithTransport(&transport.Memory{Text: " \n\t"}))

		summary, err := app.Distribute()
		require.NoError(t, err)
		assert.Contains(t, summary.Message, "empty")
		assert.Empty(t, summary.Written)
	})
}

func TestDistributeStopsOnOutsideRoot(t *testing.T) {
	root := t.TempDir()
	app := fileagg.New(&cli.Config{Command: cli.CommandDistribute, Path: root},
		fileagg.WithTransport(&transport.Memory{Text: "=== FILE => ok.txt\n1\n=== FILE => ../evil.txt\n2\n"}))

	summary, err := app.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutsideRoot))
	assert.Equal(t, []string{"ok.txt"}, summary.Written)
}

func TestExecuteUnknownCommand(t *testing.T) {
	app := fileagg.New(&cli.Config{Command: "bogus", Path: t.TempDir()}, fileagg.WithTransport(&transport.Memory{}))
	_, err := app.Execute()
	assert.Error(t, err)
}

func TestAggregateSymlinkedRoot(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "target")
	writeFile(t, target, "a.txt", "hello")
	link := filepath.Join(parent, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	mem := &transport.Memory{}
	app := fileagg.New(&cli.Config{Command: cli.CommandAggregate, Path: link}, fileagg.WithTransport(mem))

	summary, err := app.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, summary.Collected)
	assert.Equal(t, "=== FILE => a.txt\nhello\n", mem.Text)
}
