package codec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/fileagg/internal/codec"
	"github.com/sokinpui/fileagg/internal/errors"
	"github.com/sokinpui/fileagg/model"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCombineSingleFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.txt", "hello")

	blob, err := codec.Combine(root, []string{path})
	require.NoError(t, err)
	assert.Equal(t, "=== FILE => a.txt\nhello\n", blob)
}

func TestCombineFilesOrderAndSkips(t *testing.T) {
	root := t.TempDir()
	b := writeFile(t, root, "sub/b.go", "package b\n")
	a := writeFile(t, root, "a.txt", "")
	outside := writeFile(t, t.TempDir(), "x.txt", "nope")

	blob, included, err := codec.New(nil).CombineFiles(root, []string{b, outside, a})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/b.go", "a.txt"}, included)
	assert.Equal(t, "=== FILE => sub/b.go\npackage b\n\n=== FILE => a.txt\n\n", blob)
}

func TestCombineEmptyInput(t *testing.T) {
	blob, err := codec.Combine(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, blob)
}

func TestCombineReadErrors(t *testing.T) {
	root := t.TempDir()

	_, err := codec.Combine(root, []string{filepath.Join(root, "missing.txt")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRead))

	bin := filepath.Join(root, "bin.dat")
	require.NoError(t, os.WriteFile(bin, []byte{0xff, 0xfe, 0x00}, 0o644))
	_, err = codec.Combine(root, []string{bin})
	require.Error(t, err)
	assert.Equal(t, errors.ErrRead, errors.GetErrorCode(err))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want []model.FileAction
	}{
		{
			name: "single write",
			blob: "=== FILE => a.txt\nhello\n",
			want: []model.FileAction{model.Write{Path: "a.txt", Content: "hello\n"}},
		},
		{
			name: "single delete",
			blob: "=== ERASE => old.txt\n",
			want: []model.FileAction{model.Delete{Path: "old.txt"}},
		},
		{
			name: "empty blob",
			blob: "",
			want: nil,
		},
		{
			name: "preamble is ignored",
			blob: "Here are the files:\n\n=== FILE => a.txt\nx\n",
			want: []model.FileAction{model.Write{Path: "a.txt", Content: "x\n"}},
		},
		{
			name: "mixed records keep order and duplicates",
			blob: "=== FILE => a.txt\none\n=== ERASE => b.txt\n=== FILE => a.txt\ntwo\n",
			want: []model.FileAction{
				model.Write{Path: "a.txt", Content: "one\n"},
				model.Delete{Path: "b.txt"},
				model.Write{Path: "a.txt", Content: "two\n"},
			},
		},
		{
			name: "path whitespace is trimmed",
			blob: "=== FILE =>   dir/c.md  \nbody\n=== ERASE =>  d.txt \t\n",
			want: []model.FileAction{
				model.Write{Path: "dir/c.md", Content: "body\n"},
				model.Delete{Path: "d.txt"},
			},
		},
		{
			name: "write with no content lines",
			blob: "=== FILE => empty.txt\n=== FILE => b.txt\nb\n",
			want: []model.FileAction{
				model.Write{Path: "empty.txt", Content: ""},
				model.Write{Path: "b.txt", Content: "b\n"},
			},
		},
		{
			name: "missing final newline",
			blob: "=== FILE => a.txt\nhello",
			want: []model.FileAction{model.Write{Path: "a.txt", Content: "hello\n"}},
		},
		{
			name: "carriage returns are content",
			blob: "=== FILE => win.txt\nline\r\n",
			want: []model.FileAction{model.Write{Path: "win.txt", Content: "line\r\n"}},
		},
		{
			name: "empty paths produce no action",
			blob: "=== FILE =>  \nlost\n=== ERASE => \n=== FILE => kept.txt\nk\n",
			want: []model.FileAction{model.Write{Path: "kept.txt", Content: "k\n"}},
		},
		{
			name: "marker lookalike in content ends the record",
			blob: "=== FILE => doc.md\nbefore\n=== ERASE => notes\nafter\n",
			want: []model.FileAction{
				model.Write{Path: "doc.md", Content: "before\n"},
				model.Delete{Path: "notes"},
			},
		},
		{
			name: "marker prefix must start the line",
			blob: "=== FILE => doc.md\n  === FILE => not-a-marker\n",
			want: []model.FileAction{model.Write{Path: "doc.md", Content: "  === FILE => not-a-marker\n"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codec.Parse(tt.blob))
		})
	}
}

func TestCombineParseRoundTrip(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"a.txt":        "hello",
		"b/c.go":       "package c\n\nfunc C() {}\n",
		"d/e/blank.md": "",
		"crlf.txt":     "one\r\ntwo\r\n",
	}
	order := []string{"a.txt", "b/c.go", "crlf.txt", "d/e/blank.md"}

	var paths []string
	for _, rel := range order {
		paths = append(paths, writeFile(t, root, rel, files[rel]))
	}

	blob, err := codec.Combine(root, paths)
	require.NoError(t, err)

	actions := codec.Parse(blob)
	require.Len(t, actions, len(order))
	for i, rel := range order {
		w, ok := actions[i].(model.Write)
		require.True(t, ok, "action %d is %T", i, actions[i])
		assert.Equal(t, rel, w.Path)
		assert.Equal(t, files[rel]+"\n", w.Content)
	}
}

func TestMarkerHelpers(t *testing.T) {
	assert.True(t, codec.IsMarkerLine("=== FILE => x"))
	assert.True(t, codec.IsMarkerLine("=== ERASE => "))
	assert.False(t, codec.IsMarkerLine("=== FILE =>x"))
	assert.False(t, codec.IsMarkerLine(" === ERASE => x"))

	assert.Equal(t, "=== ERASE => a/b.txt\n", codec.FormatDelete("a/b.txt"))
	assert.True(t, codec.ContainsRecord("intro\n=== ERASE => x\n"))
	assert.False(t, codec.ContainsRecord("just some text\n"))
}
