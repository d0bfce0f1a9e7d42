// Package markdown recovers blobs that were pasted back wrapped in fenced
// code blocks.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/sokinpui/fileagg/internal/codec"
)

// ExtractBlobs parses source as Markdown and returns the raw content of every
// fenced code block that holds at least one record, in document order.
func ExtractBlobs(source string) []string {
	src := []byte(source)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var blobs []string
	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var content bytes.Buffer
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(src))
		}

		if codec.ContainsRecord(content.String()) {
			blobs = append(blobs, content.String())
		}
		return ast.WalkSkipChildren, nil
	}

	// The walker never fails.
	_ = ast.Walk(root, walker)
	return blobs
}

// Unwrap returns the records found in fenced code blocks of source joined into
// one blob, or source unchanged when no block holds a record.
func Unwrap(source string) string {
	blobs := ExtractBlobs(source)
	if len(blobs) == 0 {
		return source
	}

	var b strings.Builder
	for _, blob := range blobs {
		b.WriteString(blob)
		if !strings.HasSuffix(blob, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
