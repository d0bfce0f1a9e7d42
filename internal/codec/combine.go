package codec

import (
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sokinpui/fileagg/internal/errors"
	"github.com/sokinpui/fileagg/internal/fs"
)

// Combine encodes the files at paths into a blob, with each path written
// relative to root. See (*Codec).Combine.
func Combine(root string, paths []string) (string, error) {
	return New(nil).Combine(root, paths)
}

// Combine encodes the files at paths, in order, into one blob. Paths that
// are not below root are left out. A file that cannot be read, or is not
// valid UTF-8, fails the whole call with an ErrRead error.
func (c *Codec) Combine(root string, paths []string) (string, error) {
	blob, _, err := c.CombineFiles(root, paths)
	return blob, err
}

// CombineFiles is Combine that also returns the relative paths that made it
// into the blob.
func (c *Codec) CombineFiles(root string, paths []string) (string, []string, error) {
	var b strings.Builder
	included := make([]string, 0, len(paths))

	for _, path := range paths {
		relPath, ok := fs.Relativize(root, path)
		if !ok {
			c.logger.Debug("Skipping file outside root",
				zap.String("path", path),
				zap.String("root", root))
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Error("Failed to read file", zap.String("path", path), zap.Error(err))
			return "", nil, errors.Wrap(err, errors.ErrRead, "failed to read file").WithPath(path)
		}
		if !utf8.Valid(data) {
			return "", nil, errors.New(errors.ErrRead, "file is not valid UTF-8 text").WithPath(path)
		}

		b.WriteString(WriteMarker)
		b.WriteString(relPath)
		b.WriteByte('\n')
		b.Write(data)
		b.WriteByte('\n')

		included = append(included, relPath)
		c.logger.Debug("Encoded file",
			zap.String("path", relPath),
			zap.Int("contentSizeBytes", len(data)))
	}

	return b.String(), included, nil
}
