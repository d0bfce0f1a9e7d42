package fs

import (
	"path/filepath"
	"strings"

	"github.com/sokinpui/fileagg/internal/errors"
)

// Relativize returns path relative to root in forward-slash form. It reports
// false if path is not a strict descendant of root.
func Relativize(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || escapes(rel) || rel == "." {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Resolve joins a root-relative, forward-slash path onto root. The result
// must stay strictly below root; anything else is an ErrOutsideRoot error.
func Resolve(root, relPath string) (string, error) {
	if strings.TrimSpace(relPath) == "" {
		return "", errors.New(errors.ErrOutsideRoot, "empty path")
	}
	if strings.HasPrefix(relPath, "/") || filepath.IsAbs(relPath) || filepath.VolumeName(relPath) != "" {
		return "", errors.New(errors.ErrOutsideRoot, "absolute path").WithPath(relPath)
	}

	cleanRoot := filepath.Clean(root)
	target := filepath.Join(cleanRoot, filepath.FromSlash(relPath))

	rel, err := filepath.Rel(cleanRoot, target)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrOutsideRoot, "cannot resolve path").WithPath(relPath)
	}
	if escapes(rel) || rel == "." {
		return "", errors.New(errors.ErrOutsideRoot, "path escapes root").WithPath(relPath)
	}
	return target, nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
