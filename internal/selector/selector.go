// Package selector finds the files under a root directory that an
// aggregation should include.
package selector

import (
	iofs "io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Selector walks a root directory and filters regular files by extension.
type Selector struct {
	logger *zap.Logger
}

// New creates a Selector. A nil logger disables logging.
func New(logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{logger: logger}
}

// Select returns the absolute paths of all regular files below root whose
// extension matches one of extensions, or all regular files when extensions
// is empty. Entries that cannot be read are skipped. Paths are returned in
// lexical walk order.
func Select(root string, extensions []string) []string {
	return New(nil).Select(root, extensions)
}

// Select is the Selector form of the package-level Select.
func (s *Selector) Select(root string, extensions []string) []string {
	allowed := NormalizeExtensions(extensions)
	s.logger.Debug("Starting file selection",
		zap.String("root", root),
		zap.Strings("extensions", allowed))

	// WalkDir does not descend into a root that is a symlink, so walk the
	// link target and report paths under root as given.
	walkRoot := root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		walkRoot = resolved
	}

	var files []string
	_ = filepath.WalkDir(walkRoot, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			s.logger.Debug("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.logger.Debug("Skipping entry without metadata", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !Matches(d.Name(), allowed) {
			return nil
		}

		if walkRoot != root {
			if rel, err := filepath.Rel(walkRoot, path); err == nil {
				path = filepath.Join(root, rel)
			}
		}
		files = append(files, path)
		return nil
	})

	s.logger.Debug("Completed file selection", zap.Int("files", len(files)))
	return files
}

// Matches reports whether a file name passes an allow-list that has already
// been through NormalizeExtensions.
func Matches(name string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	ext, ok := extension(name)
	if !ok {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}

// NormalizeExtensions trims whitespace and one leading dot from each entry
// and drops entries that end up empty.
func NormalizeExtensions(extensions []string) []string {
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// extension returns the text after the last dot of name. A name whose only
// dot is its first character (".bashrc") has no extension.
func extension(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return "", false
	}
	return name[i+1:], true
}
