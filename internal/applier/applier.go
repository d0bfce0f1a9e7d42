// Package applier performs decoded file actions against a root directory.
package applier

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sokinpui/fileagg/internal/errors"
	"github.com/sokinpui/fileagg/internal/fs"
	"github.com/sokinpui/fileagg/model"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// ProgressFunc is called after each action with the number of actions done
// so far and the total.
type ProgressFunc func(done, total int)

// Options configure an Applier.
type Options struct {
	// DryRun resolves every action and reports what would change without
	// touching the filesystem.
	DryRun   bool
	Progress ProgressFunc
}

// Applier applies actions one at a time, in order.
type Applier struct {
	opts   Options
	logger *zap.Logger
}

// New creates an Applier. A nil logger disables logging.
func New(logger *zap.Logger, opts Options) *Applier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{opts: opts, logger: logger}
}

// Apply performs actions under root with default options.
func Apply(root string, actions []model.FileAction) (model.Summary, error) {
	return New(nil, Options{}).Apply(root, actions)
}

// Apply performs actions under root in the given order. Later actions see
// the effects of earlier ones, so repeated paths resolve to the last action.
//
// The first write, delete or path failure stops the run. Actions already
// performed stay performed; the returned summary lists them. Deleting a file
// that does not exist is not a failure and is reported under Missing.
func (a *Applier) Apply(root string, actions []model.FileAction) (model.Summary, error) {
	var summary model.Summary
	total := len(actions)

	a.logger.Debug("Applying actions",
		zap.String("root", root),
		zap.Int("count", total),
		zap.Bool("dryRun", a.opts.DryRun))

	if a.opts.Progress != nil {
		a.opts.Progress(0, total)
	}

	for i, action := range actions {
		target, err := fs.Resolve(root, action.RelPath())
		if err != nil {
			a.logger.Error("Rejected path", zap.String("path", action.RelPath()), zap.Error(err))
			return summary, err
		}

		switch act := action.(type) {
		case model.Write:
			if err := a.write(target, act.Content); err != nil {
				return summary, errors.Wrap(err, errors.ErrWrite, "failed to write file").WithPath(act.Path)
			}
			summary.Written = append(summary.Written, act.Path)

		case model.Delete:
			removed, err := a.delete(target)
			if err != nil {
				return summary, err.WithPath(act.Path)
			}
			if removed {
				summary.Deleted = append(summary.Deleted, act.Path)
			} else {
				a.logger.Info("Delete target does not exist", zap.String("path", act.Path))
				summary.Missing = append(summary.Missing, act.Path)
			}
		}

		if a.opts.Progress != nil {
			a.opts.Progress(i+1, total)
		}
	}

	return summary, nil
}

func (a *Applier) write(target, content string) error {
	if a.opts.DryRun {
		a.logger.Debug("Would write file", zap.String("target", target), zap.Int("bytes", len(content)))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(content), filePerm); err != nil {
		return err
	}
	a.logger.Debug("Wrote file", zap.String("target", target), zap.Int("bytes", len(content)))
	return nil
}

// delete removes a regular file or symlink at target. It reports false when
// nothing exists there. Directories are never removed.
func (a *Applier) delete(target string) (bool, *errors.FileaggError) {
	info, err := os.Lstat(target)
	switch {
	case os.IsNotExist(err):
		return false, nil
	case err != nil:
		return false, errors.Wrap(err, errors.ErrDelete, "failed to stat file")
	case info.IsDir():
		return false, errors.New(errors.ErrDelete, "refusing to delete a directory")
	}

	if a.opts.DryRun {
		a.logger.Debug("Would delete file", zap.String("target", target))
		return true, nil
	}
	if err := os.Remove(target); err != nil {
		return false, errors.Wrap(err, errors.ErrDelete, "failed to delete file")
	}
	a.logger.Debug("Deleted file", zap.String("target", target))
	return true, nil
}
