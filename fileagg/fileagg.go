package fileagg

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/sokinpui/fileagg/cli"
	"github.com/sokinpui/fileagg/internal/applier"
	"github.com/sokinpui/fileagg/internal/codec"
	"github.com/sokinpui/fileagg/internal/markdown"
	"github.com/sokinpui/fileagg/internal/selector"
	"github.com/sokinpui/fileagg/internal/transport"
	"github.com/sokinpui/fileagg/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App runs aggregate and distribute for one resolved Config.
type App struct {
	cfg              *cli.Config
	logger           *zap.Logger
	transport        transport.TextTransport
	selector         *selector.Selector
	codec            *codec.Codec
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// Option customizes an App.
type Option func(*App)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTransport replaces the transport picked from the process's stdin and
// cfg.Stdout.
func WithTransport(t transport.TextTransport) Option {
	return func(a *App) {
		a.transport = t
	}
}

// New creates an App for cfg. cfg.Path must already be absolute.
func New(cfg *cli.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.transport == nil {
		switch cfg.Command {
		case cli.CommandDistribute:
			a.transport = transport.Detect(os.Stdin, false)
		default:
			a.transport = transport.Detect(nil, cfg.Stdout)
		}
	}
	a.selector = selector.New(a.logger.Named("selector"))
	a.codec = codec.New(a.logger.Named("codec"))
	return a
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// TransportName describes where the blob is read from or written to.
func (a *App) TransportName() string {
	return transport.Name(a.transport)
}

// Execute runs the configured command.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch a.cfg.Command {
	case cli.CommandAggregate:
		return a.Aggregate()
	case cli.CommandDistribute:
		return a.Distribute()
	default:
		return model.Summary{}, fmt.Errorf("unknown command %q", a.cfg.Command)
	}
}

// Aggregate selects files under the root, encodes them with any requested
// delete records, and hands the blob to the transport.
func (a *App) Aggregate() (model.Summary, error) {
	root := a.cfg.Path
	a.logger.Info("Aggregating files", zap.String("root", root), zap.Strings("extensions", a.cfg.Extensions))

	paths := a.selector.Select(root, a.cfg.Extensions)
	erase := cleanPaths(a.cfg.Erase)
	if len(paths) == 0 && len(erase) == 0 {
		return model.Summary{
			Message: fmt.Sprintf("No matching files found. The %s was left unchanged.", a.TransportName()),
		}, nil
	}

	blob, collected, err := a.codec.CombineFiles(root, paths)
	if err != nil {
		return model.Summary{}, err
	}

	var b strings.Builder
	b.WriteString(blob)
	for _, p := range erase {
		b.WriteString(codec.FormatDelete(p))
	}

	if err := a.transport.Write(b.String()); err != nil {
		return model.Summary{}, err
	}

	return model.Summary{
		Message:   fmt.Sprintf("Copied %d file(s) to %s.", len(collected), a.TransportName()),
		Collected: collected,
		Erased:    erase,
	}, nil
}

// Distribute reads a blob from the transport and applies its records under
// the root.
func (a *App) Distribute() (model.Summary, error) {
	text, err := a.transport.Read()
	if err != nil {
		return model.Summary{}, err
	}
	if strings.TrimSpace(text) == "" {
		return model.Summary{Message: fmt.Sprintf("Nothing to distribute: %s is empty.", a.TransportName())}, nil
	}

	if a.cfg.Markdown {
		text = markdown.Unwrap(text)
	}

	actions := filterActions(a.codec.Parse(text), a.cfg.Extensions)
	if len(actions) == 0 {
		return model.Summary{Message: "No file records found. Nothing to do."}, nil
	}

	ap := applier.New(a.logger.Named("applier"), applier.Options{
		DryRun:   a.cfg.DryRun,
		Progress: applier.ProgressFunc(a.progressCallback),
	})
	summary, err := ap.Apply(a.cfg.Path, actions)
	if err != nil {
		return summary, err
	}

	verb := "Applied"
	if a.cfg.DryRun {
		verb = "Dry run: would apply"
	}
	summary.Message = fmt.Sprintf("%s %d record(s) from %s.", verb, len(actions), a.TransportName())
	return summary, nil
}

// filterActions keeps the actions whose path passes the extension allow-list.
func filterActions(actions []model.FileAction, extensions []string) []model.FileAction {
	allowed := selector.NormalizeExtensions(extensions)
	if len(allowed) == 0 {
		return actions
	}
	kept := actions[:0:0]
	for _, action := range actions {
		name := action.RelPath()
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		if selector.Matches(name, allowed) {
			kept = append(kept, action)
		}
	}
	return kept
}

func cleanPaths(paths []string) []string {
	var out []string
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
