package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/sokinpui/fileagg/cli"
	"github.com/sokinpui/fileagg/fileagg"
	"github.com/sokinpui/fileagg/internal/logging"
	"github.com/sokinpui/fileagg/internal/transport"
	"github.com/sokinpui/fileagg/internal/tui"
	"github.com/sokinpui/fileagg/internal/ui"
	"github.com/sokinpui/fileagg/internal/version"
)

// errShown marks a failure the TUI has already rendered.
var errShown = errors.New("error already shown")

func main() {
	root := cli.NewRootCommand(run)
	if err := root.Execute(); err != nil {
		if errors.Is(err, errShown) {
			os.Exit(1)
		}
		ui.Error("Error: %v", err)
		var detailed *fileagg.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		os.Exit(1)
	}
}

func run(cfg *cli.Config) error {
	plain := cfg.NoAnimation || cfg.Verbose || !term.IsTerminal(int(os.Stderr.Fd()))

	var logger *zap.Logger
	if plain {
		var err error
		logger, err = logging.New(cfg.Verbose, version.Get().Version)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logging.Sync(logger)
	} else {
		// The spinner owns stderr; print the log once it is gone.
		var logs *logging.Buffer
		logger, logs = logging.NewBuffered(cfg.Verbose, version.Get().Version)
		defer logs.Flush(os.Stderr)
	}

	app := fileagg.New(cfg, fileagg.WithLogger(logger))
	logger.Debug("Starting", zap.String("command", string(cfg.Command)), zap.String("root", cfg.Path))

	if plain {
		return runPlain(app, cfg)
	}
	return runInteractive(app, cfg)
}

// runPlain prints status lines instead of the spinner.
func runPlain(app *fileagg.App, cfg *cli.Config) error {
	ui.Header("--- %s using %s ---", cfg.Command, app.TransportName())
	ui.Info("Using path: %s", cfg.Path)

	if cfg.Command == cli.CommandDistribute && term.IsTerminal(int(os.Stderr.Fd())) {
		bar := ui.NewProgressBar("Applying")
		app.SetProgressCallback(bar.Update)
		defer bar.Finish()
	}

	summary, err := app.Execute()
	if err != nil {
		return err
	}
	ui.PrintSummary(summary)
	return nil
}

func runInteractive(app *fileagg.App, cfg *cli.Config) error {
	opts := []tea.ProgramOption{tea.WithOutput(os.Stderr)}
	// Piped stdin carries the blob, so the program must not read keys from it.
	if transport.IsPiped(os.Stdin) {
		opts = append(opts, tea.WithInput(nil))
	}

	m := tui.New(app)
	p := tea.NewProgram(m, opts...)
	m.SetProgram(p)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	if fm, ok := final.(tui.Model); ok && fm.Err() != nil {
		return errShown
	}
	return nil
}
