package logging

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const appName = "fileagg"

func newConfig(verbose bool, appVersion string) zap.Config {
	var cfg zap.Config

	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}
	return cfg
}

// New builds the process logger. Verbose selects a human-readable debug
// logger; otherwise only warnings and errors are logged, as JSON. Both write
// to stderr so stdout stays free for blobs.
func New(verbose bool, appVersion string) (*zap.Logger, error) {
	logger, err := newConfig(verbose, appVersion).Build()
	if err != nil {
		return zap.NewNop(), err
	}
	return logger, nil
}

// Buffer holds log output until Flush. It is safe for concurrent use.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) Sync() error { return nil }

// Flush writes everything logged so far to w and empties the buffer.
func (b *Buffer) Flush(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.buf.WriteTo(w)
	return err
}

// NewBuffered is New with output held in the returned Buffer instead of
// going to stderr, for while a full-screen program owns the terminal.
func NewBuffered(verbose bool, appVersion string) (*zap.Logger, *Buffer) {
	cfg := newConfig(verbose, appVersion)

	var enc zapcore.Encoder
	if cfg.Encoding == "console" {
		enc = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	} else {
		enc = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	}

	buf := &Buffer{}
	core := zapcore.NewCore(enc, buf, cfg.Level)
	logger := zap.New(core, zap.Fields(
		zap.String("appName", appName),
		zap.String("appVersion", appVersion),
	))
	return logger, buf
}

// Sync flushes logger. Syncing a pipe or console fails on some platforms, so
// it is only attempted on terminals and regular files.
func Sync(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if err := logger.Sync(); err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "invalid argument") {
			log.Printf("Logger sync failed: %v", err)
		}
	}
}

func isRegularFile(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
