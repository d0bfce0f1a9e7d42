// Package transport moves a blob between fileagg and the outside world.
package transport

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/sokinpui/fileagg/internal/errors"
)

// TextTransport reads and writes a whole blob at once.
type TextTransport interface {
	Read() (string, error)
	Write(text string) error
}

// Clipboard uses the system clipboard.
type Clipboard struct{}

// Read returns the clipboard text.
func (Clipboard) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrTransport, "failed to read from clipboard")
	}
	return text, nil
}

// Write replaces the clipboard text.
func (Clipboard) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Wrap(err, errors.ErrTransport, "failed to write to clipboard")
	}
	return nil
}

// Stdio reads the blob from In and writes it to Out.
type Stdio struct {
	In  io.Reader
	Out io.Writer
}

// NewStdio returns a Stdio bound to the process's standard streams.
func NewStdio() *Stdio {
	return &Stdio{In: os.Stdin, Out: os.Stdout}
}

// Read consumes In to EOF.
func (s *Stdio) Read() (string, error) {
	data, err := io.ReadAll(s.In)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrTransport, "failed to read from stdin")
	}
	return string(data), nil
}

// Write copies text to Out unchanged.
func (s *Stdio) Write(text string) error {
	if _, err := io.WriteString(s.Out, text); err != nil {
		return errors.Wrap(err, errors.ErrTransport, "failed to write to stdout")
	}
	return nil
}

// Memory keeps the blob in a string. Set ReadErr or WriteErr to simulate a
// failing medium.
type Memory struct {
	Text     string
	ReadErr  error
	WriteErr error
}

func (m *Memory) Read() (string, error) {
	if m.ReadErr != nil {
		return "", errors.Wrap(m.ReadErr, errors.ErrTransport, "failed to read from memory")
	}
	return m.Text, nil
}

func (m *Memory) Write(text string) error {
	if m.WriteErr != nil {
		return errors.Wrap(m.WriteErr, errors.ErrTransport, "failed to write to memory")
	}
	m.Text = text
	return nil
}

// IsPiped reports whether f is something other than a terminal, such as a
// pipe or a redirected file.
func IsPiped(f *os.File) bool {
	if f == nil {
		return false
	}
	if term.IsTerminal(int(f.Fd())) {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// Detect picks the transport for a run. Piped stdin, or preferStdio, selects
// the standard streams; otherwise the clipboard is used. Pass a nil stdin when
// only the output side matters.
func Detect(stdin *os.File, preferStdio bool) TextTransport {
	if preferStdio || IsPiped(stdin) {
		return NewStdio()
	}
	return Clipboard{}
}

// Name describes t for status output.
func Name(t TextTransport) string {
	switch t.(type) {
	case Clipboard, *Clipboard:
		return "clipboard"
	case *Stdio:
		return "stdio"
	case *Memory:
		return "memory"
	default:
		return "custom"
	}
}
