// Package ui prints human-facing status text to stderr.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/fileagg/model"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	FaintStyle   = lipgloss.NewStyle().Faint(true)
)

// Output is where the helpers below write.
var Output io.Writer = os.Stderr

func printStyled(style lipgloss.Style, format string, a ...interface{}) {
	fmt.Fprintln(Output, style.Render(fmt.Sprintf(format, a...)))
}

func Header(format string, a ...interface{})  { printStyled(HeaderStyle, format, a...) }
func Info(format string, a ...interface{})    { printStyled(InfoStyle, format, a...) }
func Success(format string, a ...interface{}) { printStyled(SuccessStyle, format, a...) }
func Warning(format string, a ...interface{}) { printStyled(WarningStyle, format, a...) }
func Error(format string, a ...interface{})   { printStyled(ErrorStyle, format, a...) }

// --- Summaries ---

// RenderSummary formats what an operation did, one path per line under a
// heading per category.
func RenderSummary(s model.Summary) string {
	var b strings.Builder

	if s.Message != "" {
		b.WriteString(HeaderStyle.Render(s.Message))
		b.WriteString("\n")
	}

	sections := []struct {
		title string
		style lipgloss.Style
		paths []string
	}{
		{"Collected", SuccessStyle, s.Collected},
		{"Erase records", WarningStyle, s.Erased},
		{"Written", SuccessStyle, s.Written},
		{"Deleted", WarningStyle, s.Deleted},
		{"Not found", FaintStyle, s.Missing},
	}

	hasContent := false
	for _, sec := range sections {
		if len(sec.paths) == 0 {
			continue
		}
		if !hasContent && s.Message != "" {
			b.WriteString("\n")
		}
		hasContent = true
		b.WriteString(sec.style.Render(fmt.Sprintf("%s (%d):", sec.title, len(sec.paths))))
		b.WriteString("\n")
		for _, p := range sec.paths {
			b.WriteString("  ")
			b.WriteString(p)
			b.WriteString("\n")
		}
	}

	if !hasContent && s.Message == "" {
		b.WriteString(FaintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

// PrintSummary writes RenderSummary(s) to Output.
func PrintSummary(s model.Summary) {
	fmt.Fprint(Output, RenderSummary(s))
}

// --- Progress Bar ---

type ProgressBar struct {
	prefix  string
	current int
	total   int
}

func NewProgressBar(prefix string) *ProgressBar {
	return &ProgressBar{prefix: prefix}
}

// Update redraws the bar. It matches the progress callback signature used by
// the fileagg App.
func (p *ProgressBar) Update(current, total int) {
	p.current, p.total = current, total
	p.draw()
}

func (p *ProgressBar) Finish() {
	if p.total > 0 {
		fmt.Fprintln(Output)
	}
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}
	const barLength = 40
	percent := float64(p.current) / float64(p.total)
	filledLength := int(percent * barLength)
	bar := strings.Repeat("█", filledLength) + strings.Repeat("-", barLength-filledLength)

	fmt.Fprintf(Output, "\r%s |%s| [%d/%d] %.1f%%", p.prefix, bar, p.current, p.total, percent*100)
}
