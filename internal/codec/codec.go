// Package codec encodes files into a flat text blob and decodes a blob back
// into an ordered list of file actions.
//
// A blob is a sequence of records. A write record is a marker line
// "=== FILE => <path>", the file body and one extra newline. A delete record
// is the single line "=== ERASE => <path>". Any line that starts with either
// prefix is a marker line, so file content that itself contains such a line
// cannot be carried: decoding ends the record there.
//
// Lines are split on "\n" only. A "\r" before it is kept as content rather
// than treated as part of a "\r\n" terminator, so CRLF files come back byte
// for byte.
package codec

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// WriteMarker starts a record that writes the following lines to a file.
	WriteMarker = "=== FILE => "
	// DeleteMarker starts a record that removes a file.
	DeleteMarker = "=== ERASE => "
)

// Codec combines and parses blobs, logging skipped input.
type Codec struct {
	logger *zap.Logger
}

// New creates a Codec. A nil logger disables logging.
func New(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{logger: logger}
}

// IsMarkerLine reports whether line begins a record.
func IsMarkerLine(line string) bool {
	return strings.HasPrefix(line, WriteMarker) || strings.HasPrefix(line, DeleteMarker)
}

// ContainsRecord reports whether text has at least one marker line.
func ContainsRecord(text string) bool {
	for _, line := range splitLines(text) {
		if IsMarkerLine(line) {
			return true
		}
	}
	return false
}

// FormatDelete renders a delete record for relPath.
func FormatDelete(relPath string) string {
	return DeleteMarker + relPath + "\n"
}

// splitLines splits s on "\n". The terminator is not part of any line, and a
// final terminator does not start an extra empty line. A "\r" before the
// terminator stays in the line so CRLF content survives a round trip.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
