package codec

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sokinpui/fileagg/model"
)

// Parse decodes blob into actions. See (*Codec).Parse.
func Parse(blob string) []model.FileAction {
	return New(nil).Parse(blob)
}

// Parse scans blob once, top to bottom, and returns its records as actions in
// blob order. Lines before the first marker are ignored. A write record's
// content is every following line up to the next marker line or the end of
// input, each with its newline restored. Duplicate paths are kept.
func (c *Codec) Parse(blob string) []model.FileAction {
	lines := splitLines(blob)
	var actions []model.FileAction

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, WriteMarker):
			path := strings.TrimSpace(strings.TrimPrefix(line, WriteMarker))

			var content strings.Builder
			for i+1 < len(lines) && !IsMarkerLine(lines[i+1]) {
				i++
				content.WriteString(lines[i])
				content.WriteByte('\n')
			}

			if path == "" {
				c.logger.Warn("Ignoring write record without a path", zap.Int("line", i+1))
				continue
			}
			actions = append(actions, model.Write{Path: path, Content: content.String()})

		case strings.HasPrefix(line, DeleteMarker):
			path := strings.TrimSpace(strings.TrimPrefix(line, DeleteMarker))
			if path == "" {
				c.logger.Warn("Ignoring delete record without a path", zap.Int("line", i+1))
				continue
			}
			actions = append(actions, model.Delete{Path: path})
		}
	}

	c.logger.Debug("Parsed blob", zap.Int("lines", len(lines)), zap.Int("actions", len(actions)))
	return actions
}
