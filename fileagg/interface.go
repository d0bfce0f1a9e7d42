package fileagg

import (
	"github.com/sokinpui/fileagg/internal/applier"
	"github.com/sokinpui/fileagg/internal/codec"
	"github.com/sokinpui/fileagg/internal/selector"
	"github.com/sokinpui/fileagg/model"
)

// Combine encodes every file under root that passes the extension allow-list
// into a blob. An empty allow-list selects every regular file.
func Combine(root string, extensions []string) (string, error) {
	return codec.Combine(root, selector.Select(root, extensions))
}

// Parse decodes a blob into ordered file actions.
func Parse(blob string) []model.FileAction {
	return codec.Parse(blob)
}

// Apply performs actions under root, in order.
func Apply(root string, actions []model.FileAction) (model.Summary, error) {
	return applier.Apply(root, actions)
}

// Distribute parses blob and applies it under root.
func Distribute(root, blob string) (model.Summary, error) {
	return applier.Apply(root, codec.Parse(blob))
}
