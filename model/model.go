package model

// FileAction is one decoded record of a blob. The concrete type is either
// Write or Delete; consumers switch on it.
type FileAction interface {
	// RelPath is the root-relative, forward-slash path the action targets.
	RelPath() string
	fileAction()
}

// Write places Content at Path, creating or truncating the file.
type Write struct {
	Path    string
	Content string
}

func (w Write) RelPath() string { return w.Path }
func (Write) fileAction()       {}

// Delete removes the file at Path if it exists.
type Delete struct {
	Path string
}

func (d Delete) RelPath() string { return d.Path }
func (Delete) fileAction()       {}

// Summary holds the results of an operation for display.
type Summary struct {
	// Collected are the files encoded into a blob.
	Collected []string
	// Erased are the delete records appended to a blob.
	Erased []string
	// Written and Deleted are the files changed on disk.
	Written []string
	Deleted []string
	// Missing are delete targets that did not exist.
	Missing []string
	Message string
}
