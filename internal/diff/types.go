package diff

// ChangeType classifies a line inside a hunk.
type ChangeType string

const (
	ChangeAdd     ChangeType = "add"
	ChangeDelete  ChangeType = "delete"
	ChangeContext ChangeType = "context"
)

// FileStatus describes what happened to a file in the diff.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
)

// DiffChange is one line of a hunk. LineNumber is the new-file line for
// add and context lines and the old-file line for deletions.
type DiffChange struct {
	Type       ChangeType `json:"type"`
	Content    string     `json:"content"`
	LineNumber int        `json:"lineNumber"`
}

// DiffHunk is one "@@ ... @@" block.
type DiffHunk struct {
	OldStart int          `json:"oldStart"`
	OldLines int          `json:"oldLines"`
	NewStart int          `json:"newStart"`
	NewLines int          `json:"newLines"`
	Section  string       `json:"section,omitempty"`
	Changes  []DiffChange `json:"changes"`
}

// DiffFile is one file touched by the diff.
type DiffFile struct {
	Path    string     `json:"path"`
	OldPath string     `json:"oldPath"`
	Status  FileStatus `json:"status"`
	Binary  bool       `json:"binary,omitempty"`
	Hunks   []DiffHunk `json:"hunks"`
}

// ParsedDiff holds every file parsed from a unified diff.
type ParsedDiff struct {
	Files []DiffFile `json:"files"`
}
