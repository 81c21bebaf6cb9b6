// Package types defines every cross‑package data structure used by the flatten CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// FileEntry is one included filesystem entry discovered by the walk.
type FileEntry struct {
	// RelativePath is relative to the project root and uses forward slashes.
	RelativePath string
	Name         string
	AbsolutePath string
	IsDir        bool
	// Depth is the nesting level; entries directly under the root have depth 0.
	Depth int
}

// Type reports NodeTypeDirectory or NodeTypeFile.
func (entry FileEntry) Type() string {
	if entry.IsDir {
		return NodeTypeDirectory
	}
	return NodeTypeFile
}

// TreeNode is a node of the directory tree holding included entries only.
// Children are ordered by name.
type TreeNode struct {
	Entry    FileEntry
	Children []*TreeNode
}

// CountNodes returns the number of nodes below node, excluding node itself.
func (node *TreeNode) CountNodes() int {
	if node == nil {
		return 0
	}
	total := 0
	for _, child := range node.Children {
		total += 1 + child.CountNodes()
	}
	return total
}

// WalkResult is the outcome of a project walk.
type WalkResult struct {
	Root  *TreeNode
	Files []FileEntry
}

// FileSection is the rendered Markdown section of one file.
type FileSection struct {
	Path      string
	Language  string
	Markdown  string
	SizeBytes int64
	Tokens    int
	// Placeholder is set when the file content was replaced by a notice.
	Placeholder bool
}

// OutputSummary captures aggregate information about rendered files.
type OutputSummary struct {
	TotalFiles  int
	TotalBytes  int64
	TotalTokens int
	Model       string
}
