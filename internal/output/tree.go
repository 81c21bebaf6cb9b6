// Package output renders the flattened Markdown document.
package output

import (
	"strings"

	"github.com/temirov/flatten/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	directorySuffix     = "/"
	lineBreak           = "\n"
)

// RenderTree returns the box-drawing rendering of root. The first line holds
// the root name and every descendant occupies exactly one line; directory
// names end with a slash. Every line ends with a newline.
func RenderTree(root *types.TreeNode) string {
	if root == nil {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(nodeLabel(root))
	builder.WriteString(lineBreak)
	renderChildren(&builder, root.Children, "")
	return builder.String()
}

func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

func renderChildren(builder *strings.Builder, children []*types.TreeNode, prefix string) {
	for index, child := range children {
		if child == nil {
			continue
		}
		linePrefix, childPrefix := treeNodeLinePrefix(prefix, index == len(children)-1)
		builder.WriteString(linePrefix)
		builder.WriteString(nodeLabel(child))
		builder.WriteString(lineBreak)
		renderChildren(builder, child.Children, childPrefix)
	}
}

func nodeLabel(node *types.TreeNode) string {
	if node.Entry.IsDir {
		return node.Entry.Name + directorySuffix
	}
	return node.Entry.Name
}
