// Package commands contains the core logic of the flatten pipeline.
package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/flatten/internal/types"
	"github.com/temirov/flatten/internal/utils"
)

const (
	rootRelativePath = "."

	logScanningDirectory   = "Scanning directory"
	logSkipUnreadableDir   = "Skipping unreadable directory"
	logSkipVisitedDir      = "Skipping already visited directory"
	logSkipDanglingLink    = "Skipping dangling symbolic link"
	logSkipUnresolvedPath  = "Skipping path that cannot be resolved"
	logSkipIgnoredEntry    = "Skipping ignored entry"
	logSkipIrregularEntry  = "Skipping entry that is neither a file nor a directory"
	logSkipExcludedOutput  = "Skipping output document"
	logAbsolutePathMissing = "Unable to resolve absolute project path"
)

// PathMatcher decides whether a root-relative path is excluded.
type PathMatcher interface {
	Matches(relativePath string, isDirectory bool) bool
}

// DirectoryReader lists the entries of a directory.
type DirectoryReader func(directoryPath string) ([]os.DirEntry, error)

// TreeBuilder walks a project directory and collects included entries.
type TreeBuilder struct {
	Matcher PathMatcher
	// ExcludedPaths are absolute paths that are never included, such as the output document.
	ExcludedPaths []string
	// ReadDirectory defaults to os.ReadDir.
	ReadDirectory DirectoryReader
	Logger        *zap.Logger
}

type walkState struct {
	visitedDirectory map[string]struct{}
	excludedPath     map[string]struct{}
	// pendingLinks holds symlinked directories, expanded after every real directory is claimed.
	pendingLinks []pendingLink
}

type pendingLink struct {
	parent *types.TreeNode
	node   *types.TreeNode
}

// Build walks rootDirectoryPath depth first with children sorted by name and
// returns the directory tree together with the included files in tree order.
// Real directories are claimed before symbolically linked ones, so a link to a
// directory that is also reachable directly is the entry that gets skipped.
// Unreadable directories, dangling links and revisited directories are logged
// and skipped; Build never fails.
func (treeBuilder *TreeBuilder) Build(rootDirectoryPath string) types.WalkResult {
	logger := utils.LoggerOrNop(treeBuilder.Logger)

	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		logger.Warn(logAbsolutePathMissing, zap.String("path", rootDirectoryPath), zap.Error(absolutePathError))
		absoluteRootDirPath = filepath.Clean(rootDirectoryPath)
	}

	state := &walkState{
		visitedDirectory: map[string]struct{}{},
		excludedPath:     map[string]struct{}{},
	}
	for _, excludedPath := range treeBuilder.ExcludedPaths {
		state.excludedPath[resolveForComparison(excludedPath)] = struct{}{}
	}
	state.visitedDirectory[resolveForComparison(absoluteRootDirPath)] = struct{}{}

	rootNode := &types.TreeNode{
		Entry: types.FileEntry{
			RelativePath: rootRelativePath,
			Name:         filepath.Base(absoluteRootDirPath),
			AbsolutePath: absoluteRootDirPath,
			IsDir:        true,
			Depth:        -1,
		},
	}
	treeBuilder.fillDirectory(state, rootNode, logger)

	for len(state.pendingLinks) > 0 {
		link := state.pendingLinks[0]
		state.pendingLinks = state.pendingLinks[1:]
		if !state.claimDirectory(link.node.Entry, logger) {
			removeChild(link.parent, link.node)
			continue
		}
		treeBuilder.fillDirectory(state, link.node, logger)
	}

	return types.WalkResult{Root: rootNode, Files: collectFiles(rootNode, nil)}
}

// fillDirectory reads the directory of parent and attaches its included children.
func (treeBuilder *TreeBuilder) fillDirectory(state *walkState, parent *types.TreeNode, logger *zap.Logger) {
	relativeDirectoryPath := parent.Entry.RelativePath
	if relativeDirectoryPath == rootRelativePath {
		relativeDirectoryPath = ""
	}
	logger.Info(logScanningDirectory, zap.String("path", parent.Entry.RelativePath))

	directoryEntries, readDirectoryError := treeBuilder.readDirectory()(parent.Entry.AbsolutePath)
	if readDirectoryError != nil {
		logger.Warn(logSkipUnreadableDir, zap.String("path", parent.Entry.AbsolutePath), zap.Error(readDirectoryError))
		return
	}
	sort.Slice(directoryEntries, func(left, right int) bool {
		return directoryEntries[left].Name() < directoryEntries[right].Name()
	})

	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(parent.Entry.AbsolutePath, directoryEntry.Name())
		relativeChildPath := directoryEntry.Name()
		if relativeDirectoryPath != "" {
			relativeChildPath = relativeDirectoryPath + "/" + directoryEntry.Name()
		}

		isDirectory, included := classifyEntry(directoryEntry, childPath, logger)
		if !included {
			continue
		}
		entry := types.FileEntry{
			RelativePath: relativeChildPath,
			Name:         directoryEntry.Name(),
			AbsolutePath: childPath,
			IsDir:        isDirectory,
			Depth:        parent.Entry.Depth + 1,
		}
		if treeBuilder.Matcher != nil && treeBuilder.Matcher.Matches(relativeChildPath, isDirectory) {
			logger.Debug(logSkipIgnoredEntry, zap.String("path", relativeChildPath), zap.String("type", entry.Type()))
			continue
		}

		if !isDirectory {
			if state.isExcluded(childPath) {
				logger.Debug(logSkipExcludedOutput, zap.String("path", relativeChildPath))
				continue
			}
			parent.Children = append(parent.Children, &types.TreeNode{Entry: entry})
			continue
		}

		node := &types.TreeNode{Entry: entry}
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			parent.Children = append(parent.Children, node)
			state.pendingLinks = append(state.pendingLinks, pendingLink{parent: parent, node: node})
			continue
		}
		if !state.claimDirectory(entry, logger) {
			continue
		}
		parent.Children = append(parent.Children, node)
		treeBuilder.fillDirectory(state, node, logger)
	}
}

// claimDirectory records the canonical path of entry and reports false when the
// directory cannot be resolved or was visited already.
func (state *walkState) claimDirectory(entry types.FileEntry, logger *zap.Logger) bool {
	canonicalPath, resolveError := utils.CanonicalPath(entry.AbsolutePath)
	if resolveError != nil {
		logger.Warn(logSkipUnresolvedPath, zap.String("path", entry.AbsolutePath), zap.Error(resolveError))
		return false
	}
	if _, visited := state.visitedDirectory[canonicalPath]; visited {
		logger.Warn(logSkipVisitedDir, zap.String("path", entry.RelativePath), zap.String("target", canonicalPath))
		return false
	}
	state.visitedDirectory[canonicalPath] = struct{}{}
	return true
}

func removeChild(parent *types.TreeNode, child *types.TreeNode) {
	for index, candidate := range parent.Children {
		if candidate == child {
			parent.Children = append(parent.Children[:index], parent.Children[index+1:]...)
			return
		}
	}
}

// collectFiles appends the file entries below node in depth-first tree order.
func collectFiles(node *types.TreeNode, files []types.FileEntry) []types.FileEntry {
	for _, child := range node.Children {
		if child.Entry.IsDir {
			files = collectFiles(child, files)
			continue
		}
		files = append(files, child.Entry)
	}
	return files
}

func (treeBuilder *TreeBuilder) readDirectory() DirectoryReader {
	if treeBuilder.ReadDirectory != nil {
		return treeBuilder.ReadDirectory
	}
	return os.ReadDir
}

// classifyEntry reports whether the entry is a directory, following symbolic links,
// and whether it should be considered at all.
func classifyEntry(directoryEntry os.DirEntry, childPath string, logger *zap.Logger) (bool, bool) {
	entryType := directoryEntry.Type()
	if entryType&fs.ModeSymlink != 0 {
		targetInfo, statError := os.Stat(childPath)
		if statError != nil {
			logger.Warn(logSkipDanglingLink, zap.String("path", childPath), zap.Error(statError))
			return false, false
		}
		entryType = targetInfo.Mode().Type()
	}
	if entryType.IsDir() {
		return true, true
	}
	if !entryType.IsRegular() {
		logger.Debug(logSkipIrregularEntry, zap.String("path", childPath))
		return false, false
	}
	return false, true
}

func (state *walkState) isExcluded(path string) bool {
	if len(state.excludedPath) == 0 {
		return false
	}
	_, excluded := state.excludedPath[resolveForComparison(path)]
	return excluded
}

// resolveForComparison returns the canonical form of path, or its cleaned absolute
// form when the path does not exist yet.
func resolveForComparison(path string) string {
	if canonicalPath, resolveError := utils.CanonicalPath(path); resolveError == nil {
		return canonicalPath
	}
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(absolutePath)
}
