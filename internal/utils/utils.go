// Package utils contains general helper functions used across the flatten tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Path and file name constants used across the project.
const (
	// GitIgnoreFileName is the name of the rules file read from the project root.
	GitIgnoreFileName = ".gitignore"
	// FallbackIgnoreFileName is read when the project root has no GitIgnoreFileName.
	FallbackIgnoreFileName = "ignore.txt"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// DefaultOutputFileName is the document written when no output path is given.
	DefaultOutputFileName = "flattened.md"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".flatten.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".flatten"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// NormalizeSlashes converts both separator styles to forward slashes and drops
// leading "./" and trailing separators.
func NormalizeSlashes(path string) string {
	normalizedPath := strings.ReplaceAll(path, "\\", pathSegmentSeparator)
	normalizedPath = strings.TrimPrefix(normalizedPath, "./")
	return strings.TrimSuffix(normalizedPath, pathSegmentSeparator)
}

// SplitSegments splits a forward-slash path into its non-empty segments.
func SplitSegments(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, pathSegmentSeparator) {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// CanonicalPath resolves symbolic links and relative segments of path.
func CanonicalPath(path string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return "", absoluteError
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError != nil {
		return "", resolveError
	}
	return filepath.Clean(resolvedPath), nil
}
