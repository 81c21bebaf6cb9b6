package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/flatten/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"*.log", "build/", "*.log"},
			expected: []string{"*.log", "build/"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			testName: "empty input",
			patterns: nil,
			expected: []string{},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestContainsString verifies that ContainsString locates strings in a slice.
func TestContainsString(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		slice    []string
		target   string
		expected bool
	}{
		{testName: "contains target", slice: []string{"alpha", "beta"}, target: "beta", expected: true},
		{testName: "missing target", slice: []string{"alpha", "beta"}, target: "gamma", expected: false},
	}
	for index, testCase := range testCases {
		actual := utils.ContainsString(testCase.slice, testCase.target)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestNormalizeSlashes verifies separator normalization.
func TestNormalizeSlashes(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		input    string
		expected string
	}{
		{testName: "backslashes", input: `src\main.py`, expected: "src/main.py"},
		{testName: "leading dot slash", input: "./src/main.py", expected: "src/main.py"},
		{testName: "trailing slash", input: "build/", expected: "build"},
	}
	for index, testCase := range testCases {
		actual := utils.NormalizeSlashes(testCase.input)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestSplitSegments verifies that empty segments are dropped.
func TestSplitSegments(testingInstance *testing.T) {
	segments := utils.SplitSegments("a//b/c/")
	if len(segments) != 3 || segments[0] != "a" || segments[1] != "b" || segments[2] != "c" {
		testingInstance.Fatalf("unexpected segments: %v", segments)
	}
}

// TestCanonicalPathResolvesSymlinks verifies that links resolve to their targets.
func TestCanonicalPathResolvesSymlinks(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	targetDirectory := filepath.Join(temporaryRoot, "target")
	if makeError := os.Mkdir(targetDirectory, 0o755); makeError != nil {
		testingInstance.Fatalf("mkdir: %v", makeError)
	}
	linkPath := filepath.Join(temporaryRoot, "link")
	if linkError := os.Symlink(targetDirectory, linkPath); linkError != nil {
		testingInstance.Skipf("symlinks unavailable: %v", linkError)
	}
	canonicalLink, linkResolveError := utils.CanonicalPath(linkPath)
	if linkResolveError != nil {
		testingInstance.Fatalf("CanonicalPath(link): %v", linkResolveError)
	}
	canonicalTarget, targetResolveError := utils.CanonicalPath(targetDirectory)
	if targetResolveError != nil {
		testingInstance.Fatalf("CanonicalPath(target): %v", targetResolveError)
	}
	if canonicalLink != canonicalTarget {
		testingInstance.Fatalf("expected %s, got %s", canonicalTarget, canonicalLink)
	}
}

// TestIsBinary verifies detection of binary data in byte slices.
func TestIsBinary(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{testName: "utf8 text", data: []byte("print(1)"), expected: false},
		{testName: "multibyte text", data: []byte("├── main.go"), expected: false},
		{testName: "null byte", data: []byte{0x00, 0x01}, expected: true},
		{testName: "invalid utf8", data: []byte{0xff}, expected: true},
		{testName: "empty slice", data: []byte{}, expected: false},
	}
	for index, testCase := range testCases {
		actual := utils.IsBinary(testCase.data)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestParseLogLevel verifies level names and the default.
func TestParseLogLevel(testingInstance *testing.T) {
	testCases := []struct {
		testName    string
		input       string
		expected    string
		expectError bool
	}{
		{testName: "empty defaults to info", input: "", expected: "info"},
		{testName: "upper case", input: "WARN", expected: "warn"},
		{testName: "debug", input: "debug", expected: "debug"},
		{testName: "unknown", input: "chatty", expectError: true},
	}
	for index, testCase := range testCases {
		level, parseError := utils.ParseLogLevel(testCase.input)
		if testCase.expectError {
			if parseError == nil {
				testingInstance.Errorf("case %d (%s): expected error", index, testCase.testName)
			}
			continue
		}
		if parseError != nil {
			testingInstance.Errorf("case %d (%s): unexpected error %v", index, testCase.testName, parseError)
			continue
		}
		if level.String() != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, level.String())
		}
	}
}
