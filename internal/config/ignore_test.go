package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/flatten/internal/config"
	"github.com/temirov/flatten/internal/utils"
)

const (
	logPattern   = "*.log"
	buildPattern = "build/"
	gitPattern   = ".git/"
)

// createFile creates a file with the specified content.
func createFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write file %s: %v", filePath, writeError)
	}
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, observedLogs := observer.New(zapcore.DebugLevel)
	return zap.New(core), observedLogs
}

// TestLoadIgnoreFilePatterns verifies ignore file parsing.
func TestLoadIgnoreFilePatterns(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	rulesPath := filepath.Join(rootDirectory, utils.GitIgnoreFileName)
	createFile(testingHandle, rulesPath, "# comment\n\n  "+logPattern+"  \n"+buildPattern+"\n")

	patterns, loadError := config.LoadIgnoreFilePatterns(rulesPath, nil)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns error: %v", loadError)
	}
	expected := []string{logPattern, buildPattern}
	if !reflect.DeepEqual(patterns, expected) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", patterns, expected)
	}
}

// TestLoadProjectPatterns verifies rule set assembly and recoverable failures.
func TestLoadProjectPatterns(testingHandle *testing.T) {
	testCases := []struct {
		name             string
		setup            func(*testing.T, string)
		options          config.PatternOptions
		expectedPatterns []string
		expectedWarnings int
	}{
		{
			name: "GitignoreWithExclusions",
			setup: func(t *testing.T, root string) {
				createFile(t, filepath.Join(root, utils.GitIgnoreFileName), logPattern+"\n"+logPattern+"\n")
			},
			options:          config.PatternOptions{UseGitignore: true, ExclusionPatterns: []string{" vendor/ ", "", logPattern}},
			expectedPatterns: []string{logPattern, gitPattern, "vendor/"},
		},
		{
			name: "FallbackIgnoreTxt",
			setup: func(t *testing.T, root string) {
				createFile(t, filepath.Join(root, utils.FallbackIgnoreFileName), buildPattern+"\n")
			},
			options:          config.PatternOptions{UseGitignore: true, IncludeGit: true},
			expectedPatterns: []string{buildPattern},
		},
		{
			name:             "MissingRulesFile",
			setup:            func(t *testing.T, root string) {},
			options:          config.PatternOptions{UseGitignore: true},
			expectedPatterns: []string{gitPattern},
			expectedWarnings: 1,
		},
		{
			name: "UnreadableRulesFile",
			setup: func(t *testing.T, root string) {
				if makeError := os.Mkdir(filepath.Join(root, utils.GitIgnoreFileName), 0o755); makeError != nil {
					t.Fatalf("mkdir: %v", makeError)
				}
				createFile(t, filepath.Join(root, utils.FallbackIgnoreFileName), buildPattern+"\n")
			},
			options:          config.PatternOptions{UseGitignore: true},
			expectedPatterns: []string{gitPattern},
			expectedWarnings: 1,
		},
		{
			name: "GitignoreDisabled",
			setup: func(t *testing.T, root string) {
				createFile(t, filepath.Join(root, utils.GitIgnoreFileName), logPattern+"\n")
			},
			options:          config.PatternOptions{UseGitignore: false},
			expectedPatterns: []string{gitPattern},
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			rootDirectory := subTest.TempDir()
			testCase.setup(subTest, rootDirectory)
			logger, observedLogs := newObservedLogger()

			patterns := config.LoadProjectPatterns(rootDirectory, testCase.options, logger)
			if !reflect.DeepEqual(patterns, testCase.expectedPatterns) {
				subTest.Fatalf("unexpected patterns: got %v want %v", patterns, testCase.expectedPatterns)
			}
			warnings := observedLogs.FilterLevelExact(zapcore.WarnLevel).Len()
			if warnings != testCase.expectedWarnings {
				subTest.Fatalf("expected %d warnings, got %d", testCase.expectedWarnings, warnings)
			}
		})
	}
}
