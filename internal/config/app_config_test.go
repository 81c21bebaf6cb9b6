package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/flatten/internal/utils"
)

type configTestCase struct {
	name          string
	globalContent string
	localContent  string
	explicitPath  string
	expectOutput  string
	expectSummary *bool
	expectTokens  *bool
	expectModel   string
	expectExclude []string
	expectError   bool
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func writeConfig(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:          "local_overrides_global",
			globalContent: "output: global.md\nsummary: true\ntokens:\n  model: gpt-4\n",
			localContent:  "output: local.md\ntokens:\n  enabled: true\npaths:\n  exclude: [\"*.log\", \"*.log\", \"dist/\"]\n",
			expectOutput:  "local.md",
			expectSummary: boolPointer(true),
			expectTokens:  boolPointer(true),
			expectModel:   "gpt-4",
			expectExclude: []string{"*.log", "dist/"},
		},
		{
			name:          "explicit_path_only",
			globalContent: "",
			localContent:  "output: ignored.md\n",
			explicitPath:  "custom.yaml",
			expectOutput:  "custom.md",
		},
		{
			name:         "malformed_local",
			localContent: "output: [unterminated\n",
			expectError:  true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			if testCase.globalContent != "" {
				writeConfig(t, filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfig(t, filepath.Join(workingDirectory, utils.LocalConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeConfig(t, filepath.Join(workingDirectory, testCase.explicitPath), "output: custom.md\n")
			}

			loaded, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitPath,
				HomeDirectory:    homeDirectory,
			})
			if testCase.expectError {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loaded.Output != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, loaded.Output)
			}
			assertBoolPointer(t, "summary", loaded.Summary, testCase.expectSummary)
			assertBoolPointer(t, "tokens.enabled", loaded.Tokens.Enabled, testCase.expectTokens)
			if loaded.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loaded.Tokens.Model)
			}
			if len(loaded.Paths.Exclude) != len(testCase.expectExclude) {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, loaded.Paths.Exclude)
			}
			for index, pattern := range testCase.expectExclude {
				if loaded.Paths.Exclude[index] != pattern {
					t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, loaded.Paths.Exclude)
				}
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	workingDirectory := t.TempDir()
	if err := os.Mkdir(filepath.Join(workingDirectory, utils.LocalConfigFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
	if err == nil {
		t.Fatalf("expected error for directory configuration path")
	}
}

func TestMergeKeepsUnsetValues(t *testing.T) {
	maxSize := int64(2048)
	base := ApplicationConfiguration{Tree: boolPointer(false), MaxSize: &maxSize, LogLevel: "debug"}
	merged := base.Merge(ApplicationConfiguration{Summary: boolPointer(true)})
	if BoolOrDefault(merged.Tree, true) {
		t.Fatalf("expected tree to stay disabled")
	}
	if Int64OrDefault(merged.MaxSize, 0) != maxSize {
		t.Fatalf("expected max size %d, got %d", maxSize, Int64OrDefault(merged.MaxSize, 0))
	}
	if merged.LogLevel != "debug" {
		t.Fatalf("expected log level debug, got %s", merged.LogLevel)
	}
	if !BoolOrDefault(merged.Summary, false) {
		t.Fatalf("expected summary enabled")
	}
}

func assertBoolPointer(t *testing.T, name string, actual *bool, expected *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected %s unset, got %v", name, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("expected %s %v, got %v", name, *expected, actual)
	}
}
