package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// createFile writes content to a file under root, creating parent directories.
func createFile(testingHandle *testing.T, root string, relativePath string, content string) string {
	testingHandle.Helper()
	filePath := filepath.Join(root, filepath.FromSlash(relativePath))
	if mkdirErr := os.MkdirAll(filepath.Dir(filePath), 0o755); mkdirErr != nil {
		testingHandle.Fatalf("failed to create directory for %s: %v", filePath, mkdirErr)
	}
	if writeErr := os.WriteFile(filePath, []byte(content), 0o644); writeErr != nil {
		testingHandle.Fatalf("failed to write file %s: %v", filePath, writeErr)
	}
	return filePath
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, observedLogs := observer.New(zapcore.DebugLevel)
	return zap.New(core), observedLogs
}

func countLevel(observedLogs *observer.ObservedLogs, level zapcore.Level) int {
	count := 0
	for _, entry := range observedLogs.All() {
		if entry.Level == level {
			count++
		}
	}
	return count
}
