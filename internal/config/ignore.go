// Package config loads ignore rules and application configuration.
package config

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/flatten/internal/utils"
)

const (
	// gitDirectoryPattern represents the pattern that matches the Git directory.
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	commentPrefix       = "#"

	logRulesLoaded     = "Loaded ignore patterns"
	logRulesMissing    = "Rules file not found, using an empty rule set"
	logRulesUnreadable = "Rules file is unreadable, using an empty rule set"
	logCloseFailed     = "Failed to close rules file"
)

// PatternOptions controls which sources contribute to the ignore rule set.
type PatternOptions struct {
	// UseGitignore enables reading the rules file from the project root.
	UseGitignore bool
	// IncludeGit keeps the .git directory; otherwise ".git/" is appended.
	IncludeGit bool
	// ExclusionPatterns are appended after the rules file patterns.
	ExclusionPatterns []string
}

// LoadIgnoreFilePatterns reads the ignore file at ignoreFilePath and returns its patterns
// in file order. Blank lines and lines starting with "#" are skipped.
// The returned error satisfies errors.Is(err, fs.ErrNotExist) when the file is absent.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string, logger *zap.Logger) ([]string, error) {
	logger = utils.LoggerOrNop(logger)
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		return nil, openFileError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			logger.Warn(logCloseFailed, zap.String("path", ignoreFilePath), zap.Error(closeError))
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadProjectPatterns builds the ignore rule set for the project rooted at
// absoluteDirectoryPath. The rules file is utils.GitIgnoreFileName, falling back to
// utils.FallbackIgnoreFileName when absent. A missing or unreadable rules file is
// logged as a warning and contributes no patterns; this function never fails.
func LoadProjectPatterns(absoluteDirectoryPath string, options PatternOptions, logger *zap.Logger) []string {
	logger = utils.LoggerOrNop(logger)
	var combinedPatterns []string

	if options.UseGitignore {
		combinedPatterns = append(combinedPatterns, loadRulesFile(absoluteDirectoryPath, logger)...)
	}

	if !options.IncludeGit {
		combinedPatterns = append(combinedPatterns, gitDirectoryPattern)
	}

	deduplicatedPatterns := utils.DeduplicatePatterns(combinedPatterns)

	for _, pattern := range options.ExclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(deduplicatedPatterns, trimmedPattern) {
			deduplicatedPatterns = append(deduplicatedPatterns, trimmedPattern)
		}
	}

	return deduplicatedPatterns
}

// loadRulesFile returns the patterns of the first rules file present in the directory.
func loadRulesFile(absoluteDirectoryPath string, logger *zap.Logger) []string {
	candidateFileNames := []string{utils.GitIgnoreFileName, utils.FallbackIgnoreFileName}
	for _, candidateFileName := range candidateFileNames {
		rulesFilePath := filepath.Join(absoluteDirectoryPath, candidateFileName)
		patterns, loadError := LoadIgnoreFilePatterns(rulesFilePath, logger)
		if loadError == nil {
			logger.Info(logRulesLoaded, zap.String("path", rulesFilePath), zap.Int("patterns", len(patterns)))
			return patterns
		}
		if errors.Is(loadError, fs.ErrNotExist) {
			continue
		}
		logger.Warn(logRulesUnreadable, zap.String("path", rulesFilePath), zap.Error(loadError))
		return nil
	}
	logger.Warn(logRulesMissing, zap.String("path", filepath.Join(absoluteDirectoryPath, utils.GitIgnoreFileName)))
	return nil
}
