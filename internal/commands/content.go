package commands

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/temirov/flatten/internal/tokenizer"
	"github.com/temirov/flatten/internal/types"
	"github.com/temirov/flatten/internal/utils"
)

const (
	sectionHeadingFormat      = "## File: %s\n"
	readErrorPlaceholder      = "Error reading file: %v"
	binaryContentPlaceholder  = "(binary content omitted)"
	sizeLimitPlaceholder      = "(file exceeds size limit of %s)"
	minimumFenceLength        = 3
	fenceCharacter            = '`'
	logFileReadFailed         = "Failed to read file"
	logBinaryContentOmitted   = "Binary or non-UTF-8 content omitted"
	logFileExceedsSizeLimit   = "File exceeds size limit"
	logTokenCountFailed       = "Failed to count tokens"
	newlineCharacter          = "\n"
	byteSizeLimitDisabledSize = 0
)

var languageByExtension = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "jsx",
	".ts":    "typescript",
	".tsx":   "tsx",
	".html":  "html",
	".css":   "css",
	".java":  "java",
	".kt":    "kotlin",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".sh":    "bash",
	".R":     "r",
	".r":     "r",
	".cs":    "csharp",
	".go":    "go",
	".php":   "php",
	".rb":    "ruby",
	".rs":    "rust",
	".sql":   "sql",
	".swift": "swift",
	".vb":    "vb",
	".xml":   "xml",
	".yml":   "yaml",
	".yaml":  "yaml",
	".json":  "json",
	".toml":  "toml",
	".md":    "markdown",
	".proto": "protobuf",
}

var languageByFileName = map[string]string{
	"Makefile":      "makefile",
	"Dockerfile":    "dockerfile",
	"Containerfile": "dockerfile",
	"Jenkinsfile":   "groovy",
}

// LanguageForPath returns the fence language tag for a file path, or an empty
// string when the extension is unknown.
func LanguageForPath(filePath string) string {
	baseName := path.Base(utils.NormalizeSlashes(filePath))
	if language, found := languageByFileName[baseName]; found {
		return language
	}
	extension := path.Ext(baseName)
	if extension == "" {
		return ""
	}
	if language, found := languageByExtension[extension]; found {
		return language
	}
	return languageByExtension[strings.ToLower(extension)]
}

// FileReader reads the full content of a file.
type FileReader func(filePath string) ([]byte, error)

// ContentRenderer turns included files into fenced Markdown sections.
type ContentRenderer struct {
	// ReadFile defaults to os.ReadFile.
	ReadFile FileReader
	// MaxSizeBytes replaces larger files with a notice; zero disables the limit.
	MaxSizeBytes int64
	// TokenCounter is optional.
	TokenCounter tokenizer.Counter
	Logger       *zap.Logger
}

// Render reads entry and returns its Markdown section. Read failures, binary
// content and oversized files produce a placeholder section instead of an error.
func (renderer *ContentRenderer) Render(entry types.FileEntry) types.FileSection {
	logger := utils.LoggerOrNop(renderer.Logger)
	section := types.FileSection{Path: entry.RelativePath}

	fileBytes, readErr := renderer.readFile()(entry.AbsolutePath)
	if readErr != nil {
		logger.Error(logFileReadFailed, zap.String("path", entry.RelativePath), zap.Error(readErr))
		return placeholderSection(section, fmt.Sprintf(readErrorPlaceholder, readErr))
	}
	section.SizeBytes = int64(len(fileBytes))

	if renderer.MaxSizeBytes > byteSizeLimitDisabledSize && section.SizeBytes > renderer.MaxSizeBytes {
		limitText := humanize.Bytes(uint64(renderer.MaxSizeBytes))
		logger.Warn(logFileExceedsSizeLimit, zap.String("path", entry.RelativePath), zap.Int64("size", section.SizeBytes), zap.String("limit", limitText))
		return placeholderSection(section, fmt.Sprintf(sizeLimitPlaceholder, limitText))
	}

	if utils.IsBinary(fileBytes) {
		logger.Error(logBinaryContentOmitted, zap.String("path", entry.RelativePath))
		return placeholderSection(section, binaryContentPlaceholder)
	}

	if renderer.TokenCounter != nil {
		countResult, countErr := tokenizer.CountBytes(renderer.TokenCounter, fileBytes)
		if countErr != nil {
			logger.Warn(logTokenCountFailed, zap.String("path", entry.RelativePath), zap.Error(countErr))
		} else if countResult.Counted {
			section.Tokens = countResult.Tokens
		}
	}

	section.Language = LanguageForPath(entry.RelativePath)
	section.Markdown = formatSection(entry.RelativePath, section.Language, string(fileBytes))
	return section
}

func (renderer *ContentRenderer) readFile() FileReader {
	if renderer.ReadFile != nil {
		return renderer.ReadFile
	}
	return os.ReadFile
}

func placeholderSection(section types.FileSection, notice string) types.FileSection {
	section.Placeholder = true
	section.Markdown = formatSection(section.Path, "", notice)
	return section
}

// formatSection writes the heading and a fenced block holding content verbatim.
func formatSection(relativePath string, language string, content string) string {
	fence := strings.Repeat(string(fenceCharacter), fenceLength(content))

	var builder strings.Builder
	fmt.Fprintf(&builder, sectionHeadingFormat, relativePath)
	builder.WriteString(fence)
	builder.WriteString(language)
	builder.WriteString(newlineCharacter)
	builder.WriteString(content)
	if content != "" && !strings.HasSuffix(content, newlineCharacter) {
		builder.WriteString(newlineCharacter)
	}
	builder.WriteString(fence)
	return builder.String()
}

// fenceLength is one more than the longest backtick run in content, and at least three.
func fenceLength(content string) int {
	longestRun := 0
	currentRun := 0
	for index := 0; index < len(content); index++ {
		if content[index] == fenceCharacter {
			currentRun++
			if currentRun > longestRun {
				longestRun = currentRun
			}
			continue
		}
		currentRun = 0
	}
	if longestRun+1 > minimumFenceLength {
		return longestRun + 1
	}
	return minimumFenceLength
}
