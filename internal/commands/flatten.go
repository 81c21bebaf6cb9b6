package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/flatten/internal/config"
	"github.com/temirov/flatten/internal/ignore"
	"github.com/temirov/flatten/internal/output"
	"github.com/temirov/flatten/internal/services/clipboard"
	"github.com/temirov/flatten/internal/tokenizer"
	"github.com/temirov/flatten/internal/types"
	"github.com/temirov/flatten/internal/utils"
)

const (
	errorResolveProjectDirectoryFormat = "failed to resolve project directory %s: %w"
	errorResolveOutputPathFormat       = "failed to resolve output path %s: %w"

	logFlattenStarted        = "Flattening project"
	logFlattenCompleted      = "Documentation saved"
	logClipboardCopyFailed   = "Failed to copy document to clipboard"
	logClipboardCopied       = "Document copied to clipboard"
	logClipboardNotAvailable = "Clipboard copy requested without a clipboard"
)

// Options configures a single flatten run.
type Options struct {
	ProjectDirectory string
	OutputPath       string
	Patterns         config.PatternOptions
	IncludeTree      bool
	IncludeSummary   bool
	MaxSizeBytes     int64
	// TokenCounter enables token estimates in the summary when set.
	TokenCounter    tokenizer.Counter
	TokenModel      string
	CopyToClipboard bool
	Clipboard       clipboard.Copier
	ReadDirectory   DirectoryReader
	ReadFile        FileReader
}

// Result describes a completed run.
type Result struct {
	ProjectDirectory string
	OutputPath       string
	Document         string
	Files            []types.FileEntry
	Summary          types.OutputSummary
}

// Flatten walks the project, renders the Markdown document and writes it to the
// output path. Skipped files and directories are only logged; the returned error
// is non-nil only when a path cannot be resolved or the document cannot be written.
func Flatten(options Options, logger *zap.Logger) (Result, error) {
	logger = utils.LoggerOrNop(logger)
	startTime := time.Now()

	absoluteProjectDirectory, projectErr := filepath.Abs(options.ProjectDirectory)
	if projectErr != nil {
		return Result{}, fmt.Errorf(errorResolveProjectDirectoryFormat, options.ProjectDirectory, projectErr)
	}
	absoluteOutputPath, outputErr := filepath.Abs(options.OutputPath)
	if outputErr != nil {
		return Result{}, fmt.Errorf(errorResolveOutputPathFormat, options.OutputPath, outputErr)
	}
	logger.Info(logFlattenStarted, zap.String("project", absoluteProjectDirectory), zap.String("output", absoluteOutputPath))

	patterns := config.LoadProjectPatterns(absoluteProjectDirectory, options.Patterns, logger)
	matcher := ignore.NewMatcher(patterns, logger)

	treeBuilder := &TreeBuilder{
		Matcher:       matcher,
		ExcludedPaths: []string{absoluteOutputPath},
		ReadDirectory: options.ReadDirectory,
		Logger:        logger,
	}
	walkResult := treeBuilder.Build(absoluteProjectDirectory)

	contentRenderer := &ContentRenderer{
		ReadFile:     options.ReadFile,
		MaxSizeBytes: options.MaxSizeBytes,
		TokenCounter: options.TokenCounter,
		Logger:       logger,
	}
	sections := make([]types.FileSection, 0, len(walkResult.Files))
	for _, fileEntry := range walkResult.Files {
		sections = append(sections, contentRenderer.Render(fileEntry))
	}

	summary := output.BuildSummary(sections, options.TokenModel, options.TokenCounter != nil)
	documentOptions := output.DocumentOptions{IncludeTree: options.IncludeTree}
	if options.IncludeSummary {
		documentOptions.SummaryLine = output.FormatSummaryLine(summary)
	}
	treeText := ""
	if options.IncludeTree {
		treeText = output.RenderTree(walkResult.Root)
	}
	document := output.AssembleDocument(treeText, sections, documentOptions)

	if writeErr := output.WriteDocument(absoluteOutputPath, document); writeErr != nil {
		return Result{}, writeErr
	}
	logger.Info(logFlattenCompleted,
		zap.String("path", absoluteOutputPath),
		zap.Int("files", len(sections)),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	if options.CopyToClipboard {
		copyDocument(options.Clipboard, document, logger)
	}

	return Result{
		ProjectDirectory: absoluteProjectDirectory,
		OutputPath:       absoluteOutputPath,
		Document:         document,
		Files:            walkResult.Files,
		Summary:          summary,
	}, nil
}

func copyDocument(copier clipboard.Copier, document string, logger *zap.Logger) {
	if copier == nil {
		logger.Warn(logClipboardNotAvailable)
		return
	}
	if copyErr := copier.Copy(document); copyErr != nil {
		logger.Warn(logClipboardCopyFailed, zap.Error(copyErr))
		return
	}
	logger.Info(logClipboardCopied)
}
