package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/flatten/internal/types"
)

const (
	// DocumentHeading opens every flattened document.
	DocumentHeading = "# Project File Structure"
	treeFence       = "```"
	sectionBreak    = "\n\n"

	outputDirectoryPermissions = 0o755
	outputFilePermissions      = 0o644

	errorCreateOutputDirectoryFormat = "failed to create output directory %s: %w"
	errorCreateOutputFileFormat      = "failed to create output file %s: %w"
	errorWriteOutputFileFormat       = "failed to write output file %s: %w"
	errorCloseOutputFileFormat       = "failed to close output file %s: %w"
)

// DocumentOptions controls the optional parts of the document.
type DocumentOptions struct {
	IncludeTree bool
	// SummaryLine is placed under the heading when not empty.
	SummaryLine string
}

// AssembleDocument joins the heading, the optional summary line, the fenced
// tree and the file sections in the given order. The result ends with a newline.
func AssembleDocument(treeText string, sections []types.FileSection, options DocumentOptions) string {
	blocks := []string{DocumentHeading}
	if options.SummaryLine != "" {
		blocks = append(blocks, options.SummaryLine)
	}
	if options.IncludeTree {
		treeBody := treeText
		if treeBody != "" && !strings.HasSuffix(treeBody, lineBreak) {
			treeBody += lineBreak
		}
		blocks = append(blocks, treeFence+lineBreak+treeBody+treeFence)
	}

	var builder strings.Builder
	builder.WriteString(strings.Join(blocks, lineBreak))
	for _, section := range sections {
		builder.WriteString(sectionBreak)
		builder.WriteString(section.Markdown)
	}
	builder.WriteString(lineBreak)
	return builder.String()
}

// WriteDocument writes document to outputPath, creating parent directories and
// replacing any existing file.
func WriteDocument(outputPath string, document string) error {
	outputDirectory := filepath.Dir(outputPath)
	if mkdirErr := os.MkdirAll(outputDirectory, outputDirectoryPermissions); mkdirErr != nil {
		return fmt.Errorf(errorCreateOutputDirectoryFormat, outputDirectory, mkdirErr)
	}

	outputFile, createErr := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, outputFilePermissions)
	if createErr != nil {
		return fmt.Errorf(errorCreateOutputFileFormat, outputPath, createErr)
	}

	writer := bufio.NewWriter(outputFile)
	if _, writeErr := writer.WriteString(document); writeErr != nil {
		_ = outputFile.Close()
		return fmt.Errorf(errorWriteOutputFileFormat, outputPath, writeErr)
	}
	if flushErr := writer.Flush(); flushErr != nil {
		_ = outputFile.Close()
		return fmt.Errorf(errorWriteOutputFileFormat, outputPath, flushErr)
	}
	if closeErr := outputFile.Close(); closeErr != nil {
		return fmt.Errorf(errorCloseOutputFileFormat, outputPath, closeErr)
	}
	return nil
}
