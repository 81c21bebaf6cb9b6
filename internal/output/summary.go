package output

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/temirov/flatten/internal/types"
)

const (
	summaryLineFormat   = "Summary: %d %s, %s%s%s"
	summaryTokensFormat = ", %d tokens"
	summaryModelFormat  = " (model: %s)"
	pluralFileLabel     = "files"
	singularFileLabel   = "file"
)

// BuildSummary aggregates rendered sections into an OutputSummary. Model is
// recorded only when tokens were counted.
func BuildSummary(sections []types.FileSection, model string, tokensEnabled bool) types.OutputSummary {
	summary := types.OutputSummary{TotalFiles: len(sections)}
	for _, section := range sections {
		summary.TotalBytes += section.SizeBytes
		summary.TotalTokens += section.Tokens
	}
	if tokensEnabled {
		summary.Model = model
	}
	return summary
}

// FormatSummaryLine formats an OutputSummary into a single summary line.
func FormatSummaryLine(summary types.OutputSummary) string {
	label := pluralFileLabel
	if summary.TotalFiles == 1 {
		label = singularFileLabel
	}
	tokenSuffix := ""
	modelSuffix := ""
	if summary.Model != "" {
		tokenSuffix = fmt.Sprintf(summaryTokensFormat, summary.TotalTokens)
		modelSuffix = fmt.Sprintf(summaryModelFormat, summary.Model)
	}
	sizeText := humanize.Bytes(uint64(summary.TotalBytes))
	return fmt.Sprintf(summaryLineFormat, summary.TotalFiles, label, sizeText, tokenSuffix, modelSuffix)
}
