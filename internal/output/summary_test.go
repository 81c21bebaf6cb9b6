package output_test

import (
	"testing"

	"github.com/temirov/flatten/internal/output"
	"github.com/temirov/flatten/internal/types"
)

func TestFormatSummaryLine(testingInstance *testing.T) {
	sections := []types.FileSection{
		{Path: "a", SizeBytes: 1000, Tokens: 10},
		{Path: "b", SizeBytes: 500, Tokens: 5},
	}

	testCases := []struct {
		name          string
		sections      []types.FileSection
		tokensEnabled bool
		expected      string
	}{
		{name: "plural without tokens", sections: sections, expected: "Summary: 2 files, 1.5 kB"},
		{name: "plural with tokens", sections: sections, tokensEnabled: true, expected: "Summary: 2 files, 1.5 kB, 15 tokens (model: gpt-4o)"},
		{name: "single file", sections: sections[1:], expected: "Summary: 1 file, 500 B"},
		{name: "no files", expected: "Summary: 0 files, 0 B"},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingHandle *testing.T) {
			summary := output.BuildSummary(testCase.sections, "gpt-4o", testCase.tokensEnabled)
			line := output.FormatSummaryLine(summary)
			if line != testCase.expected {
				testingHandle.Fatalf("expected %q, got %q", testCase.expected, line)
			}
		})
	}
}
