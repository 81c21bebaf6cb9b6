// Package tokenizer estimates token counts for rendered file content.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorFallbackEncodingFormat = "initialize fallback tokenizer: %w"
)

// NewCounter returns a tiktoken Counter for the requested model along with the
// name reported in the summary. Models tiktoken does not know fall back to the
// cl100k_base encoding, which is then reported instead of the model.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	lowerModel := strings.ToLower(model)

	encoding, encodingErr := tiktoken.EncodingForModel(lowerModel)
	if encodingErr == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, encodingName: lowerModel}, model, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf(errorFallbackEncodingFormat, fallbackErr)
	}
	return tiktokenCounter{encoding: fallback, encodingName: defaultEncodingName}, defaultEncodingName, nil
}
