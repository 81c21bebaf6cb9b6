package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var errMissingEncoding = errors.New("tiktoken encoding is not initialized")

// tiktokenCounter counts tokens with a tiktoken BPE encoding.
type tiktokenCounter struct {
	encoding     *tiktoken.Tiktoken
	encodingName string
}

func (counter tiktokenCounter) Name() string {
	return counter.encodingName
}

// CountString treats special-token text as ordinary text.
func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errMissingEncoding
	}
	return len(counter.encoding.EncodeOrdinary(input)), nil
}
