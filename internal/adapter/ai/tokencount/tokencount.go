// Package tokencount provides token counting for LLM prompts.
//
// It uses tiktoken-go, a Go port of OpenAI's tiktoken library, so that
// prompt sizes can be logged and monitored accurately.
package tokencount

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// Count returns the number of tokens in text under the cl100k_base encoding,
// which covers modern OpenAI-compatible chat and embedding models. If the
// encoding cannot be loaded it falls back to a bytes/4 estimate.
func Count(text string) int {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			enc = e
		}
	})
	if enc == nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
