package ai

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
)

var (
	_ adapter.Tokenizer = (*TiktokenEstimator)(nil)
	_ adapter.Tokenizer = (*roughEstimator)(nil)
)

// TiktokenEstimator counts tokens with a BPE encoding. The count is an
// estimate for non-OpenAI models but close enough for accounting.
type TiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

func NewTokenEstimator() adapter.Tokenizer {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		// Encoding data unavailable (e.g. offline first run): fall back
		// to a character heuristic rather than fail startup.
		return roughEstimator{}
	}
	return &TiktokenEstimator{enc: enc}
}

func (t *TiktokenEstimator) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

type roughEstimator struct{}

func (roughEstimator) Count(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return n/4 + 1
}
