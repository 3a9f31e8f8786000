// Package tokenizer estimates token counts for budget decisions such as
// paper-text truncation and tool-result limits.
package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator counts the tokens a model would see for the given text.
type Estimator interface {
	Count(text string) int
}

// Tiktoken estimates with a real BPE encoding, falling back to a
// character heuristic when the encoding cannot be loaded (offline
// environments without the cached vocabulary).
type Tiktoken struct {
	encoding string

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewTiktoken returns an estimator backed by the named encoding.
// cl100k_base covers the GPT-4/DeepSeek family closely enough for budgets.
func NewTiktoken(encoding string) *Tiktoken {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	return &Tiktoken{encoding: encoding}
}

func (t *Tiktoken) Count(text string) int {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err == nil {
			t.enc = enc
		}
	})
	if t.enc == nil {
		return Heuristic{}.Count(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Heuristic approximates one token per four characters. Used as the
// fallback when no encoding is available and directly in tests.
type Heuristic struct{}

func (Heuristic) Count(text string) int {
	return (len(text) + 3) / 4
}
