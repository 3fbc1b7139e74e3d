package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/kayz/promptstack/internal/logger"
)

// DefaultModel selects the encoding used when no model is configured.
const DefaultModel = "gpt-4o"

var (
	mu        sync.Mutex
	encodings = map[string]*tiktoken.Tiktoken{}
)

func encodingForModel(model string) *tiktoken.Tiktoken {
	if model == "" {
		model = DefaultModel
	}
	mu.Lock()
	defer mu.Unlock()
	if enc, ok := encodings[model]; ok {
		return enc
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Debug("no encoding for model %s: %v", model, err)
		encodings[model] = nil
		return nil
	}
	encodings[model] = enc
	return enc
}

// Estimate returns an approximate token count for text under the given
// model's encoding, falling back to a character heuristic when the encoding
// is unavailable.
func Estimate(text, model string) int {
	if enc := encodingForModel(model); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return EstimateFallback(text)
}

// EstimateFallback approximates tokens as one per four characters, the
// common rule of thumb for English prose.
func EstimateFallback(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
