package llmrouter

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the tokenizer used for budget estimation across every
// provider in the pool. It is an estimate, not an exact count for
// non-OpenAI providers, which is acceptable: the budget guard only needs
// to keep prompts well clear of a model's context window, not account to
// the token.
const encodingName = "cl100k_base"

// TokenCount estimates the number of tokens text would consume. No other
// package calls it: the Quota Ledger keeps no tpm usage and the CV Tailor
// sends its CV+job prompt without a token-budget check.
func TokenCount(text string) int {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		// Conservative fallback: ~4 characters per token, the commonly
		// cited rule of thumb for English text, used only if the
		// tokenizer's vocabulary file could not be loaded.
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// TruncateToTokenBudget trims text to at most maxTokens tokens by cutting
// whole lines from the end, preserving the most context-relevant leading
// content (a CV's earlier sections / a job description's summary). Lines
// are never split: if the first line alone exceeds maxTokens, that line is
// returned whole and the result is over budget.
func TruncateToTokenBudget(text string, maxTokens int) string {
	if TokenCount(text) <= maxTokens {
		return text
	}
	lines := strings.Split(text, "\n")
	for len(lines) > 1 {
		lines = lines[:len(lines)-1]
		candidate := strings.Join(lines, "\n")
		if TokenCount(candidate) <= maxTokens {
			return candidate
		}
	}
	return lines[0]
}
