package llmrouter

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedBlock strips a leading/trailing markdown code fence (```json ... ```
// or ``` ... ```), matching original_source's _strip_json helper used by
// both the query parser and the CV tailor.
var fencedBlock = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.*?)\\s*```\\s*$")

// trailingComma removes a comma immediately before a closing brace/bracket,
// the single most common malformed-JSON artifact LLMs produce.
var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// ExtractJSON implements SPEC_FULL.md §9's "tolerant pass": strip code
// fences, remove trailing commas, then unmarshal into v. The core never
// trusts an LLM to return valid structured output; on failure the caller
// is expected to fall back to a conservative default rather than treat
// this as fatal.
func ExtractJSON(raw string, v any) error {
	text := strings.TrimSpace(raw)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	text = trailingComma.ReplaceAllString(text, "$1")
	return json.Unmarshal([]byte(text), v)
}
