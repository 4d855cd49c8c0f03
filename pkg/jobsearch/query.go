package jobsearch

import (
	"context"
	"strings"

	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/models"
)

// countryHints is a cheap substring-match override for when the LLM leaves
// country_code empty (SPEC_FULL.md §4.4 step 1). Not exhaustive by design
// — it only needs to catch the common cases found in free-text queries.
var countryHints = map[string]string{
	"united states":  "US",
	"usa":            "US",
	"remote us":      "US",
	"united kingdom": "GB",
	"uk":             "GB",
	"london":         "GB",
	"germany":        "DE",
	"berlin":         "DE",
	"canada":         "CA",
	"toronto":        "CA",
	"india":          "IN",
	"bangalore":      "IN",
	"remote eu":      "EU",
}

func countryCodeHeuristic(text string) string {
	lower := strings.ToLower(text)
	for hint, code := range countryHints {
		if strings.Contains(lower, hint) {
			return code
		}
	}
	return ""
}

type parsedQuery struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	CountryCode string `json:"country_code"`
}

// ParseQuery turns free text into a structured Query via a single LLM
// call, falling back to the substring heuristic when the LLM's
// country_code is empty (SPEC_FULL.md §4.4 step 1). A malformed LLM
// response degrades to treating the whole input as the title, per the
// tolerant-parsing design note in SPEC_FULL.md §9.
func ParseQuery(ctx context.Context, router *llmrouter.Router, preferredModel, text string) models.Query {
	resp, err := router.Invoke(ctx, "job_search_query_parse", preferredModel, llmrouter.ChatRequest{
		Messages: []llmrouter.ChatMessage{
			{Role: llmrouter.RoleSystem, Content: "Extract a job title, location and ISO country code from the user's request. Respond with JSON: {\"title\":..,\"location\":..,\"country_code\":..}."},
			{Role: llmrouter.RoleUser, Content: text},
		},
		Temperature: 0,
	})

	var parsed parsedQuery
	if err == nil {
		_ = llmrouter.ExtractJSON(resp.Content, &parsed)
	}
	if parsed.Title == "" {
		parsed.Title = text
	}
	if parsed.CountryCode == "" {
		parsed.CountryCode = countryCodeHeuristic(text)
	}

	return models.Query{
		Title:       parsed.Title,
		Location:    parsed.Location,
		CountryCode: parsed.CountryCode,
		Limit:       25,
	}
}
