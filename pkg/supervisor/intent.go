// Package supervisor implements the Supervisor / Intent Router (C9): it
// classifies each user turn, dispatches to the matching handler, and
// resumes a suspended pipeline on a continuation turn. Grounded on
// original_source/agents/supervisor.py's process_chat_message dispatch
// chain and its companion prompts/supervisor.py classification prompt.
package supervisor

import (
	"context"
	"strings"

	"github.com/bowjob/jobagent/pkg/llmrouter"
)

// Intent is the closed label set a user turn is classified into
// (SPEC_FULL.md §4.9).
type Intent string

const (
	IntentJobSearch     Intent = "job_search"
	IntentCVUpload      Intent = "cv_upload"
	IntentCVTailor      Intent = "cv_tailor"
	IntentInterviewPrep Intent = "interview_prep"
	IntentCVAnalysis    Intent = "cv_analysis"
	IntentStatus        Intent = "status"
	IntentContinuation  Intent = "continuation"
	IntentGeneral       Intent = "general"
)

// affirmativeTokens are short affirmative/short-noun tokens that always
// mean "continue whatever was suspended," rule 1 of §4.9.
var affirmativeTokens = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "ok": true, "okay": true,
	"send": true, "approve": true, "continue": true, "next": true, "go": true,
	"sure": true, "do it": true,
}

// approvalTokens is the closed set used to detect "explicit approval"
// within the first six tokens of a continuation turn.
var approvalTokens = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "approve": true, "approved": true,
	"send": true, "ok": true, "okay": true, "go": true, "confirm": true, "confirmed": true,
}

func firstWord(text string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// classifyRules implements rules 1-3 of §4.9 before ever calling the LLM.
// It returns ("", false) when no rule matches and the caller should fall
// through to natural-language classification.
func classifyRules(text string) (Intent, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(lower)

	if len(words) > 0 && len(words) <= 3 && (affirmativeTokens[lower] || affirmativeTokens[words[0]]) {
		return IntentContinuation, true
	}

	for _, verb := range []string{"find", "search", "look for"} {
		if strings.Contains(lower, verb) {
			for _, noun := range []string{"job", "role", "position", "company"} {
				if strings.Contains(lower, noun) {
					return IntentJobSearch, true
				}
			}
		}
	}

	if strings.Contains(lower, "tailor") || strings.Contains(lower, "customise") || strings.Contains(lower, "customize") {
		if strings.Contains(lower, "cv") || strings.Contains(lower, "resume") || strings.Contains(lower, "résumé") {
			return IntentCVTailor, true
		}
	}

	return "", false
}

// ExplicitApproval reports whether any approval token appears in the
// first six tokens of text (§4.9 "Explicit approval is detected by...").
func ExplicitApproval(text string) bool {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(words) > 6 {
		words = words[:6]
	}
	for _, w := range words {
		if approvalTokens[strings.Trim(w, ".,!?")] {
			return true
		}
	}
	return false
}

var knownIntents = map[string]Intent{
	string(IntentJobSearch):     IntentJobSearch,
	string(IntentCVUpload):      IntentCVUpload,
	string(IntentCVTailor):      IntentCVTailor,
	string(IntentInterviewPrep): IntentInterviewPrep,
	string(IntentCVAnalysis):    IntentCVAnalysis,
	string(IntentStatus):        IntentStatus,
	string(IntentContinuation):  IntentContinuation,
	string(IntentGeneral):       IntentGeneral,
}

type llmLabel struct {
	Label string `json:"label"`
}

// ClassifyIntent implements §4.9's full rule chain: deterministic rules
// first, then a single LLM call constrained to the closed label set, with
// "general" as the fallback on any failure (LLM error or an unrecognised
// label).
func ClassifyIntent(ctx context.Context, router *llmrouter.Router, preferredModel string, history []llmrouter.ChatMessage, text string) Intent {
	if intent, ok := classifyRules(text); ok {
		return intent
	}

	systemPrompt := `Classify the user's latest message into exactly one label from this
closed set: job_search, cv_upload, cv_tailor, interview_prep, cv_analysis, status,
continuation, general. Respond with JSON: {"label": "..."}. Use the conversation
history only for context; classify the latest message.`

	messages := append([]llmrouter.ChatMessage{{Role: llmrouter.RoleSystem, Content: systemPrompt}}, history...)
	messages = append(messages, llmrouter.ChatMessage{Role: llmrouter.RoleUser, Content: text})

	resp, err := router.Invoke(ctx, "intent_classify", preferredModel, llmrouter.ChatRequest{Messages: messages, Temperature: 0})
	if err != nil {
		return IntentGeneral
	}

	var label llmLabel
	if err := llmrouter.ExtractJSON(resp.Content, &label); err != nil {
		return IntentGeneral
	}
	if intent, ok := knownIntents[label.Label]; ok {
		return intent
	}
	return IntentGeneral
}
