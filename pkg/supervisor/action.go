package supervisor

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Action is one reserved __ACTION__: prefix from the closed set named in
// SPEC_FULL.md §6.
type Action struct {
	Name string
	Args []string
}

// reservedPrefixes is the closed set of action prefixes the protocol
// accepts; any other "__...__" prefix is rejected (§6).
var reservedPrefixes = map[string]int{
	"__TAILOR_APPLY__":   1, // job_id
	"__APPROVE_CV__":     1, // app_id
	"__SEND_EMAIL__":     1, // app_id
	"__REGENERATE_CV__":  1, // job_id
	"__PREP_INTERVIEW__": 1, // job_id
	"__EDIT_CV__":        2, // cv_id, json payload
	"__SELECT_CV__":      3, // cv_id, pending_intent, base64 context
}

// ParseAction splits a leading __ACTION__: prefix off text and returns the
// parsed Action. ok is false only when text carries no "__...__" prefix at
// all (ordinary chat). An action whose name is outside the reserved set
// is still returned with ok=true — and an empty Args slice — so the
// caller can reject it explicitly (§6: "any other __…__ prefix is
// rejected"), rather than silently falling through to NL classification.
func ParseAction(text string) (Action, bool) {
	if !strings.HasPrefix(text, "__") {
		return Action{}, false
	}
	end := strings.Index(text[2:], "__")
	if end < 0 {
		return Action{}, false
	}
	name := text[:end+4]
	argCount, known := reservedPrefixes[name]
	if !known {
		return Action{Name: name}, true
	}

	rest := strings.TrimPrefix(text[len(name):], ":")
	var args []string
	if argCount <= 1 {
		args = []string{strings.TrimSpace(rest)}
	} else {
		args = strings.SplitN(rest, ":", argCount)
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
	}
	return Action{Name: name, Args: args}, true
}

// DecodeSelectCVContext base64-decodes the urlsafe-encoded pending context
// carried by __SELECT_CV__'s third argument and unmarshals it into v. A
// decode failure falls back to treating the raw string as already-decoded
// text, matching original_source/agents/supervisor.py's own try/except
// fallback.
func DecodeSelectCVContext(raw string, v any) string {
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(raw)
	}
	if err != nil {
		return raw
	}
	if v != nil {
		_ = json.Unmarshal(decoded, v)
	}
	return string(decoded)
}

// DecodeEditCVPayload unmarshals __EDIT_CV__'s JSON payload argument.
func DecodeEditCVPayload(jsonPayload string, v any) error {
	return json.Unmarshal([]byte(jsonPayload), v)
}
