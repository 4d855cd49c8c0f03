package api

// ChatRequest is the HTTP request body for POST /chat.
type ChatRequest struct {
	Message        string `json:"message"`
	SessionID      string `json:"session_id"`
	PreferredModel string `json:"preferred_model,omitempty"`
}

// JobSearchRequest is the HTTP request body for POST /jobs/search. Query is
// free text, parsed into a structured models.Query by C4's query parser.
// CVID is optional; when set and already parsed, the aggregator scores
// each posting's match against it.
type JobSearchRequest struct {
	Query string `json:"query"`
	CVID  string `json:"cv_id,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// TailoredCVEditRequest is the HTTP request body for PATCH /cv/tailored/:id.
type TailoredCVEditRequest struct {
	Summary *string  `json:"summary,omitempty"`
	Skills  []string `json:"skills,omitempty"`
}

// SettingsModelRequest is the HTTP request body for POST /settings/model.
type SettingsModelRequest struct {
	Model string `json:"model"`
}

// SettingsProfileRequest is the HTTP request body for PATCH /settings/profile.
type SettingsProfileRequest struct {
	DisplayName string `json:"display_name,omitempty"`
}

// GmailWatcherToggleRequest is the HTTP request body for
// POST /observability/gmail-watcher/toggle.
type GmailWatcherToggleRequest struct {
	Enabled bool `json:"enabled"`
}
