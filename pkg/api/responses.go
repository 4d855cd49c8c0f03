package api

// ChatResponse is the HTTP response for POST /chat.
type ChatResponse struct {
	ReplyText string `json:"reply_text"`
	Metadata  any    `json:"metadata,omitempty"`
}

// ChatHistoryMessage is one entry in GET /chat/history/:session_id.
type ChatHistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Metadata  any    `json:"metadata,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ChatHistoryResponse is the HTTP response for GET /chat/history/:session_id.
type ChatHistoryResponse struct {
	Messages []ChatHistoryMessage `json:"messages"`
}

// CVUploadResponse is the HTTP response for POST /cv/upload.
type CVUploadResponse struct {
	CVID       string `json:"cv_id"`
	ParsedData any    `json:"parsed_data,omitempty"`
}

// CVResponse is the HTTP response for GET /cv/:id.
type CVResponse struct {
	CVID   string `json:"cv_id"`
	Ready  bool   `json:"ready"`
	Parsed any    `json:"parsed_data,omitempty"`
}

// CVListResponse is the HTTP response for GET /cv/list.
type CVListResponse struct {
	CVs []CVResponse `json:"cvs"`
}

// JobSearchResponse is the HTTP response for POST /jobs/search.
type JobSearchResponse struct {
	Jobs []JobItem `json:"jobs"`
}

// JobItem is one job posting as returned to clients.
type JobItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	MatchScore   int      `json:"match_score,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// JobListResponse is the HTTP response for GET /jobs/list.
type JobListResponse struct {
	Jobs []JobItem `json:"jobs"`
}

// ApplicationItem is one application as returned to clients.
type ApplicationItem struct {
	ID             string `json:"id"`
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	RecipientEmail string `json:"recipient_email,omitempty"`
	LastError      string `json:"last_error,omitempty"`
}

// ApplicationListResponse is the HTTP response for GET /applications.
type ApplicationListResponse struct {
	Applications []ApplicationItem `json:"applications"`
}

// ApplicationApproveResponse is the HTTP response for
// POST /applications/:id/approve.
type ApplicationApproveResponse struct {
	ReplyText string `json:"reply_text"`
	Status    string `json:"status"`
}

// QuotaStatusResponse is the HTTP response for GET /observability/quota.
type QuotaStatusResponse struct {
	Counters []QuotaCounterItem `json:"counters"`
}

// QuotaCounterItem is one (provider, model) counter's status.
type QuotaCounterItem struct {
	Provider  string  `json:"provider"`
	Model     string  `json:"model"`
	Used      int64   `json:"used"`
	Limit     int64   `json:"limit"`
	Pct       float64 `json:"pct"`
	Available bool    `json:"available"`
}

// APIUsageResponse is the HTTP response for GET /observability/api-usage —
// per-adapter credential status, so the UI can show which external
// collaborators are actually wired without leaking credential values.
type APIUsageResponse struct {
	Providers  map[string]CredentialItem `json:"providers"`
	JobBoards  map[string]CredentialItem `json:"job_boards"`
	HRLookups  map[string]CredentialItem `json:"hr_lookups"`
	Mailer     CredentialItem            `json:"mailer"`
}

// CredentialItem mirrors config.CredentialStatus for JSON responses.
type CredentialItem struct {
	Configured bool   `json:"configured"`
	Reason     string `json:"reason,omitempty"`
}

// ExecutionsResponse is the HTTP response for GET /observability/executions
// — a coarse view of active pipeline steps by application id.
type ExecutionsResponse struct {
	Executions []ExecutionItem `json:"executions"`
}

// ExecutionItem is one in-flight or completed pipeline state snapshot.
type ExecutionItem struct {
	ApplicationID string `json:"application_id"`
	Step          string `json:"step"`
}

// GmailWatcherResponse is the HTTP response for GET /observability/gmail-watcher
// and POST /observability/gmail-watcher/toggle.
type GmailWatcherResponse struct {
	Running bool `json:"running"`
}

// SettingsModelResponse is the HTTP response for GET|POST /settings/model.
type SettingsModelResponse struct {
	Model string `json:"model"`
}

// SettingsProfileResponse is the HTTP response for GET|PATCH /settings/profile.
type SettingsProfileResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
