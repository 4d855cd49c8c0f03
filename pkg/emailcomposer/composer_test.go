package emailcomposer

import (
	"context"
	"testing"
	"time"

	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/models"
	"github.com/bowjob/jobagent/pkg/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	content string
}

func (s *stubBackend) Complete(ctx context.Context, req llmrouter.ChatRequest) (llmrouter.ChatResponse, error) {
	return llmrouter.ChatResponse{Content: s.content}, nil
}

func newTestRouter(content string) *llmrouter.Router {
	return llmrouter.NewRouter([]llmrouter.ModelSpec{
		{Provider: "test", ModelID: "m1", Backend: &stubBackend{content: content}, Credentialed: func() bool { return true }, Timeout: time.Second},
	}, llmrouter.FallbackChain{"m1"}, quota.NewLedger(nil))
}

func TestCompose_ParsesValidDraft(t *testing.T) {
	composer := NewComposer(newTestRouter(`{"subject": "Application for Engineer - Jane Doe", "body": "Hi Sam,\n\nI am interested..."}`))
	draft, err := composer.Compose(context.Background(), models.JobPosting{Title: "Engineer", Company: "Acme"}, models.ParsedCV{}, models.HRContact{Name: "Sam"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Application for Engineer - Jane Doe", draft.Subject)
}

func TestCompose_FallsBackOnMalformedJSON(t *testing.T) {
	composer := NewComposer(newTestRouter("not json at all"))
	draft, err := composer.Compose(context.Background(), models.JobPosting{Title: "Engineer", Company: "Acme"}, models.ParsedCV{}, models.HRContact{Name: "Sam"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Application for Engineer", draft.Subject)
	assert.Contains(t, draft.Body, "Acme")
}

func TestCompose_FallsBackOnEmptyFields(t *testing.T) {
	composer := NewComposer(newTestRouter(`{"subject": "", "body": ""}`))
	draft, err := composer.Compose(context.Background(), models.JobPosting{Title: "Engineer", Company: "Acme"}, models.ParsedCV{}, models.HRContact{}, "")
	require.NoError(t, err)
	assert.Equal(t, "Application for Engineer", draft.Subject)
	assert.Contains(t, draft.Body, "Hiring Manager")
}

func TestMatchedSkillsSummary_CaseInsensitive(t *testing.T) {
	cv := models.ParsedCV{Skills: models.Skills{Technical: []string{"Go", "SQL"}}}
	job := models.JobPosting{Requirements: []string{"go", "kubernetes"}}
	assert.Equal(t, "go", matchedSkillsSummary(job, cv))
}
