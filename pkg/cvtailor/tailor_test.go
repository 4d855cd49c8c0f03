package cvtailor

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
	ledger := quota.NewLedger(nil)
	return llmrouter.NewRouter([]llmrouter.ModelSpec{
		{
			Provider:     "test",
			ModelID:      "m1",
			Backend:      &stubBackend{content: content},
			Credentialed: func() bool { return true },
			Timeout:      time.Second,
		},
	}, llmrouter.FallbackChain{"m1"}, ledger)
}

func TestTailor_FabricationCapScenario5(t *testing.T) {
	// SPEC_FULL.md §8 scenario 5: original CV has 2 real experience
	// entries; LLM proposes 5 new entries. Expected: merged CV contains
	// 2 real + 1 new (cap = max(1, round(2/2)) = 1).
	cv := models.ParsedCV{
		ID: "cv-1",
		WorkExperience: []models.WorkExperience{
			{Company: "Acme", Title: "Engineer", StartYear: 2019, EndYear: 2021},
			{Company: "Globex", Title: "Senior Engineer", StartYear: 2021, EndYear: 2023},
		},
	}
	job := models.JobPosting{ID: "job-1", Title: "Staff Engineer", Company: "Initech"}

	analysis := `{
		"cv_sections": {},
		"non_cv_sections": {
			"work_experience": [
				{"company": "A", "title": "T1"},
				{"company": "B", "title": "T2"},
				{"company": "C", "title": "T3"},
				{"company": "D", "title": "T4"},
				{"company": "E", "title": "T5"}
			]
		}
	}`

	tailor := NewTailor(newTestRouter(analysis))
	result, err := tailor.Tailor(context.Background(), cv, job, "")
	require.NoError(t, err)
	assert.Len(t, result.Tailored.WorkExperience, 3, "2 real + 1 fabricated, capped")

	realCount, newCount := 0, 0
	for _, e := range result.Tailored.WorkExperience {
		if e.Tag == "new" {
			newCount++
		} else {
			realCount++
		}
	}
	assert.Equal(t, 2, realCount)
	assert.Equal(t, 1, newCount)
}

func TestTailor_ZeroRealExperienceStillGetsOneFabrication(t *testing.T) {
	cv := models.ParsedCV{ID: "cv-2"}
	job := models.JobPosting{ID: "job-2"}
	analysis := `{"non_cv_sections": {"work_experience": [{"company": "A"}, {"company": "B"}]}}`

	tailor := NewTailor(newTestRouter(analysis))
	result, err := tailor.Tailor(context.Background(), cv, job, "")
	require.NoError(t, err)
	assert.Len(t, result.Tailored.WorkExperience, 1)
}

func TestTailor_EmptyCVNeverCrashes(t *testing.T) {
	tailor := NewTailor(newTestRouter(`{}`))
	result, err := tailor.Tailor(context.Background(), models.ParsedCV{}, models.JobPosting{}, "")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result.Tailored.WorkExperience)
}

func TestTailor_IsDeterministicGivenSameInputs(t *testing.T) {
	cv := models.ParsedCV{
		Summary: "Backend engineer",
		WorkExperience: []models.WorkExperience{
			{Company: "Acme", Title: "Engineer", StartYear: 2019, EndYear: 2023, Achievements: []string{"Built things"}},
		},
	}
	job := models.JobPosting{Title: "Engineer", Requirements: []string{"Go"}, Description: "Go backend role"}
	analysis := `{"cv_sections": {"work_experience": [{"tag": "modified", "original": "Built things", "text": "Built scalable systems"}]}}`

	tailor := NewTailor(newTestRouter(analysis))
	first, err := tailor.Tailor(context.Background(), cv, job, "")
	require.NoError(t, err)
	second, err := tailor.Tailor(context.Background(), cv, job, "")
	require.NoError(t, err)

	assert.Equal(t, first.MatchScore, second.MatchScore)
	assert.Equal(t, first.Tailored.WorkExperience, second.Tailored.WorkExperience)
}

func TestTailor_MarkdownFencedResponseIsAccepted(t *testing.T) {
	analysis := "```json\n{\"skills_to_remove\": [\"COBOL\"]}\n```"
	cv := models.ParsedCV{Skills: models.Skills{Technical: []string{"COBOL", "Go"}}}
	tailor := NewTailor(newTestRouter(analysis))
	result, err := tailor.Tailor(context.Background(), cv, models.JobPosting{}, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Go"}, result.Tailored.Skills.Technical)
}
