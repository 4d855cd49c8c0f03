// Package cvtailor implements the CV Tailor (C6): it rewrites a parsed CV
// toward a job posting, scores the fit, and enforces the fabrication cap
// on newly proposed experience. Grounded on original_source/agents/cv_tailor.py.
package cvtailor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/models"
)

const systemPrompt = `You tailor a candidate's CV to a specific job posting.
Respond with a single JSON object matching this shape exactly:
{
  "cv_sections": {
    "professional_summary": {"tag": "modified", "original": "...", "text": "..."},
    "work_experience": [{"tag": "modified", "original": "...", "text": "..."}],
    "skills": [{"tag": "new", "text": "..."}],
    "projects": [{"tag": "modified", "original": "...", "text": "..."}]
  },
  "non_cv_sections": {
    "work_experience": [{"company": "...", "title": "...", "start_year": 2022, "end_year": 0, "achievements": ["..."]}],
    "projects": [{"name": "...", "description": "..."}],
    "certifications": ["..."]
  },
  "skills_to_remove": ["..."]
}
Only propose entries under cv_sections when rewording something already in the CV
(set "original" to the exact original text so it can be matched back). Only propose
entries under non_cv_sections for wholly new material. Never fabricate employers,
dates, or credentials beyond what is reasonable for the candidate's stated level.
Do not include any text outside the JSON object.`

// Tailor drives C6's single LLM call plus the deterministic merge and
// scoring that follow it.
type Tailor struct {
	Router *llmrouter.Router
}

func NewTailor(router *llmrouter.Router) *Tailor {
	return &Tailor{Router: router}
}

// cvJSON is the compact representation sent to the LLM — only the fields
// the prompt needs to reason about, not the full ParsedCV.
type cvJSON struct {
	Summary        string                  `json:"summary"`
	Skills         []string                `json:"skills"`
	WorkExperience []models.WorkExperience `json:"work_experience"`
	Projects       []models.Project        `json:"projects"`
}

func buildCompactCV(cv models.ParsedCV) cvJSON {
	return cvJSON{
		Summary:        cv.Summary,
		Skills:         cv.Skills.All(),
		WorkExperience: cv.WorkExperience,
		Projects:       cv.Projects,
	}
}

// Tailor runs the full §4.6 procedure: build a compact CV view, make one
// LLM call, merge the proposed edits back onto the original CV under the
// fabrication cap, then score the result. A CV with no work experience,
// skills, or projects still produces a minimal TailoredCV rather than
// erroring — there is simply nothing for the merge step to act on beyond
// whatever the LLM proposes fresh.
func (t *Tailor) Tailor(ctx context.Context, cv models.ParsedCV, job models.JobPosting, preferredModel string) (models.TailoredCV, error) {
	compact := buildCompactCV(cv)
	payload, err := json.Marshal(compact)
	if err != nil {
		return models.TailoredCV{}, fmt.Errorf("cvtailor: encode compact cv: %w", err)
	}

	userPrompt := fmt.Sprintf("Job title: %s\nCompany: %s\nRequirements: %v\nDescription: %s\n\nCandidate CV (JSON):\n%s",
		job.Title, job.Company, job.Requirements, job.Description, string(payload))

	resp, err := t.Router.Invoke(ctx, "cv_tailor", preferredModel, llmrouter.ChatRequest{
		Messages: []llmrouter.ChatMessage{
			{Role: llmrouter.RoleSystem, Content: systemPrompt},
			{Role: llmrouter.RoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return models.TailoredCV{}, err
	}

	var analysis Analysis
	if err := llmrouter.ExtractJSON(resp.Content, &analysis); err != nil {
		return models.TailoredCV{}, fmt.Errorf("cvtailor: parse analysis: %w", err)
	}

	tailoredCV, changeLog := merge(cv, analysis)

	requiredYears := estimateRequiredYears(job)
	matchScore := Score(tailoredCV, job, requiredYears, requiresDegree(job))
	atsScore := Score(tailoredCV, job, requiredYears, requiresDegree(job))

	return models.TailoredCV{
		OriginalRef: cv.ID,
		JobRef:      job.ID,
		Tailored:    tailoredCV,
		ChangeLog:   changeLog,
		ATSScore:    atsScore,
		MatchScore:  matchScore,
		CreatedAt:   time.Now(),
	}, nil
}
