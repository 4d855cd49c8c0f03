// Package emailcomposer implements the Email Composer (C7): one LLM call
// that drafts a subject/body pair for a specific HR contact. Grounded on
// original_source/agents/email_sender.py and its companion prompt file;
// SMTP delivery is out of scope (SPEC_FULL.md Non-goals) — this package
// only produces the draft for the Supervisor to present for approval.
package emailcomposer

import (
	"context"
	"fmt"
	"strings"

	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/models"
)

const systemPrompt = `You are a professional communication assistant. Draft a short, highly
professional outreach email to a hiring manager regarding a specific job application.
The email should be concise, mention the attached tailored CV, and highlight one or two
key matching skills. Return ONLY a JSON object of this shape, no markdown, no extra text:
{"subject": "Application for <role> - <candidate name>", "body": "Hi <hr name>,\n\n..."}`

// Draft is the composed email awaiting user approval.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Composer drives the single-call draft (SPEC_FULL.md §4.7).
type Composer struct {
	Router *llmrouter.Router
}

func NewComposer(router *llmrouter.Router) *Composer {
	return &Composer{Router: router}
}

// fallback mirrors email_sender.py's behaviour when the LLM's JSON cannot
// be parsed: a generic, still-usable draft rather than a hard failure.
func fallback(job models.JobPosting, contact models.HRContact) Draft {
	name := contact.Name
	if name == "" {
		name = "Hiring Manager"
	}
	company := job.Company
	if company == "" {
		company = "your company"
	}
	return Draft{
		Subject: fmt.Sprintf("Application for %s", job.Title),
		Body: fmt.Sprintf("Hi %s,\n\nPlease find my application attached for the %s position at %s.\n\nBest regards,",
			name, job.Title, company),
	}
}

func matchedSkillsSummary(job models.JobPosting, cv models.ParsedCV) string {
	cvSkills := make(map[string]bool)
	for _, s := range cv.Skills.All() {
		cvSkills[strings.ToLower(s)] = true
	}
	var matched []string
	for _, req := range job.Requirements {
		if cvSkills[strings.ToLower(req)] {
			matched = append(matched, req)
			if len(matched) == 5 {
				break
			}
		}
	}
	return strings.Join(matched, ", ")
}

// Compose drafts an outreach email for one job/contact pair. On a malformed
// LLM response it falls back to a generic draft rather than erroring, since
// a plain but usable email is better than blocking the whole application.
func (c *Composer) Compose(ctx context.Context, job models.JobPosting, cv models.ParsedCV, contact models.HRContact, preferredModel string) (Draft, error) {
	summary := cv.Summary
	if len(summary) > 500 {
		summary = summary[:500]
	}
	hrName := contact.Name
	if hrName == "" {
		hrName = "Hiring Manager"
	}

	userPrompt := fmt.Sprintf("Job Title: %s\nCompany: %s\nHR Contact Name: %s\nCandidate Summary: %s\nMatched Skills: %s\n\nDraft the email. Remember to ONLY output valid JSON.",
		job.Title, job.Company, hrName, summary, matchedSkillsSummary(job, cv))

	resp, err := c.Router.Invoke(ctx, "email_composer", preferredModel, llmrouter.ChatRequest{
		Messages: []llmrouter.ChatMessage{
			{Role: llmrouter.RoleSystem, Content: systemPrompt},
			{Role: llmrouter.RoleUser, Content: userPrompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return Draft{}, err
	}

	var draft Draft
	if parseErr := llmrouter.ExtractJSON(resp.Content, &draft); parseErr != nil {
		return fallback(job, contact), nil
	}
	if draft.Subject == "" || draft.Body == "" {
		return fallback(job, contact), nil
	}
	return draft, nil
}
