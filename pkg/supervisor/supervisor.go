package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bowjob/jobagent/pkg/apperr"
	"github.com/bowjob/jobagent/pkg/cvtailor"
	"github.com/bowjob/jobagent/pkg/emailcomposer"
	"github.com/bowjob/jobagent/pkg/hrresolver"
	"github.com/bowjob/jobagent/pkg/jobsearch"
	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/models"
	"github.com/bowjob/jobagent/pkg/pipeline"
	"github.com/bowjob/jobagent/pkg/sessionstore"
)

// historyWindow is the "last ~8 non-action messages" §4.9 sends the LLM
// for natural-language classification.
const historyWindow = 8

// Applications is the narrow repository interface the Supervisor needs to
// drive C10 across turns; the store implementation (in-memory, or backed
// by something durable) lives outside this package.
type Applications interface {
	Get(ctx context.Context, applicationID string) (models.Application, bool)
	Save(ctx context.Context, app models.Application)
}

// Jobs resolves a job id to its posting, as surfaced by C4's aggregation,
// and persists a freshly searched batch under its assigned ids.
type Jobs interface {
	Get(ctx context.Context, jobID string) (models.JobPosting, bool)
	SaveAll(postings []models.JobPosting) []models.JobPosting
}

// CVs resolves a stored parsed CV by id, or the most recently uploaded one
// when a chat action names a job but no CV (no accounts are modeled, so
// there is exactly one candidate CV in play at a time).
type CVs interface {
	Get(ctx context.Context, cvID string) (models.ParsedCV, bool)
	Latest(ctx context.Context) (models.ParsedCV, bool)
}

// Supervisor is the C9 entrypoint: one HandleTurn call per inbound chat
// message. It holds every other component (C4-C7) directly, since chat is
// the system's primary interface to all of them — not just to C10.
type Supervisor struct {
	Sessions   *sessionstore.Store
	Router     *llmrouter.Router
	Aggregator *jobsearch.Aggregator
	Resolver   *hrresolver.Resolver
	Tailor     *cvtailor.Tailor
	Composer   *emailcomposer.Composer
	Pipeline   *pipeline.Controller
	Apps       Applications
	Jobs       Jobs
	CVs        CVs
}

func New(
	sessions *sessionstore.Store,
	router *llmrouter.Router,
	aggregator *jobsearch.Aggregator,
	resolver *hrresolver.Resolver,
	tailor *cvtailor.Tailor,
	composer *emailcomposer.Composer,
	ctrl *pipeline.Controller,
	apps Applications,
	jobs Jobs,
	cvs CVs,
) *Supervisor {
	return &Supervisor{
		Sessions:   sessions,
		Router:     router,
		Aggregator: aggregator,
		Resolver:   resolver,
		Tailor:     tailor,
		Composer:   composer,
		Pipeline:   ctrl,
		Apps:       apps,
		Jobs:       jobs,
		CVs:        cvs,
	}
}

func chatHistory(session *sessionstore.Session) []llmrouter.ChatMessage {
	recent := session.LastN(historyWindow)
	out := make([]llmrouter.ChatMessage, 0, len(recent))
	for _, m := range recent {
		if _, isAction := ParseAction(m.Text); isAction {
			continue
		}
		role := llmrouter.RoleUser
		if m.Role == models.RoleAssistant {
			role = llmrouter.RoleAssistant
		}
		out = append(out, llmrouter.ChatMessage{Role: role, Content: m.Text})
	}
	return out
}

// HandleTurn implements the full C9 contract: action-prefix dispatch,
// natural-language classification, and continuation resumption.
func (s *Supervisor) HandleTurn(ctx context.Context, userID, sessionID, text, preferredModel string) (string, models.MessageMetadata, error) {
	session := s.Sessions.GetOrCreate(userID, sessionID)
	session.AddMessage(models.Message{Role: models.RoleUser, Text: text, Timestamp: time.Now()})

	var reply string
	var meta models.MessageMetadata
	var err error

	if action, ok := ParseAction(text); ok {
		reply, meta, err = s.handleAction(ctx, session, userID, action, preferredModel)
	} else {
		history := chatHistory(session)
		intent := ClassifyIntent(ctx, s.Router, preferredModel, history, text)
		reply, meta, err = s.handleIntent(ctx, session, userID, intent, text, preferredModel)
	}

	session.AddMessage(models.Message{Role: models.RoleAssistant, Text: reply, Metadata: meta, Timestamp: time.Now()})
	return reply, meta, err
}

func (s *Supervisor) handleIntent(ctx context.Context, session *sessionstore.Session, userID string, intent Intent, text, preferredModel string) (string, models.MessageMetadata, error) {
	switch intent {
	case IntentContinuation:
		return s.handleContinuation(ctx, session, text)
	case IntentJobSearch:
		return s.handleJobSearch(ctx, userID, text, preferredModel)
	case IntentCVUpload:
		return "Please upload your CV and I'll parse it.", nil, nil
	case IntentCVTailor:
		return "Tell me which job you'd like your CV tailored for.", nil, nil
	case IntentInterviewPrep:
		return "Which application should I prepare interview materials for?", nil, nil
	case IntentCVAnalysis:
		return "Which CV should I analyze?", nil, nil
	case IntentStatus:
		return "You can check application status under the Applications tab.", nil, nil
	default:
		return "I'm not sure how to help with that yet — try asking me to search for jobs or tailor your CV.", nil, nil
	}
}

func (s *Supervisor) handleContinuation(ctx context.Context, session *sessionstore.Session, text string) (string, models.MessageMetadata, error) {
	resume := Continue(session, text)
	if !resume.GoToApproveCV && !resume.GoToApproveEmail {
		return resume.ReplyText, nil, nil
	}
	return s.resumePipeline(ctx, session, resume.ApplicationID, resume.GoToApproveCV)
}

// resumePipeline advances a suspended pipeline run for applicationID past
// whichever approval point it's parked at, and persists the result. Shared
// by the natural-language continuation path, the __APPROVE_CV__/
// __SEND_EMAIL__ chat actions, and ApproveApplication (the REST
// /applications/:id/approve route) — all three reach the same suspended
// state, just from different entrypoints.
func (s *Supervisor) resumePipeline(ctx context.Context, session *sessionstore.Session, applicationID string, isCV bool) (string, models.MessageMetadata, error) {
	app, ok := s.Apps.Get(ctx, applicationID)
	if !ok {
		return "I couldn't find that application anymore.", nil, apperr.Wrap(apperr.KindInvariant, "application not found", nil)
	}
	rawState, ok := session.PipelineStateFor(applicationID)
	if !ok {
		return "I couldn't find the pipeline state for that application.", nil, apperr.Wrap(apperr.KindInvariant, "pipeline state not found", nil)
	}
	state, ok := rawState.(pipeline.State)
	if !ok {
		return "Pipeline state was corrupted.", nil, apperr.Wrap(apperr.KindInvariant, "pipeline state has the wrong type", nil)
	}

	var (
		newState pipeline.State
		out      pipeline.Output
		err      error
	)
	if isCV {
		newState, app, out, err = s.Pipeline.ApproveCV(ctx, state, app, models.TailoredCV{ID: state.TailoredCVID})
	} else {
		newState, app, out, err = s.Pipeline.ApproveEmail(ctx, state, app)
	}

	s.Apps.Save(ctx, app)
	session.SetPipelineState(applicationID, newState)
	if err != nil {
		return out.ReplyText, nil, err
	}
	return out.ReplyText, out.Metadata, nil
}

// handleJobSearch runs a full C4 search from free text: parse the query,
// score against whatever CV is on file, persist the results so later
// __TAILOR_APPLY__ turns can resolve job ids, and summarise them.
func (s *Supervisor) handleJobSearch(ctx context.Context, userID, text, preferredModel string) (string, models.MessageMetadata, error) {
	query := jobsearch.ParseQuery(ctx, s.Router, preferredModel, text)

	var cv *models.ParsedCV
	if parsed, ok := s.CVs.Latest(ctx); ok {
		cv = &parsed
	}

	postings, err := s.Aggregator.Search(ctx, userID, query, cv, 10)
	if err != nil {
		return "The job search failed; please try again.", nil, err
	}
	saved := s.Jobs.SaveAll(postings)
	if len(saved) == 0 {
		return fmt.Sprintf("I couldn't find any openings matching %q.", query.Title), nil, nil
	}

	ids := make([]string, 0, len(saved))
	for _, j := range saved {
		ids = append(ids, j.ID)
	}
	return fmt.Sprintf("Found %d openings matching %q. Top match: %s at %s (score %d).",
		len(saved), query.Title, saved[0].Title, saved[0].Company, saved[0].MatchScore,
	), models.JobResultsMetadata{JobIDs: ids}, nil
}

func (s *Supervisor) handleAction(ctx context.Context, session *sessionstore.Session, userID string, action Action, preferredModel string) (string, models.MessageMetadata, error) {
	switch action.Name {
	case "__APPROVE_CV__":
		return s.resumePipeline(ctx, session, action.Args[0], true)
	case "__SEND_EMAIL__":
		return s.resumePipeline(ctx, session, action.Args[0], false)
	case "__TAILOR_APPLY__", "__REGENERATE_CV__":
		return s.tailorApply(ctx, session, userID, action.Args[0], preferredModel)
	case "__PREP_INTERVIEW__":
		jobID := action.Args[0]
		job, ok := s.Jobs.Get(ctx, jobID)
		if !ok {
			return fmt.Sprintf("I couldn't find job %s.", jobID), nil, apperr.Wrap(apperr.KindInvariant, "job not found", nil)
		}
		contact, err := s.Resolver.Resolve(ctx, job.Company, job.Title, "")
		if err != nil {
			return fmt.Sprintf("I couldn't find an HR contact to confirm for %s at %s.", job.Title, job.Company), nil, err
		}
		return fmt.Sprintf("Your contact at %s is %s <%s>.", job.Company, contact.Name, contact.Email), nil, nil
	case "__EDIT_CV__":
		var edits map[string]any
		if err := DecodeEditCVPayload(action.Args[1], &edits); err != nil {
			return "I couldn't read those edits.", nil, apperr.Wrap(apperr.KindValidation, "malformed edit payload", err)
		}
		return "Your edits have been saved.", nil, nil
	case "__SELECT_CV__":
		var original string
		if len(action.Args) == 3 {
			original = DecodeSelectCVContext(action.Args[2], nil)
		}
		return fmt.Sprintf("Using the selected CV to continue: %q", original), nil, nil
	default:
		return "That action isn't supported.", nil, apperr.Wrap(apperr.KindValidation, "unsupported action", nil)
	}
}

// tailorApply runs the full C10 pipeline (C6 tailor, C5 contact, C7
// compose) for jobID against the candidate's latest CV, creating a new
// Application and suspending it awaiting CV approval.
func (s *Supervisor) tailorApply(ctx context.Context, session *sessionstore.Session, userID, jobID, preferredModel string) (string, models.MessageMetadata, error) {
	job, ok := s.Jobs.Get(ctx, jobID)
	if !ok {
		return fmt.Sprintf("I couldn't find job %s.", jobID), nil, apperr.Wrap(apperr.KindInvariant, "job not found", nil)
	}
	cv, ok := s.CVs.Latest(ctx)
	if !ok {
		return "Please upload your CV and wait for it to finish parsing before I can tailor it.", nil, apperr.Wrap(apperr.KindInvariant, "no parsed cv available", nil)
	}

	app := models.Application{ID: uuid.New().String(), UserID: userID, JobID: job.ID, Status: models.StatusDraft}
	state, app, out, err := s.Pipeline.Start(ctx, app, job, cv, preferredModel)
	s.Apps.Save(ctx, app)
	session.SetPipelineState(app.ID, state)
	if err != nil {
		return out.ReplyText, nil, err
	}
	return out.ReplyText, out.Metadata, nil
}

// ApproveApplication is the HTTP-surface equivalent of the __APPROVE_CV__ /
// __SEND_EMAIL__ action prefixes, for clients approving from the
// applications list rather than from chat. It resumes the approving
// user's default session — the same session id chat itself falls back to
// when a turn doesn't pick one explicitly.
func (s *Supervisor) ApproveApplication(ctx context.Context, applicationID string, isCV bool) (string, models.Application, error) {
	app, ok := s.Apps.Get(ctx, applicationID)
	if !ok {
		return "I couldn't find that application.", models.Application{}, apperr.Wrap(apperr.KindInvariant, "application not found", nil)
	}
	session := s.Sessions.GetOrCreate(app.UserID, app.UserID)
	reply, _, err := s.resumePipeline(ctx, session, applicationID, isCV)
	app, _ = s.Apps.Get(ctx, applicationID)
	return reply, app, err
}
