package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/bowjob/jobagent/pkg/apperr"
	"github.com/bowjob/jobagent/pkg/cvtailor"
	"github.com/bowjob/jobagent/pkg/emailcomposer"
	"github.com/bowjob/jobagent/pkg/eventbus"
	"github.com/bowjob/jobagent/pkg/hrresolver"
	"github.com/bowjob/jobagent/pkg/models"
)

// Output is what a transition hands back to the caller (the supervisor),
// for it to turn into a chat reply: a message plus the metadata tag the
// next continuation turn will read back. EmailDraft is only populated by
// Start, once C7 has produced something for the eventual email-approval
// step to send.
type Output struct {
	ReplyText  string
	Metadata   models.MessageMetadata
	EmailDraft emailcomposer.Draft
}

// Controller drives one Application through C6/C7 with two human-approval
// suspension points. It holds no storage of its own: State and
// models.Application are threaded through explicitly by the caller, which
// is free to persist them however it likes (here: sessionstore's pipeline
// state field).
type Controller struct {
	Tailor      *cvtailor.Tailor
	Resolver    *hrresolver.Resolver
	Composer    *emailcomposer.Composer
	PDFRenderer PDFRenderer
	EmailSender EmailSender
	Bus         *eventbus.Bus
}

func NewController(tailor *cvtailor.Tailor, resolver *hrresolver.Resolver, composer *emailcomposer.Composer, pdf PDFRenderer, mailer EmailSender, bus *eventbus.Bus) *Controller {
	return &Controller{Tailor: tailor, Resolver: resolver, Composer: composer, PDFRenderer: pdf, EmailSender: mailer, Bus: bus}
}

func (c *Controller) emit(userID string, step string, applicationID string) {
	if c.Bus == nil {
		return
	}
	c.Bus.Emit(userID, eventbus.WorkflowUpdate{ApplicationID: applicationID, Step: step})
}

// Start runs tailor_cv -> load_hr_contact (with stale re-resolution) ->
// compose_email, then suspends awaiting CV approval. A missing or stale HR
// contact is re-resolved; if re-resolution finds no acceptable contact the
// run aborts rather than ever sending to a guessed address.
func (c *Controller) Start(ctx context.Context, app models.Application, job models.JobPosting, cv models.ParsedCV, preferredModel string) (State, models.Application, Output, error) {
	state := State{Step: StepStart, ApplicationID: app.ID, JobID: job.ID, UserID: app.UserID}

	c.emit(app.UserID, string(StepTailorCV), app.ID)
	tailored, err := c.Tailor.Tailor(ctx, cv, job, preferredModel)
	if err != nil {
		return c.abort(state, app, fmt.Sprintf("Could not tailor a CV for this role: %v", err))
	}
	app.TailoredCVID = tailored.ID
	app.Status = models.StatusDraft

	contact := job.HRContact
	c.emit(app.UserID, string(StepLoadHRContact), app.ID)
	if contact == nil || contact.Stale() {
		resolved, resolveErr := c.Resolver.Resolve(ctx, job.Company, job.Title, "")
		if resolveErr != nil {
			return c.abort(state, app, fmt.Sprintf("No usable HR contact found for %s at %s; skipping this job.", job.Title, job.Company))
		}
		contact = &resolved
	}
	app.Contact = *contact
	app.RecipientEmail = contact.Email

	c.emit(app.UserID, string(StepComposeEmail), app.ID)
	draft, err := c.Composer.Compose(ctx, job, tailored.Tailored, *contact, preferredModel)
	if err != nil {
		return c.abort(state, app, fmt.Sprintf("Could not draft an outreach email: %v", err))
	}

	app.Status = models.StatusPendingApproval
	state.Step = StepAwaitCVApproval
	state.TailoredCVID = tailored.ID
	state.Draft = draft

	return state, app, Output{
		ReplyText: fmt.Sprintf("Tailored your CV for %s at %s (match score %d). Review and approve to continue.", job.Title, job.Company, tailored.MatchScore),
		Metadata:  models.CVReviewMetadata{ApplicationID: app.ID, TailoredCVID: tailored.ID},
		EmailDraft: draft,
	}, nil
}

func (c *Controller) abort(state State, app models.Application, reason string) (State, models.Application, Output, error) {
	state.Step = StepAborted
	state.AbortReason = reason
	c.emit(app.UserID, string(StepAborted), app.ID)
	return state, app, Output{ReplyText: reason}, apperr.Wrap(apperr.KindInvariant, reason, nil)
}

// ApproveCV advances a suspended pipeline past the CV-approval point:
// render the PDF, then suspend again awaiting email approval. Calling
// this when state.Step != StepAwaitCVApproval is a programmer error in
// the caller (the supervisor must gate on continuation + explicit
// approval before invoking it) and returns an invariant error rather than
// silently re-running tailor_cv.
func (c *Controller) ApproveCV(ctx context.Context, state State, app models.Application, tailored models.TailoredCV) (State, models.Application, Output, error) {
	if state.Step != StepAwaitCVApproval {
		return state, app, Output{}, apperr.Wrap(apperr.KindInvariant, "CV is not awaiting approval", nil)
	}

	c.emit(app.UserID, string(StepRenderPDF), app.ID)
	pdf, err := c.PDFRenderer.Render(ctx, tailored)
	if err != nil {
		return c.abort(state, app, fmt.Sprintf("Could not render the CV to PDF: %v", err))
	}

	app.Status = models.StatusCVApproved
	state.Step = StepAwaitEmailApproval
	state.PDFBytes = pdf

	return state, app, Output{
		ReplyText: "CV approved and rendered. Review the draft email and approve to send.",
		Metadata:  models.EmailReviewMetadata{ApplicationID: app.ID, Subject: state.Draft.Subject},
	}, nil
}

// ApproveEmail sends the composed email with the rendered CV attached and
// classifies any send failure into an actionable category.
func (c *Controller) ApproveEmail(ctx context.Context, state State, app models.Application) (State, models.Application, Output, error) {
	if state.Step != StepAwaitEmailApproval {
		return state, app, Output{}, apperr.Wrap(apperr.KindInvariant, "email is not awaiting approval", nil)
	}

	c.emit(app.UserID, string(StepSendEmail), app.ID)
	err := c.EmailSender.Send(ctx, app.RecipientEmail, state.Draft.Subject, state.Draft.Body, state.PDFBytes)
	if err != nil {
		app.Status = models.StatusSendFailed
		app.LastError = err.Error()
		state.Step = StepAborted

		switch {
		case apperr.Is(err, apperr.KindAuthRevoked):
			return state, app, Output{ReplyText: "Your mailer connection has expired. Please reconnect it and retry sending."}, err
		case apperr.Is(err, apperr.KindTransient):
			return state, app, Output{ReplyText: "Sending failed due to a temporary error. You can retry."}, err
		default:
			return state, app, Output{ReplyText: "Sending failed due to a configuration issue. Please check your mailer setup."}, err
		}
	}

	app.Status = models.StatusSent
	app.SentAt = time.Now()
	state.Step = StepApplicationSent

	return state, app, Output{
		ReplyText: fmt.Sprintf("Application sent for job %s. Want me to suggest the next one?", state.JobID),
		Metadata:  models.ApplicationSentMetadata{ApplicationID: app.ID},
	}, nil
}
