package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bowjob/jobagent/pkg/apperr"
	"github.com/bowjob/jobagent/pkg/cvtailor"
	"github.com/bowjob/jobagent/pkg/emailcomposer"
	"github.com/bowjob/jobagent/pkg/hrresolver"
	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/models"
	"github.com/bowjob/jobagent/pkg/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	content string
	calls   int
}

func (s *stubBackend) Complete(ctx context.Context, req llmrouter.ChatRequest) (llmrouter.ChatResponse, error) {
	s.calls++
	return llmrouter.ChatResponse{Content: s.content}, nil
}

func testRouter(content string) *llmrouter.Router {
	return llmrouter.NewRouter([]llmrouter.ModelSpec{
		{Provider: "test", ModelID: "m1", Backend: &stubBackend{content: content}, Credentialed: func() bool { return true }, Timeout: time.Second},
	}, llmrouter.FallbackChain{"m1"}, quota.NewLedger(nil))
}

type stubProvider struct {
	name        string
	contact     models.HRContact
	err         error
}

func (p *stubProvider) Name() string         { return p.name }
func (p *stubProvider) Credentialed() bool   { return true }
func (p *stubProvider) Lookup(ctx context.Context, company, role, domain string) (models.HRContact, error) {
	return p.contact, p.err
}

type stubPDF struct{ err error }

func (s *stubPDF) Render(ctx context.Context, cv models.TailoredCV) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-fake"), nil
}

type stubMailer struct{ err error }

func (s *stubMailer) Send(ctx context.Context, to, subject, body string, attachment []byte) error {
	return s.err
}

func newController(tailorContent, composeContent string, contact models.HRContact, pdfErr, mailErr error) *Controller {
	tailor := cvtailor.NewTailor(testRouter(tailorContent))
	composer := emailcomposer.NewComposer(testRouter(composeContent))
	resolver := hrresolver.NewResolver(&stubProvider{name: "p1", contact: contact})
	return NewController(tailor, resolver, composer, &stubPDF{err: pdfErr}, &stubMailer{err: mailErr}, nil)
}

func validContact() models.HRContact {
	return models.HRContact{Name: "Sam", Email: "sam@acme.example", Confidence: 1, Verified: true}
}

func TestController_FullHappyPath(t *testing.T) {
	ctrl := newController(`{}`, `{"subject":"Application","body":"Hi"}`, validContact(), nil, nil)
	app := models.Application{ID: "app-1", UserID: "u1"}
	job := models.JobPosting{ID: "job-1", Title: "Engineer", Company: "Acme"}
	cv := models.ParsedCV{ID: "cv-1"}

	state, app, out, err := ctrl.Start(context.Background(), app, job, cv, "")
	require.NoError(t, err)
	assert.Equal(t, StepAwaitCVApproval, state.Step)
	assert.Equal(t, models.StatusPendingApproval, app.Status)
	require.IsType(t, models.CVReviewMetadata{}, out.Metadata)

	state, app, out, err = ctrl.ApproveCV(context.Background(), state, app, models.TailoredCV{})
	require.NoError(t, err)
	assert.Equal(t, StepAwaitEmailApproval, state.Step)
	assert.Equal(t, models.StatusCVApproved, app.Status)
	require.IsType(t, models.EmailReviewMetadata{}, out.Metadata)

	state, app, out, err = ctrl.ApproveEmail(context.Background(), state, app)
	require.NoError(t, err)
	assert.Equal(t, StepApplicationSent, state.Step)
	assert.Equal(t, models.StatusSent, app.Status)
	assert.False(t, app.SentAt.IsZero(), "a sent application must carry a send timestamp")
	require.IsType(t, models.ApplicationSentMetadata{}, out.Metadata)
}

func TestController_StaleContactTriggersReresolution(t *testing.T) {
	ctrl := newController(`{}`, `{"subject":"s","body":"b"}`, validContact(), nil, nil)
	app := models.Application{ID: "app-1", UserID: "u1"}
	job := models.JobPosting{ID: "job-1", Title: "Engineer", Company: "Acme", HRContact: &models.HRContact{Email: "", Confidence: 0}}
	cv := models.ParsedCV{}

	state, app, _, err := ctrl.Start(context.Background(), app, job, cv, "")
	require.NoError(t, err)
	assert.Equal(t, "sam@acme.example", app.RecipientEmail)
	assert.Equal(t, StepAwaitCVApproval, state.Step)
}

func TestController_NoHRContactAborts(t *testing.T) {
	ctrl := newController(`{}`, `{}`, models.HRContact{}, nil, nil)
	app := models.Application{ID: "app-1", UserID: "u1"}
	job := models.JobPosting{ID: "job-1", Title: "Engineer", Company: "Acme"}

	state, _, out, err := ctrl.Start(context.Background(), app, job, models.ParsedCV{}, "")
	require.Error(t, err)
	assert.Equal(t, StepAborted, state.Step)
	assert.Contains(t, out.ReplyText, "No usable HR contact")
}

func TestController_ApproveCVRejectsWrongStep(t *testing.T) {
	ctrl := newController(`{}`, `{}`, validContact(), nil, nil)
	_, _, _, err := ctrl.ApproveCV(context.Background(), State{Step: StepStart}, models.Application{}, models.TailoredCV{})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvariant))
}

func TestController_SendFailureClassifiesAuthRevoked(t *testing.T) {
	ctrl := newController(`{}`, `{"subject":"s","body":"b"}`, validContact(), nil,
		apperr.Wrap(apperr.KindAuthRevoked, "token revoked", errors.New("401")))
	app := models.Application{ID: "app-1", UserID: "u1"}
	job := models.JobPosting{ID: "job-1", Title: "Engineer", Company: "Acme"}

	state, app, _, _ := ctrl.Start(context.Background(), app, job, models.ParsedCV{}, "")
	state, app, _, err := ctrl.ApproveCV(context.Background(), state, app, models.TailoredCV{})
	require.NoError(t, err)

	_, app, out, err := ctrl.ApproveEmail(context.Background(), state, app)
	require.Error(t, err)
	assert.Equal(t, models.StatusSendFailed, app.Status)
	assert.Contains(t, out.ReplyText, "reconnect")
}

func TestController_NeverRunsTailorTwiceOnResume(t *testing.T) {
	// SPEC_FULL.md §8 scenario 6: resuming at await_cv_approval must not
	// re-invoke Start (and therefore not re-invoke the tailor). Simulated
	// here by asserting ApproveCV alone never touches the tailor backend.
	tailorBackend := &stubBackend{content: `{}`}
	tailor := cvtailor.NewTailor(llmrouter.NewRouter([]llmrouter.ModelSpec{
		{Provider: "test", ModelID: "m1", Backend: tailorBackend, Credentialed: func() bool { return true }, Timeout: time.Second},
	}, llmrouter.FallbackChain{"m1"}, quota.NewLedger(nil)))
	composer := emailcomposer.NewComposer(testRouter(`{"subject":"s","body":"b"}`))
	resolver := hrresolver.NewResolver(&stubProvider{name: "p1", contact: validContact()})
	ctrl := NewController(tailor, resolver, composer, &stubPDF{}, &stubMailer{}, nil)

	app := models.Application{ID: "app-1", UserID: "u1"}
	job := models.JobPosting{ID: "job-1", Title: "Engineer", Company: "Acme"}
	state, app, _, err := ctrl.Start(context.Background(), app, job, models.ParsedCV{}, "")
	require.NoError(t, err)
	callsAfterStart := tailorBackend.calls

	_, _, _, err = ctrl.ApproveCV(context.Background(), state, app, models.TailoredCV{})
	require.NoError(t, err)
	assert.Equal(t, callsAfterStart, tailorBackend.calls, "ApproveCV must not re-invoke the tailor")
}
