package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/bowjob/jobagent/pkg/cvtailor"
	"github.com/bowjob/jobagent/pkg/emailcomposer"
	"github.com/bowjob/jobagent/pkg/hrresolver"
	"github.com/bowjob/jobagent/pkg/jobsearch"
	"github.com/bowjob/jobagent/pkg/llmrouter"
	"github.com/bowjob/jobagent/pkg/models"
	"github.com/bowjob/jobagent/pkg/pipeline"
	"github.com/bowjob/jobagent/pkg/quota"
	"github.com/bowjob/jobagent/pkg/sessionstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApps struct {
	apps map[string]models.Application
}

func newFakeApps() *fakeApps { return &fakeApps{apps: map[string]models.Application{}} }

func (f *fakeApps) Get(ctx context.Context, id string) (models.Application, bool) {
	app, ok := f.apps[id]
	return app, ok
}
func (f *fakeApps) Save(ctx context.Context, app models.Application) { f.apps[app.ID] = app }

type fakeJobs struct{ jobs map[string]models.JobPosting }

func (f *fakeJobs) Get(ctx context.Context, id string) (models.JobPosting, bool) {
	j, ok := f.jobs[id]
	return j, ok
}

func (f *fakeJobs) SaveAll(postings []models.JobPosting) []models.JobPosting {
	for _, j := range postings {
		f.jobs[j.ID] = j
	}
	return postings
}

type fakeCVs struct {
	cvs    map[string]models.ParsedCV
	latest string
}

func (f *fakeCVs) Get(ctx context.Context, id string) (models.ParsedCV, bool) {
	c, ok := f.cvs[id]
	return c, ok
}

func (f *fakeCVs) Latest(ctx context.Context) (models.ParsedCV, bool) {
	c, ok := f.cvs[f.latest]
	return c, ok
}

type stubBackendSupervisor struct{ content string }

func (s *stubBackendSupervisor) Complete(ctx context.Context, req llmrouter.ChatRequest) (llmrouter.ChatResponse, error) {
	return llmrouter.ChatResponse{Content: s.content}, nil
}

func routerWith(content string) *llmrouter.Router {
	return llmrouter.NewRouter([]llmrouter.ModelSpec{
		{Provider: "test", ModelID: "m1", Backend: &stubBackendSupervisor{content: content}, Credentialed: func() bool { return true }, Timeout: time.Second},
	}, llmrouter.FallbackChain{"m1"}, quota.NewLedger(nil))
}

type stubHRProvider struct{ contact models.HRContact }

func (p *stubHRProvider) Name() string       { return "p" }
func (p *stubHRProvider) Credentialed() bool { return true }
func (p *stubHRProvider) Lookup(ctx context.Context, company, role, domain string) (models.HRContact, error) {
	return p.contact, nil
}

type stubPDF struct{}

func (stubPDF) Render(ctx context.Context, cv models.TailoredCV) ([]byte, error) { return []byte("pdf"), nil }

type stubMailer struct{}

func (stubMailer) Send(ctx context.Context, to, subject, body string, attachment []byte) error { return nil }

func newTestSupervisor() (*Supervisor, *fakeApps) {
	router := routerWith(`{}`)
	tailor := cvtailor.NewTailor(router)
	composer := emailcomposer.NewComposer(routerWith(`{"subject":"s","body":"b"}`))
	resolver := hrresolver.NewResolver(&stubHRProvider{contact: models.HRContact{Email: "sam@acme.example", Verified: true}})
	ctrl := pipeline.NewController(tailor, resolver, composer, stubPDF{}, stubMailer{}, nil)
	aggregator := jobsearch.NewAggregator(resolver, nil)

	apps := newFakeApps()
	sup := New(sessionstore.NewStore(), router, aggregator, resolver, tailor, composer, ctrl, apps, &fakeJobs{jobs: map[string]models.JobPosting{}}, &fakeCVs{cvs: map[string]models.ParsedCV{}})
	return sup, apps
}

func TestHandleTurn_ActionPrefixUnsupported(t *testing.T) {
	sup, _ := newTestSupervisor()
	reply, meta, err := sup.HandleTurn(context.Background(), "u1", "s1", "__NOT_A_REAL_ACTION__:x", "")
	require.Error(t, err)
	assert.Nil(t, meta)
	assert.Contains(t, reply, "not supported")
}

func TestHandleTurn_NoPendingContinuation(t *testing.T) {
	sup, _ := newTestSupervisor()
	reply, _, err := sup.HandleTurn(context.Background(), "u1", "s1", "yes", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "nothing pending")
}

type fixtureProvider struct{ postings []models.JobPosting }

func (p *fixtureProvider) Name() string         { return "fixture" }
func (p *fixtureProvider) Timeout() time.Duration { return time.Second }
func (p *fixtureProvider) Search(ctx context.Context, query models.Query) ([]models.JobPosting, error) {
	return p.postings, nil
}

func TestHandleTurn_TailorApplyAction_RunsFullPipeline(t *testing.T) {
	sup, apps := newTestSupervisor()
	sup.Jobs = &fakeJobs{jobs: map[string]models.JobPosting{
		"job-1": {ID: "job-1", Title: "Engineer", Company: "Acme"},
	}}
	sup.CVs = &fakeCVs{
		cvs:    map[string]models.ParsedCV{"cv-1": {ID: "cv-1"}},
		latest: "cv-1",
	}

	reply, meta, err := sup.HandleTurn(context.Background(), "u1", "s1", "__TAILOR_APPLY__:job-1", "")
	require.NoError(t, err)
	require.IsType(t, models.CVReviewMetadata{}, meta)
	assert.NotEmpty(t, reply)

	review := meta.(models.CVReviewMetadata)
	app, ok := apps.Get(context.Background(), review.ApplicationID)
	require.True(t, ok)
	assert.Equal(t, models.StatusPendingApproval, app.Status)
	assert.Equal(t, "job-1", app.JobID)
}

func TestHandleTurn_PrepInterviewAction_ResolvesContact(t *testing.T) {
	sup, _ := newTestSupervisor()
	sup.Jobs = &fakeJobs{jobs: map[string]models.JobPosting{
		"job-1": {ID: "job-1", Title: "Engineer", Company: "Acme"},
	}}

	reply, meta, err := sup.HandleTurn(context.Background(), "u1", "s1", "__PREP_INTERVIEW__:job-1", "")
	require.NoError(t, err)
	assert.Nil(t, meta)
	assert.Contains(t, reply, "sam@acme.example")
}

func TestHandleTurn_JobSearchIntent_PersistsAndScoresResults(t *testing.T) {
	sup, _ := newTestSupervisor()
	resolver := hrresolver.NewResolver(&stubHRProvider{contact: models.HRContact{Email: "sam@acme.example", Verified: true}})
	provider := &fixtureProvider{postings: []models.JobPosting{
		{ID: "job-1", Title: "Engineer", Company: "Acme"},
	}}
	sup.Aggregator = jobsearch.NewAggregator(resolver, nil, provider)
	jobs := &fakeJobs{jobs: map[string]models.JobPosting{}}
	sup.Jobs = jobs

	reply, meta, err := sup.HandleTurn(context.Background(), "u1", "s1", "find a job as an engineer", "")
	require.NoError(t, err)
	require.IsType(t, models.JobResultsMetadata{}, meta)
	results := meta.(models.JobResultsMetadata)
	require.Len(t, results.JobIDs, 1)
	assert.Contains(t, reply, "Acme")

	_, ok := jobs.Get(context.Background(), results.JobIDs[0])
	assert.True(t, ok, "search results must be persisted so a later __TAILOR_APPLY__ can resolve them")
}

func TestHandleTurn_FullPipelineViaContinuation(t *testing.T) {
	sup, apps := newTestSupervisor()

	router := routerWith(`{}`)
	tailor := cvtailor.NewTailor(router)
	composer := emailcomposer.NewComposer(routerWith(`{"subject":"s","body":"b"}`))
	resolver := hrresolver.NewResolver(&stubHRProvider{contact: models.HRContact{Email: "sam@acme.example", Verified: true}})
	ctrl := pipeline.NewController(tailor, resolver, composer, stubPDF{}, stubMailer{}, nil)
	sup.Pipeline = ctrl

	app := models.Application{ID: "app-1", UserID: "u1"}
	job := models.JobPosting{ID: "job-1", Title: "Engineer", Company: "Acme"}
	state, app, out, err := ctrl.Start(context.Background(), app, job, models.ParsedCV{}, "")
	require.NoError(t, err)
	apps.Save(context.Background(), app)

	session := sup.Sessions.GetOrCreate("u1", "s1")
	session.SetPipelineState("app-1", state)
	session.AddMessage(models.Message{Role: models.RoleAssistant, Text: out.ReplyText, Metadata: out.Metadata, Timestamp: time.Now()})

	reply, meta, err := sup.HandleTurn(context.Background(), "u1", "s1", "yes approve", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "rendered")
	require.IsType(t, models.EmailReviewMetadata{}, meta)

	reply, meta, err = sup.HandleTurn(context.Background(), "u1", "s1", "send it", "")
	require.NoError(t, err)
	assert.Contains(t, reply, "Application sent")
	require.IsType(t, models.ApplicationSentMetadata{}, meta)

	finalApp, _ := apps.Get(context.Background(), "app-1")
	assert.Equal(t, models.StatusSent, finalApp.Status)
}
