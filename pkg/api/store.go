package api

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bowjob/jobagent/pkg/models"
)

// Relational persistence is explicitly out of scope. The stores below are
// the process's only copy of this state — sufficient to drive the API
// surface and the Supervisor's Applications/Jobs/CVs dependencies, and
// swappable for a real repository without touching any handler.

// AppStore is the in-memory Applications repository, satisfying
// supervisor.Applications.
type AppStore struct {
	mu   sync.RWMutex
	apps map[string]models.Application
}

func NewAppStore() *AppStore { return &AppStore{apps: make(map[string]models.Application)} }

func (s *AppStore) Get(ctx context.Context, id string) (models.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	return app, ok
}

func (s *AppStore) Save(ctx context.Context, app models.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.ID] = app
}

func (s *AppStore) List(ctx context.Context, userID string) []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, 0)
	for _, app := range s.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	return out
}

// SentApplications returns every application awaiting a reply, across all
// users — the view the Reply Watcher polls (it owns no application storage
// of its own).
func (s *AppStore) SentApplications(ctx context.Context) []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, 0)
	for _, app := range s.apps {
		if app.Status == models.StatusSent {
			out = append(out, app)
		}
	}
	return out
}

// JobStore is the in-memory Jobs repository, satisfying supervisor.Jobs.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]models.JobPosting
}

func NewJobStore() *JobStore { return &JobStore{jobs: make(map[string]models.JobPosting)} }

func (s *JobStore) Get(ctx context.Context, id string) (models.JobPosting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

// SaveAll assigns an id to any posting missing one and stores the whole
// batch, returning the (possibly id-assigned) postings in the same order.
func (s *JobStore) SaveAll(postings []models.JobPosting) []models.JobPosting {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.JobPosting, len(postings))
	for i, j := range postings {
		if j.ID == "" {
			j.ID = uuid.New().String()
		}
		s.jobs[j.ID] = j
		out[i] = j
	}
	return out
}

func (s *JobStore) List() []models.JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.JobPosting, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out
}

// CVRecord wraps a CV upload. Parsed is nil until a parser (out of scope)
// fills it in; handlers report that as "still processing" rather than an
// error.
type CVRecord struct {
	ID       string
	Filename string
	Parsed   *models.ParsedCV
	Tailored map[string]models.TailoredCV // keyed by TailoredCV.ID
}

// CVStore is the in-memory CVs repository, satisfying supervisor.CVs.
type CVStore struct {
	mu     sync.RWMutex
	cvs    map[string]*CVRecord
	lastID string // most recently created upload, for supervisor.CVs.Latest
}

func NewCVStore() *CVStore { return &CVStore{cvs: make(map[string]*CVRecord)} }

// Create registers a new, as-yet-unparsed upload and returns its id.
func (s *CVStore) Create(filename string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.cvs[id] = &CVRecord{ID: id, Filename: filename, Tailored: map[string]models.TailoredCV{}}
	s.lastID = id
	return id
}

// SetParsed records the parsed result for a previously created upload, for
// callers that parse synchronously (tests, or a future background worker).
func (s *CVStore) SetParsed(id string, cv models.ParsedCV) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.cvs[id]
	if !ok {
		rec = &CVRecord{ID: id, Tailored: map[string]models.TailoredCV{}}
		s.cvs[id] = rec
	}
	cv.ID = id
	rec.Parsed = &cv
}

func (s *CVStore) Record(id string) (*CVRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.cvs[id]
	return rec, ok
}

func (s *CVStore) List() []*CVRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*CVRecord, 0, len(s.cvs))
	for _, rec := range s.cvs {
		out = append(out, rec)
	}
	return out
}

func (s *CVStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cvs[id]; !ok {
		return false
	}
	delete(s.cvs, id)
	return true
}

// SaveTailored attaches a TailoredCV to its original CV's record.
func (s *CVStore) SaveTailored(tailored models.TailoredCV) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.cvs[tailored.OriginalRef]
	if !ok {
		return
	}
	rec.Tailored[tailored.ID] = tailored
}

// FindTailored looks up a TailoredCV by id across all records.
func (s *CVStore) FindTailored(id string) (models.TailoredCV, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.cvs {
		if t, ok := rec.Tailored[id]; ok {
			return t, true
		}
	}
	return models.TailoredCV{}, false
}

// Get implements supervisor.CVs: resolves a stored, already-parsed CV by
// id. Unparsed uploads report not-found, matching "polling returns it when
// ready".
func (s *CVStore) Get(ctx context.Context, id string) (models.ParsedCV, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.cvs[id]
	if !ok || rec.Parsed == nil {
		return models.ParsedCV{}, false
	}
	return *rec.Parsed, true
}

// Latest implements supervisor.CVs: resolves the most recently uploaded,
// already-parsed CV. CV uploads aren't scoped by user (no accounts are
// modeled), so this is the single candidate CV the action-prefix protocol
// implicitly tailors against when a chat action names a job but no CV.
func (s *CVStore) Latest(ctx context.Context) (models.ParsedCV, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastID == "" {
		return models.ParsedCV{}, false
	}
	rec, ok := s.cvs[s.lastID]
	if !ok || rec.Parsed == nil {
		return models.ParsedCV{}, false
	}
	return *rec.Parsed, true
}
