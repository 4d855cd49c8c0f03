package models

import "time"

// Skills groups a CV's skill strings by the categories the original Python
// CV-tailor agent used (see original_source/agents/cv_tailor.py), kept here
// as a typed struct rather than an open map so merge logic (pkg/cvtailor)
// can address each bucket by name.
type Skills struct {
	Technical []string
	Tools     []string
	Soft      []string
}

// All returns every skill string across all buckets, for keyword-density
// scoring.
func (s Skills) All() []string {
	out := make([]string, 0, len(s.Technical)+len(s.Tools)+len(s.Soft))
	out = append(out, s.Technical...)
	out = append(out, s.Tools...)
	out = append(out, s.Soft...)
	return out
}

type WorkExperience struct {
	Company      string
	Title        string
	StartYear    int
	EndYear      int // 0 means "present"
	Achievements []string
	Tag          string // "new" when added by the tailor, "" for original entries
}

type Education struct {
	Institution string
	Degree      string
	Field       string
	GradYear    int
}

type Project struct {
	Name        string
	Description string
	Tag         string
}

// ParsedCV is the structured résumé the pipeline operates on. File parsing
// (PDF/DOCX -> ParsedCV) is out of scope per SPEC_FULL.md §1; the core
// accepts an already-parsed ParsedCV at its boundary (SPEC_FULL.md §3.1).
type ParsedCV struct {
	ID              string
	FullName        string
	Contact         string
	Summary         string
	Skills          Skills
	WorkExperience  []WorkExperience
	Education       []Education
	Projects        []Project
	Certifications  []string
}

// RealExperienceCount is the count of work-experience entries present
// before tailoring — the basis of the §4.6 fabrication cap.
func (c ParsedCV) RealExperienceCount() int {
	n := 0
	for _, e := range c.WorkExperience {
		if e.Tag != "new" {
			n++
		}
	}
	return n
}

// ChangeLogEntry summarises one category of edit the tailor made.
type ChangeLogEntry struct {
	Category string // e.g. "skills_added", "experience_added", "summary_rewritten"
	Detail   string
}

// Rating is the human-readable score band (§4.6 step 5).
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
)

// RatingFor maps a clamped [0,100] score to its band.
func RatingFor(score int) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 65:
		return RatingGood
	case score >= 50:
		return RatingFair
	default:
		return RatingPoor
	}
}

// TailoredCV is the result of C6: the merged CV plus cover letter, change
// log and scores. Score invariant: each score is in [0,100].
type TailoredCV struct {
	ID            string
	OriginalRef   string // ParsedCV.ID
	JobRef        string // JobPosting.ID
	Tailored      ParsedCV
	CoverLetter   string
	ChangeLog     []ChangeLogEntry
	ATSScore      int
	MatchScore    int
	CreatedAt     time.Time
}

// ApplicationStatus is the monotonic status sequence of an Application
// (§3: draft -> pending_approval -> cv_approved -> sent | send_failed).
type ApplicationStatus string

const (
	StatusDraft           ApplicationStatus = "draft"
	StatusPendingApproval ApplicationStatus = "pending_approval"
	StatusCVApproved      ApplicationStatus = "cv_approved"
	StatusSent            ApplicationStatus = "sent"
	StatusSendFailed      ApplicationStatus = "send_failed"
)

// statusRank gives each status a position in the monotonic sequence so
// callers can assert forward-only transitions without hard-coding the
// comparison at every call site.
var statusRank = map[ApplicationStatus]int{
	StatusDraft:           0,
	StatusPendingApproval: 1,
	StatusCVApproved:      2,
	StatusSent:            3,
	StatusSendFailed:      3, // sibling terminal state to sent, not downstream of it
}

// CanTransition reports whether moving from s to next respects the
// monotonic ordering (send_failed is reachable from cv_approved directly,
// same rank as sent, and is not itself a predecessor of anything).
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	if s == StatusSent || s == StatusSendFailed {
		return false
	}
	return statusRank[next] > statusRank[s] || (s == StatusCVApproved && next == StatusSendFailed)
}

// Application is a single job-specific submission instance owned by a user.
// It owns at most one TailoredCV and exactly one HRContact.
type Application struct {
	ID            string
	UserID        string
	JobID         string
	Status        ApplicationStatus
	TailoredCVID  string
	Contact       HRContact
	RecipientEmail string
	SentAt        time.Time
	LastError     string
}
