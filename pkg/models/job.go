package models

import "time"

// JobPosting is a normalised job listing produced by the job search
// aggregator. After aggregation, no two postings in the same result set
// share the same normalised (company, title) key (enforced by
// pkg/jobsearch, not here).
type JobPosting struct {
	ID              string
	Title           string
	Company         string
	Location        string
	Salary          string
	Type            string // e.g. "full_time", "contract"
	Description     string
	Requirements    []string
	Sources         []string // provider names contributing to this (post-merge) posting
	ApplicationURL  string
	PostedDate      time.Time
	MatchScore      int // 0-100, set only when a parsed CV was supplied to search()
	HRContact       *HRContact
}

// HRSource is the closed set of provenance tags an HRContact's email may
// carry. Only a subset of these are acceptable for sending (see
// HRContact.Acceptable).
type HRSource string

const (
	HRSourceVerifiedAPI HRSource = "verified_api" // a dedicated email-finder API that confirms deliverability
	HRSourcePublished   HRSource = "published"    // scraped from a company's own careers page
	HRSourceGuess       HRSource = "guess"
	HRSourceLLM         HRSource = "llm"
	HRSourceConstructed HRSource = "constructed" // pattern-built address, e.g. first.last@company.com
	HRSourceNotFound    HRSource = "not_found"
)

// HRContact is a candidate recruiter contact for a (company, role).
type HRContact struct {
	Name       string
	Email      string
	Title      string
	Confidence float64 // in [0,1]
	Source     HRSource
	Verified   bool
}

// lowTrustSources are the sources the acceptance rule in SPEC_FULL.md §4.5
// never accepts on a confidence threshold alone; a contact from one of them
// is acceptable only when verified.
var lowTrustSources = map[HRSource]bool{
	HRSourceGuess:       true,
	HRSourceLLM:         true,
	HRSourceConstructed: true,
	HRSourceNotFound:    true,
}

// Acceptable implements the §4.5 acceptance rule: email present, and either
// verified or confidence >= 0.5 from a non-guess source.
func (c HRContact) Acceptable() bool {
	if c.Email == "" {
		return false
	}
	if c.Verified {
		return true
	}
	return c.Confidence >= 0.5 && !lowTrustSources[c.Source]
}

// Stale reports whether a previously-resolved contact must be re-resolved
// before being used to send mail (SPEC_FULL.md §4.10 "Pre-filter optimisation").
func (c HRContact) Stale() bool {
	if c.Email == "" {
		return true
	}
	if c.Confidence < 0.5 {
		return true
	}
	switch c.Source {
	case HRSourceGuess, HRSourceLLM, HRSourceConstructed, HRSourceNotFound:
		return true
	}
	return false
}
