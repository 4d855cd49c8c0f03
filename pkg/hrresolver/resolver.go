// Package hrresolver implements the HR Contact Resolver (C5): an ordered
// list of lookup providers tried in turn, accepting the first response
// that satisfies the acceptance rule, and otherwise returning a normal
// (non-exceptional) not-found outcome with accumulated per-provider
// errors. Grounded on original_source/agents/hr_finder.py's provider-loop
// shape, tightened to SPEC_FULL.md §4.5's stricter acceptance rule — the
// Python's heuristic_fallback guessed-address behaviour
// ("careers@{company}.com") is deliberately NOT ported: the resolver must
// never fabricate an email.
package hrresolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/bowjob/jobagent/pkg/models"
)

// ContactProvider looks up a recruiter contact for a company/role. Each
// provider is tried only if its credential is configured (Credentialed).
type ContactProvider interface {
	Name() string
	Credentialed() bool
	Lookup(ctx context.Context, company, role, domain string) (models.HRContact, error)
}

// NotFoundError is returned when no provider produced an acceptable
// contact. It is a normal outcome, not a failure to be logged as an error
// — callers should branch on errors.As, never treat this as a crash.
type NotFoundError struct {
	Company       string
	ProviderErrors []error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("hrresolver: no verified contact found for %q (%d provider errors)", e.Company, len(e.ProviderErrors))
}

type Resolver struct {
	providers []ContactProvider
}

func NewResolver(providers ...ContactProvider) *Resolver {
	return &Resolver{providers: providers}
}

// Resolve tries each configured provider in order, accepting the first
// response satisfying models.HRContact.Acceptable. A NotFoundError is
// returned (not a generic error) when every provider is skipped or
// returns an unacceptable/absent contact.
func (r *Resolver) Resolve(ctx context.Context, company, role, domain string) (models.HRContact, error) {
	var errs []error
	for _, p := range r.providers {
		if !p.Credentialed() {
			continue
		}
		contact, err := p.Lookup(ctx, company, role, domain)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if contact.Acceptable() {
			return contact, nil
		}
	}
	return models.HRContact{Source: models.HRSourceNotFound}, &NotFoundError{Company: company, ProviderErrors: errs}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
