package jobsearch

import (
	"context"
	"log/slog"
	"time"

	"github.com/bowjob/jobagent/pkg/cvtailor"
	"github.com/bowjob/jobagent/pkg/eventbus"
	"github.com/bowjob/jobagent/pkg/hrresolver"
	"github.com/bowjob/jobagent/pkg/models"
	"golang.org/x/sync/errgroup"
)

// PrefilterConcurrency bounds the HR pre-filter worker pool
// (SPEC_FULL.md §4.4 step 4: "recommended 8 concurrent").
const PrefilterConcurrency = 8

// Aggregator implements C4: fan out to every configured provider, dedup,
// pre-filter on HR contact, score, sort, truncate.
type Aggregator struct {
	providers []ProviderAdapter
	resolver  *hrresolver.Resolver
	bus       *eventbus.Bus
}

func NewAggregator(resolver *hrresolver.Resolver, bus *eventbus.Bus, providers ...ProviderAdapter) *Aggregator {
	return &Aggregator{providers: providers, resolver: resolver, bus: bus}
}

// Search implements the full §4.4 algorithm. cv may be nil, in which case
// postings are returned unscored (MatchScore stays 0), so the sort orders
// them by later posted date first, then by the stable dedup order.
func (a *Aggregator) Search(ctx context.Context, userID string, query models.Query, cv *models.ParsedCV, limit int) ([]models.JobPosting, error) {
	raw := a.fanOut(ctx, userID, query)
	deduped := Dedup(raw)

	prefiltered := a.prefilter(ctx, userID, deduped)

	if cv != nil {
		for i := range prefiltered {
			prefiltered[i].MatchScore = cvtailor.ScoreJob(*cv, prefiltered[i])
		}
	}
	SortByScore(prefiltered)

	if limit > 0 && len(prefiltered) > limit {
		prefiltered = prefiltered[:limit]
	}
	return prefiltered, nil
}

// fanOut invokes every provider concurrently, each bounded by its own
// timeout. A failing provider is logged and skipped — its goroutine
// recovers its own error and reports nil to the group, so one provider's
// failure never cancels its siblings (unlike a plain errgroup.Group, whose
// first non-nil error cancels the shared context for everyone else).
func (a *Aggregator) fanOut(ctx context.Context, userID string, query models.Query) []models.JobPosting {
	if len(a.providers) == 0 {
		slog.Info("jobsearch: no providers configured, returning empty result", "query", query.Title)
		return nil
	}

	results := make([][]models.JobPosting, len(a.providers))
	// A plain Group, not errgroup.WithContext: every goroutine below
	// always returns nil, so a failing provider must never cancel its
	// siblings via the shared-context cancellation WithContext would wire
	// up. Each provider call derives its own timeout context from ctx
	// directly instead.
	var g errgroup.Group

	for i, p := range a.providers {
		i, p := i, p
		g.Go(func() error {
			timeout := p.Timeout()
			if timeout <= 0 {
				timeout = 30 * time.Second
			}
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			postings, err := p.Search(callCtx, query)
			if err != nil {
				slog.Warn("jobsearch: provider failed, skipping", "provider", p.Name(), "error", err)
				return nil
			}
			for j := range postings {
				postings[j].Sources = []string{p.Name()}
			}
			results[i] = postings
			return nil
		})
	}
	_ = g.Wait()

	var all []models.JobPosting
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// prefilter runs the HR pre-filter (§4.4 step 4) through a bounded worker
// pool built from errgroup.SetLimit, the idiomatic modern replacement for
// a hand-rolled semaphore channel. Only postings with an accepted contact
// proceed.
func (a *Aggregator) prefilter(ctx context.Context, userID string, postings []models.JobPosting) []models.JobPosting {
	if a.resolver == nil {
		return postings
	}

	accepted := make([]*models.JobPosting, len(postings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(PrefilterConcurrency)

	for i := range postings {
		i := i
		p := postings[i]
		g.Go(func() error {
			contact, err := a.resolver.Resolve(gctx, p.Company, p.Title, "")
			if err != nil {
				if !hrresolver.IsNotFound(err) {
					slog.Warn("jobsearch: hr resolver error", "company", p.Company, "error", err)
				}
				return nil
			}
			p.HRContact = &contact
			accepted[i] = &p
			if a.bus != nil {
				a.bus.Emit(userID, eventbus.AgentProgress{Agent: "hr_resolver", Message: "verified contact found for " + p.Company})
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.JobPosting, 0, len(postings))
	for _, p := range accepted {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
