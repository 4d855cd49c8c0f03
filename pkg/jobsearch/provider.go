package jobsearch

import (
	"context"
	"time"

	"github.com/bowjob/jobagent/pkg/models"
)

// ProviderAdapter normalises one job board's schema into JobPosting. A
// failing adapter (any error or timeout) is logged and skipped; its
// absence never aborts the aggregation (SPEC_FULL.md §4.4 step 2).
type ProviderAdapter interface {
	Name() string
	Search(ctx context.Context, query models.Query) ([]models.JobPosting, error)
	// Timeout bounds this provider's call.
	Timeout() time.Duration
}
