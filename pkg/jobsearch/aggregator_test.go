package jobsearch

import (
	"context"
	"testing"
	"time"

	"github.com/bowjob/jobagent/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureProvider struct{ postings []models.JobPosting }

func (p *fixtureProvider) Name() string         { return "fixture" }
func (p *fixtureProvider) Timeout() time.Duration { return time.Second }
func (p *fixtureProvider) Search(ctx context.Context, query models.Query) ([]models.JobPosting, error) {
	return p.postings, nil
}

// TestAggregator_ScoresUsingJobSpecificRequirements guards against scoring
// every posting as if it had no experience or degree requirement: two
// otherwise-identical postings that name different years-of-experience
// requirements must score the underqualified candidate differently.
func TestAggregator_ScoresUsingJobSpecificRequirements(t *testing.T) {
	cv := models.ParsedCV{
		WorkExperience: []models.WorkExperience{
			{Company: "Acme", Title: "Engineer", StartYear: 2021, EndYear: 2024},
		},
	}
	provider := &fixtureProvider{postings: []models.JobPosting{
		{Company: "Low Co", Title: "Engineer A", Requirements: []string{"1+ years experience"}},
		{Company: "High Co", Title: "Engineer B", Requirements: []string{"15+ years experience"}},
	}}
	agg := NewAggregator(nil, nil, provider)

	results, err := agg.Search(context.Background(), "user-1", models.Query{Title: "Engineer"}, &cv, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	scores := map[string]int{}
	for _, r := range results {
		scores[r.Company] = r.MatchScore
	}
	assert.Greater(t, scores["Low Co"], scores["High Co"], "a 3-year candidate should score lower against a 15-year requirement than a 1-year one")
}
