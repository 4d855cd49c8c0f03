package jobsearch

import (
	"sort"

	"github.com/bowjob/jobagent/pkg/models"
)

// Dedup merges postings sharing a normalised (company, title) key
// (SPEC_FULL.md §4.4 step 3): prefer the longer description, keep the
// first non-empty application URL, union requirements, keep any salary
// present, append sources. Order of the input postings otherwise-unrelated
// by key is preserved (first occurrence order), which also makes Dedup
// idempotent: Dedup(Dedup(xs)) == Dedup(xs).
func Dedup(postings []models.JobPosting) []models.JobPosting {
	order := make([]string, 0, len(postings))
	merged := make(map[string]models.JobPosting, len(postings))

	for _, p := range postings {
		key := DedupKey(p.Company, p.Title)
		existing, ok := merged[key]
		if !ok {
			order = append(order, key)
			merged[key] = p
			continue
		}
		merged[key] = mergeTwo(existing, p)
	}

	out := make([]models.JobPosting, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}

func mergeTwo(a, b models.JobPosting) models.JobPosting {
	out := a

	if len(b.Description) > len(out.Description) {
		out.Description = b.Description
	}
	if out.ApplicationURL == "" {
		out.ApplicationURL = b.ApplicationURL
	}
	out.Requirements = unionStrings(out.Requirements, b.Requirements)
	if out.Salary == "" {
		out.Salary = b.Salary
	}
	out.Sources = unionStrings(out.Sources, b.Sources)

	if b.PostedDate.After(out.PostedDate) {
		out.PostedDate = b.PostedDate
	}
	return out
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// SortByScore orders postings by descending match score, tie-breaking on
// later posted_date first, then preserving input order (SPEC_FULL.md §4.4
// "Tie-break"). Uses a stable sort so equal-score-and-date entries keep
// their relative order.
func SortByScore(postings []models.JobPosting) {
	sort.SliceStable(postings, func(i, j int) bool {
		if postings[i].MatchScore != postings[j].MatchScore {
			return postings[i].MatchScore > postings[j].MatchScore
		}
		return postings[i].PostedDate.After(postings[j].PostedDate)
	})
}
