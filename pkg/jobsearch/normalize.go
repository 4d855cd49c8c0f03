// Package jobsearch implements the Job Search Aggregator (C4): query
// parsing, concurrent provider fan-out, deduplication/merge, HR pre-filter,
// and scoring. Grounded on original_source/agents/job_hunter.py's overall
// shape and supervisor.py's _handle_job_search_v2 fan-out-then-prefilter
// flow; SPEC_FULL.md §4.4 itself carries enough algorithmic detail for the
// dedup/merge/scoring rules without a full read of job_hunter.py.
package jobsearch

import "strings"

// corporateSuffixes are stripped from a company name before comparison,
// per SPEC_FULL.md §4.4 step 3.
var corporateSuffixes = []string{
	" inc.", " inc", " corp.", " corp", " llc", " ltd.", " ltd",
	" co.", " company", " gmbh", " plc", " s.a.", " sa",
}

// seniorityTokens are stripped from a job title before comparison.
var seniorityTokens = []string{
	"senior", "sr.", "sr", "junior", "jr.", "jr", "lead", "principal",
	"staff", "ii", "iii", "iv",
}

// NormalizeCompany lower-cases a company name, strips a leading "the " and
// any trailing corporate suffix, and collapses whitespace.
func NormalizeCompany(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "the ")
	for _, suffix := range corporateSuffixes {
		n = strings.TrimSuffix(n, suffix)
	}
	n = strings.TrimSuffix(n, ",")
	return strings.Join(strings.Fields(n), " ")
}

// NormalizeTitle lower-cases a job title and strips seniority tokens as
// whole words.
func NormalizeTitle(title string) string {
	fields := strings.Fields(strings.ToLower(title))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,")
		skip := false
		for _, tok := range seniorityTokens {
			if f == tok {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

// DedupKey is the normalised (company, title) key used to detect duplicate
// postings (SPEC_FULL.md §3, §4.4).
func DedupKey(company, title string) string {
	return NormalizeCompany(company) + "|" + NormalizeTitle(title)
}
