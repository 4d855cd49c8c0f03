package cvtailor

import (
	"math"
	"regexp"
	"strings"

	"github.com/bowjob/jobagent/pkg/models"
)

var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.#-]*`)

func tokenize(text string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		out[w] = true
	}
	return out
}

// jobKeywords extracts the keyword set a CV is scored against: requirements
// plus the description's significant words.
func jobKeywords(job models.JobPosting) map[string]bool {
	kw := tokenize(strings.Join(job.Requirements, " "))
	for w := range tokenize(job.Description) {
		kw[w] = true
	}
	return kw
}

func cvText(cv models.ParsedCV) string {
	var b strings.Builder
	b.WriteString(cv.Summary)
	b.WriteString(" ")
	for _, s := range cv.Skills.All() {
		b.WriteString(s)
		b.WriteString(" ")
	}
	for _, e := range cv.WorkExperience {
		b.WriteString(e.Title)
		b.WriteString(" ")
		for _, a := range e.Achievements {
			b.WriteString(a)
			b.WriteString(" ")
		}
	}
	for _, p := range cv.Projects {
		b.WriteString(p.Name)
		b.WriteString(" ")
		b.WriteString(p.Description)
		b.WriteString(" ")
	}
	return b.String()
}

// skillsScore implements SPEC_FULL.md §4.6 step 5 "skills (weight 35):
// fraction of job-keywords present in CV text."
func skillsScore(cv models.ParsedCV, keywords map[string]bool) float64 {
	if len(keywords) == 0 {
		return 35
	}
	present := tokenize(cvText(cv))
	hit := 0
	for kw := range keywords {
		if present[kw] {
			hit++
		}
	}
	return 35 * float64(hit) / float64(len(keywords))
}

// experienceYears sums each work-experience entry's span; EndYear == 0
// means "present" and is treated as ongoing up to StartYear+1 (a single
// year of credit) since the core has no notion of "today" to compute an
// exact span against (deliberately not wired to a wall-clock dependency).
func experienceYears(cv models.ParsedCV) float64 {
	var years float64
	for _, e := range cv.WorkExperience {
		end := e.EndYear
		if end == 0 {
			end = e.StartYear + 1
		}
		if end > e.StartYear {
			years += float64(end - e.StartYear)
		}
	}
	return years
}

// experienceScore implements step 5 "experience (weight 25): ratio of CV
// years to job-required years, capped at 1.5x." requiredYears of 0 is
// treated as "no explicit requirement," scoring full credit.
func experienceScore(cv models.ParsedCV, requiredYears float64) float64 {
	if requiredYears <= 0 {
		return 25
	}
	ratio := experienceYears(cv) / requiredYears
	if ratio > 1.5 {
		ratio = 1.5
	}
	score := 25 * (ratio / 1.5)
	if score > 25 {
		score = 25
	}
	return score
}

// educationScore implements step 5 "education (weight 15): binary
// (has-degree AND job requires) else partial credit."
func educationScore(cv models.ParsedCV, jobRequiresDegree bool) float64 {
	hasDegree := len(cv.Education) > 0
	switch {
	case hasDegree && jobRequiresDegree:
		return 15
	case hasDegree || !jobRequiresDegree:
		return 7.5
	default:
		return 0
	}
}

// projectsScore implements step 5 "projects (weight 15): 0/5/10/15 for
// 0/1/2/>=3 projects."
func projectsScore(cv models.ParsedCV) float64 {
	switch n := len(cv.Projects); {
	case n == 0:
		return 0
	case n == 1:
		return 5
	case n == 2:
		return 10
	default:
		return 15
	}
}

// keywordDensityScore implements step 5 "keyword density (weight 10):
// fraction of job-keywords present anywhere."
func keywordDensityScore(cv models.ParsedCV, keywords map[string]bool) float64 {
	if len(keywords) == 0 {
		return 10
	}
	present := tokenize(cvText(cv))
	hit := 0
	for kw := range keywords {
		if present[kw] {
			hit++
		}
	}
	return 10 * float64(hit) / float64(len(keywords))
}

// Score computes the deterministic match score per SPEC_FULL.md §4.6 step
// 5: sum, round, clamp to [0,100]. requiredYears/jobRequiresDegree are
// coarse signals the caller derives from the job posting (e.g. via a
// regex over requirements); scoring itself never calls the LLM, keeping
// CV Tailor pure given (CV, job, LLM response).
func Score(cv models.ParsedCV, job models.JobPosting, requiredYears float64, jobRequiresDegree bool) int {
	kw := jobKeywords(job)
	total := skillsScore(cv, kw) +
		experienceScore(cv, requiredYears) +
		educationScore(cv, jobRequiresDegree) +
		projectsScore(cv) +
		keywordDensityScore(cv, kw)

	rounded := int(math.Round(total))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}
	return rounded
}

// ScoreJob derives requiredYears and jobRequiresDegree from the posting
// itself (the same estimateRequiredYears/requiresDegree pair Tailor uses)
// before scoring, so a caller with only a CV and a job posting — no LLM
// analysis in hand yet, as at search-ranking time — gets the same score a
// completed tailoring run would have produced.
func ScoreJob(cv models.ParsedCV, job models.JobPosting) int {
	return Score(cv, job, estimateRequiredYears(job), requiresDegree(job))
}
