package cvtailor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bowjob/jobagent/pkg/models"
)

var yearsPattern = regexp.MustCompile(`(\d+)\+?\s*year`)

// estimateRequiredYears scans a posting's requirements and description for
// a "N years" style phrase and returns the largest N found, or 0 if none
// is present (no explicit requirement).
func estimateRequiredYears(job models.JobPosting) float64 {
	text := strings.ToLower(strings.Join(job.Requirements, " ") + " " + job.Description)
	matches := yearsPattern.FindAllStringSubmatch(text, -1)
	var max float64
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if float64(n) > max {
			max = float64(n)
		}
	}
	return max
}

var degreeKeywords = []string{"bachelor", "master", "degree", "b.s.", "m.s.", "bsc", "msc"}

// requiresDegree reports whether a posting's requirements or description
// mention a degree.
func requiresDegree(job models.JobPosting) bool {
	text := strings.ToLower(strings.Join(job.Requirements, " ") + " " + job.Description)
	for _, kw := range degreeKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
