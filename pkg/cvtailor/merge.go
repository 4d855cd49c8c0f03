package cvtailor

import (
	"math"
	"strings"

	"github.com/bowjob/jobagent/pkg/models"
)

// fabricationCap returns the maximum number of brand-new work-experience
// entries that may be merged into a CV with realCount genuine entries:
// max(1, round(realCount/2)). A CV with zero real experience still gets
// exactly one fabricated entry, never more — never the whole proposed
// batch, per SPEC_FULL.md §8 scenario 5.
func fabricationCap(realCount int) int {
	n := int(math.Round(float64(realCount) / 2))
	if n < 1 {
		n = 1
	}
	return n
}

// applyEdit replaces the first fuzzy-matching entry in existing with
// edit.Text, or appends edit.Text if nothing matches closely enough to
// edit.Original.
func applyEdit(existing []string, edit Edit) ([]string, bool) {
	replaced := false
	out := make([]string, len(existing))
	copy(out, existing)

	if edit.Tag == TagModified && edit.Original != "" {
		for i, e := range out {
			if fuzzyMatch(e, edit.Original) {
				out[i] = edit.Text
				replaced = true
				break
			}
		}
	}
	if !replaced {
		out = append(out, edit.Text)
	}
	return out, replaced
}

func removeSkills(all []string, toRemove []string) []string {
	if len(toRemove) == 0 {
		return all
	}
	drop := make(map[string]bool, len(toRemove))
	for _, s := range toRemove {
		drop[strings.ToLower(strings.TrimSpace(s))] = true
	}
	out := make([]string, 0, len(all))
	for _, s := range all {
		if !drop[strings.ToLower(strings.TrimSpace(s))] {
			out = append(out, s)
		}
	}
	return out
}

// merge applies an Analysis onto a ParsedCV, producing the tailored CV
// plus a change log (SPEC_FULL.md §4.6 steps 3-4).
func merge(cv models.ParsedCV, analysis Analysis) (models.ParsedCV, []models.ChangeLogEntry) {
	tailored := cv
	var log []models.ChangeLogEntry

	if analysis.CVSections.ProfessionalSummary != nil {
		tailored.Summary = analysis.CVSections.ProfessionalSummary.Text
		log = append(log, models.ChangeLogEntry{Category: "summary_rewritten", Detail: tailored.Summary})
	}

	// Work-experience achievement edits are applied entry-by-entry: fold
	// achievements into one pool per entry's company, so a matched edit
	// lands back on the entry it came from rather than a sibling's list.
	mergedExperience := make([]models.WorkExperience, len(tailored.WorkExperience))
	copy(mergedExperience, tailored.WorkExperience)
	for _, edit := range analysis.CVSections.WorkExperience {
		applied := false
		for i := range mergedExperience {
			updated, replaced := applyEdit(mergedExperience[i].Achievements, edit)
			if replaced {
				mergedExperience[i].Achievements = updated
				applied = true
				break
			}
		}
		if !applied && len(mergedExperience) > 0 {
			mergedExperience[0].Achievements = append(mergedExperience[0].Achievements, edit.Text)
		}
	}
	tailored.WorkExperience = mergedExperience

	allSkills := tailored.Skills.Technical
	for _, edit := range analysis.CVSections.Skills {
		updated, _ := applyEdit(allSkills, edit)
		allSkills = updated
	}
	if len(analysis.CVSections.Skills) > 0 {
		tailored.Skills.Technical = allSkills
		log = append(log, models.ChangeLogEntry{Category: "skills_adjusted", Detail: "reworded to match job keywords"})
	}

	if len(analysis.SkillsToRemove) > 0 {
		tailored.Skills.Technical = removeSkills(tailored.Skills.Technical, analysis.SkillsToRemove)
		tailored.Skills.Tools = removeSkills(tailored.Skills.Tools, analysis.SkillsToRemove)
		log = append(log, models.ChangeLogEntry{Category: "skills_removed", Detail: strings.Join(analysis.SkillsToRemove, ", ")})
	}

	mergedProjects := make([]models.Project, len(tailored.Projects))
	copy(mergedProjects, tailored.Projects)
	for _, edit := range analysis.CVSections.Projects {
		applied := false
		for i := range mergedProjects {
			if edit.Tag == TagModified && fuzzyMatch(mergedProjects[i].Description, edit.Original) {
				mergedProjects[i].Description = edit.Text
				applied = true
				break
			}
		}
		if !applied {
			mergedProjects = append(mergedProjects, models.Project{Description: edit.Text, Tag: string(edit.Tag)})
		}
	}
	tailored.Projects = mergedProjects

	realCount := cv.RealExperienceCount()
	allowed := fabricationCap(realCount)
	added := 0
	for _, ne := range analysis.NonCVSections.WorkExperience {
		if added >= allowed {
			break
		}
		tailored.WorkExperience = append(tailored.WorkExperience, models.WorkExperience{
			Company:      ne.Company,
			Title:        ne.Title,
			StartYear:    ne.StartYear,
			EndYear:      ne.EndYear,
			Achievements: ne.Achievements,
			Tag:          "new",
		})
		added++
	}
	if added > 0 {
		log = append(log, models.ChangeLogEntry{Category: "experience_added", Detail: "added fabricated-entry placeholder(s) capped at real-experience/2"})
	}
	if dropped := len(analysis.NonCVSections.WorkExperience) - added; dropped > 0 {
		log = append(log, models.ChangeLogEntry{Category: "experience_discarded", Detail: "fabrication cap reached, excess proposals discarded"})
	}

	for _, np := range analysis.NonCVSections.Projects {
		tailored.Projects = append(tailored.Projects, models.Project{Name: np.Name, Description: np.Description, Tag: "new"})
	}
	if len(analysis.NonCVSections.Certifications) > 0 {
		tailored.Certifications = append(tailored.Certifications, analysis.NonCVSections.Certifications...)
		log = append(log, models.ChangeLogEntry{Category: "certifications_added", Detail: strings.Join(analysis.NonCVSections.Certifications, ", ")})
	}

	return tailored, log
}
