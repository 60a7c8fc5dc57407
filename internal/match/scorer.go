package match

import (
	"fmt"
	"slices"
	"strings"

	"jobtracker/internal/model"
)

// Points awarded by each rule.
const (
	pointsTitle       = 25
	pointsDescription = 15
	pointsLocation    = 15
	pointsMode        = 10
	pointsExperience  = 10
	pointsSkills      = 15
	pointsRecent      = 5
	pointsSource      = 5

	maxScore   = 100
	recentDays = 2
)

// Score returns the match score of job against prefs in [0, 100].
// A nil job or nil prefs scores 0.
//
// Every rule is evaluated independently and adds its points:
//   - a role keyword appears in the title (+25) or the description (+15)
//   - a preferred location appears in the job location (+15)
//   - a preferred mode appears in the job mode (+10)
//   - the experience level appears in the job experience (+10)
//   - a job skill equals one of the user's skills (+15)
//   - the job was posted at most two days ago (+5)
//   - the job comes from LinkedIn (+5)
func Score(job *model.Job, prefs *model.Preferences) int {
	if job == nil || prefs == nil {
		return 0
	}

	keywords := ParseTokens(prefs.RoleKeywords)
	locations := ParseTokens(prefs.PreferredLocations)
	modes := normalizeAll(prefs.PreferredMode)
	experience := strings.ToLower(strings.TrimSpace(prefs.ExperienceLevel))
	skills := ParseTokens(prefs.Skills)

	score := 0
	if containsAny(job.Title, keywords) {
		score += pointsTitle
	}
	if containsAny(job.Description, keywords) {
		score += pointsDescription
	}
	if containsAny(job.Location, locations) {
		score += pointsLocation
	}
	if containsAny(job.Mode, modes) {
		score += pointsMode
	}
	if experience != "" && strings.Contains(strings.ToLower(job.Experience), experience) {
		score += pointsExperience
	}
	if overlaps(job.Skills, skills) {
		score += pointsSkills
	}
	if job.PostedDaysAgo <= recentDays {
		score += pointsRecent
	}
	if strings.Contains(strings.ToLower(job.Source), "linkedin") {
		score += pointsSource
	}

	return min(score, maxScore)
}

// containsAny reports whether any token is a substring of text, ignoring case.
func containsAny(text string, tokens []string) bool {
	text = strings.ToLower(text)
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

func overlaps(jobSkills, userSkills []string) bool {
	if len(userSkills) == 0 {
		return false
	}
	for _, s := range jobSkills {
		if slices.Contains(userSkills, strings.ToLower(strings.TrimSpace(s))) {
			return true
		}
	}
	return false
}

// Variant maps a score to a badge style.
func Variant(score int) string {
	switch {
	case score >= 80:
		return "success"
	case score >= 60:
		return "warning"
	case score >= 40:
		return "default"
	default:
		return "subtle"
	}
}

// Label formats a score for display, e.g. "85% Match".
func Label(score int) string {
	return fmt.Sprintf("%d%% Match", score)
}
