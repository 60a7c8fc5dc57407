package bot

import (
	"fmt"
	"strings"

	"jobtracker/internal/dataset"
	"jobtracker/internal/filter"
	"jobtracker/internal/match"
	"jobtracker/internal/model"
)

// maxListed caps how many jobs one /jobs reply shows.
const maxListed = 20

const noPrefsBanner = "Set your preferences with /setprefs to activate intelligent matching."

// PostedLabel renders a job's age.
func PostedLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// FormatJobList formats pipeline output for display. statuses and saved may
// be nil.
func FormatJobList(jobs []model.ScoredJob, statuses map[int]model.Status, saved map[int]bool) string {
	var b strings.Builder
	shown := jobs
	if len(shown) > maxListed {
		shown = shown[:maxListed]
		fmt.Fprintf(&b, "Showing %d of %d jobs:\n", maxListed, len(jobs))
	} else {
		fmt.Fprintf(&b, "%d job(s):\n", len(jobs))
	}

	for _, j := range shown {
		star := ""
		if saved[j.ID] {
			star = " ★"
		}
		fmt.Fprintf(&b, "\n#%d %s — %s%s\n", j.ID, j.Title, j.Company, star)
		fmt.Fprintf(&b, "   %s · %s · %s · %s", j.Location, j.Mode, j.Experience, PostedLabel(j.PostedDaysAgo))
		if j.Scored {
			fmt.Fprintf(&b, " · %s", match.Label(j.MatchScore))
		}
		if st, ok := statuses[j.ID]; ok && st != model.StatusNotApplied {
			fmt.Fprintf(&b, " [%s]", st.Label())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatJob formats the full details of one job.
func FormatJob(j model.ScoredJob, st model.Status, saved bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", j.ID, j.Title)
	fmt.Fprintf(&b, "%s\n\n", j.Company)
	fmt.Fprintf(&b, "Location: %s (%s)\n", j.Location, j.Mode)
	fmt.Fprintf(&b, "Experience: %s\n", j.Experience)
	fmt.Fprintf(&b, "Salary: %s\n", j.SalaryRange)
	fmt.Fprintf(&b, "Source: %s · %s\n", j.Source, PostedLabel(j.PostedDaysAgo))
	if len(j.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(j.Skills, ", "))
	}
	if j.Scored {
		fmt.Fprintf(&b, "Match: %s\n", match.Label(j.MatchScore))
	}
	fmt.Fprintf(&b, "Status: %s\n", st.Label())
	if saved {
		b.WriteString("Saved ★\n")
	}
	if j.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", j.Description)
	}
	if j.ApplyURL != "" {
		fmt.Fprintf(&b, "\nApply: %s\n", j.ApplyURL)
	}
	return b.String()
}

// FormatPrefs formats the stored preferences. p may be nil.
func FormatPrefs(p *model.Preferences) string {
	if p == nil {
		return "No preferences set.\n" + noPrefsBanner
	}
	var b strings.Builder
	b.WriteString("Your preferences:\n")
	fmt.Fprintf(&b, "Role keywords: %s\n", orDash(p.RoleKeywords))
	fmt.Fprintf(&b, "Locations: %s\n", orDash(p.PreferredLocations))
	fmt.Fprintf(&b, "Mode: %s\n", orDash(strings.Join(p.PreferredMode, ", ")))
	fmt.Fprintf(&b, "Experience: %s\n", orDash(p.ExperienceLevel))
	fmt.Fprintf(&b, "Skills: %s\n", orDash(p.Skills))
	fmt.Fprintf(&b, "Minimum match: %d%%\n", p.MinMatchScore)
	return b.String()
}

// FormatHistory formats status updates, newest first, resolving titles from
// jobs.
func FormatHistory(updates []model.StatusUpdate, jobs []model.Job) string {
	if len(updates) == 0 {
		return "No status updates yet."
	}
	var b strings.Builder
	b.WriteString("Recent status updates:\n")
	for _, u := range updates {
		title := fmt.Sprintf("Job #%d", u.JobID)
		if j, ok := dataset.Find(jobs, u.JobID); ok {
			title = fmt.Sprintf("#%d %s — %s", j.ID, j.Title, j.Company)
		}
		fmt.Fprintf(&b, "\n%s\n   %s · %s\n", title, u.Status.Label(), u.Date)
	}
	return b.String()
}

// FormatFacets lists the values accepted by the exact-match /jobs options.
func FormatFacets(f filter.Facets) string {
	var b strings.Builder
	b.WriteString("Filter values for /jobs:\n")
	fmt.Fprintf(&b, "\nloc: %s\n", orDash(strings.Join(f.Locations, ", ")))
	fmt.Fprintf(&b, "mode: %s\n", orDash(strings.Join(f.Modes, ", ")))
	fmt.Fprintf(&b, "exp: %s\n", orDash(strings.Join(f.Experiences, ", ")))
	fmt.Fprintf(&b, "src: %s\n", orDash(strings.Join(f.Sources, ", ")))

	keys := make([]string, len(filter.SortKeys))
	for i, k := range filter.SortKeys {
		keys[i] = string(k)
	}
	fmt.Fprintf(&b, "sort: %s\n", strings.Join(keys, ", "))
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
