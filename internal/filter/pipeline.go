// Package filter implements the job list pipeline: field filters, match
// scoring and ordering.
package filter

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"jobtracker/internal/match"
	"jobtracker/internal/model"
)

// SortKey selects the ordering of the pipeline output.
type SortKey string

// Supported sort keys.
const (
	SortMatchScore SortKey = "match-score"
	SortLatest     SortKey = "latest"
	SortOldest     SortKey = "oldest"
	SortSalaryHigh SortKey = "salary-high"
	SortSalaryLow  SortKey = "salary-low"
	SortTitle      SortKey = "title"
)

// DefaultSort is used for an empty or unknown sort key.
const DefaultSort = SortLatest

// StatusAll disables status filtering.
const StatusAll = "all"

// SortKeys lists every sort key in display order.
var SortKeys = []SortKey{SortMatchScore, SortLatest, SortOldest, SortSalaryHigh, SortSalaryLow, SortTitle}

// ParseSortKey maps raw input to a SortKey, falling back to DefaultSort.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, k) {
		return k
	}
	return DefaultSort
}

// Filters holds the optional constraints of a job list query. Empty fields
// impose no constraint. Keyword matches title or company case-insensitively;
// Location, Mode, Experience and Source require exact equality.
type Filters struct {
	Keyword    string
	Location   string
	Mode       string
	Experience string
	Source     string
	Status     string
	SortBy     SortKey
}

// Apply filters, scores and sorts jobs. The input slice is not modified.
//
// statuses supplies the tracked status per job id; jobs without an entry are
// not-applied. When prefs is nil nothing is scored and showOnlyMatches has no
// effect. Sorting is stable, so ties keep dataset order.
func Apply(jobs []model.Job, f Filters, prefs *model.Preferences, showOnlyMatches bool, statuses map[int]model.Status) []model.ScoredJob {
	keyword := strings.ToLower(f.Keyword)

	result := make([]model.ScoredJob, 0, len(jobs))
	for _, job := range jobs {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(job.Title), keyword) &&
			!strings.Contains(strings.ToLower(job.Company), keyword) {
			continue
		}
		if !equalOrEmpty(f.Location, job.Location) ||
			!equalOrEmpty(f.Mode, job.Mode) ||
			!equalOrEmpty(f.Experience, job.Experience) ||
			!equalOrEmpty(f.Source, job.Source) {
			continue
		}
		if f.Status != "" && f.Status != StatusAll && string(statusOf(statuses, job.ID)) != f.Status {
			continue
		}

		sj := model.ScoredJob{Job: job}
		if prefs != nil {
			sj.MatchScore = match.Score(&job, prefs)
			sj.Scored = true
			if showOnlyMatches && sj.MatchScore < prefs.MinMatchScore {
				continue
			}
		}
		result = append(result, sj)
	}

	Sort(result, f.SortBy)
	return result
}

// Sort orders jobs in place by key.
func Sort(jobs []model.ScoredJob, key SortKey) {
	key = ParseSortKey(string(key))
	if key == SortMatchScore && !allScored(jobs) {
		key = SortLatest
	}

	switch key {
	case SortMatchScore:
		sort.SliceStable(jobs, func(i, j int) bool { return ByScore(jobs[i], jobs[j]) })
	case SortOldest:
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].PostedDaysAgo > jobs[j].PostedDaysAgo })
	case SortSalaryHigh:
		sort.SliceStable(jobs, func(i, j int) bool {
			return match.SalaryValue(jobs[i].SalaryRange) > match.SalaryValue(jobs[j].SalaryRange)
		})
	case SortSalaryLow:
		sort.SliceStable(jobs, func(i, j int) bool {
			return match.SalaryValue(jobs[i].SalaryRange) < match.SalaryValue(jobs[j].SalaryRange)
		})
	case SortTitle:
		c := collate.New(language.English)
		sort.SliceStable(jobs, func(i, j int) bool { return c.CompareString(jobs[i].Title, jobs[j].Title) < 0 })
	default:
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].PostedDaysAgo < jobs[j].PostedDaysAgo })
	}
}

// ByScore orders by descending match score, then by most recent posting.
func ByScore(a, b model.ScoredJob) bool {
	if a.MatchScore != b.MatchScore {
		return a.MatchScore > b.MatchScore
	}
	return a.PostedDaysAgo < b.PostedDaysAgo
}

func allScored(jobs []model.ScoredJob) bool {
	for _, j := range jobs {
		if !j.Scored {
			return false
		}
	}
	return true
}

func equalOrEmpty(want, got string) bool {
	return want == "" || want == got
}

func statusOf(statuses map[int]model.Status, id int) model.Status {
	if st, ok := statuses[id]; ok {
		return st
	}
	return model.StatusNotApplied
}
