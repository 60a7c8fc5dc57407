package filter

import (
	"sort"

	"jobtracker/internal/model"
)

// Facets lists the distinct values offered for each exact-match filter.
type Facets struct {
	Locations   []string
	Modes       []string
	Experiences []string
	Sources     []string
}

// BuildFacets collects the sorted distinct non-empty field values of jobs.
func BuildFacets(jobs []model.Job) Facets {
	return Facets{
		Locations:   distinct(jobs, func(j model.Job) string { return j.Location }),
		Modes:       distinct(jobs, func(j model.Job) string { return j.Mode }),
		Experiences: distinct(jobs, func(j model.Job) string { return j.Experience }),
		Sources:     distinct(jobs, func(j model.Job) string { return j.Source }),
	}
}

func distinct(jobs []model.Job, field func(model.Job) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, j := range jobs {
		v := field(j)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
