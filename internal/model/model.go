// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"time"
)

// Job is a single posting from the static dataset. The engine never mutates it.
type Job struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	Mode          string   `json:"mode"`
	Experience    string   `json:"experience"`
	SalaryRange   string   `json:"salaryRange"`
	Source        string   `json:"source"`
	PostedDaysAgo int      `json:"postedDaysAgo"`
	Skills        []string `json:"skills"`
	Description   string   `json:"description"`
	ApplyURL      string   `json:"applyUrl"`
}

// DefaultMinMatchScore is the threshold used when preferences do not set one.
const DefaultMinMatchScore = 40

// Preferences holds the user's matching criteria. A nil *Preferences means
// nothing has been configured yet.
type Preferences struct {
	RoleKeywords       string   `json:"roleKeywords"`
	PreferredLocations string   `json:"preferredLocations"`
	PreferredMode      []string `json:"preferredMode"`
	ExperienceLevel    string   `json:"experienceLevel"`
	Skills             string   `json:"skills"`
	MinMatchScore      int      `json:"minMatchScore"`
}

// Work modes offered for the preferred mode setting.
const (
	ModeRemote = "Remote"
	ModeHybrid = "Hybrid"
	ModeOnsite = "Onsite"
)

// Modes lists the work mode vocabulary in display order.
var Modes = []string{ModeRemote, ModeHybrid, ModeOnsite}

// Status is a job's application-lifecycle label.
type Status string

// Supported statuses.
const (
	StatusNotApplied Status = "not-applied"
	StatusApplied    Status = "applied"
	StatusRejected   Status = "rejected"
	StatusSelected   Status = "selected"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNotApplied, StatusApplied, StatusRejected, StatusSelected}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusNotApplied, StatusApplied, StatusRejected, StatusSelected:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Label returns the human-readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusRejected:
		return "Rejected"
	case StatusSelected:
		return "Selected"
	default:
		return "Not Applied"
	}
}

// StatusUpdate is one entry of the status change history.
type StatusUpdate struct {
	JobID     int       `json:"jobId"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
}

// ScoredJob is a job annotated with its match score. Scored is false when no
// preferences were available and MatchScore carries no meaning.
type ScoredJob struct {
	Job
	MatchScore int  `json:"matchScore"`
	Scored     bool `json:"-"`
}
