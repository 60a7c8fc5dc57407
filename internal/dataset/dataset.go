// Package dataset loads the static job catalog from a local file.
//
// Two formats are supported: a JSON array of jobs (.json) and an RSS or Atom
// feed (.xml, .rss, .atom) whose items carry job fields in a "job:" extension
// namespace:
//
//	<item>
//	  <title>Backend Engineer</title>
//	  <link>https://example.com/apply/1</link>
//	  <category>Go</category>
//	  <pubDate>Mon, 23 Feb 2026 09:00:00 GMT</pubDate>
//	  <job:id>1</job:id>
//	  <job:company>Acme</job:company>
//	  <job:location>Remote</job:location>
//	  <job:mode>Remote</job:mode>
//	  <job:experience>3-5</job:experience>
//	  <job:salary>$80,000 - $120,000</job:salary>
//	  <job:source>LinkedIn</job:source>
//	</item>
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobtracker/internal/model"
)

// maxFileSize bounds how much of a dataset file is read.
const maxFileSize = 5 * 1024 * 1024

// Load reads the dataset at path. Feed publication dates are converted to
// days ago relative to the current time.
func Load(path string) ([]model.Job, error) {
	return LoadAt(path, time.Now())
}

// LoadAt reads the dataset at path, computing feed item ages relative to now.
func LoadAt(path string, now time.Time) ([]model.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := io.LimitReader(f, maxFileSize)

	var jobs []model.Job
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		jobs, err = DecodeJSON(r)
	case ".xml", ".rss", ".atom":
		jobs, err = DecodeFeed(r, now)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// DecodeJSON parses a JSON array of jobs.
func DecodeJSON(r io.Reader) ([]model.Job, error) {
	var jobs []model.Job
	if err := json.NewDecoder(r).Decode(&jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return jobs, nil
}

// Validate checks that job ids are unique and ages are not negative.
func Validate(jobs []model.Job) error {
	seen := make(map[int]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.ID] {
			return fmt.Errorf("duplicate job id %d", j.ID)
		}
		seen[j.ID] = true
		if j.PostedDaysAgo < 0 {
			return fmt.Errorf("job %d: negative postedDaysAgo %d", j.ID, j.PostedDaysAgo)
		}
	}
	return nil
}

// Find returns the job with the given id.
func Find(jobs []model.Job, id int) (model.Job, bool) {
	for _, j := range jobs {
		if j.ID == id {
			return j, true
		}
	}
	return model.Job{}, false
}
