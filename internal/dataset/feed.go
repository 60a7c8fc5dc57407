package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"jobtracker/internal/model"
)

// Namespace is the extension prefix holding job fields in feed items.
const Namespace = "job"

// DecodeFeed parses an RSS or Atom job feed. Items without a job:id get their
// 1-based position as id.
func DecodeFeed(r io.Reader, now time.Time) ([]model.Job, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	jobs := make([]model.Job, 0, len(feed.Items))
	for i, item := range feed.Items {
		job, err := itemJob(item, i+1, now)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func itemJob(item *gofeed.Item, pos int, now time.Time) (model.Job, error) {
	fields := item.Extensions[Namespace]

	id := pos
	if raw := extValue(fields, "id"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return model.Job{}, fmt.Errorf("invalid job:id %q", raw)
		}
		id = v
	}

	company := extValue(fields, "company")
	if company == "" && item.Author != nil {
		company = item.Author.Name
	}

	description := item.Description
	if description == "" {
		description = item.Content
	}

	return model.Job{
		ID:            id,
		Title:         strings.TrimSpace(item.Title),
		Company:       company,
		Location:      extValue(fields, "location"),
		Mode:          extValue(fields, "mode"),
		Experience:    extValue(fields, "experience"),
		SalaryRange:   extValue(fields, "salary"),
		Source:        extValue(fields, "source"),
		PostedDaysAgo: daysAgo(item.PublishedParsed, now),
		Skills:        item.Categories,
		Description:   strings.TrimSpace(description),
		ApplyURL:      item.Link,
	}, nil
}

func extValue(fields map[string][]ext.Extension, name string) string {
	values := fields[name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}

// daysAgo counts whole days between published and now. Missing or future
// dates count as today.
func daysAgo(published *time.Time, now time.Time) int {
	if published == nil {
		return 0
	}
	d := int(now.Sub(*published).Hours() / 24)
	return max(d, 0)
}
