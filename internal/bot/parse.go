package bot

import (
	"fmt"
	"strconv"
	"strings"

	"jobtracker/internal/filter"
	"jobtracker/internal/model"
	"jobtracker/internal/prefs"
)

// JobsArgs holds the parsed arguments of /jobs.
type JobsArgs struct {
	Filters     filter.Filters
	OnlyMatches bool
}

// ParseJobsArgs parses arguments for /jobs.
// Format: [q=<text>] [loc=<location>] [mode=<mode>] [exp=<level>] [src=<source>]
// [status=<status|all>] [sort=<key>] [matches]
//
// A word without "=" continues the value of the preceding key, so multi-word
// values need no quoting. The bare word "matches" enables the threshold.
func ParseJobsArgs(args string) (JobsArgs, error) {
	out := JobsArgs{Filters: filter.Filters{SortBy: filter.DefaultSort}}

	pairs, err := splitPairs(strings.Fields(args), func(word string) bool {
		if strings.EqualFold(word, "matches") {
			out.OnlyMatches = true
			return true
		}
		return false
	})
	if err != nil {
		return JobsArgs{}, err
	}

	for _, kv := range pairs {
		switch kv[0] {
		case "q":
			out.Filters.Keyword = kv[1]
		case "loc":
			out.Filters.Location = kv[1]
		case "mode":
			out.Filters.Mode = kv[1]
		case "exp":
			out.Filters.Experience = kv[1]
		case "src":
			out.Filters.Source = kv[1]
		case "status":
			if strings.EqualFold(kv[1], filter.StatusAll) {
				out.Filters.Status = ""
				continue
			}
			st, err := model.ParseStatus(strings.ToLower(kv[1]))
			if err != nil {
				return JobsArgs{}, fmt.Errorf("invalid status %q, use: all, not-applied, applied, rejected, selected", kv[1])
			}
			out.Filters.Status = string(st)
		case "sort":
			out.Filters.SortBy = filter.ParseSortKey(kv[1])
		default:
			return JobsArgs{}, fmt.Errorf("unknown option %q, use: q, loc, mode, exp, src, status, sort", kv[0])
		}
	}
	return out, nil
}

// splitPairs groups words into key=value pairs. flag is consulted for every
// word first and may consume it.
func splitPairs(words []string, flag func(string) bool) ([][2]string, error) {
	var pairs [][2]string
	for _, w := range words {
		if flag != nil && flag(w) {
			continue
		}
		key, value, ok := strings.Cut(w, "=")
		if ok {
			pairs = append(pairs, [2]string{strings.ToLower(key), value})
			continue
		}
		if len(pairs) == 0 {
			return nil, fmt.Errorf("expected key=value, got %q", w)
		}
		last := &pairs[len(pairs)-1]
		last[1] = strings.TrimSpace(last[1] + " " + w)
	}
	return pairs, nil
}

// ParsePrefsArgs applies /setprefs arguments on top of base.
// Format: role=<keywords>; loc=<locations>; mode=<modes>; exp=<level>;
// skills=<skills>; min=<0-100>
//
// Pairs are separated by ";". Comma-separated lists are kept as written.
func ParsePrefsArgs(args string, base model.Preferences) (model.Preferences, error) {
	p := base
	if strings.TrimSpace(args) == "" {
		return p, fmt.Errorf("usage: /setprefs role=<keywords>; loc=<locations>; mode=<Remote,Hybrid,Onsite>; exp=<level>; skills=<skills>; min=<0-100>")
	}

	for _, part := range strings.Split(args, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return p, fmt.Errorf("expected key=value, got %q", part)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "role":
			p.RoleKeywords = value
		case "loc":
			p.PreferredLocations = value
		case "mode":
			modes, err := parseModes(value)
			if err != nil {
				return p, err
			}
			p.PreferredMode = modes
		case "exp":
			p.ExperienceLevel = value
		case "skills":
			p.Skills = value
		case "min":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || n > 100 {
				return p, fmt.Errorf("min must be between 0 and 100")
			}
			p.MinMatchScore = n
		default:
			return p, fmt.Errorf("unknown preference %q, use: role, loc, mode, exp, skills, min", key)
		}
	}
	return p, nil
}

func parseModes(value string) ([]string, error) {
	var modes []string
	for _, m := range strings.Split(value, ",") {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		canon, ok := prefs.CanonicalMode(m)
		if !ok {
			return nil, fmt.Errorf("invalid mode %q, use: %s", m, strings.Join(model.Modes, ", "))
		}
		modes = append(modes, canon)
	}
	return modes, nil
}

// ParseStatusArgs extracts a job ID and an optional status.
// An empty status means the caller only asked for the current one.
func ParseStatusArgs(args string) (int, model.Status, error) {
	parts := strings.Fields(args)
	if len(parts) == 0 || len(parts) > 2 {
		return 0, "", fmt.Errorf("usage: /status <id> [not-applied|applied|rejected|selected]")
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid job ID %q", parts[0])
	}
	if len(parts) == 1 {
		return id, "", nil
	}
	st, err := model.ParseStatus(strings.ToLower(parts[1]))
	if err != nil {
		return 0, "", fmt.Errorf("invalid status %q, use: not-applied, applied, rejected, selected", parts[1])
	}
	return id, st, nil
}

// ParseIDArg extracts a numeric job ID from a command argument string.
func ParseIDArg(args string) (int, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, fmt.Errorf("job ID is required")
	}
	id, err := strconv.Atoi(strings.Fields(s)[0])
	if err != nil {
		return 0, fmt.Errorf("invalid job ID %q", s)
	}
	return id, nil
}
