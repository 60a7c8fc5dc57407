package bot

import (
	"context"
	"errors"
	"fmt"

	"jobtracker/internal/dataset"
	"jobtracker/internal/digest"
	"jobtracker/internal/filter"
	"jobtracker/internal/match"
	"jobtracker/internal/model"
	"jobtracker/internal/prefs"
)

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	text := `Welcome to Job Notification Tracker!

Browse roles, track applications and get a daily digest of your best matches.

Quick start:
1. /setprefs role=backend, golang; skills=Go, SQL — set your preferences
2. /jobs matches — see roles above your match threshold
3. /digest — generate today's 9AM digest

Use /help for the full command reference.`
	if !b.prefs.HasValid(ctx) {
		text += "\n\n" + noPrefsBanner
	}
	b.reply(chatID, text)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Browsing:
/jobs [options] — list jobs
   q=<text> loc=<location> mode=<mode> exp=<level> src=<source>
   status=<all|not-applied|applied|rejected|selected>
   sort=<match-score|latest|oldest|salary-high|salary-low|title>
   matches — only jobs at or above your minimum match
/job <id> — job details with save and status buttons
/facets — values accepted by the exact-match options

Preferences:
/prefs — show preferences
/setprefs k=v; k=v — update role, loc, mode, exp, skills, min
/clearprefs — delete preferences

Tracking:
/save <id> — bookmark a job
/unsave <id> — remove a bookmark
/saved — list bookmarks
/status <id> [status] — show or set a job's status
/history — recent status updates
/clearstatuses — reset every status

Digest:
/digest — today's top 10 matches
/digestmail — today's digest as a mail link`)
}

func (b *Bot) handleJobs(ctx context.Context, chatID int64, args string) {
	parsed, err := ParseJobsArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	p := b.prefs.Load(ctx)
	statuses := b.status.All(ctx)
	jobs := filter.Apply(b.jobs, parsed.Filters, p, parsed.OnlyMatches, statuses)

	if len(jobs) == 0 {
		if parsed.OnlyMatches && p != nil {
			b.reply(chatID, "No roles match your criteria. Adjust filters or lower your threshold.")
			return
		}
		b.reply(chatID, "No jobs match your search.")
		return
	}

	text := FormatJobList(jobs, statuses, b.savedSet(ctx))
	if p == nil {
		text = noPrefsBanner + "\n\n" + text
	}
	b.reply(chatID, text)
}

func (b *Bot) handleJob(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /job <id>")
		return
	}

	job, ok := dataset.Find(b.jobs, id)
	if !ok {
		b.reply(chatID, fmt.Sprintf("Job #%d not found.", id))
		return
	}

	sj := model.ScoredJob{Job: job}
	if p := b.prefs.Load(ctx); p != nil {
		sj.MatchScore = match.Score(&job, p)
		sj.Scored = true
	}
	st := b.status.Status(ctx, id)
	isSaved := b.saved.IsSaved(ctx, id)

	b.replyWithKeyboard(chatID, FormatJob(sj, st, isSaved), jobKeyboard(id, isSaved, st))
}

func (b *Bot) handlePrefs(ctx context.Context, chatID int64) {
	b.reply(chatID, FormatPrefs(b.prefs.Load(ctx)))
}

func (b *Bot) handleSetPrefs(ctx context.Context, chatID int64, args string) {
	base := model.Preferences{MinMatchScore: model.DefaultMinMatchScore}
	if p := b.prefs.Load(ctx); p != nil {
		base = *p
	}

	p, err := ParsePrefsArgs(args, base)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	b.prefs.Save(ctx, p)
	stored := b.prefs.Load(ctx)
	text := "Preferences saved.\n\n" + FormatPrefs(stored)
	if !prefs.IsValid(stored) {
		text += "\nAdd role keywords (role=...) to enable the daily digest."
	}
	b.reply(chatID, text)
}

func (b *Bot) handleClearPrefs(ctx context.Context, chatID int64) {
	b.prefs.Clear(ctx)
	b.reply(chatID, "Preferences cleared.\n"+noPrefsBanner)
}

func (b *Bot) handleSave(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /save <id>")
		return
	}
	job, ok := dataset.Find(b.jobs, id)
	if !ok {
		b.reply(chatID, fmt.Sprintf("Job #%d not found.", id))
		return
	}
	b.saved.Save(ctx, id)
	b.reply(chatID, fmt.Sprintf("Saved #%d %s.", job.ID, job.Title))
}

func (b *Bot) handleUnsave(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /unsave <id>")
		return
	}
	if !b.saved.IsSaved(ctx, id) {
		b.reply(chatID, fmt.Sprintf("Job #%d is not saved.", id))
		return
	}
	b.saved.Unsave(ctx, id)
	b.reply(chatID, fmt.Sprintf("Removed #%d from saved jobs.", id))
}

func (b *Bot) handleSaved(ctx context.Context, chatID int64) {
	jobs := b.saved.Jobs(ctx, b.jobs)
	if len(jobs) == 0 {
		b.reply(chatID, "No saved jobs yet. Use /save <id> to bookmark one.")
		return
	}

	list := make([]model.ScoredJob, len(jobs))
	for i, j := range jobs {
		list[i] = model.ScoredJob{Job: j}
	}
	b.reply(chatID, "Saved jobs\n"+FormatJobList(list, b.status.All(ctx), nil))
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64, args string) {
	id, st, err := ParseStatusArgs(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	if st == "" {
		job, ok := dataset.Find(b.jobs, id)
		if !ok {
			b.reply(chatID, fmt.Sprintf("Job #%d not found.", id))
			return
		}
		current := b.status.Status(ctx, id)
		b.replyWithKeyboard(chatID,
			fmt.Sprintf("#%d %s: %s", job.ID, job.Title, current.Label()),
			jobKeyboard(id, b.saved.IsSaved(ctx, id), current))
		return
	}

	b.setStatus(ctx, chatID, id, st)
}

func (b *Bot) setStatus(ctx context.Context, chatID int64, id int, st model.Status) {
	if _, ok := dataset.Find(b.jobs, id); !ok {
		b.reply(chatID, fmt.Sprintf("Job #%d not found.", id))
		return
	}
	if err := b.status.SetStatus(ctx, id, st); err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Status updated: %s", st.Label()))
}

func (b *Bot) handleHistory(ctx context.Context, chatID int64) {
	b.reply(chatID, FormatHistory(b.status.History(ctx), b.jobs))
}

func (b *Bot) handleClearStatuses(ctx context.Context, chatID int64) {
	b.status.ClearAll(ctx)
	b.reply(chatID, "All job statuses reset to Not Applied.")
}

func (b *Bot) handleDigest(ctx context.Context, chatID int64) {
	res, ok := b.todayDigest(ctx, chatID)
	if !ok {
		return
	}
	b.reply(chatID, digest.FormatText(res.Jobs, digest.DateLabel(res.Date)))
}

func (b *Bot) handleDigestMail(ctx context.Context, chatID int64) {
	res, ok := b.todayDigest(ctx, chatID)
	if !ok {
		return
	}
	b.reply(chatID, digest.MailLink(res.Jobs, digest.DateLabel(res.Date)))
}

// todayDigest returns today's digest, generating it after the configured
// delay when nothing is cached yet.
func (b *Bot) todayDigest(ctx context.Context, chatID int64) (digest.Result, bool) {
	p := b.prefs.Load(ctx)

	if _, cached := b.digest.Cached(ctx); !cached {
		if !prefs.IsValid(p) {
			b.reply(chatID, "Set your preferences with /setprefs (including role keywords) to generate a personalized digest.")
			return digest.Result{}, false
		}
		b.reply(chatID, "Generating your 9AM digest...")
		if !wait(ctx, b.cfg.DigestDelay) {
			return digest.Result{}, false
		}
	}

	res, err := b.digest.Today(ctx, b.jobs, p)
	if errors.Is(err, digest.ErrNoPreferences) {
		b.reply(chatID, "Set your preferences with /setprefs (including role keywords) to generate a personalized digest.")
		return digest.Result{}, false
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return digest.Result{}, false
	}
	return res, true
}

func (b *Bot) handleFacets(chatID int64) {
	b.reply(chatID, FormatFacets(filter.BuildFacets(b.jobs)))
}

func (b *Bot) savedSet(ctx context.Context) map[int]bool {
	ids := b.saved.IDs(ctx)
	out := make(map[int]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
