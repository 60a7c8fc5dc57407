package digest

import (
	"fmt"
	"strings"
	"time"

	"jobtracker/internal/model"
)

const mailSubject = "My 9AM Job Digest"

// DateLabel formats t the way digests show their date, e.g. "February 26, 2026".
func DateLabel(t time.Time) string {
	return t.Format("January 2, 2006")
}

// FormatText renders a digest as plain text.
func FormatText(jobs []model.ScoredJob, dateLabel string) string {
	if len(jobs) == 0 {
		return fmt.Sprintf("No matching roles found for %s.\n\nCheck again tomorrow for new opportunities.", dateLabel)
	}

	var b strings.Builder
	b.WriteString("Top 10 Jobs For You — 9AM Digest\n")
	fmt.Fprintf(&b, "Generated on: %s\n", dateLabel)
	b.WriteString("================================\n\n")

	for i, j := range jobs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, j.Title)
		fmt.Fprintf(&b, "   Company: %s\n", j.Company)
		fmt.Fprintf(&b, "   Location: %s\n", j.Location)
		fmt.Fprintf(&b, "   Experience: %s\n", j.Experience)
		fmt.Fprintf(&b, "   Match Score: %d%%\n", j.MatchScore)
		fmt.Fprintf(&b, "   Apply: %s\n\n", j.ApplyURL)
	}

	b.WriteString("This digest was generated based on your preferences.\n")
	b.WriteString("Demo Mode: Daily 9AM trigger simulated manually.")
	return b.String()
}

// MailLink returns a mailto URI with the digest text as the message body.
func MailLink(jobs []model.ScoredJob, dateLabel string) string {
	return "mailto:?subject=" + encodeURIComponent(mailSubject) +
		"&body=" + encodeURIComponent(FormatText(jobs, dateLabel))
}

// encodeURIComponent percent-encodes every UTF-8 byte except the unreserved
// set A-Z a-z 0-9 - _ . ! ~ * ' ( ). Spaces become %20, not "+".
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
