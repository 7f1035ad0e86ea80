package content

import (
	"regexp"
	"strings"
)

var (
	urlPattern   = regexp.MustCompile(`https?://[^\s\]]+`)
	anyURL       = regexp.MustCompile(`(?i)https?://`)
	titleDashes  = regexp.MustCompile(`[-–—]`)
	markerStrip  = strings.NewReplacer("🔹", "", "📢", "", "✨", "", "👉", "")
	lineBreakers = strings.NewReplacer("🔹", "\n🔹", "📢", "\n📢")
)

type labelKind int

const (
	labelText labelKind = iota
	labelURL
)

type label struct {
	pattern *regexp.Regexp
	kind    labelKind
	field   func(p *JobPosting) *string
}

var labels = []label{
	{regexp.MustCompile(`(?i)^organization:(.*)$`), labelText, func(p *JobPosting) *string { return &p.Organization }},
	{regexp.MustCompile(`(?i)^post name:(.*)$`), labelText, func(p *JobPosting) *string { return &p.PostName }},
	{regexp.MustCompile(`(?i)^vacancies:(.*)$`), labelText, func(p *JobPosting) *string { return &p.Vacancies }},
	{regexp.MustCompile(`(?i)^qualification:(.*)$`), labelText, func(p *JobPosting) *string { return &p.Qualification }},
	{regexp.MustCompile(`(?i)^last date:(.*)$`), labelText, func(p *JobPosting) *string { return &p.LastDate }},
	{regexp.MustCompile(`(?i)^notification link:(.*)$`), labelURL, func(p *JobPosting) *string { return &p.NotificationLink }},
	{regexp.MustCompile(`(?i)^apply link:(.*)$`), labelURL, func(p *JobPosting) *string { return &p.ApplyLink }},
}

// Parse extracts the labeled fields of a structured job update.
// Lines may appear in any order; the first line matching a label wins.
func Parse(raw string) JobPosting {
	var posting JobPosting
	seen := make(map[int]bool, len(labels))

	for _, line := range splitLines(raw) {
		clean := strings.TrimSpace(markerStrip.Replace(line))
		if clean == "" {
			continue
		}

		if isTitleLine(clean) {
			if posting.Title == "" {
				posting.Title = titleFrom(clean)
			}
			continue
		}

		if matchLabel(clean, &posting, seen) {
			continue
		}

		if anyURL.MatchString(clean) {
			if u := ExtractURL(clean); u != "" {
				posting.SocialLinks = append(posting.SocialLinks, u)
			}
		}
	}

	return posting
}

func splitLines(raw string) []string {
	normalized := strings.TrimSpace(lineBreakers.Replace(raw))

	var lines []string
	for _, l := range strings.Split(normalized, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// isTitleLine accepts the mathematical bold "𝐉𝐎𝐁" header as well as plain "JOB ALERT"
func isTitleLine(line string) bool {
	return strings.HasPrefix(line, "𝐉𝐎𝐁") || strings.HasPrefix(strings.ToUpper(line), "JOB ALERT")
}

// titleFrom keeps the segment between the first and second dash
func titleFrom(line string) string {
	parts := titleDashes.Split(line, 3)
	if len(parts) < 2 {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(parts[1])
}

func matchLabel(line string, posting *JobPosting, seen map[int]bool) bool {
	for i, l := range labels {
		m := l.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if seen[i] {
			return true
		}
		seen[i] = true

		value := strings.TrimSpace(m[1])
		if l.kind == labelURL {
			value = ExtractURL(value)
		}
		*l.field(posting) = value
		return true
	}
	return false
}

// ExtractURL returns the first http(s) URL in text, or ""
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}
