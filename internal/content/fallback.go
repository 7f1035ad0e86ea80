package content

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultHook     = "🚨 Job Alert!"
	DefaultCTA      = "Apply Now 👆"
	DefaultHashtags = "#jobs #career #government #hiring #jobsearch"

	fallbackHashtags = "#jobs #career #hiring #opportunity #jobsearch #employment #work #newjob #careers #jobupdate"
)

var (
	salaryPattern  = regexp.MustCompile(`(?i)[$₹£€][\d,]+k?`)
	companyCutset  = regexp.MustCompile(`[\s,.\-]`)
	companyMarkers = []string{" at ", " for ", " with "}
	knownRoles     = []string{"engineer", "developer", "manager", "analyst", "designer", "specialist"}
)

var fallbackPoints = []string{
	"✨ Exciting opportunity",
	"💼 Great career move",
	"📈 Professional growth",
	"🎯 Apply today",
}

// Fallback builds content from free text that does not follow the labeled format
func Fallback(raw string) Content {
	salary := salaryPattern.FindString(raw)
	company := companyOf(raw)
	role := roleOf(raw)

	title := fmt.Sprintf("New %s Opportunity!", role)
	if company != "" {
		title = fmt.Sprintf("%s at %s!", role, company)
	}

	hook := "🚀 Job Alert!"
	if salary != "" {
		hook = fmt.Sprintf("💰 %s Job Alert!", salary)
	}

	return Content{
		Title:    title,
		Hook:     hook,
		CTA:      DefaultCTA,
		Hashtags: fallbackHashtags,
		Points:   append([]string(nil), fallbackPoints...),
		Script: fmt.Sprintf("Exciting job update: %s. This is a great opportunity for career advancement. "+
			"Apply now and take your career to the next level!", raw),
		RawText: raw,
	}
}

// companyOf returns the word after the first marker found, checked in marker order
func companyOf(raw string) string {
	for _, marker := range companyMarkers {
		idx := strings.Index(raw, marker)
		if idx == -1 {
			continue
		}
		rest := raw[idx+len(marker):]
		if loc := companyCutset.FindStringIndex(rest); loc != nil {
			rest = rest[:loc[0]]
		}
		return rest
	}
	return ""
}

func roleOf(raw string) string {
	lower := strings.ToLower(raw)
	for _, r := range knownRoles {
		if strings.Contains(lower, r) {
			return strings.ToUpper(r[:1]) + r[1:]
		}
	}
	return "Position"
}
