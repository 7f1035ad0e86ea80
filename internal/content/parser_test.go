package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  JobPosting
	}{
		{
			name:  "bold header with bullet markers on one line",
			input: "📢 𝐉𝐎𝐁 𝐀𝐋𝐄𝐑𝐓 - 2024🔹Organization: Dept X🔹Post Name: Clerk🔹Vacancies: 10🔹Last Date: 31/12/2024",
			want: JobPosting{
				Title:        "2024",
				Organization: "Dept X",
				PostName:     "Clerk",
				Vacancies:    "10",
				LastDate:     "31/12/2024",
			},
		},
		{
			name: "plain header and links",
			input: "JOB ALERT – State Board Recruitment 2025\n" +
				"Qualification: Graduate\n" +
				"Notification Link: 👉 https://example.gov/notice.pdf\n" +
				"Apply Link: [https://example.gov/apply]\n" +
				"Follow us https://t.me/jobs\n" +
				"✨ https://instagram.com/jobs",
			want: JobPosting{
				Title:            "State Board Recruitment 2025",
				Qualification:    "Graduate",
				NotificationLink: "https://example.gov/notice.pdf",
				ApplyLink:        "https://example.gov/apply",
				SocialLinks:      []string{"https://t.me/jobs", "https://instagram.com/jobs"},
			},
		},
		{
			name:  "labels are case-insensitive and keep extra colons",
			input: "organization: Dept: Finance\nLAST DATE: 10:00 31/12",
			want: JobPosting{
				Organization: "Dept: Finance",
				LastDate:     "10:00 31/12",
			},
		},
		{
			name:  "first matching line wins",
			input: "Organization: First\nOrganization: Second\nJOB ALERT - One\nJOB ALERT - Two",
			want: JobPosting{
				Title:        "One",
				Organization: "First",
			},
		},
		{
			name:  "title stops at the second dash",
			input: "📢 𝐉𝐎𝐁 𝐀𝐋𝐄𝐑𝐓 - 2024 - Dept X",
			want:  JobPosting{Title: "2024"},
		},
		{
			name:  "mixed dash kinds",
			input: "JOB ALERT — Railway Board – Group D",
			want:  JobPosting{Title: "Railway Board"},
		},
		{
			name:  "header without dash keeps whole line",
			input: "JOB ALERT today",
			want:  JobPosting{Title: "JOB ALERT today"},
		},
		{
			name:  "free text",
			input: "We are hiring a developer at Acme",
			want:  JobPosting{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestParse_MultilineExample(t *testing.T) {
	got := Parse("📢 𝐉𝐎𝐁 𝐀𝐋𝐄𝐑𝐓 - 2024\n🔹Organization: Dept X\n🔹Post Name: Clerk\n🔹Vacancies: 10\n🔹Last Date: 31/12/2024")

	assert.Equal(t, "Dept X", got.Organization)
	assert.Equal(t, "Clerk", got.PostName)
	assert.Equal(t, "10", got.Vacancies)
	assert.Equal(t, "31/12/2024", got.LastDate)
	assert.Contains(t, got.Title, "2024")
}

func TestParse_LabelOrder(t *testing.T) {
	lines := []string{
		"📢 𝐉𝐎𝐁 𝐀𝐋𝐄𝐑𝐓 - UPSC CSE 2026",
		"🔹Organization: Union Public Service Commission",
		"🔹Post Name: Civil Services",
		"🔹Vacancies: 979",
		"🔹Qualification: Any Graduate",
		"🔹Last Date: 11/03/2026",
		"🔹Notification Link: https://upsc.gov.in/notice.pdf",
		"🔹Apply Link: https://upsconline.gov.in",
	}
	want := JobPosting{
		Title:            "UPSC CSE 2026",
		Organization:     "Union Public Service Commission",
		PostName:         "Civil Services",
		Vacancies:        "979",
		Qualification:    "Any Graduate",
		LastDate:         "11/03/2026",
		NotificationLink: "https://upsc.gov.in/notice.pdf",
		ApplyLink:        "https://upsconline.gov.in",
	}

	orders := map[string][]int{
		"as written":  {0, 1, 2, 3, 4, 5, 6, 7},
		"reversed":    {7, 6, 5, 4, 3, 2, 1, 0},
		"links first": {6, 7, 0, 1, 2, 3, 4, 5},
		"interleaved": {4, 0, 6, 2, 7, 1, 5, 3},
		"title last":  {1, 3, 5, 7, 2, 4, 6, 0},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			reordered := make([]string, len(order))
			for i, idx := range order {
				reordered[i] = lines[idx]
			}

			assert.Equal(t, want, Parse(strings.Join(reordered, "\n")))
			assert.Equal(t, want, Parse(strings.Join(reordered, "")), "inline markers")
		})
	}
}

func TestExtractURL(t *testing.T) {
	assert.Equal(t, "https://a.b/c", ExtractURL("see https://a.b/c now"))
	assert.Equal(t, "http://x.y", ExtractURL("[http://x.y]"))
	assert.Empty(t, ExtractURL("no links here"))
}
