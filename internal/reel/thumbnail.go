package reel

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"strings"
	"text/template"

	"github.com/cuongbtq/jobreel/internal/content"
)

const (
	StyleProfessional = "professional"
	StyleVibrant      = "vibrant"
	StyleMinimal      = "minimal"

	wrapWidth = 40
)

type gradient struct {
	From, To string
}

var gradients = map[string]gradient{
	StyleProfessional: {"#667eea", "#764ba2"},
	StyleVibrant:      {"#f093fb", "#f5576c"},
	StyleMinimal:      {"#434343", "#000000"},
}

// IsStyle reports whether s names a known reel style
func IsStyle(s string) bool {
	_, ok := gradients[s]
	return ok
}

type textLine struct {
	Y    int
	Size int
	Fill string
	Text string
}

var thumbnailTmpl = template.Must(template.New("thumbnail").Funcs(template.FuncMap{"x": escapeXML}).Parse(
	`<svg width="300" height="400" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="bg" x1="0%" y1="0%" x2="100%" y2="100%">
      <stop offset="0%" style="stop-color:{{.Gradient.From}};stop-opacity:1"/>
      <stop offset="100%" style="stop-color:{{.Gradient.To}};stop-opacity:1"/>
    </linearGradient>
  </defs>
  <rect width="100%" height="100%" fill="url(#bg)"/>
{{- range .Lines}}
  <text x="150" y="{{.Y}}" font-family="Arial" font-size="{{.Size}}"{{if ge .Size 14}} font-weight="bold"{{end}} fill="{{.Fill}}" text-anchor="middle">{{x .Text}}</text>
{{- end}}
</svg>
`))

// Thumbnail renders a 300x400 SVG card and returns it as a base64 data URL
func Thumbnail(c content.Content, style string) string {
	g, ok := gradients[style]
	if !ok {
		g = gradients[StyleProfessional]
	}

	var buf bytes.Buffer
	// the template only fails on writer errors, which bytes.Buffer never returns
	_ = thumbnailTmpl.Execute(&buf, struct {
		Gradient gradient
		Lines    []textLine
	}{g, thumbnailLines(c)})

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func thumbnailLines(c content.Content) []textLine {
	const white, grey = "#ffffff", "#cccccc"

	lines := []textLine{
		{Y: 30, Size: 14, Fill: white, Text: c.Hook},
		{Y: 50, Size: 14, Fill: white, Text: c.Title},
	}

	y := 80
	add := func(prefix, text string) {
		for i, l := range WrapText(text, wrapWidth) {
			if i == 0 {
				l = prefix + l
			}
			lines = append(lines, textLine{Y: y, Size: 12, Fill: white, Text: l})
			y += 20
		}
	}

	add("🏢 ", c.Job.Organization)
	add("🎓 ", c.Job.PostName)
	y += 10
	lines = append(lines,
		textLine{Y: y, Size: 12, Fill: white, Text: "🔢 Vacancies: " + c.Job.Vacancies},
		textLine{Y: y + 30, Size: 12, Fill: white, Text: "📅 Last Date: " + c.Job.LastDate},
	)
	y += 60
	add("🎓 ", c.Job.Qualification)
	y += 10
	lines = append(lines,
		textLine{Y: y, Size: 12, Fill: white, Text: c.CTA},
		textLine{Y: y + 20, Size: 10, Fill: grey, Text: c.Hashtags},
		textLine{Y: 370, Size: 8, Fill: white, Text: "Links in description"},
	)
	return lines
}

// WrapText splits text into lines of at most width characters, breaking on spaces.
// A single word longer than width gets its own line.
func WrapText(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len([]rune(line))+1+len([]rune(word)) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
