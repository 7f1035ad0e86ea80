package reel

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	"github.com/cuongbtq/jobreel/internal/content"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	FrameWidth  = 1080
	FrameHeight = 1920

	// frames are drawn at a quarter of the output size and scaled up
	canvasScale  = 4
	canvasWidth  = FrameWidth / canvasScale
	canvasHeight = FrameHeight / canvasScale
	canvasMargin = 12
)

// Frame is one still of the reel
type Frame struct {
	Name       string
	Background color.RGBA
	Title      string
	Subtitle   string
	Duration   int

	titleColor    color.RGBA
	subtitleColor color.RGBA
	titleY        int
	subtitleY     int
}

var (
	white  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	grey   = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	yellow = color.RGBA{0xff, 0xdd, 0x44, 0xff}
	coral  = color.RGBA{0xff, 0x6b, 0x6b, 0xff}
)

// Frames lays out the title, details, qualification and call to action stills
func Frames(c content.Content) []Frame {
	title := or(c.Title, "📢 JOB ALERT")
	hook := or(c.Hook, "🚨 New Opportunity!")

	return []Frame{
		{
			Name: "title", Background: hexColor(0x1a1a2e), Duration: 3,
			Title: title, Subtitle: hook,
			titleColor: white, subtitleColor: yellow, titleY: 100, subtitleY: 150,
		},
		{
			Name: "details", Background: hexColor(0x16213e), Duration: 5,
			Title: or(c.Job.PostName, "Position Available"),
			Subtitle: fmt.Sprintf("🏢 %s\n💼 %s Vacancies\n📅 Last Date: %s",
				c.Job.Organization, c.Job.Vacancies, c.Job.LastDate),
			titleColor: white, subtitleColor: grey, titleY: 75, subtitleY: 150,
		},
		{
			Name: "qualification", Background: hexColor(0x0f3460), Duration: 4,
			Title:      "📚 Qualification Required",
			Subtitle:   or(c.Job.Qualification, "Check notification for details"),
			titleColor: white, subtitleColor: grey, titleY: 88, subtitleY: 125,
		},
		{
			Name: "cta", Background: hexColor(0x2d1b69), Duration: 3,
			Title:      or(c.CTA, "Apply Now!"),
			Subtitle:   c.Hashtags + "\n\n🔗 Links in description",
			titleColor: coral, subtitleColor: white, titleY: 100, subtitleY: 150,
		},
	}
}

// Draw renders the frame at FrameWidth x FrameHeight
func (f Frame) Draw() *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	fillGradient(canvas, f.Background)

	face := basicfont.Face7x13
	maxChars := (canvasWidth - 2*canvasMargin) / face.Advance

	y := f.titleY
	for _, line := range wrapParagraphs(f.Title, maxChars) {
		drawCentered(canvas, face, line, y, f.titleColor)
		y += face.Height + 4
	}

	y = max(f.subtitleY, y+face.Height)
	for _, line := range wrapParagraphs(f.Subtitle, maxChars) {
		drawCentered(canvas, face, line, y, f.subtitleColor)
		y += face.Height + 2
	}

	out := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return out
}

// fillGradient paints bg with a light-to-dark vertical overlay
func fillGradient(img *image.RGBA, bg color.RGBA) {
	h := img.Bounds().Dy()
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h)
		// white at 10% on top fading to black at 30% at the bottom
		lighten := 0.1 * (1 - t)
		darken := 0.3 * t
		row := color.RGBA{
			R: shade(bg.R, lighten, darken),
			G: shade(bg.G, lighten, darken),
			B: shade(bg.B, lighten, darken),
			A: 0xff,
		}
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.SetRGBA(x, y, row)
		}
	}
}

func shade(c uint8, lighten, darken float64) uint8 {
	v := float64(c)
	v += (255 - v) * lighten
	v -= v * darken
	return uint8(v)
}

func drawCentered(img *image.RGBA, face *basicfont.Face, text string, y int, c color.Color) {
	text = drawable(face, text)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	d.Dot = fixed.P((img.Bounds().Dx()-width)/2, y)
	d.DrawString(text)
}

// drawable drops runes the face has no glyph for, such as emoji
func drawable(face *basicfont.Face, text string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		for _, rng := range face.Ranges {
			if rng.Low <= r && r < rng.High {
				return r
			}
		}
		return -1
	}, text))
}

func wrapParagraphs(text string, width int) []string {
	var lines []string
	for _, p := range strings.Split(text, "\n") {
		wrapped := WrapText(p, width)
		if len(wrapped) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapped...)
	}
	return lines
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return f.Close()
}

func hexColor(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
