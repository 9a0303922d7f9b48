package export

import (
	"errors"
	"regexp"
	"strings"

	"readings/internal/logs"
)

// Layout holds the fixed page geometry of an export, in points. Vertical
// positions are measured from the top edge of the page.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64 // left margin; images keep it on both sides
	Top        float64 // first baseline on a fresh page
	Bottom     float64 // cursor may not pass PageHeight-Bottom
	LineHeight float64
	ImageGap   float64 // space left under an image
	FontSize   float64
}

// LetterLayout is a US Letter page with the margins used for every export
var LetterLayout = Layout{
	PageWidth:  612,
	PageHeight: 792,
	Margin:     40,
	Top:        30,
	Bottom:     40,
	LineHeight: 20,
	ImageGap:   20,
	FontSize:   12,
}

// surface is what the renderer draws on
type surface interface {
	AddPage()
	Text(x, y float64, s string)
	TextWidth(s string) float64
	Image(img Image, x, y, w, h float64) error
}

var embedPattern = regexp.MustCompile(`!\[\[([^\]]+)\]\]`)

// EmbeddedFiles returns the file names referenced as ![[name]] in text, in
// order of appearance. Aliases (|…) and anchors (#…) are dropped.
func EmbeddedFiles(text string) []string {
	var result []string
	for _, m := range embedPattern.FindAllStringSubmatch(text, -1) {
		if name := refName(m[1]); name != "" {
			result = append(result, name)
		}
	}
	return result
}

func refName(ref string) string {
	if i := strings.IndexAny(ref, "|#"); i >= 0 {
		ref = ref[:i]
	}
	return strings.TrimSpace(ref)
}

// renderer lays out text blocks line by line on a surface
type renderer struct {
	layout  Layout
	out     surface
	resolve func(name string) (string, bool)
	load    func(path string) ([]Image, error)

	y          float64
	onPage     bool // a page has been added for the current cursor
	unresolved []string
}

// render draws every block starting on a fresh page
func (r *renderer) render(blocks []string) {
	for _, block := range blocks {
		r.newPage()
		for _, line := range strings.Split(block, "\n") {
			r.renderLine(strings.TrimSpace(line))
		}
	}
}

func (r *renderer) renderLine(line string) {
	refs := embedPattern.FindAllStringSubmatch(line, -1)
	if len(refs) == 0 {
		r.drawWrapped(line)
		return
	}

	if rest := strings.TrimSpace(embedPattern.ReplaceAllString(line, "")); rest != "" {
		r.drawWrapped(rest)
	}
	for _, m := range refs {
		if name := refName(m[1]); name != "" {
			r.drawAttachment(name)
		}
	}
}

func (r *renderer) drawAttachment(name string) {
	path, ok := r.resolve(name)
	if !ok {
		logs.Warn("could not find attachment %q", name)
		r.unresolved = append(r.unresolved, name)
		r.drawLine("Could not find file: " + name)
		return
	}

	images, err := r.load(path)
	if err != nil {
		if errors.Is(err, errUnsupported) {
			r.drawLine("Unsupported attachment: " + name)
			return
		}
		logs.Warn("could not load attachment %s: %v", path, err)
		r.unresolved = append(r.unresolved, name)
		r.drawLine("Could not load file: " + name)
		return
	}

	failed := false
	for _, img := range images {
		if err := r.drawImage(img); err != nil {
			logs.Warn("could not draw %s: %v", img.Name, err)
			r.drawLine("Could not load file: " + name)
			failed = true
		}
	}
	if failed {
		r.unresolved = append(r.unresolved, name)
	}
}

func (r *renderer) drawImage(img Image) error {
	if img.Width <= 0 || img.Height <= 0 {
		return errEmptyImage
	}

	l := r.layout
	w := l.PageWidth - 2*l.Margin
	h := w * float64(img.Height) / float64(img.Width)

	// Never taller than a whole page
	if usable := l.PageHeight - l.Top - l.Bottom; h > usable {
		h = usable
		w = h * float64(img.Width) / float64(img.Height)
	}

	if r.y+h > l.PageHeight-l.Bottom && r.y > l.Top {
		r.newPage()
	}

	r.ensurePage()
	if err := r.out.Image(img, l.Margin, r.y, w, h); err != nil {
		return err
	}
	r.y += h + l.ImageGap
	r.breakIfFull()
	return nil
}

// drawWrapped draws line, wrapping on spaces to stay inside the margins
func (r *renderer) drawWrapped(line string) {
	for _, part := range r.wrap(line) {
		r.drawLine(part)
	}
}

func (r *renderer) drawLine(s string) {
	r.ensurePage()
	r.out.Text(r.layout.Margin, r.y, s)
	r.y += r.layout.LineHeight
	r.breakIfFull()
}

func (r *renderer) wrap(line string) []string {
	maxWidth := r.layout.PageWidth - 2*r.layout.Margin
	if line == "" || r.out.TextWidth(line) <= maxWidth {
		return []string{line}
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(line) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && r.out.TextWidth(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func (r *renderer) breakIfFull() {
	if r.y > r.layout.PageHeight-r.layout.Bottom {
		r.newPage()
	}
}

// newPage moves the cursor to the top of the next page. The page itself is
// added on the first draw so no blank pages are emitted.
func (r *renderer) newPage() {
	r.onPage = false
	r.y = r.layout.Top
}

func (r *renderer) ensurePage() {
	if !r.onPage {
		r.out.AddPage()
		r.onPage = true
	}
}
