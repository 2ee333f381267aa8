package format

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"tracker-cli/internal/model"
)

const (
	defaultWidth = 100
	minWidth     = 40
)

// Renderer holds terminal facts for text output: usable width and color profile.
type Renderer struct {
	Width   int
	Profile termenv.Profile

	lg *lipgloss.Renderer
}

// NewRenderer inspects w. Colors are used only on a terminal, never when
// NO_COLOR is set; width follows the terminal when it can be read.
func NewRenderer(w io.Writer) *Renderer {
	width, profile := defaultWidth, termenv.Ascii
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			width = cols
		}
		profile = termenv.NewOutput(f).EnvColorProfile()
	}
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		profile = termenv.Ascii
	}
	return newRenderer(w, width, profile)
}

// NewPlainRenderer returns an uncolored renderer of the given width.
func NewPlainRenderer(width int) *Renderer {
	return newRenderer(io.Discard, width, termenv.Ascii)
}

func newRenderer(w io.Writer, width int, profile termenv.Profile) *Renderer {
	if width < minWidth {
		width = minWidth
	}
	lg := lipgloss.NewRenderer(w)
	lg.SetColorProfile(profile)
	return &Renderer{Width: width, Profile: profile, lg: lg}
}

func (r *Renderer) style() lipgloss.Style { return r.lg.NewStyle() }

func (r *Renderer) Muted(s string) string { return r.style().Faint(true).Render(s) }

func (r *Renderer) Bold(s string) string { return r.style().Bold(true).Render(s) }

func (r *Renderer) Status(st model.Status) string {
	var c lipgloss.Color
	switch st {
	case model.StatusInProgress:
		c = "33"
	case model.StatusDone:
		c = "34"
	case model.StatusBlocked:
		c = "160"
	default:
		c = "245"
	}
	return r.style().Foreground(c).Render(statusGlyph(st))
}

func statusGlyph(st model.Status) string {
	switch st {
	case model.StatusInProgress:
		return "[~]"
	case model.StatusDone:
		return "[x]"
	case model.StatusBlocked:
		return "[!]"
	default:
		return "[ ]"
	}
}

func (r *Renderer) BugStatus(st model.BugStatus) string {
	var c lipgloss.Color
	switch st {
	case model.BugFixed:
		c = "34"
	case model.BugWontFix:
		c = "245"
	default:
		c = "160"
	}
	return r.style().Foreground(c).Render(string(st))
}

// Bar renders a fixed-width progress bar followed by the percentage.
func (r *Renderer) Bar(pct int) string {
	const cells = 10
	pct = min(max(pct, 0), 100)
	filled := pct * cells / 100
	bar := r.style().Foreground(lipgloss.Color("34")).Render(strings.Repeat("█", filled)) +
		r.Muted(strings.Repeat("░", cells-filled))
	return bar + " " + padLeft(strconv.Itoa(pct)+"%", 4)
}

// Truncate cuts s to n display cells, ANSI-aware.
func (r *Renderer) Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= n {
		return s
	}
	return xansi.Truncate(s, n, "…")
}

// Markdown renders notes with glamour; on failure the raw text is returned.
func (r *Renderer) Markdown(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	style := styles.DarkStyle
	if r.Profile == termenv.Ascii {
		style = styles.NoTTYStyle
	}
	gr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(r.Width-4),
		glamour.WithColorProfile(r.Profile),
	)
	if err != nil {
		return md
	}
	out, err := gr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func visibleWidth(s string) int { return xansi.StringWidth(s) }

func padLeft(s string, n int) string {
	if w := xansi.StringWidth(s); w < n {
		return strings.Repeat(" ", n-w) + s
	}
	return s
}

func padRight(s string, n int) string {
	if w := xansi.StringWidth(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
