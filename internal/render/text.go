package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/seoaudit/internal/audit"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options controls terminal output.
type Options struct {
	Color bool
	// Width caps issue title width; 0 means 72.
	Width int
}

// categoryTitle builds a new Caser per call; Casers are stateful.
func categoryTitle(c audit.Category) string {
	return cases.Title(language.English, cases.NoLower).String(c.Label())
}

type palette struct {
	bold, red, yellow, green, faint *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		bold:   color.New(color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.bold, p.red, p.yellow, p.green, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) score(n int) string {
	s := fmt.Sprintf("%3d", n)
	switch {
	case n >= 90:
		return p.green.Sprint(s)
	case n >= 70:
		return p.yellow.Sprint(s)
	default:
		return p.red.Sprint(s)
	}
}

func (p palette) severity(s audit.Severity) string {
	label := runewidth.FillRight(strings.ToUpper(string(s)), 8)
	switch s {
	case audit.SeverityCritical:
		return p.red.Sprint(label)
	case audit.SeverityWarning:
		return p.yellow.Sprint(label)
	default:
		return p.faint.Sprint(label)
	}
}

// Text writes a compact terminal summary of an audit result.
func Text(w io.Writer, r *audit.Result, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = 72
	}
	p := newPalette(opts.Color)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n", p.bold.Sprint("SEO audit"), r.ProjectID, r.Scope)
	fmt.Fprintf(&b, "Overall score: %s/100\n\n", p.score(r.Score))

	fmt.Fprintf(&b, "%s  %s  %s  %s  %s\n",
		runewidth.FillRight("Category", 16), "Score", "Passed", "Failed", "Warnings")
	for _, c := range audit.Categories {
		cr, ok := r.Breakdown[c]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s  %s    %6d  %6d  %8d\n",
			runewidth.FillRight(categoryTitle(c), 16), p.score(cr.Score), cr.Passed, cr.Failed, cr.Warnings)
	}

	if len(r.Issues) > 0 {
		issues := append([]audit.Issue(nil), r.Issues...)
		audit.SortIssues(issues)
		fmt.Fprintf(&b, "\n%s\n", p.bold.Sprint("Issues"))
		for _, iss := range issues {
			title := runewidth.Truncate(iss.Title, width, "…")
			fix := ""
			if iss.AutoFixAvailable {
				fix = p.green.Sprint(" [auto-fix]")
			}
			fmt.Fprintf(&b, "  %s %s%s\n", p.severity(iss.Severity), title, fix)
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.bold.Sprint("Recommendations"))
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  %d. %s %s\n", rec.Priority, rec.Title,
				p.faint.Sprintf("(%d %s)", len(rec.RelatedIssues), plural(len(rec.RelatedIssues))))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func plural(n int) string {
	if n == 1 {
		return "issue"
	}
	return "issues"
}
