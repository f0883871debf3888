package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/seoaudit/internal/audit"
)

// CheckRow is one catalog entry in a check listing.
type CheckRow struct {
	Category    audit.Category
	ID          string
	Severity    audit.Severity
	Title       string
	AutoFix     bool
	Conditional bool
}

// Checks writes a catalog listing grouped by category.
func Checks(w io.Writer, rows []CheckRow, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = 72
	}
	p := newPalette(opts.Color)

	idWidth := 0
	for _, row := range rows {
		idWidth = max(idWidth, runewidth.StringWidth(row.ID))
	}

	var b strings.Builder
	var current audit.Category
	for _, row := range rows {
		if row.Category != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = row.Category
			fmt.Fprintf(&b, "%s\n", p.bold.Sprint(categoryTitle(row.Category)))
		}
		var marks []string
		if row.AutoFix {
			marks = append(marks, "auto-fix")
		}
		if !row.Conditional {
			marks = append(marks, "always")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = " " + p.faint.Sprintf("[%s]", strings.Join(marks, ", "))
		}
		fmt.Fprintf(&b, "  %s %s %s%s\n",
			runewidth.FillRight(row.ID, idWidth), p.severity(row.Severity),
			runewidth.Truncate(row.Title, width, "…"), suffix)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
