// Package render produces Markdown and terminal reports from an audit result.
package render

import (
	"fmt"
	"strings"

	"github.com/dshills/seoaudit/internal/audit"
)

// Markdown renders an audit result as a Markdown report.
func Markdown(r *audit.Result) string {
	var b strings.Builder

	// Summary
	b.WriteString("# SEO Audit Report\n\n")
	fmt.Fprintf(&b, "**Project:** %s\n", r.ProjectID)
	fmt.Fprintf(&b, "**Scope:** %s\n", r.Scope)
	fmt.Fprintf(&b, "**Score:** %d / 100\n", r.Score)
	crit, warn, info := audit.Counts(r.Issues)
	fmt.Fprintf(&b, "**Issues:** %d critical, %d warnings, %d info\n\n", crit, warn, info)

	// Breakdown
	b.WriteString("## Category Breakdown\n\n")
	b.WriteString("| Category | Score | Weight | Passed | Failed | Warnings |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, c := range audit.Categories {
		cr, ok := r.Breakdown[c]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %.0f%% | %d | %d | %d |\n",
			categoryTitle(c), cr.Score, cr.Weight*100, cr.Passed, cr.Failed, cr.Warnings)
	}
	b.WriteString("\n")

	// Recommendations
	if len(r.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "%d. **%s**: %s\n", rec.Priority, rec.Title, rec.Description)
			fmt.Fprintf(&b, "   Expected impact: %s. Related: %s\n", rec.ExpectedImpact, strings.Join(rec.RelatedIssues, ", "))
		}
		b.WriteString("\n")
	}

	// Issues by severity
	sections := []struct {
		heading  string
		severity audit.Severity
	}{
		{"Critical Issues", audit.SeverityCritical},
		{"Warnings", audit.SeverityWarning},
		{"Info", audit.SeverityInfo},
	}
	for _, s := range sections {
		issues := onlySeverity(r.Issues, s.severity)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", s.heading)
		for _, iss := range issues {
			renderIssue(&b, iss)
		}
	}

	if len(r.Issues) == 0 {
		b.WriteString("No issues found.\n\n")
	}

	fmt.Fprintf(&b, "_Audit %s at %s_\n", r.ID, r.Timestamp.Format("2006-01-02 15:04 MST"))
	return b.String()
}

func onlySeverity(issues []audit.Issue, sev audit.Severity) []audit.Issue {
	var out []audit.Issue
	for _, iss := range issues {
		if iss.Severity == sev {
			out = append(out, iss)
		}
	}
	return out
}

func renderIssue(b *strings.Builder, iss audit.Issue) {
	fmt.Fprintf(b, "### %s [%s / %s]\n\n", iss.Title, iss.Severity, categoryTitle(iss.Category))
	fmt.Fprintf(b, "%s\n\n", iss.Description)
	if len(iss.AffectedPages) > 0 {
		fmt.Fprintf(b, "**Pages:** %s\n\n", strings.Join(iss.AffectedPages, ", "))
	}
	fmt.Fprintf(b, "**Impact:** %s · **Effort:** %s", iss.Impact, iss.Effort)
	if iss.AutoFixAvailable {
		b.WriteString(" · auto-fix available")
	}
	b.WriteString("\n\n")
}
