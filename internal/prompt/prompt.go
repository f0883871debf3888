// Package prompt builds the LLM prompts used to draft fixes for audit issues.
package prompt

import (
	"fmt"
	"strings"

	"github.com/dshills/seoaudit/internal/audit"
	"github.com/dshills/seoaudit/internal/project"
	"github.com/dshills/seoaudit/internal/redact"
)

// System is the system prompt for fix drafting.
const System = `You are an SEO and healthcare-compliance copywriter. You draft concrete fixes for website audit issues.
You MUST output ONLY valid JSON matching the schema you are given. No markdown, no prose outside JSON.`

// DefaultMaxFixes caps how many issues are sent in one request.
const DefaultMaxFixes = 20

// FixOpts configures fix prompt construction.
type FixOpts struct {
	Project  *project.Project
	Issues   []audit.Issue
	MaxFixes int
	Redact   bool
}

// BuildFix assembles the prompt asking the model to draft fixes for issues.
func BuildFix(opts FixOpts) string {
	clean := func(s string) string {
		if opts.Redact {
			return redact.Redact(s)
		}
		return s
	}

	var b strings.Builder

	b.WriteString(fixSchema)
	b.WriteString("\n\n")

	b.WriteString(`## Rules

1. Draft one fix per issue and affected page. Use the issue id exactly as given.
2. Do NOT invent facts about the practice: no providers, credentials, awards, prices or outcomes that are not in the project details.
3. Never promise cures, guaranteed results or outcomes. Health claims must be qualified and cite no statistics you were not given.
4. Titles stay under 60 characters; meta descriptions stay between 120 and 160 characters.
5. JSON-LD must be valid schema.org markup using only the project details below.

`)

	p := opts.Project
	if p != nil {
		b.WriteString("## Project\n\n")
		fmt.Fprintf(&b, "- Name: %s\n", clean(orUnknown(p.Name)))
		fmt.Fprintf(&b, "- Industry: %s\n", orUnknown(p.Industry))
		fmt.Fprintf(&b, "- Domain: %s\n", orUnknown(p.Domain))
		if p.NAP.Name != "" || p.NAP.Address != "" || p.NAP.Phone != "" {
			fmt.Fprintf(&b, "- NAP: %s | %s | %s\n", clean(p.NAP.Name), clean(p.NAP.Address), clean(p.NAP.Phone))
		}
		if len(p.SchemaTypes) > 0 {
			fmt.Fprintf(&b, "- Existing schema types: %s\n", strings.Join(p.SchemaTypes, ", "))
		}
		if len(p.Pages) > 0 {
			b.WriteString("\n### Pages\n\n")
			for _, pg := range p.Pages {
				fmt.Fprintf(&b, "<page path=%q words=\"%d\">\n", pg.Path, pg.WordCount)
				fmt.Fprintf(&b, "title: %s\nmeta_description: %s\n</page>\n", clean(pg.Title), clean(pg.MetaDescription))
			}
		}
		b.WriteString("\n")
	}

	maxFixes := opts.MaxFixes
	if maxFixes <= 0 {
		maxFixes = DefaultMaxFixes
	}
	issues := opts.Issues
	if len(issues) > maxFixes {
		issues = issues[:maxFixes]
	}

	b.WriteString("## Issues\n\n")
	for _, iss := range issues {
		fmt.Fprintf(&b, "<issue id=%q category=%q severity=%q>\n", iss.ID, iss.Category, iss.Severity)
		fmt.Fprintf(&b, "title: %s\ndescription: %s\npages: %s\n</issue>\n", iss.Title, clean(iss.Description), strings.Join(iss.AffectedPages, ", "))
	}
	fmt.Fprintf(&b, "\nReturn fixes for these %d issues only.\n", len(issues))

	return b.String()
}

// BuildRepair constructs a follow-up prompt to fix validation errors in a
// previous response.
func BuildRepair(originalOutput string, problems []string) string {
	var b strings.Builder
	b.WriteString("The JSON output you returned has validation errors. Fix ONLY the errors listed below and return the corrected JSON.\n\n")
	b.WriteString("## Validation Errors\n\n")
	for _, p := range problems {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("\n## Original Output\n\n```json\n")
	b.WriteString(originalOutput)
	b.WriteString("\n```\n\nReturn ONLY the corrected JSON. No prose.\n")
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}

const fixSchema = `## Output JSON Schema

{
  "fixes": [{
    "issue_id": string,
    "page": string,
    "kind": "title" | "meta_description" | "json_ld" | "alt_text" | "content" | "config",
    "content": string,
    "notes": string
  }]
}`
