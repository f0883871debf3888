package fix

import (
	"fmt"
	"os"
	"strings"
)

// Markdown renders fixes as a review document.
func Markdown(fixes []Fix) string {
	var b strings.Builder
	b.WriteString("# Drafted Fixes\n\n")
	for _, f := range fixes {
		fmt.Fprintf(&b, "## %s", f.IssueID)
		if f.Page != "" {
			fmt.Fprintf(&b, " (%s)", f.Page)
		}
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Kind: %s\n\n", f.Kind)
		if f.NeedsReview {
			b.WriteString("> NEEDS REVIEW\n")
			for _, fl := range f.Flags {
				fmt.Fprintf(&b, "> - %s\n", fl)
			}
			b.WriteString("\n")
		}
		fence := "```"
		if f.Kind == KindJSONLD {
			fence = "```json"
		}
		b.WriteString(fence + "\n")
		b.WriteString(strings.TrimRight(f.Content, "\n"))
		b.WriteString("\n```\n\n")
		if f.Notes != "" {
			fmt.Fprintf(&b, "%s\n\n", f.Notes)
		}
	}
	return b.String()
}

// WriteFile writes fixes as Markdown to path.
// If there are no fixes, no file is created.
func WriteFile(fixes []Fix, path string) error {
	if len(fixes) == 0 {
		return nil
	}
	if err := os.WriteFile(path, []byte(Markdown(fixes)), 0644); err != nil {
		return fmt.Errorf("fix.WriteFile: %w", err)
	}
	return nil
}
