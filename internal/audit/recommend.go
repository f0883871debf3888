package audit

import "fmt"

// Recommendation priorities.
const (
	PriorityCritical = 1
	PriorityAutoFix  = 2
	PriorityQuickWin = 3
)

// Recommend partitions issues into up to three recommendations: critical
// issues, auto-fixable issues, and high-impact/low-effort quick wins.
// The buckets are independent; an issue can be related to more than one.
// Empty buckets are omitted.
func Recommend(issues []Issue) []Recommendation {
	recs := []Recommendation{}

	if ids := issueIDs(issues, func(iss Issue) bool { return iss.Severity == SeverityCritical }); len(ids) > 0 {
		recs = append(recs, Recommendation{
			Priority:       PriorityCritical,
			Title:          "Fix critical issues",
			Description:    fmt.Sprintf("%d critical %s blocking search visibility or compliance. Address these first.", len(ids), plural(len(ids), "issue is", "issues are")),
			ExpectedImpact: "High: removes the largest score deductions and compliance risks",
			RelatedIssues:  ids,
		})
	}

	if ids := issueIDs(issues, func(iss Issue) bool { return iss.AutoFixAvailable }); len(ids) > 0 {
		recs = append(recs, Recommendation{
			Priority:       PriorityAutoFix,
			Title:          "Apply automatic fixes",
			Description:    fmt.Sprintf("%d %s can be fixed automatically.", len(ids), plural(len(ids), "issue", "issues")),
			ExpectedImpact: "Medium: quick score gains with no manual work",
			RelatedIssues:  ids,
		})
	}

	if ids := issueIDs(issues, func(iss Issue) bool { return iss.Impact == LevelHigh && iss.Effort == LevelLow }); len(ids) > 0 {
		recs = append(recs, Recommendation{
			Priority:       PriorityQuickWin,
			Title:          "Quick wins",
			Description:    fmt.Sprintf("%d high-impact %s need little effort.", len(ids), plural(len(ids), "change", "changes")),
			ExpectedImpact: "High impact for low effort",
			RelatedIssues:  ids,
		})
	}

	return recs
}

func issueIDs(issues []Issue, keep func(Issue) bool) []string {
	var ids []string
	for _, iss := range issues {
		if keep(iss) {
			ids = append(ids, iss.ID)
		}
	}
	return ids
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
