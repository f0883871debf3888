package audit

import "sort"

// SortIssues sorts issues by severity (critical > warning > info),
// then by category report order, then by ID.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		oi := issues[i].Severity.Order()
		oj := issues[j].Severity.Order()
		if oi != oj {
			return oi < oj
		}
		ci := categoryOrder(issues[i].Category)
		cj := categoryOrder(issues[j].Category)
		if ci != cj {
			return ci < cj
		}
		return issues[i].ID < issues[j].ID
	})
}

// FilterBySeverity keeps issues at or above the given minimum severity.
// An invalid minimum keeps everything.
func FilterBySeverity(issues []Issue, min Severity) []Issue {
	if !min.Valid() {
		min = SeverityInfo
	}
	var out []Issue
	for _, iss := range issues {
		if iss.Severity.Valid() && iss.Severity.Order() <= min.Order() {
			out = append(out, iss)
		}
	}
	return out
}

func categoryOrder(c Category) int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}
