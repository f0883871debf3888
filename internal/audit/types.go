// Package audit defines the SEO audit result types and the deterministic
// scoring and ranking applied to them.
package audit

import "time"

// Issue is a single finding produced by a category check.
type Issue struct {
	ID               string   `json:"id"`
	Severity         Severity `json:"severity"`
	Category         Category `json:"category"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	AffectedPages    []string `json:"affectedPages"`
	AutoFixAvailable bool     `json:"autoFixAvailable"`
	Impact           Level    `json:"impact"`
	Effort           Level    `json:"effort"`
}

// CategoryResult is the scored outcome of one category's checks.
type CategoryResult struct {
	Score    int     `json:"score"`
	Weight   float64 `json:"weight"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Warnings int     `json:"warnings"`
	Issues   []Issue `json:"issues"`
}

// Result is the output of one audit invocation.
type Result struct {
	ID              string                      `json:"id"`
	ProjectID       string                      `json:"projectId"`
	Scope           string                      `json:"scope"`
	Score           int                         `json:"score"`
	Breakdown       map[Category]CategoryResult `json:"breakdown"`
	Issues          []Issue                     `json:"issues"`
	Recommendations []Recommendation            `json:"recommendations"`
	Timestamp       time.Time                   `json:"timestamp"`
}

// Recommendation groups related issues under a single suggested action.
type Recommendation struct {
	Priority       int      `json:"priority"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ExpectedImpact string   `json:"expectedImpact"`
	RelatedIssues  []string `json:"relatedIssues"`
}
