package audit

import (
	"time"

	"github.com/google/uuid"
)

// DefaultScope is used when a request names no scope.
const DefaultScope = "full"

// Assemble builds the audit result from a complete category breakdown.
// Issues are flattened in category report order.
func Assemble(projectID, scope string, breakdown map[Category]CategoryResult, now time.Time) Result {
	if scope == "" {
		scope = DefaultScope
	}

	issues := []Issue{}
	for _, c := range Categories {
		issues = append(issues, breakdown[c].Issues...)
	}

	return Result{
		ID:              uuid.New().String(),
		ProjectID:       projectID,
		Scope:           scope,
		Score:           OverallScore(breakdown),
		Breakdown:       breakdown,
		Issues:          issues,
		Recommendations: Recommend(issues),
		Timestamp:       now.UTC(),
	}
}

// Counts returns the number of issues at each severity.
func Counts(issues []Issue) (critical, warning, info int) {
	for _, iss := range issues {
		switch iss.Severity {
		case SeverityCritical:
			critical++
		case SeverityWarning:
			warning++
		case SeverityInfo:
			info++
		}
	}
	return critical, warning, info
}
