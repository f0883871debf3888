// Package schema validates audit results for internal consistency.
package schema

import (
	"fmt"
	"math"

	"github.com/dshills/seoaudit/internal/audit"
)

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Result for structural validity and checks that every
// score and count matches a recomputation from its issues.
// Passed counts are not checked because the total check count is not
// part of the result.
func Validate(r *audit.Result) []ValidationError {
	var errs []ValidationError

	if r.ProjectID == "" {
		errs = append(errs, ValidationError{"projectId", "required"})
	}
	if r.Timestamp.IsZero() {
		errs = append(errs, ValidationError{"timestamp", "required"})
	}
	if r.Score < 0 || r.Score > 100 {
		errs = append(errs, ValidationError{"score", fmt.Sprintf("out of range: %d", r.Score)})
	}

	for c := range r.Breakdown {
		if !c.Valid() {
			errs = append(errs, ValidationError{"breakdown", fmt.Sprintf("unknown category %q", c)})
		}
	}

	issueCount := 0
	for _, c := range audit.Categories {
		prefix := fmt.Sprintf("breakdown.%s", c)
		cr, ok := r.Breakdown[c]
		if !ok {
			errs = append(errs, ValidationError{prefix, "missing category"})
			continue
		}
		issueCount += len(cr.Issues)

		if math.Abs(cr.Weight-c.Weight()) > 1e-9 {
			errs = append(errs, ValidationError{prefix + ".weight", fmt.Sprintf("expected %.2f, got %.2f", c.Weight(), cr.Weight)})
		}
		expected := audit.ScoreCategory(c, cr.Issues, 0)
		if cr.Score != expected.Score {
			errs = append(errs, ValidationError{prefix + ".score", fmt.Sprintf("score %d does not match computed %d", cr.Score, expected.Score)})
		}
		if cr.Failed != expected.Failed {
			errs = append(errs, ValidationError{prefix + ".failed", fmt.Sprintf("expected %d, got %d", expected.Failed, cr.Failed)})
		}
		if cr.Warnings != expected.Warnings {
			errs = append(errs, ValidationError{prefix + ".warnings", fmt.Sprintf("expected %d, got %d", expected.Warnings, cr.Warnings)})
		}
		if cr.Passed < 0 {
			errs = append(errs, ValidationError{prefix + ".passed", "must be >= 0"})
		}
		for i, iss := range cr.Issues {
			if iss.Category != c {
				errs = append(errs, ValidationError{fmt.Sprintf("%s.issues[%d].category", prefix, i), fmt.Sprintf("expected %q, got %q", c, iss.Category)})
			}
		}
	}

	if expected := audit.OverallScore(r.Breakdown); r.Score != expected {
		errs = append(errs, ValidationError{"score", fmt.Sprintf("score %d does not match computed %d", r.Score, expected)})
	}
	if len(r.Issues) != issueCount {
		errs = append(errs, ValidationError{"issues", fmt.Sprintf("expected %d issues from breakdown, got %d", issueCount, len(r.Issues))})
	}

	// Validate issues
	issueIDs := make(map[string]bool)
	for i, iss := range r.Issues {
		prefix := fmt.Sprintf("issues[%d]", i)
		if iss.ID == "" {
			errs = append(errs, ValidationError{prefix + ".id", "required"})
		} else if issueIDs[iss.ID] {
			errs = append(errs, ValidationError{prefix + ".id", fmt.Sprintf("duplicate ID: %q", iss.ID)})
		} else {
			issueIDs[iss.ID] = true
		}
		if !iss.Severity.Valid() {
			errs = append(errs, ValidationError{prefix + ".severity", fmt.Sprintf("invalid: %q", iss.Severity)})
		}
		if !iss.Category.Valid() {
			errs = append(errs, ValidationError{prefix + ".category", fmt.Sprintf("invalid: %q", iss.Category)})
		}
		if !iss.Impact.Valid() {
			errs = append(errs, ValidationError{prefix + ".impact", fmt.Sprintf("invalid: %q", iss.Impact)})
		}
		if !iss.Effort.Valid() {
			errs = append(errs, ValidationError{prefix + ".effort", fmt.Sprintf("invalid: %q", iss.Effort)})
		}
		if iss.Title == "" {
			errs = append(errs, ValidationError{prefix + ".title", "required"})
		}
	}

	// Validate recommendations
	lastPriority := 0
	for i, rec := range r.Recommendations {
		prefix := fmt.Sprintf("recommendations[%d]", i)
		if rec.Priority < audit.PriorityCritical || rec.Priority > audit.PriorityQuickWin {
			errs = append(errs, ValidationError{prefix + ".priority", fmt.Sprintf("invalid: %d", rec.Priority)})
		}
		if rec.Priority <= lastPriority {
			errs = append(errs, ValidationError{prefix + ".priority", "recommendations must be in ascending priority order"})
		}
		lastPriority = rec.Priority
		if rec.Title == "" {
			errs = append(errs, ValidationError{prefix + ".title", "required"})
		}
		if len(rec.RelatedIssues) == 0 {
			errs = append(errs, ValidationError{prefix + ".relatedIssues", "at least one related issue required"})
		}
		for j, id := range rec.RelatedIssues {
			if !issueIDs[id] {
				errs = append(errs, ValidationError{fmt.Sprintf("%s.relatedIssues[%d]", prefix, j), fmt.Sprintf("unknown issue ID: %q", id)})
			}
		}
	}

	return errs
}
