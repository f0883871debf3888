package audit

import "math"

// ScoreCategory scores one category's issues.
// Starts at 100, subtracts 10 per critical, 5 per warning, 1 per info, clamps at 0.
// Critical issues count as failed checks and warnings as warnings; info issues
// count toward neither, so they are not subtracted from passed.
func ScoreCategory(c Category, issues []Issue, totalChecks int) CategoryResult {
	score := 100
	var failed, warnings int
	for _, iss := range issues {
		score -= iss.Severity.deduction()
		switch iss.Severity {
		case SeverityCritical:
			failed++
		case SeverityWarning:
			warnings++
		}
	}
	if score < 0 {
		score = 0
	}

	passed := totalChecks - failed - warnings
	if passed < 0 {
		passed = 0
	}

	if issues == nil {
		issues = []Issue{}
	}
	return CategoryResult{
		Score:    score,
		Weight:   c.Weight(),
		Passed:   passed,
		Failed:   failed,
		Warnings: warnings,
		Issues:   issues,
	}
}

// OverallScore is the weighted sum of category scores, rounded half up.
// Categories are summed in fixed order so the result does not depend on map iteration.
func OverallScore(breakdown map[Category]CategoryResult) int {
	var sum float64
	for _, c := range Categories {
		r, ok := breakdown[c]
		if !ok {
			continue
		}
		sum += float64(r.Score) * r.Weight
	}
	score := int(math.Floor(sum + 0.5))
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}
