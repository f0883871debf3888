package audit

import (
	"testing"
	"time"
)

// --- Enum validation tests ---

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityCritical, SeverityWarning, SeverityInfo} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Severity("high").Valid() {
		t.Error("expected high severity to be invalid")
	}
}

func TestLevelValid(t *testing.T) {
	for _, l := range []Level{LevelLow, LevelMedium, LevelHigh} {
		if !l.Valid() {
			t.Errorf("expected %q to be valid", l)
		}
	}
	if Level("extreme").Valid() {
		t.Error("expected extreme level to be invalid")
	}
}

func TestCategoryWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
		sum += c.Weight()
	}
	if sum < 0.999999 || sum > 1.000001 {
		t.Errorf("weights sum to %f, want 1.0", sum)
	}
	if Category("social").Valid() {
		t.Error("expected social category to be invalid")
	}
}

// --- Category score tests ---

func TestScoreCategory(t *testing.T) {
	tests := []struct {
		name   string
		issues []Issue
		want   int
	}{
		{"empty", nil, 100},
		{"one critical", []Issue{{Severity: SeverityCritical}}, 90},
		{"one warning", []Issue{{Severity: SeverityWarning}}, 95},
		{"one info", []Issue{{Severity: SeverityInfo}}, 99},
		{"mixed", []Issue{
			{Severity: SeverityCritical},
			{Severity: SeverityWarning},
			{Severity: SeverityWarning},
			{Severity: SeverityInfo},
		}, 79},
		{"clamp at zero", repeat(Issue{Severity: SeverityCritical}, 11), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreCategory(CategoryTechnical, tt.issues, 20)
			if got.Score != tt.want {
				t.Errorf("score = %d, want %d", got.Score, tt.want)
			}
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("score %d out of range", got.Score)
			}
		})
	}
}

func TestScoreCategoryOneCritical(t *testing.T) {
	r := ScoreCategory(CategoryContent, []Issue{{ID: "c-1", Severity: SeverityCritical}}, 13)
	if r.Score != 90 {
		t.Errorf("score = %d, want 90", r.Score)
	}
	if r.Failed != 1 {
		t.Errorf("failed = %d, want 1", r.Failed)
	}
	if r.Passed != 12 {
		t.Errorf("passed = %d, want 12", r.Passed)
	}
	if r.Weight != 0.25 {
		t.Errorf("weight = %f, want 0.25", r.Weight)
	}
}

func TestScoreCategoryWarningsAndInfo(t *testing.T) {
	issues := []Issue{
		{ID: "t-1", Severity: SeverityWarning, Category: CategoryTechnical},
		{ID: "t-2", Severity: SeverityWarning, Category: CategoryTechnical},
		{ID: "t-3", Severity: SeverityInfo, Category: CategoryTechnical},
		{ID: "t-4", Severity: SeverityInfo, Category: CategoryTechnical},
	}
	r := ScoreCategory(CategoryTechnical, issues, 15)
	if r.Score != 88 {
		t.Errorf("score = %d, want 88", r.Score)
	}
	if r.Passed != 13 || r.Failed != 0 || r.Warnings != 2 {
		t.Errorf("passed/failed/warnings = %d/%d/%d, want 13/0/2", r.Passed, r.Failed, r.Warnings)
	}
	if len(r.Issues) != 4 {
		t.Errorf("expected 4 issues, got %d", len(r.Issues))
	}
}

func TestScoreCategoryPassedFloor(t *testing.T) {
	r := ScoreCategory(CategorySchema, repeat(Issue{Severity: SeverityWarning}, 5), 3)
	if r.Passed != 0 {
		t.Errorf("passed = %d, want 0", r.Passed)
	}
}

func TestScoreCategoryEmptyIssuesNotNil(t *testing.T) {
	r := ScoreCategory(CategoryEEAT, nil, 4)
	if r.Issues == nil {
		t.Error("expected empty, non-nil issue slice")
	}
	if r.Passed != 4 {
		t.Errorf("passed = %d, want 4", r.Passed)
	}
}

// --- Overall score tests ---

func TestOverallScoreBounds(t *testing.T) {
	if got := OverallScore(uniform(100)); got != 100 {
		t.Errorf("all 100 = %d, want 100", got)
	}
	if got := OverallScore(uniform(0)); got != 0 {
		t.Errorf("all 0 = %d, want 0", got)
	}
}

func TestOverallScoreWeighted(t *testing.T) {
	b := map[Category]CategoryResult{
		CategoryTechnical: {Score: 80, Weight: 0.25},
		CategoryContent:   {Score: 90, Weight: 0.25},
		CategoryLocalSEO:  {Score: 70, Weight: 0.25},
		CategorySchema:    {Score: 60, Weight: 0.15},
		CategoryEEAT:      {Score: 50, Weight: 0.10},
	}
	// 20 + 22.5 + 17.5 + 9 + 5 = 74
	if got := OverallScore(b); got != 74 {
		t.Errorf("OverallScore() = %d, want 74", got)
	}
}

func TestOverallScoreRoundsHalfUp(t *testing.T) {
	b := uniform(0)
	b[CategoryTechnical] = CategoryResult{Score: 98, Weight: 0.25}
	// 98 * 0.25 = 24.5
	if got := OverallScore(b); got != 25 {
		t.Errorf("OverallScore() = %d, want 25", got)
	}
}

func TestOverallScoreOrderInvariant(t *testing.T) {
	scores := map[Category]int{
		CategoryTechnical: 71, CategoryContent: 93, CategoryLocalSEO: 44,
		CategorySchema: 87, CategoryEEAT: 12,
	}
	want := -1
	perms := [][]Category{
		{CategoryTechnical, CategoryContent, CategoryLocalSEO, CategorySchema, CategoryEEAT},
		{CategoryEEAT, CategorySchema, CategoryLocalSEO, CategoryContent, CategoryTechnical},
		{CategoryLocalSEO, CategoryEEAT, CategoryTechnical, CategorySchema, CategoryContent},
	}
	for _, order := range perms {
		b := make(map[Category]CategoryResult)
		for _, c := range order {
			b[c] = CategoryResult{Score: scores[c], Weight: c.Weight()}
		}
		got := OverallScore(b)
		if want == -1 {
			want = got
		}
		if got != want {
			t.Errorf("order %v: got %d, want %d", order, got, want)
		}
	}
}

// --- Recommendation tests ---

func TestRecommendCriticalBucket(t *testing.T) {
	issues := []Issue{
		{ID: "a", Severity: SeverityCritical},
		{ID: "b", Severity: SeverityWarning},
		{ID: "c", Severity: SeverityCritical},
	}
	recs := Recommend(issues)
	if len(recs) == 0 || recs[0].Priority != PriorityCritical {
		t.Fatalf("expected critical recommendation first, got %+v", recs)
	}
	if len(recs[0].RelatedIssues) != 2 {
		t.Errorf("related issues = %d, want 2", len(recs[0].RelatedIssues))
	}
}

func TestRecommendNoCritical(t *testing.T) {
	recs := Recommend([]Issue{{ID: "a", Severity: SeverityWarning}, {ID: "b", Severity: SeverityInfo}})
	for _, r := range recs {
		if r.Priority == PriorityCritical {
			t.Error("critical recommendation present without critical issues")
		}
	}
	if len(recs) != 0 {
		t.Errorf("expected no recommendations, got %d", len(recs))
	}
}

func TestRecommendOverlappingBuckets(t *testing.T) {
	issues := []Issue{
		{ID: "x", Severity: SeverityCritical, AutoFixAvailable: true, Impact: LevelHigh, Effort: LevelLow},
		{ID: "y", Severity: SeverityInfo, Impact: LevelHigh, Effort: LevelMedium},
	}
	recs := Recommend(issues)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	for i, wantPriority := range []int{PriorityCritical, PriorityAutoFix, PriorityQuickWin} {
		if recs[i].Priority != wantPriority {
			t.Errorf("recs[%d].Priority = %d, want %d", i, recs[i].Priority, wantPriority)
		}
		if len(recs[i].RelatedIssues) != 1 || recs[i].RelatedIssues[0] != "x" {
			t.Errorf("recs[%d] related = %v, want [x]", i, recs[i].RelatedIssues)
		}
	}
}

// --- Sort and filter tests ---

func TestSortIssues(t *testing.T) {
	issues := []Issue{
		{ID: "1", Severity: SeverityInfo, Category: CategoryTechnical},
		{ID: "2", Severity: SeverityCritical, Category: CategoryEEAT},
		{ID: "3", Severity: SeverityWarning, Category: CategoryContent},
		{ID: "4", Severity: SeverityCritical, Category: CategoryTechnical},
		{ID: "5", Severity: SeverityWarning, Category: CategoryTechnical},
	}

	SortIssues(issues)

	expected := []string{"4", "2", "5", "3", "1"}
	for i, id := range expected {
		if issues[i].ID != id {
			t.Errorf("position %d: got ID %s, want %s", i, issues[i].ID, id)
		}
	}
}

func TestFilterBySeverity(t *testing.T) {
	issues := []Issue{
		{ID: "C1", Severity: SeverityCritical},
		{ID: "W1", Severity: SeverityWarning},
		{ID: "I1", Severity: SeverityInfo},
	}
	tests := []struct {
		min  Severity
		want int
	}{
		{SeverityCritical, 1},
		{SeverityWarning, 2},
		{SeverityInfo, 3},
		{Severity(""), 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.min), func(t *testing.T) {
			if got := FilterBySeverity(issues, tt.min); len(got) != tt.want {
				t.Errorf("FilterBySeverity(%q) kept %d, want %d", tt.min, len(got), tt.want)
			}
		})
	}
}

// --- Assemble tests ---

func TestAssemble(t *testing.T) {
	technical := ScoreCategory(CategoryTechnical, []Issue{
		{ID: "t-1", Severity: SeverityWarning, Category: CategoryTechnical},
		{ID: "t-2", Severity: SeverityWarning, Category: CategoryTechnical},
		{ID: "t-3", Severity: SeverityInfo, Category: CategoryTechnical},
		{ID: "t-4", Severity: SeverityInfo, Category: CategoryTechnical},
	}, 15)
	b := map[Category]CategoryResult{
		CategoryTechnical: technical,
		CategoryContent:   ScoreCategory(CategoryContent, []Issue{{ID: "c-1", Severity: SeverityCritical, Category: CategoryContent}}, 13),
		CategoryLocalSEO:  ScoreCategory(CategoryLocalSEO, []Issue{{ID: "l-1", Severity: SeverityInfo, Category: CategoryLocalSEO}}, 10),
		CategorySchema:    ScoreCategory(CategorySchema, nil, 8),
		CategoryEEAT:      ScoreCategory(CategoryEEAT, nil, 6),
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r := Assemble("proj-1", "", b, now)

	if r.Scope != DefaultScope {
		t.Errorf("scope = %q, want %q", r.Scope, DefaultScope)
	}
	// 88*.25 + 90*.25 + 99*.25 + 100*.15 + 100*.10 = 22 + 22.5 + 24.75 + 15 + 10 = 94.25
	if r.Score != 94 {
		t.Errorf("score = %d, want 94", r.Score)
	}
	if len(r.Issues) != 6 {
		t.Fatalf("issues = %d, want 6", len(r.Issues))
	}
	if r.Issues[0].ID != "t-1" || r.Issues[4].ID != "c-1" || r.Issues[5].ID != "l-1" {
		t.Errorf("issues not flattened in category order: %s..%s", r.Issues[0].ID, r.Issues[5].ID)
	}
	if len(r.Recommendations) != 1 || r.Recommendations[0].Priority != PriorityCritical {
		t.Errorf("unexpected recommendations: %+v", r.Recommendations)
	}
	if r.ID == "" {
		t.Error("expected audit ID")
	}
	if !r.Timestamp.Equal(now) {
		t.Errorf("timestamp = %s, want %s", r.Timestamp, now)
	}
}

func TestCounts(t *testing.T) {
	c, w, i := Counts([]Issue{
		{Severity: SeverityCritical}, {Severity: SeverityWarning},
		{Severity: SeverityWarning}, {Severity: SeverityInfo},
	})
	if c != 1 || w != 2 || i != 1 {
		t.Errorf("Counts() = %d/%d/%d, want 1/2/1", c, w, i)
	}
}

func repeat(iss Issue, n int) []Issue {
	out := make([]Issue, n)
	for i := range out {
		out[i] = iss
	}
	return out
}

func uniform(score int) map[Category]CategoryResult {
	b := make(map[Category]CategoryResult)
	for _, c := range Categories {
		b[c] = CategoryResult{Score: score, Weight: c.Weight()}
	}
	return b
}
