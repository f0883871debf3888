package fix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dshills/seoaudit/internal/audit"
	"github.com/dshills/seoaudit/internal/llm"
	"github.com/dshills/seoaudit/internal/project"
	"github.com/dshills/seoaudit/internal/prompt"
)

// ErrInvalidOutput is returned when the model response cannot be used even
// after a repair attempt.
var ErrInvalidOutput = errors.New("invalid model output")

// Drafter asks a model provider for fix drafts.
type Drafter struct {
	Provider  llm.Provider
	Settings  llm.Settings
	Redact    bool
	MaxIssues int
	Logger    *slog.Logger
}

// Draft returns fixes for the auto-fixable issues among issues. It returns
// nil without calling the provider when none are auto-fixable.
func (d *Drafter) Draft(ctx context.Context, p *project.Project, issues []audit.Issue) ([]Fix, error) {
	if d.Provider == nil {
		return nil, llm.ErrNoProvider
	}
	targets := AutoFixable(issues, nil)
	if len(targets) == 0 {
		return nil, nil
	}
	maxIssues := d.MaxIssues
	if maxIssues <= 0 {
		maxIssues = prompt.DefaultMaxFixes
	}
	if len(targets) > maxIssues {
		targets = targets[:maxIssues]
	}

	settings := d.Settings
	if settings.System == "" {
		settings.System = prompt.System
	}

	text := prompt.BuildFix(prompt.FixOpts{
		Project:  p,
		Issues:   targets,
		MaxFixes: maxIssues,
		Redact:   d.Redact,
	})

	out, err := d.Provider.Generate(ctx, text, settings)
	if err != nil {
		return nil, fmt.Errorf("fix.Draft: %w", err)
	}

	resp, problems := decode(out, targets)
	if len(problems) > 0 {
		d.logger().Warn("fix draft failed validation, attempting repair", "errors", len(problems))

		out, err = d.Provider.Generate(ctx, prompt.BuildRepair(out, problems), settings)
		if err != nil {
			return nil, fmt.Errorf("fix.Draft: repair: %w", err)
		}
		resp, problems = decode(out, targets)
		if len(problems) > 0 {
			return nil, fmt.Errorf("fix.Draft: %w: %s", ErrInvalidOutput, problems[0])
		}
	}

	fixes := resp.Fixes
	ApplyCompliance(fixes, CheckCompliance(fixes))
	sortFixes(fixes, targets)
	return fixes, nil
}

func (d *Drafter) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func decode(out string, issues []audit.Issue) (*Response, []string) {
	var resp Response
	if err := json.Unmarshal([]byte(llm.ExtractJSON(out)), &resp); err != nil {
		return nil, []string{fmt.Sprintf("response is not valid JSON: %v", err)}
	}
	if problems := Validate(&resp, issues); len(problems) > 0 {
		return nil, problems
	}
	return &resp, nil
}

// sortFixes orders fixes by the position of their issue, then by page.
func sortFixes(fixes []Fix, issues []audit.Issue) {
	pos := make(map[string]int, len(issues))
	for i, iss := range issues {
		pos[iss.ID] = i
	}
	sort.SliceStable(fixes, func(i, j int) bool {
		pi, pj := pos[fixes[i].IssueID], pos[fixes[j].IssueID]
		if pi != pj {
			return pi < pj
		}
		return fixes[i].Page < fixes[j].Page
	})
}
