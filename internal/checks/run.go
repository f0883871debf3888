package checks

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/seoaudit/internal/audit"
	"github.com/dshills/seoaudit/internal/project"
	"golang.org/x/sync/errgroup"
)

// ErrNoCatalog is returned by a Runner that has no catalog to run.
var ErrNoCatalog = errors.New("checks: no catalog configured")

// Output is what a category check produces before scoring.
type Output struct {
	Issues      []audit.Issue
	TotalChecks int
}

// Generate evaluates one category's templates against the project.
func (c *Catalog) Generate(ctx context.Context, ac audit.Category, p *project.Project) (Output, error) {
	cat := c.categories[ac]
	if cat == nil {
		return Output{}, fmt.Errorf("checks.Generate: unknown category %q", ac)
	}

	facts := p.Facts()
	out := Output{Issues: []audit.Issue{}, TotalChecks: cat.TotalChecks}

	for _, t := range cat.Issues {
		if err := ctx.Err(); err != nil {
			return Output{}, err
		}
		ok, err := eval(ctx, t.when, facts, nil)
		if err != nil {
			return Output{}, fmt.Errorf("checks.Generate: %s.when: %w", t.ID, err)
		}
		if !ok {
			continue
		}

		pages := t.AffectedPages
		if t.pageWhen != nil && len(p.Pages) > 0 {
			pages, err = matchPages(ctx, t, facts)
			if err != nil {
				return Output{}, fmt.Errorf("checks.Generate: %s.page_when: %w", t.ID, err)
			}
			if len(pages) == 0 {
				continue
			}
		}

		out.Issues = append(out.Issues, audit.Issue{
			ID:               t.ID,
			Severity:         t.Severity,
			Category:         ac,
			Title:            t.Title,
			Description:      t.Description,
			AffectedPages:    append([]string{}, pages...),
			AutoFixAvailable: t.AutoFix,
			Impact:           t.Impact,
			Effort:           t.Effort,
		})
	}
	return out, nil
}

func matchPages(ctx context.Context, t Template, facts map[string]any) ([]string, error) {
	var pages []string
	for _, pf := range facts["pages"].([]any) {
		page := pf.(map[string]any)
		ok, err := eval(ctx, t.pageWhen, facts, page)
		if err != nil {
			return nil, err
		}
		if ok {
			pages = append(pages, page["path"].(string))
		}
	}
	return pages, nil
}

// Runner runs all five category checks and scores them.
type Runner struct {
	Catalog *Catalog
}

// Run generates and scores every category concurrently. A panic in one
// category is returned as that category's error.
func (r *Runner) Run(ctx context.Context, p *project.Project) (map[audit.Category]audit.CategoryResult, error) {
	if r == nil || r.Catalog == nil {
		return nil, ErrNoCatalog
	}
	results := make([]audit.CategoryResult, len(audit.Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, ac := range audit.Categories {
		i, ac := i, ac
		g.Go(func() (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = fmt.Errorf("checks: %s panicked: %v", ac, v)
				}
			}()
			out, err := r.Catalog.Generate(gctx, ac, p)
			if err != nil {
				return err
			}
			results[i] = audit.ScoreCategory(ac, out.Issues, out.TotalChecks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	breakdown := make(map[audit.Category]audit.CategoryResult, len(results))
	for i, ac := range audit.Categories {
		breakdown[ac] = results[i]
	}
	return breakdown, nil
}
