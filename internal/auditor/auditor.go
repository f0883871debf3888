// Package auditor runs a complete audit for a project: checks, scoring,
// result validation, telemetry and persistence.
package auditor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dshills/seoaudit/internal/audit"
	"github.com/dshills/seoaudit/internal/checks"
	"github.com/dshills/seoaudit/internal/project"
	"github.com/dshills/seoaudit/internal/schema"
	"github.com/dshills/seoaudit/internal/store"
	"github.com/dshills/seoaudit/internal/telemetry"
)

// ErrMissingProjectID is returned when a request carries no project id.
var ErrMissingProjectID = errors.New("projectId is required")

// ErrInvalidResult is returned when an assembled result fails validation.
var ErrInvalidResult = errors.New("audit result failed validation")

// Request identifies the project and scope to audit.
type Request struct {
	ProjectID string `json:"projectId"`
	Scope     string `json:"scope,omitempty"`
}

// Auditor wires the check runner to storage and telemetry.
// Projects, Store, Telemetry, Logger and Now are optional.
type Auditor struct {
	Runner    *checks.Runner
	Projects  *project.Registry
	Store     store.Store
	Telemetry *telemetry.Telemetry
	Logger    *slog.Logger
	Now       func() time.Time
}

// Run audits the project named by req.
func (a *Auditor) Run(ctx context.Context, req Request) (*audit.Result, error) {
	id := strings.TrimSpace(req.ProjectID)
	if id == "" {
		return nil, ErrMissingProjectID
	}
	p := &project.Project{ID: id}
	if a.Projects != nil {
		p = a.Projects.Lookup(id)
	}
	return a.RunProject(ctx, p, req.Scope)
}

// RunProject audits an already loaded project descriptor.
func (a *Auditor) RunProject(ctx context.Context, p *project.Project, scope string) (r *audit.Result, err error) {
	if p == nil || p.ID == "" {
		return nil, ErrMissingProjectID
	}
	if scope == "" {
		scope = audit.DefaultScope
	}
	if a.Runner == nil || a.Runner.Catalog == nil {
		return nil, fmt.Errorf("auditor.Run: %w", checks.ErrNoCatalog)
	}

	ctx, finish := a.Telemetry.Start(ctx, p.ID, scope)
	defer func() { finish(r, err) }()

	breakdown, err := a.Runner.Run(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("auditor.Run: %s: %w", p.ID, err)
	}

	res := audit.Assemble(p.ID, scope, breakdown, a.now())
	if errs := schema.Validate(&res); len(errs) > 0 {
		return nil, fmt.Errorf("auditor.Run: %w: %s", ErrInvalidResult, errs[0])
	}

	if a.Store != nil {
		if serr := a.Store.Save(ctx, &res); serr != nil {
			a.logger().Warn("failed to save audit", "error", serr, "project_id", p.ID, "audit_id", res.ID)
		}
	}

	a.logger().Debug("audit complete", "project_id", p.ID, "audit_id", res.ID, "score", res.Score, "issues", len(res.Issues))
	return &res, nil
}

// Latest returns the stored result for projectID.
func (a *Auditor) Latest(ctx context.Context, projectID string) (*audit.Result, error) {
	id := strings.TrimSpace(projectID)
	if id == "" {
		return nil, ErrMissingProjectID
	}
	if a.Store == nil {
		return nil, store.ErrNotFound
	}
	return a.Store.Latest(ctx, id)
}

// Project resolves a project descriptor by id.
func (a *Auditor) Project(id string) *project.Project {
	if a.Projects == nil {
		return &project.Project{ID: id}
	}
	return a.Projects.Lookup(id)
}

func (a *Auditor) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Auditor) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
