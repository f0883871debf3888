// Package checks generates audit issues for each category from a catalog
// of issue templates, evaluated against project facts.
package checks

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/dshills/seoaudit/internal/audit"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Template describes an issue a check raises when its conditions hold.
type Template struct {
	ID            string         `yaml:"id"`
	Severity      audit.Severity `yaml:"severity"`
	Title         string         `yaml:"title"`
	Description   string         `yaml:"description"`
	AffectedPages []string       `yaml:"affected_pages"`
	AutoFix       bool           `yaml:"auto_fix"`
	Impact        audit.Level    `yaml:"impact"`
	Effort        audit.Level    `yaml:"effort"`

	// When is a CEL condition over `project`. Empty means always.
	When string `yaml:"when"`
	// PageWhen is a CEL condition over `page` selecting affected pages.
	// It only applies when the project lists pages.
	PageWhen string `yaml:"page_when"`

	when     condition
	pageWhen condition
}

// Category is the catalog for one audit category.
type Category struct {
	Category    audit.Category `yaml:"category"`
	Title       string         `yaml:"title"`
	TotalChecks int            `yaml:"total_checks"`
	Issues      []Template     `yaml:"issues"`
}

// Catalog holds the compiled templates for all five categories.
type Catalog struct {
	categories map[audit.Category]*Category
}

// LoadBuiltin loads the embedded catalog.
func LoadBuiltin() (*Catalog, error) {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("checks.LoadBuiltin: %w", err)
	}
	c, err := Load(sub)
	if err != nil {
		return nil, fmt.Errorf("checks.LoadBuiltin: %w", err)
	}
	return c, nil
}

// LoadDir loads a catalog from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	c, err := Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("checks.LoadDir: %w", err)
	}
	return c, nil
}

// Load reads every *.yaml file at the root of fsys. Each of the five
// audit categories must be defined exactly once.
func Load(fsys fs.FS) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	c := &Catalog{categories: make(map[audit.Category]*Category)}
	seenIDs := make(map[string]string)

	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		var cat Category
		if err := yaml.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		if err := validate(&cat); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if _, dup := c.categories[cat.Category]; dup {
			return nil, fmt.Errorf("%s: category %q defined twice", e.Name(), cat.Category)
		}
		for i := range cat.Issues {
			t := &cat.Issues[i]
			if prev, dup := seenIDs[t.ID]; dup {
				return nil, fmt.Errorf("%s: issue id %q already used in %s", e.Name(), t.ID, prev)
			}
			seenIDs[t.ID] = e.Name()

			if t.when, err = env.compile(t.When); err != nil {
				return nil, fmt.Errorf("%s: %s.when: %w", e.Name(), t.ID, err)
			}
			if t.pageWhen, err = env.compile(t.PageWhen); err != nil {
				return nil, fmt.Errorf("%s: %s.page_when: %w", e.Name(), t.ID, err)
			}
		}
		c.categories[cat.Category] = &cat
	}

	var missing []string
	for _, ac := range audit.Categories {
		if _, ok := c.categories[ac]; !ok {
			missing = append(missing, string(ac))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing categories: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

func validate(cat *Category) error {
	if !cat.Category.Valid() {
		return fmt.Errorf("invalid category %q", cat.Category)
	}
	if cat.TotalChecks < len(cat.Issues) {
		return fmt.Errorf("total_checks %d is less than the %d issue templates", cat.TotalChecks, len(cat.Issues))
	}
	for i, t := range cat.Issues {
		prefix := fmt.Sprintf("issues[%d]", i)
		if t.ID == "" {
			return fmt.Errorf("%s.id: required", prefix)
		}
		if t.Title == "" {
			return fmt.Errorf("%s.title: required", prefix)
		}
		if !t.Severity.Valid() {
			return fmt.Errorf("%s.severity: invalid %q", prefix, t.Severity)
		}
		if !t.Impact.Valid() {
			return fmt.Errorf("%s.impact: invalid %q", prefix, t.Impact)
		}
		if !t.Effort.Valid() {
			return fmt.Errorf("%s.effort: invalid %q", prefix, t.Effort)
		}
	}
	return nil
}

// Category returns the catalog entry for c, or nil.
func (c *Catalog) Category(ac audit.Category) *Category {
	return c.categories[ac]
}

// Templates returns every template in category report order, then by ID.
func (c *Catalog) Templates() map[audit.Category][]Template {
	out := make(map[audit.Category][]Template, len(c.categories))
	for ac, cat := range c.categories {
		ts := append([]Template(nil), cat.Issues...)
		sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
		out[ac] = ts
	}
	return out
}
