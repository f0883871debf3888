// Package project loads website project descriptors and exposes them as
// facts for check conditions.
package project

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project describes a website under audit.
type Project struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Industry        string   `yaml:"industry" json:"industry"`
	Domain          string   `yaml:"domain" json:"domain"`
	HTTPS           bool     `yaml:"https" json:"https"`
	Sitemap         bool     `yaml:"sitemap" json:"sitemap"`
	RobotsTxt       bool     `yaml:"robots_txt" json:"robotsTxt"`
	Pages           []Page   `yaml:"pages" json:"pages"`
	NAP             NAP      `yaml:"nap" json:"nap"`
	SchemaTypes     []string `yaml:"schema_types" json:"schemaTypes"`
	Authors         []Author `yaml:"authors" json:"authors"`
	MedicalReviewer string   `yaml:"medical_reviewer" json:"medicalReviewer"`
	LastReviewed    string   `yaml:"last_reviewed" json:"lastReviewed"`

	// Hash is the sha256 of the descriptor file; empty for bare projects.
	Hash string `yaml:"-" json:"-"`
}

// Page is a single page of the site.
type Page struct {
	Path            string `yaml:"path" json:"path"`
	Title           string `yaml:"title" json:"title"`
	MetaDescription string `yaml:"meta_description" json:"metaDescription"`
	WordCount       int    `yaml:"word_count" json:"wordCount"`
}

// NAP holds the business name, address and phone used for local SEO.
type NAP struct {
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
	Phone   string `yaml:"phone" json:"phone"`
}

// Author is a content author with optional professional credentials.
type Author struct {
	Name        string `yaml:"name" json:"name"`
	Credentials string `yaml:"credentials" json:"credentials"`
}

// Load reads a project descriptor and computes its SHA-256 hash.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project.Load: %w", err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("project.Load: parse %s: %w", filepath.Base(path), err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("project.Load: %s: id is required", filepath.Base(path))
	}
	h := sha256.Sum256(data)
	p.Hash = fmt.Sprintf("sha256:%x", h)
	return &p, nil
}

// Facts returns the project as a map for check conditions.
// Every key is always present so conditions never hit a missing field.
func (p *Project) Facts() map[string]any {
	pages := make([]any, 0, len(p.Pages))
	for _, pg := range p.Pages {
		pages = append(pages, map[string]any{
			"path":            pg.Path,
			"title":           pg.Title,
			"metaDescription": pg.MetaDescription,
			"wordCount":       int64(pg.WordCount),
		})
	}
	authors := make([]any, 0, len(p.Authors))
	for _, a := range p.Authors {
		authors = append(authors, map[string]any{
			"name":        a.Name,
			"credentials": a.Credentials,
		})
	}
	schemaTypes := make([]any, 0, len(p.SchemaTypes))
	for _, s := range p.SchemaTypes {
		schemaTypes = append(schemaTypes, s)
	}

	return map[string]any{
		"id":        p.ID,
		"name":      p.Name,
		"industry":  strings.ToLower(p.Industry),
		"domain":    p.Domain,
		"https":     p.HTTPS,
		"sitemap":   p.Sitemap,
		"robotsTxt": p.RobotsTxt,
		"pages":     pages,
		"nap": map[string]any{
			"name":    p.NAP.Name,
			"address": p.NAP.Address,
			"phone":   p.NAP.Phone,
		},
		"schemaTypes":     schemaTypes,
		"authors":         authors,
		"medicalReviewer": p.MedicalReviewer,
		"lastReviewed":    p.LastReviewed,
	}
}

// Registry holds project descriptors keyed by ID.
type Registry struct {
	projects map[string]*Project
}

// NewRegistry returns a registry holding the given projects.
func NewRegistry(projects ...*Project) *Registry {
	r := &Registry{projects: make(map[string]*Project)}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

// LoadDir loads every *.yaml and *.yml descriptor in dir.
// An empty dir yields an empty registry.
func LoadDir(dir string) (*Registry, error) {
	r := NewRegistry()
	if dir == "" {
		return r, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("project.LoadDir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		p, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := r.projects[p.ID]; dup {
			return nil, fmt.Errorf("project.LoadDir: duplicate project id %q in %s", p.ID, e.Name())
		}
		r.projects[p.ID] = p
	}
	return r, nil
}

// Lookup returns the descriptor for id. Unknown ids yield a bare project
// carrying only the id, whose facts are all zero values.
func (r *Registry) Lookup(id string) *Project {
	if p, ok := r.projects[id]; ok {
		return p
	}
	return &Project{ID: id}
}

// IDs returns the registered project ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.projects))
	for id := range r.projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
