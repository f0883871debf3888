// Package fix drafts content fixes for auto-fixable audit issues using a
// language model and writes them out for human review.
package fix

import (
	"fmt"

	"github.com/dshills/seoaudit/internal/audit"
)

// Kind classifies what a drafted fix replaces.
type Kind string

const (
	KindTitle           Kind = "title"
	KindMetaDescription Kind = "meta_description"
	KindJSONLD          Kind = "json_ld"
	KindAltText         Kind = "alt_text"
	KindContent         Kind = "content"
	KindConfig          Kind = "config"
)

func (k Kind) Valid() bool {
	switch k {
	case KindTitle, KindMetaDescription, KindJSONLD, KindAltText, KindContent, KindConfig:
		return true
	}
	return false
}

// Fix is one drafted change for an audit issue.
type Fix struct {
	IssueID     string   `json:"issue_id"`
	Page        string   `json:"page,omitempty"`
	Kind        Kind     `json:"kind"`
	Content     string   `json:"content"`
	Notes       string   `json:"notes,omitempty"`
	NeedsReview bool     `json:"needs_review,omitempty"`
	Flags       []string `json:"flags,omitempty"`
}

// Response is the JSON document the model is asked to produce.
type Response struct {
	Fixes []Fix `json:"fixes"`
}

// Validate checks a model response against the issues it was asked about.
func Validate(resp *Response, issues []audit.Issue) []string {
	known := make(map[string]bool, len(issues))
	for _, iss := range issues {
		known[iss.ID] = true
	}

	var errs []string
	if len(resp.Fixes) == 0 {
		errs = append(errs, "fixes: at least one fix is required")
	}
	for i, f := range resp.Fixes {
		prefix := fmt.Sprintf("fixes[%d]", i)
		switch {
		case f.IssueID == "":
			errs = append(errs, prefix+".issue_id: required")
		case !known[f.IssueID]:
			errs = append(errs, fmt.Sprintf("%s.issue_id: unknown issue %q", prefix, f.IssueID))
		}
		if !f.Kind.Valid() {
			errs = append(errs, fmt.Sprintf("%s.kind: invalid value %q", prefix, f.Kind))
		}
		if f.Content == "" {
			errs = append(errs, prefix+".content: required")
		}
	}
	return errs
}

// AutoFixable returns the issues that can be drafted automatically. When ids
// is non-empty only those issues are kept.
func AutoFixable(issues []audit.Issue, ids []string) []audit.Issue {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []audit.Issue
	for _, iss := range issues {
		if !iss.AutoFixAvailable {
			continue
		}
		if len(want) > 0 && !want[iss.ID] {
			continue
		}
		out = append(out, iss)
	}
	return out
}
