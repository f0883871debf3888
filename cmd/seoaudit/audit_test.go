package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/seoaudit/internal/audit"
	"github.com/dshills/seoaudit/internal/checks"
	"github.com/dshills/seoaudit/internal/llm"
)

// --- Pure function tests ---

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    audit.Severity
		wantErr bool
	}{
		{"critical", audit.SeverityCritical, false},
		{"CRITICAL", audit.SeverityCritical, false},
		{"warning", audit.SeverityWarning, false},
		{"warn", audit.SeverityWarning, false},
		{"info", audit.SeverityInfo, false},
		{"", audit.SeverityInfo, false},
		{"unknown", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSeverity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSeverity(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSeverity(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		format, out string
		want        string
		wantErr     bool
	}{
		{"json", "", "json", false},
		{"md", "", "md", false},
		{"text", "out.txt", "text", false},
		{"auto", "", "json", false}, // not a terminal
		{"", "", "json", false},
		{"xml", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := resolveFormat(tt.format, tt.out, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestCheckRows(t *testing.T) {
	cat, err := checks.LoadBuiltin()
	if err != nil {
		t.Fatal(err)
	}
	rows := checkRows(cat)
	if len(rows) == 0 {
		t.Fatal("expected rows")
	}
	if rows[0].Category != audit.CategoryTechnical {
		t.Errorf("first row category = %s, want technical", rows[0].Category)
	}
	if last := rows[len(rows)-1]; last.Category != audit.CategoryEEAT {
		t.Errorf("last row category = %s, want eeat", last.Category)
	}
}

// --- runAudit tests ---

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertExitCode(t *testing.T, err error, wantCode int) {
	t.Helper()
	if wantCode == 0 {
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected exit code %d, got nil error", wantCode)
	}
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected *exitErr, got %T: %v", err, err)
	}
	if ee.code != wantCode {
		t.Errorf("exit code = %d, want %d (msg: %s)", ee.code, wantCode, ee.msg)
	}
}

func baseFlags(stdout *bytes.Buffer) *auditFlags {
	return &auditFlags{
		projectID:   "demo",
		scope:       audit.DefaultScope,
		format:      "json",
		minSeverity: "info",
		maxTokens:   4096,
		temperature: 0.2,
		redact:      true,
		stdout:      stdout,
	}
}

func TestRunAuditJSON(t *testing.T) {
	var out bytes.Buffer
	err := runAudit(context.Background(), baseFlags(&out))
	assertExitCode(t, err, 0)

	var r audit.Result
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if r.ProjectID != "demo" || r.Score != 85 {
		t.Errorf("unexpected result: project %q score %d", r.ProjectID, r.Score)
	}
}

func TestRunAuditMinSeverity(t *testing.T) {
	var out bytes.Buffer
	f := baseFlags(&out)
	f.minSeverity = "critical"
	assertExitCode(t, runAudit(context.Background(), f), 0)

	var r audit.Result
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	for _, iss := range r.Issues {
		if iss.Severity != audit.SeverityCritical {
			t.Errorf("issue %s with severity %s should be filtered", iss.ID, iss.Severity)
		}
	}
	if r.Score != 85 {
		t.Errorf("filtering must not change the score, got %d", r.Score)
	}
}

func TestRunAuditProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "clinic.yaml", `id: clinic
name: Sunrise Clinic
industry: dental
https: true
sitemap: true
robots_txt: true
`)
	var out bytes.Buffer
	f := baseFlags(&out)
	f.projectID = ""
	f.projectFile = path
	f.format = "md"
	assertExitCode(t, runAudit(context.Background(), f), 0)

	if !strings.Contains(out.String(), "# SEO Audit Report") || !strings.Contains(out.String(), "clinic") {
		t.Errorf("unexpected markdown output:\n%s", out.String())
	}
}

func TestRunAuditWritesFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.txt")
	var out bytes.Buffer
	f := baseFlags(&out)
	f.format = "text"
	f.out = outPath
	assertExitCode(t, runAudit(context.Background(), f), 0)

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Overall score:  85/100") {
		t.Errorf("unexpected text report:\n%s", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Error("file output must not be colored")
	}
}

func TestRunAuditInputErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*auditFlags)
	}{
		{"no project", func(f *auditFlags) { f.projectID = "" }},
		{"missing file", func(f *auditFlags) { f.projectID = ""; f.projectFile = "/nonexistent/p.yaml" }},
		{"bad severity", func(f *auditFlags) { f.minSeverity = "loud" }},
		{"bad format", func(f *auditFlags) { f.format = "xml" }},
		{"bad fail-under", func(f *auditFlags) { f.failUnder = 101 }},
		{"bad catalog", func(f *auditFlags) { f.catalogDir = "/nonexistent/catalog" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			f := baseFlags(&out)
			tt.mod(f)
			assertExitCode(t, runAudit(context.Background(), f), 3)
		})
	}
}

func TestRunAuditFailUnder(t *testing.T) {
	var out bytes.Buffer
	f := baseFlags(&out)
	f.failUnder = 90
	assertExitCode(t, runAudit(context.Background(), f), 2)

	f.failUnder = 85
	out.Reset()
	assertExitCode(t, runAudit(context.Background(), f), 0)
}

const mockFixes = `{"fixes": [
  {"issue_id": "schema-organization", "page": "/", "kind": "json_ld", "content": "{\"@type\": \"MedicalOrganization\"}"}
]}`

func TestRunAuditDraftFixes(t *testing.T) {
	fixesPath := filepath.Join(t.TempDir(), "fixes.md")
	mock := &llm.MockProvider{Responses: []string{mockFixes}}

	var out bytes.Buffer
	f := baseFlags(&out)
	f.draftFixes = true
	f.fixesOut = fixesPath
	f.provider = mock
	assertExitCode(t, runAudit(context.Background(), f), 0)

	data, err := os.ReadFile(fixesPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "## schema-organization (/)") {
		t.Errorf("unexpected fixes file:\n%s", data)
	}
	if len(mock.Prompts()) != 1 {
		t.Errorf("expected one LLM call, got %d", len(mock.Prompts()))
	}
}

func TestRunAuditDraftFixesLLMError(t *testing.T) {
	var out bytes.Buffer
	f := baseFlags(&out)
	f.draftFixes = true
	f.fixesOut = filepath.Join(t.TempDir(), "fixes.md")
	f.provider = &llm.MockProvider{Err: errors.New("model exploded")}
	assertExitCode(t, runAudit(context.Background(), f), 4)
}

func TestRunAuditDraftFixesInvalidOutput(t *testing.T) {
	var out bytes.Buffer
	f := baseFlags(&out)
	f.draftFixes = true
	f.fixesOut = filepath.Join(t.TempDir(), "fixes.md")
	f.provider = &llm.MockProvider{Responses: []string{"this is not json at all"}}
	assertExitCode(t, runAudit(context.Background(), f), 5)
}
