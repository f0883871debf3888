package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/seoaudit/internal/audit"
	"github.com/dshills/seoaudit/internal/auditor"
	"github.com/dshills/seoaudit/internal/checks"
	"github.com/dshills/seoaudit/internal/fix"
	"github.com/dshills/seoaudit/internal/llm"
	"github.com/dshills/seoaudit/internal/project"
	"github.com/dshills/seoaudit/internal/render"
)

type auditFlags struct {
	projectFile string
	projectID   string
	scope       string
	catalogDir  string
	format      string
	out         string
	minSeverity string
	failUnder   int
	draftFixes  bool
	fixesOut    string
	model       string
	maxTokens   int
	temperature float64
	redact      bool
	verbose     bool

	// test hooks
	provider llm.Provider
	stdout   io.Writer
}

func newAuditCmd() *cobra.Command {
	f := &auditFlags{}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit a project and print its score, issues and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.projectFile, "project", "", "Project descriptor YAML file")
	flags.StringVar(&f.projectID, "project-id", "", "Project id to audit without a descriptor")
	flags.StringVar(&f.scope, "scope", audit.DefaultScope, "Audit scope label")
	flags.StringVar(&f.catalogDir, "catalog-dir", "", "Directory of check catalog YAML files (default: built-in)")
	flags.StringVar(&f.format, "format", "auto", "Output format: auto, json, md, or text")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.StringVar(&f.minSeverity, "min-severity", "info", "Minimum issue severity to list: info, warning, or critical")
	flags.IntVar(&f.failUnder, "fail-under", 0, "Exit 2 if the overall score is below this value")
	flags.BoolVar(&f.draftFixes, "draft-fixes", false, "Draft fixes for auto-fixable issues with an LLM")
	flags.StringVar(&f.fixesOut, "fixes-out", "seoaudit-fixes.md", "Where to write drafted fixes")
	flags.StringVar(&f.model, "model", "", "Model ID (e.g., claude-sonnet-4-20250514, gpt-4o)")
	flags.IntVar(&f.maxTokens, "max-tokens", 4096, "Max response tokens")
	flags.Float64Var(&f.temperature, "temperature", 0.2, "Model temperature")
	flags.BoolVar(&f.redact, "redact", true, "Redact secrets and patient identifiers before sending to model")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")

	return cmd
}

func runAudit(ctx context.Context, f *auditFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := log.New(os.Stderr, "", 0)
	verbose := func(msg string, args ...any) {
		if f.verbose {
			logger.Printf(msg, args...)
		}
	}
	stdout := f.stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	// 1. Validate flags
	minSev, err := parseSeverity(f.minSeverity)
	if err != nil {
		return exitError(3, "%v", err)
	}
	if f.failUnder < 0 || f.failUnder > 100 {
		return exitError(3, "--fail-under must be between 0 and 100, got %d", f.failUnder)
	}
	format, err := resolveFormat(f.format, f.out, stdout)
	if err != nil {
		return exitError(3, "%v", err)
	}

	// 2. Load project
	var p *project.Project
	switch {
	case f.projectFile != "":
		verbose("Loading project: %s", f.projectFile)
		p, err = project.Load(f.projectFile)
		if err != nil {
			return exitError(3, "failed to load project: %v", err)
		}
		if f.projectID != "" && f.projectID != p.ID {
			return exitError(3, "--project-id %q does not match descriptor id %q", f.projectID, p.ID)
		}
	case strings.TrimSpace(f.projectID) != "":
		p = &project.Project{ID: strings.TrimSpace(f.projectID)}
	default:
		return exitError(3, "one of --project or --project-id is required")
	}

	// 3. Load catalog
	var cat *checks.Catalog
	if f.catalogDir != "" {
		verbose("Loading check catalog: %s", f.catalogDir)
		cat, err = checks.LoadDir(f.catalogDir)
	} else {
		cat, err = checks.LoadBuiltin()
	}
	if err != nil {
		return exitError(3, "failed to load check catalog: %v", err)
	}

	// 4. Audit
	verbose("Auditing %s (scope %s)", p.ID, f.scope)
	a := &auditor.Auditor{
		Runner: &checks.Runner{Catalog: cat},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	res, err := a.RunProject(ctx, p, f.scope)
	if err != nil {
		if errors.Is(err, auditor.ErrInvalidResult) {
			return exitError(5, "%v", err)
		}
		return fmt.Errorf("audit failed: %w", err)
	}
	verbose("Score %d with %d issues", res.Score, len(res.Issues))

	// 5. Draft fixes
	if f.draftFixes {
		if err := draftFixes(ctx, f, p, res, verbose); err != nil {
			return err
		}
	}

	// 6. Output
	view := *res
	view.Issues = audit.FilterBySeverity(res.Issues, minSev)
	if view.Issues == nil {
		view.Issues = []audit.Issue{}
	}

	w := stdout
	if f.out != "" {
		verbose("Writing output to %s", f.out)
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		defer file.Close()
		w = file
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(view)
	case "md":
		_, err = io.WriteString(w, render.Markdown(&view))
	case "text":
		err = render.Text(w, &view, render.Options{Color: f.out == "" && isTerminal(stdout) && os.Getenv("NO_COLOR") == ""})
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// 7. Exit code based on --fail-under
	if res.Score < f.failUnder {
		return exitError(2, "score %d is below --fail-under %d", res.Score, f.failUnder)
	}
	return nil
}

func draftFixes(ctx context.Context, f *auditFlags, p *project.Project, res *audit.Result, verbose func(string, ...any)) error {
	provider := f.provider
	if provider == nil {
		verbose("Resolving LLM provider")
		var err error
		provider, err = llm.ResolveProvider(f.model)
		if err != nil {
			return exitError(4, "model provider error: %v", err)
		}
	}
	verbose("Using provider: %s", provider.Name())

	d := &fix.Drafter{
		Provider: provider,
		Settings: llm.Settings{Model: f.model, Temperature: f.temperature, MaxTokens: f.maxTokens},
		Redact:   f.redact,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	fixes, err := d.Draft(ctx, p, res.Issues)
	if err != nil {
		if errors.Is(err, fix.ErrInvalidOutput) {
			return exitError(5, "%v", err)
		}
		return exitError(4, "fix drafting failed: %v", err)
	}
	if len(fixes) == 0 {
		verbose("No auto-fixable issues")
		return nil
	}
	for _, fl := range fix.CheckCompliance(fixes) {
		verbose("Compliance: %s on %s uses %q", fl.IssueID, fl.Page, fl.Phrase)
	}
	verbose("Writing %d fixes to %s", len(fixes), f.fixesOut)
	if err := fix.WriteFile(fixes, f.fixesOut); err != nil {
		return fmt.Errorf("failed to write fixes: %w", err)
	}
	return nil
}

func parseSeverity(s string) (audit.Severity, error) {
	switch strings.ToLower(s) {
	case "critical":
		return audit.SeverityCritical, nil
	case "warning", "warn":
		return audit.SeverityWarning, nil
	case "", "info":
		return audit.SeverityInfo, nil
	}
	return "", fmt.Errorf("unknown severity %q: use info, warning, or critical", s)
}

// resolveFormat picks text for an interactive stdout and JSON otherwise.
func resolveFormat(format, out string, stdout io.Writer) (string, error) {
	switch format {
	case "json", "md", "text":
		return format, nil
	case "", "auto":
		if out == "" && isTerminal(stdout) {
			return "text", nil
		}
		return "json", nil
	}
	return "", fmt.Errorf("unknown format: %s", format)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
