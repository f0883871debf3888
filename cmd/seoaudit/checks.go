package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/seoaudit/internal/audit"
	"github.com/dshills/seoaudit/internal/checks"
	"github.com/dshills/seoaudit/internal/render"
)

func newChecksCmd() *cobra.Command {
	var catalogDir string

	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the checks in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *checks.Catalog
				err error
			)
			if catalogDir != "" {
				cat, err = checks.LoadDir(catalogDir)
			} else {
				cat, err = checks.LoadBuiltin()
			}
			if err != nil {
				return exitError(3, "failed to load check catalog: %v", err)
			}
			return render.Checks(cmd.OutOrStdout(), checkRows(cat), render.Options{Color: isTerminal(os.Stdout)})
		},
	}
	cmd.Flags().StringVar(&catalogDir, "catalog-dir", "", "Directory of check catalog YAML files (default: built-in)")
	return cmd
}

func checkRows(cat *checks.Catalog) []render.CheckRow {
	templates := cat.Templates()
	var rows []render.CheckRow
	for _, c := range audit.Categories {
		for _, t := range templates[c] {
			rows = append(rows, render.CheckRow{
				Category:    c,
				ID:          t.ID,
				Severity:    t.Severity,
				Title:       t.Title,
				AutoFix:     t.AutoFix,
				Conditional: t.When != "" || t.PageWhen != "",
			})
		}
	}
	return rows
}
