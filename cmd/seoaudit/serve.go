package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/dshills/seoaudit/internal/auditor"
	"github.com/dshills/seoaudit/internal/checks"
	"github.com/dshills/seoaudit/internal/config"
	"github.com/dshills/seoaudit/internal/fix"
	"github.com/dshills/seoaudit/internal/llm"
	"github.com/dshills/seoaudit/internal/project"
	"github.com/dshills/seoaudit/internal/server"
	"github.com/dshills/seoaudit/internal/store"
	"github.com/dshills/seoaudit/internal/telemetry"
)

type serveFlags struct {
	configPath  string
	addr        string
	projectsDir string
	redisURL    string
	logLevel    string
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the audit HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return exitError(3, "%v", err)
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr = f.addr
			}
			if flags.Changed("projects-dir") {
				cfg.ProjectsDir = f.projectsDir
			}
			if flags.Changed("redis-url") {
				cfg.Redis.URL = f.redisURL
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = f.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return exitError(3, "%v", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Config file (YAML or TOML)")
	flags.StringVar(&f.addr, "addr", "", "Listen address (overrides config)")
	flags.StringVar(&f.projectsDir, "projects-dir", "", "Directory of project descriptors (overrides config)")
	flags.StringVar(&f.redisURL, "redis-url", "", "Redis URL for the latest-audit cache (overrides config)")
	flags.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	projects, err := project.LoadDir(cfg.ProjectsDir)
	if err != nil {
		return exitError(3, "failed to load projects: %v", err)
	}
	logger.Info("projects loaded", "component", "serve", "count", len(projects.IDs()))

	var cat *checks.Catalog
	if cfg.CatalogDir != "" {
		cat, err = checks.LoadDir(cfg.CatalogDir)
	} else {
		cat, err = checks.LoadBuiltin()
	}
	if err != nil {
		return exitError(3, "failed to load check catalog: %v", err)
	}

	var st store.Store = store.NewMemoryStore()
	if cfg.Redis.URL != "" {
		rs, err := store.NewRedisStore(store.RedisOptions{URL: cfg.Redis.URL, TTL: cfg.Redis.TTL})
		if err != nil {
			return exitError(3, "failed to connect to redis: %v", err)
		}
		st = rs
		logger.Info("using redis store", "component", "serve", "ttl", cfg.Redis.TTL.String())
	}
	defer st.Close()

	tel, err := telemetry.New(otel.GetTracerProvider(), otel.GetMeterProvider())
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	var drafter *fix.Drafter
	if provider, err := llm.ResolveProvider(cfg.LLM.Model); err != nil {
		logger.Warn("fix drafting disabled", "component", "serve", "error", err)
	} else {
		drafter = &fix.Drafter{
			Provider: provider,
			Settings: llm.Settings{Model: cfg.LLM.Model, Temperature: cfg.LLM.Temperature, MaxTokens: cfg.LLM.MaxTokens},
			Redact:   cfg.Redact,
			Logger:   logger,
		}
		logger.Info("fix drafting enabled", "component", "serve", "provider", provider.Name())
	}

	a := &auditor.Auditor{
		Runner:    &checks.Runner{Catalog: cat},
		Projects:  projects,
		Store:     st,
		Telemetry: tel,
		Logger:    logger,
	}
	return server.New(a, drafter, logger).ListenAndServe(ctx, cfg.Addr)
}
