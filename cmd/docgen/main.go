package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/metrics"
	"git.home.luguber.info/inful/docgen/internal/pipeline"
	"git.home.luguber.info/inful/docgen/internal/render"
	"git.home.luguber.info/inful/docgen/internal/scanner"
	"git.home.luguber.info/inful/docgen/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:".docgen.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Generate struct {
		DryRun  bool   `help:"Compute results without writing documents"`
		Summary string `short:"s" help:"Write the batch summary JSON to this path"`
	} `cmd:"" help:"Generate reference documents for all configured units"`

	Check struct {
		Summary string `short:"s" help:"Write the batch summary JSON to this path"`
	} `cmd:"" help:"Report drift without writing; exits non-zero when documents are out of date"`

	Watch struct{} `cmd:"" help:"Regenerate continuously as source files change"`

	Init struct{} `cmd:"" help:"Write a starter configuration file"`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	setupLogging(slog.LevelInfo)

	if ctx.Command() == "init" {
		if err := config.Init(CLI.Config); err != nil {
			slog.Error("init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("configuration written", "path", CLI.Config)
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	setupLogging(logLevel(cfg))

	switch ctx.Command() {
	case "generate":
		summary, err := runBatch(context.Background(), cfg, CLI.Generate.DryRun, metrics.NopRecorder{})
		if err != nil {
			slog.Error("generate failed", "error", err)
			os.Exit(1)
		}
		if err := writeSummary(summary, summaryPath(cfg, CLI.Generate.Summary)); err != nil {
			slog.Error("failed to write summary", "error", err)
			os.Exit(1)
		}
		if summary.Errors > 0 {
			os.Exit(1)
		}

	case "check":
		summary, err := runBatch(context.Background(), cfg, true, metrics.NopRecorder{})
		if err != nil {
			slog.Error("check failed", "error", err)
			os.Exit(1)
		}
		if err := writeSummary(summary, summaryPath(cfg, CLI.Check.Summary)); err != nil {
			slog.Error("failed to write summary", "error", err)
			os.Exit(1)
		}
		if summary.HasDrift() {
			slog.Warn("documents are out of date", "conflicts", summary.Conflicts, "errors", summary.Errors)
			os.Exit(1)
		}

	case "watch":
		if err := runWatch(cfg); err != nil {
			slog.Error("watch failed", "error", err)
			os.Exit(1)
		}
	}
}

func setupLogging(level slog.Level) {
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func logLevel(cfg *config.Config) slog.Level {
	switch cfg.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runBatch scans the configured roots and runs the pipeline once.
func runBatch(ctx context.Context, cfg *config.Config, dryRun bool, rec metrics.Recorder) (*pipeline.BatchSummary, error) {
	tpl, err := loadTemplate(cfg)
	if err != nil {
		return nil, err
	}

	units, warnings, err := scanner.Scan(cfg.Roots, scanner.Options{
		Extensions:  cfg.Scanner.Extensions,
		ExcludeDirs: cfg.Scanner.ExcludeDirs,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn("scan warning", "detail", w)
	}

	return pipeline.Run(ctx, units, pipeline.Options{
		Template:    tpl,
		DocFileName: cfg.Output.DocFileName,
		Concurrency: cfg.Concurrency,
		DryRun:      dryRun,
		Recorder:    rec,
	}), nil
}

func loadTemplate(cfg *config.Config) (*render.Template, error) {
	if cfg.Template == "" {
		return nil, nil
	}
	return render.Load(cfg.Template)
}

func summaryPath(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Output.SummaryPath
}

func writeSummary(summary *pipeline.BatchSummary, path string) error {
	if path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

func runWatch(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rec metrics.Recorder = metrics.NopRecorder{}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			slog.Info("metrics endpoint listening", "addr", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer srv.Close()
	}

	runOnce := func(ctx context.Context) {
		if _, err := runBatch(ctx, cfg, false, rec); err != nil {
			slog.Error("generation run failed", "error", err)
		}
	}

	// Generated documents and temp files must not re-trigger generation.
	docName := cfg.Output.DocFileName
	ignore := func(path string) bool {
		base := filepath.Base(path)
		return base == docName || strings.HasSuffix(base, ".tmp")
	}

	w, err := watch.New(watch.DefaultDebounce, ignore, runOnce, slog.Default())
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(cfg.Roots...); err != nil {
		return err
	}

	runOnce(ctx)

	slog.Info("watching for changes", "roots", cfg.Roots)
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
