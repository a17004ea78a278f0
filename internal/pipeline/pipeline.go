// Package pipeline runs the scan-parse-render-diff-update sequence for each
// documented unit and aggregates per-unit results into a batch summary.
//
// Units are independent: each one's working set (its own files, its own
// output document) is disjoint, so units run concurrently with no locking.
// A failure inside one unit is caught at the unit boundary and recorded in
// that unit's result; sibling units always complete.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docgen/internal/document"
	"git.home.luguber.info/inful/docgen/internal/drift"
	derrors "git.home.luguber.info/inful/docgen/internal/errors"
	"git.home.luguber.info/inful/docgen/internal/lang"
	"git.home.luguber.info/inful/docgen/internal/logfields"
	"git.home.luguber.info/inful/docgen/internal/markdown"
	"git.home.luguber.info/inful/docgen/internal/metadata"
	"git.home.luguber.info/inful/docgen/internal/metrics"
	"git.home.luguber.info/inful/docgen/internal/render"
	"git.home.luguber.info/inful/docgen/internal/scanner"
	"git.home.luguber.info/inful/docgen/internal/update"
)

// DefaultDocFileName is the per-unit output document name.
const DefaultDocFileName = "REFERENCE.md"

// maxDefaultConcurrency caps the default worker count.
const maxDefaultConcurrency = 8

// Options configures a batch run.
type Options struct {
	Template    *render.Template
	DocFileName string
	Concurrency int
	DryRun      bool
	Registry    *lang.Registry
	Logger      *slog.Logger
	Recorder    metrics.Recorder
}

// UnitResult is the machine-readable outcome of one unit's pipeline.
type UnitResult struct {
	Unit                string                          `json:"unit"`
	DocPath             string                          `json:"docPath"`
	Status              update.Status                   `json:"status"`
	Written             bool                            `json:"written"`
	Sections            map[string]drift.Classification `json:"sections,omitempty"`
	ConflictingSections []string                        `json:"conflictingSections,omitempty"`
	Outline             []markdown.Heading              `json:"outline,omitempty"`
	Warnings            []string                        `json:"warnings,omitempty"`
	Error               string                          `json:"error,omitempty"`
	DurationMS          float64                         `json:"durationMs"`
}

// BatchSummary aggregates one run over all units.
type BatchSummary struct {
	BatchID    string       `json:"batchId"`
	Units      []UnitResult `json:"units"`
	Conflicts  int          `json:"conflicts"`
	Errors     int          `json:"errors"`
	DurationMS float64      `json:"durationMs"`
}

// HasDrift reports whether any unit updated, conflicted or errored. Check
// mode uses it as its exit signal.
func (b *BatchSummary) HasDrift() bool {
	for _, u := range b.Units {
		if u.Status != update.StatusUnchanged || u.Error != "" {
			return true
		}
	}
	return false
}

// Run processes all units and returns the batch summary. The batch always
// completes; per-unit failures are reported in the unit's result, never
// propagated as an error.
func Run(ctx context.Context, units []scanner.Unit, opts Options) *BatchSummary {
	start := time.Now()

	if opts.DocFileName == "" {
		opts.DocFileName = DefaultDocFileName
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = min(runtime.NumCPU(), maxDefaultConcurrency)
	}
	if opts.Registry == nil {
		opts.Registry = lang.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NopRecorder{}
	}

	summary := &BatchSummary{BatchID: uuid.NewString()}

	summary.Units = runOrdered(units, opts.Concurrency, func(u scanner.Unit) UnitResult {
		return processUnit(ctx, u, opts)
	})

	for _, res := range summary.Units {
		summary.Conflicts += len(res.ConflictingSections)
		if res.Error != "" {
			summary.Errors++
		}
		opts.Recorder.IncUnitOutcome(string(res.Status))
		opts.Recorder.AddConflicts(len(res.ConflictingSections))
		for _, c := range res.Sections {
			opts.Recorder.IncSectionOutcome(string(c))
		}
	}

	summary.DurationMS = float64(time.Since(start).Milliseconds())
	opts.Recorder.ObserveBatchDuration(time.Since(start))

	opts.Logger.Info("batch complete",
		logfields.BatchID(summary.BatchID),
		slog.Int("units", len(summary.Units)),
		logfields.Conflicts(summary.Conflicts),
		slog.Int("errors", summary.Errors),
		logfields.DurationMS(summary.DurationMS))

	return summary
}

// processUnit runs the whole pipeline for one unit under an error boundary:
// a panic or hard error is converted into the unit's result.
func processUnit(ctx context.Context, unit scanner.Unit, opts Options) (res UnitResult) {
	start := time.Now()
	res = UnitResult{
		Unit:    unit.Name,
		DocPath: filepath.Join(unit.Dir, opts.DocFileName),
		Status:  update.StatusUnchanged,
	}

	defer func() {
		if r := recover(); r != nil {
			err := derrors.InternalError(fmt.Sprintf("unit pipeline panicked: %v", r)).Build()
			res.Error = err.Error()
		}
		res.DurationMS = float64(time.Since(start).Milliseconds())
		opts.Recorder.ObserveUnitDuration(string(res.Status), time.Since(start))
		logUnit(opts.Logger, res)
	}()

	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	// Existing document, if any.
	var raw []byte
	var existing *document.Existing
	if data, err := os.ReadFile(res.DocPath); err == nil {
		raw = data
		parsed, warnings, err := document.ParseExisting(data)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Warnings = append(res.Warnings, warnings...)
		existing = parsed
	} else if !os.IsNotExist(err) {
		res.Error = derrors.WrapError(err, derrors.CategoryFileSystem, "read existing document").
			WithContext("path", res.DocPath).Build().Error()
		return res
	}

	// Parse member files. Parser trouble is never fatal for the unit.
	var decls []lang.Declaration
	for _, file := range unit.Files {
		fileDecls, warnings := opts.Registry.ParseFile(file)
		decls = append(decls, fileDecls...)
		res.Warnings = append(res.Warnings, warnings...)
	}

	var existingFields map[string]any
	if existing != nil {
		existingFields = existing.Fields
	}
	meta, warnings := metadata.Extract(unit.Dir, existingFields, decls)
	res.Warnings = append(res.Warnings, warnings...)

	candidate, warnings, err := render.Render(opts.Template, meta, decls)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Warnings = append(res.Warnings, warnings...)

	drifts := drift.Detect(candidate, existing)

	applied, err := update.Apply(raw, existing, candidate, drifts, update.Options{
		Path:   res.DocPath,
		DryRun: opts.DryRun,
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Status = applied.Status
	res.Written = applied.Written
	res.Sections = applied.Sections
	res.ConflictingSections = applied.ConflictingSections
	res.Warnings = append(res.Warnings, applied.Warnings...)
	res.Outline = markdown.ExtractOutline(candidateBody(candidate))

	return res
}

// candidateBody joins the candidate's section texts for outline extraction.
func candidateBody(c *document.Candidate) []byte {
	texts := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		texts[i] = s.Text
	}
	return []byte(strings.Join(texts, "\n\n"))
}

func logUnit(logger *slog.Logger, res UnitResult) {
	attrs := []any{
		logfields.Unit(res.Unit),
		logfields.DocPath(res.DocPath),
		logfields.Status(string(res.Status)),
		logfields.Conflicts(len(res.ConflictingSections)),
		logfields.Warnings(len(res.Warnings)),
		logfields.DurationMS(res.DurationMS),
	}
	if res.Error != "" {
		attrs = append(attrs, slog.String(logfields.KeyError, res.Error))
		logger.Error("unit failed", attrs...)
		return
	}
	logger.Info("unit processed", attrs...)
}
