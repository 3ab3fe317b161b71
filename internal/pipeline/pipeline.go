// Package pipeline drives discovered documents through the external
// compilation toolchain and aggregates the results.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/texbuild/internal/clean"
	"github.com/dgallion1/texbuild/internal/config"
	"github.com/dgallion1/texbuild/internal/discover"
	"github.com/dgallion1/texbuild/internal/latex"
	"github.com/dgallion1/texbuild/internal/report"
	"github.com/dgallion1/texbuild/internal/verify"
)

// Stage identifies where in the per-document pipeline a failure occurred.
// The bibliography pass is deliberately absent: its failures are advisory
// and never fail a document.
type Stage string

const (
	StageSource Stage = "source"
	StagePass1  Stage = "pass1"
	StagePass2  Stage = "pass2"
	StagePass3  Stage = "pass3"
	StageVerify Stage = "verify"
)

// Orchestrator runs the per-document pipeline over every discovered
// document, one at a time in discovery order. Documents are compiled
// sequentially: the toolchain is effectively single-threaded and writes all
// its state into the document directory.
type Orchestrator struct {
	cfg    config.Config
	runner *latex.Runner
	log    *slog.Logger
}

func New(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		runner: latex.NewRunner(cfg.LatexCmd, cfg.BibtexCmd, cfg.PassTimeout, log),
		log:    log,
	}
}

// Run discovers and compiles every document under the configured root,
// cleaning auxiliary artifacts after each success. Document failures are
// recorded in the returned run and never abort the loop; the error return is
// reserved for discovery failures (including discover.ErrNoDocuments) and
// context cancellation.
func (o *Orchestrator) Run(ctx context.Context) (*report.Run, error) {
	docs, err := discover.Scan(o.cfg.Root)
	if err != nil {
		return nil, err
	}
	o.log.Info("discovered documents", "count", len(docs), "root", o.cfg.Root)

	run := report.NewRun(o.cfg.Root, false)
	run.Discovered = len(docs)

	for _, doc := range docs {
		if ctx.Err() != nil {
			run.Finish()
			return run, ctx.Err()
		}
		run.Add(o.compile(ctx, doc))
	}
	run.Finish()
	return run, nil
}

// CleanOnly applies artifact cleanup to every discovered document without
// compiling anything.
func (o *Orchestrator) CleanOnly(ctx context.Context) (*report.Run, error) {
	docs, err := discover.Scan(o.cfg.Root)
	if err != nil {
		return nil, err
	}

	run := report.NewRun(o.cfg.Root, true)
	run.Discovered = len(docs)

	for _, doc := range docs {
		if ctx.Err() != nil {
			run.Finish()
			return run, ctx.Err()
		}
		start := time.Now()
		removed := clean.Artifacts(doc.Dir, doc.Stem)
		o.log.Info("cleaned", "doc", doc.Path, "removed", removed)
		run.Add(report.Outcome{
			Path:       doc.Path,
			Removed:    removed,
			DurationMS: time.Since(start).Milliseconds(),
		})
	}
	run.Finish()
	return run, nil
}

// compile runs the fixed pipeline for one document: three typesetting
// passes with an advisory bibliography pass after the first, then output
// verification and cleanup. Three passes is the conventional fixed point for
// cross-reference and bibliography resolution; there is no convergence
// detection.
func (o *Orchestrator) compile(ctx context.Context, doc discover.Document) report.Outcome {
	log := o.log.With("doc", doc.Path)
	start := time.Now()

	fail := func(stage Stage, err error) report.Outcome {
		log.Error("compilation failed", "stage", string(stage), "error", err)
		return report.Outcome{
			Path:       doc.Path,
			Failed:     true,
			Stage:      string(stage),
			Error:      err.Error(),
			DurationMS: time.Since(start).Milliseconds(),
		}
	}

	log.Info("compiling")

	// The discovery snapshot may have gone stale.
	if _, err := os.Stat(doc.Path); err != nil {
		return fail(StageSource, fmt.Errorf("source missing: %w", err))
	}

	if err := o.runner.Pass(ctx, doc.Dir, doc.Filename()); err != nil {
		return fail(StagePass1, err)
	}

	if hasBibliography(doc.Dir) {
		if err := o.runner.Bibliography(ctx, doc.Dir, doc.Stem); err != nil {
			// Advisory only: bibtex legitimately fails on documents
			// without citations.
			log.Warn("bibliography processing failed", "error", err)
		}
	}

	if err := o.runner.Pass(ctx, doc.Dir, doc.Filename()); err != nil {
		return fail(StagePass2, err)
	}
	if err := o.runner.Pass(ctx, doc.Dir, doc.Filename()); err != nil {
		return fail(StagePass3, err)
	}

	if err := verify.Output(doc.Dir, doc.Stem, o.cfg.VerifyPDF); err != nil {
		return fail(StageVerify, err)
	}

	removed := clean.Artifacts(doc.Dir, doc.Stem)
	log.Info("compiled", "removed", removed, "duration_ms", time.Since(start).Milliseconds())

	return report.Outcome{
		Path:       doc.Path,
		Removed:    removed,
		DurationMS: time.Since(start).Milliseconds(),
	}
}

// hasBibliography reports whether the document directory contains any
// bibliography data file.
func hasBibliography(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".bib") {
			return true
		}
	}
	return false
}
