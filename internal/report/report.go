// Package report accumulates per-document outcomes into a run summary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Outcome is the recorded result for a single document. A document appears
// in the run exactly once, as either a success or a failure.
type Outcome struct {
	Path       string `json:"path"`
	Failed     bool   `json:"failed"`
	Stage      string `json:"stage,omitempty"` // stage the document failed at
	Error      string `json:"error,omitempty"`
	Removed    int    `json:"removed_files"`
	DurationMS int64  `json:"duration_ms"`
}

// Run aggregates a whole build or clean-only run. It is only ever touched by
// the single orchestration goroutine, so it carries no locking; the api
// package snapshots it under its own lock.
type Run struct {
	Root       string    `json:"root"`
	CleanOnly  bool      `json:"clean_only"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Discovered int       `json:"discovered"`
	Attempted  int       `json:"attempted"`
	Succeeded  int       `json:"succeeded"`
	Outcomes   []Outcome `json:"documents"`
}

func NewRun(root string, cleanOnly bool) *Run {
	return &Run{
		Root:      root,
		CleanOnly: cleanOnly,
		StartedAt: time.Now(),
	}
}

// Add records one document outcome, maintaining
// succeeded <= attempted <= discovered.
func (r *Run) Add(o Outcome) {
	r.Attempted++
	if !o.Failed {
		r.Succeeded++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Finish stamps the end of the run.
func (r *Run) Finish() {
	r.FinishedAt = time.Now()
}

// Failed returns the ordered list of failed document paths.
func (r *Run) Failed() []string {
	var failed []string
	for _, o := range r.Outcomes {
		if o.Failed {
			failed = append(failed, o.Path)
		}
	}
	return failed
}

// ExitCode maps the run outcome to the process exit status: zero only when
// every attempted document succeeded.
func (r *Run) ExitCode() int {
	if len(r.Failed()) > 0 {
		return 1
	}
	return 0
}

// Summary renders the human-readable end-of-run text.
func (r *Run) Summary() string {
	var b strings.Builder

	verb := "compiled"
	if r.CleanOnly {
		verb = "cleaned"
	}
	fmt.Fprintf(&b, "%s %d/%d documents in %s\n",
		verb, r.Succeeded, r.Attempted, r.elapsed())

	if failed := r.Failed(); len(failed) > 0 {
		b.WriteString("failed documents:\n")
		for _, o := range r.Outcomes {
			if !o.Failed {
				continue
			}
			fmt.Fprintf(&b, "  %s (%s: %s)\n", o.Path, o.Stage, o.Error)
		}
	}
	return b.String()
}

// Markdown renders the run as a markdown document, the source for the HTML
// report artifact.
func (r *Run) Markdown() []byte {
	var b strings.Builder

	b.WriteString("# texbuild report\n\n")
	mode := "compile"
	if r.CleanOnly {
		mode = "clean-only"
	}
	fmt.Fprintf(&b, "- root: `%s`\n", r.Root)
	fmt.Fprintf(&b, "- mode: %s\n", mode)
	fmt.Fprintf(&b, "- discovered: %d, attempted: %d, succeeded: %d\n", r.Discovered, r.Attempted, r.Succeeded)
	fmt.Fprintf(&b, "- elapsed: %s\n\n", r.elapsed())

	b.WriteString("| Document | Result | Stage | Removed | Duration |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, o := range r.Outcomes {
		result := "ok"
		stage := ""
		if o.Failed {
			result = "failed"
			stage = o.Stage
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %d | %dms |\n",
			o.Path, result, stage, o.Removed, o.DurationMS)
	}
	return []byte(b.String())
}

func (r *Run) elapsed() time.Duration {
	end := r.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(r.StartedAt).Round(time.Millisecond)
}

// WriteArtifacts writes report.json, report.md and report.html into dir,
// creating it if needed.
func (r *Run) WriteArtifacts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "report.json"), data, 0o644); err != nil {
		return fmt.Errorf("write report.json: %w", err)
	}

	md := r.Markdown()
	if err := os.WriteFile(filepath.Join(dir, "report.md"), md, 0o644); err != nil {
		return fmt.Errorf("write report.md: %w", err)
	}

	html, err := RenderHTML(md)
	if err != nil {
		return fmt.Errorf("render report.html: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "report.html"), html, 0o644); err != nil {
		return fmt.Errorf("write report.html: %w", err)
	}
	return nil
}
