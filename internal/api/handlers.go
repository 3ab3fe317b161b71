package api

import (
	"encoding/json"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleReport returns the full run report of the latest build.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	run := s.latestRun()
	if run == nil {
		jsonError(w, "no build has completed", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// handleDocuments returns the per-document outcomes of the latest build.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	run := s.latestRun()
	if run == nil {
		jsonError(w, "no build has completed", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": run.Outcomes})
}

// handleBuild reruns the compilation pipeline. Builds are serialized: a
// request arriving while one is running is rejected rather than queued.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	if !s.building.TryLock() {
		jsonError(w, "a build is already running", http.StatusConflict)
		return
	}
	defer s.building.Unlock()

	run, err := s.orch.Run(r.Context())
	if err != nil {
		jsonError(w, "build failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.setLatest(run)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"discovered": run.Discovered,
		"attempted":  run.Attempted,
		"succeeded":  run.Succeeded,
		"failed":     run.Failed(),
	})
}

// handlePDF serves a compiled PDF from under the document root. Only .pdf
// files are reachable; the path is normalized so the root cannot be escaped.
func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")

	// Normalize to a rooted slash path, stripping any traversal.
	rel = path.Clean("/" + rel)
	if rel == "/" || strings.ToLower(path.Ext(rel)) != ".pdf" {
		jsonError(w, "not a pdf path", http.StatusBadRequest)
		return
	}

	full := filepath.Join(s.cfg.Root, filepath.FromSlash(rel))
	http.ServeFile(w, r, full)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
