package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/deduar/document-analizer/internal/document"
	"github.com/deduar/document-analizer/internal/pipeline"
	"github.com/deduar/document-analizer/internal/query"
	"github.com/go-chi/chi/v5"
)

// loadEngine builds a query engine from a run's artifacts. When job_id is
// given the job's output directory is used, otherwise the server's default
// output directory. Chunks and pages are optional inputs.
func (s *Server) loadEngine(r *http.Request) (*query.Engine, int, string) {
	dir := s.cfg.OutDir
	if jobID := r.URL.Query().Get("job_id"); jobID != "" {
		job := s.store.Get(jobID)
		if job == nil {
			return nil, http.StatusNotFound, "job not found"
		}
		if snap := job.Snapshot(); snap.Status != pipeline.StatusCompleted {
			return nil, http.StatusConflict, "job is not completed: " + snap.Status
		}
		dir = filepath.Join(s.cfg.OutDir, jobID)
	}

	sections, err := document.ReadSectionsPayload(filepath.Join(dir, s.cfg.SectionsOutputName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, http.StatusNotFound, "no sections artifact found"
		}
		return nil, http.StatusInternalServerError, err.Error()
	}
	engine := query.New(sections.Sections)

	if chunks, err := document.ReadChunksPayload(filepath.Join(dir, s.cfg.ChunksOutputName)); err == nil {
		engine = engine.WithChunks(chunks.Chunks)
	}
	if pages, err := document.ReadPagesPayload(filepath.Join(dir, s.cfg.RawOutputName)); err == nil {
		engine = engine.WithPages(pages.Pages)
	}
	return engine, 0, ""
}

func (s *Server) handleSectionSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "q is required", http.StatusBadRequest)
		return
	}
	exact := boolParam(r, "exact", false)

	engine, code, msg := s.loadEngine(r)
	if engine == nil {
		jsonError(w, msg, code)
		return
	}

	matches := engine.FindByTitle(q, exact)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query":    q,
		"exact":    exact,
		"count":    len(matches),
		"sections": matches,
	})
}

func (s *Server) handleSectionContext(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "sectionID")

	engine, code, msg := s.loadEngine(r)
	if engine == nil {
		jsonError(w, msg, code)
		return
	}

	opts := query.Options{
		IncludeChildren:    boolParam(r, "children", true),
		IncludeSiblings:    boolParam(r, "siblings", true),
		IncludeDescendants: boolParam(r, "descendants", false),
		MaxChunks:          intParam(r, "max_chunks", s.cfg.MaxContextChunks),
		MaxDataLines:       intParam(r, "data_lines", s.cfg.MaxDataLines),
	}

	ctx := engine.ContextByID(sectionID, opts)
	if ctx == nil {
		jsonError(w, "section not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ctx)
}

func boolParam(r *http.Request, name string, def bool) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
