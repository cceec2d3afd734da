package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/buildinfo"
	"github.com/matzehuels/antnest/pkg/errors"
	"github.com/matzehuels/antnest/pkg/graph"
	nestio "github.com/matzehuels/antnest/pkg/io"
	"github.com/matzehuels/antnest/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatYAML: "application/yaml",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// SolveResponse is the default body of POST /v1/solve.
type SolveResponse struct {
	RunID   string       `json:"run_id,omitempty"`
	Cached  bool         `json:"cached"`
	Summary string       `json:"summary"`
	Report  graph.Report `json:"report"`
}

// AnalyzeResponse is the body of POST /v1/analyze.
type AnalyzeResponse struct {
	Nest       string              `json:"nest"`
	Steps      int                 `json:"steps"`
	Analysis   analysis.Analysis   `json:"analysis"`
	Complexity analysis.Complexity `json:"complexity"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// handleSolve simulates the nest text in the body. With ?format= the raw
// artifact is returned instead of a SolveResponse.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		opts.Formats = []string{pipeline.FormatText}
	} else {
		opts.Formats = []string{format}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result.RunID != "" {
		w.Header().Set("X-Run-ID", result.RunID)
	}

	if format == "" {
		writeJSON(w, http.StatusOK, SolveResponse{
			RunID:   result.RunID,
			Cached:  result.CacheInfo.SolveHit,
			Summary: nestio.Summary(result.Run),
			Report:  result.Report,
		})
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	opts, err := s.readOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger
	n, err := pipeline.Load(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, _, err := s.runner.Solve(r.Context(), n, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a := analysis.Analyze(n)
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Nest:       n.Name(),
		Steps:      res.Steps,
		Analysis:   a,
		Complexity: analysis.Assess(n, a, res.Steps),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	store, ok := s.archive(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be an integer"))
			return
		}
		limit = n
	}
	runs, err := store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []archive.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	store, ok := s.archive(w, r)
	if !ok {
		return
	}
	if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	n, rec, err := run.Report.Restore()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvariant, err, "run %s", run.ID))
		return
	}
	frames, err := graph.Frames(n, rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, frames)
}

// =============================================================================
// Helpers
// =============================================================================

// readOptions builds pipeline options from the query string and reads the
// nest text from the body.
func (s *Server) readOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Name: q.Get("name")}

	ints := map[string]*int{"max_steps": &opts.MaxSteps, "step": &opts.Step}
	for key, dst := range ints {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer", key)
			}
			*dst = n
		}
	}
	bools := map[string]*bool{
		"no_regress": &opts.SuppressRegressive,
		"strict":     &opts.Strict,
		"refresh":    &opts.Refresh,
		"archive":    &opts.Archive,
		"highlight":  &opts.Highlight,
	}
	for key, dst := range bools {
		if v := q.Get(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean", key)
			}
			*dst = b
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	opts.Source = string(body)
	return opts, nil
}

func (s *Server) archive(w http.ResponseWriter, r *http.Request) (archive.Store, bool) {
	if s.runner.Archive == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "run archive is disabled"))
		return nil, false
	}
	return s.runner.Archive, true
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*archive.Run, bool) {
	store, ok := s.archive(w, r)
	if !ok {
		return nil, false
	}
	run, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return run, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := errors.Classify(err)
	status := errors.HTTPStatus(e.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: e.Code, Message: errors.UserMessage(e)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
