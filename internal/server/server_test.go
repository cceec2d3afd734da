package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/cache"
	"github.com/matzehuels/antnest/pkg/graph"
	"github.com/matzehuels/antnest/pkg/pipeline"
)

const lineSource = `f=2
M
Sv - M
M - Sd
`

func newTestServer(t *testing.T, withArchive bool) (*Server, *prometheus.Registry) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var store archive.Store
	if withArchive {
		fs, err := archive.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		store = fs
	}
	logger := log.New(io.Discard)
	reg := prometheus.NewRegistry()
	s := New(Options{
		Runner:   pipeline.NewRunner(c, nil, store, logger),
		Registry: reg,
		Logger:   logger,
	})
	return s, reg
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestSolve(t *testing.T) {
	s, _ := newTestServer(t, false)

	w := do(t, s, http.MethodPost, "/v1/solve?name=line", lineSource)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	resp := decode[SolveResponse](t, w)
	if resp.Summary != "delivered in 3 steps" {
		t.Errorf("Summary = %q, want %q", resp.Summary, "delivered in 3 steps")
	}
	if resp.Report.Nest.Name != "line" || resp.Report.Steps != 3 {
		t.Errorf("Report = %s/%d steps, want line/3", resp.Report.Nest.Name, resp.Report.Steps)
	}
	if resp.Cached || resp.RunID != "" {
		t.Errorf("Cached = %v, RunID = %q, want fresh and unarchived", resp.Cached, resp.RunID)
	}

	w = do(t, s, http.MethodPost, "/v1/solve?name=line", lineSource)
	if resp := decode[SolveResponse](t, w); !resp.Cached {
		t.Error("second solve should hit the cache")
	}
}

func TestSolveFormat(t *testing.T) {
	s, _ := newTestServer(t, false)

	w := do(t, s, http.MethodPost, "/v1/solve?format=txt&name=line", lineSource)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasSuffix(w.Body.String(), "# delivered in 3 steps\n") {
		t.Errorf("body = %q", w.Body.String())
	}

	w = do(t, s, http.MethodPost, "/v1/solve?format=dot&step=1", lineSource)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "graph") {
		t.Errorf("dot status = %d, body = %s", w.Code, w.Body)
	}
}

func TestSolveErrors(t *testing.T) {
	s, _ := newTestServer(t, false)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"empty body", "/v1/solve", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", "/v1/solve?format=bmp", lineSource, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad bool", "/v1/solve?strict=maybe", lineSource, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad int", "/v1/solve?max_steps=many", lineSource, http.StatusBadRequest, "INVALID_INPUT"},
		{"syntax", "/v1/solve", "f=2\nM {\n", http.StatusUnprocessableEntity, "INVALID_NEST"},
		{"strict disconnected", "/v1/solve?strict=true", "f=1\nA\nB\nSv - A\nB - Sd\n", http.StatusUnprocessableEntity, "DISCONNECTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.target, tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body)
			}
			body := decode[errorBody](t, w)
			if string(body.Error.Code) != tt.code {
				t.Errorf("code = %s, want %s", body.Error.Code, tt.code)
			}
		})
	}
}

func TestSolveStalled(t *testing.T) {
	s, _ := newTestServer(t, false)
	w := do(t, s, http.MethodPost, "/v1/solve", "f=1\nA\nB\nSv - A\nB - Sd\n")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	resp := decode[SolveResponse](t, w)
	if resp.Report.Outcome != "stalled" {
		t.Errorf("Outcome = %q, want stalled", resp.Report.Outcome)
	}
}

func TestAnalyze(t *testing.T) {
	s, _ := newTestServer(t, false)
	w := do(t, s, http.MethodPost, "/v1/analyze?name=line", lineSource)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	resp := decode[AnalyzeResponse](t, w)
	if resp.Nest != "line" || resp.Steps != 3 || resp.Analysis.ParallelPaths != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestRuns(t *testing.T) {
	s, _ := newTestServer(t, true)

	w := do(t, s, http.MethodPost, "/v1/solve?archive=true&name=line", lineSource)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	id := decode[SolveResponse](t, w).RunID
	if !archive.ValidID(id) {
		t.Fatalf("RunID = %q, want a uuid", id)
	}
	if got := w.Header().Get("X-Run-ID"); got != id {
		t.Errorf("X-Run-ID = %q, want %q", got, id)
	}

	w = do(t, s, http.MethodGet, "/v1/runs", "")
	runs := decode[[]archive.Run](t, w)
	if len(runs) != 1 || runs[0].ID != id || runs[0].Report.Steps != 0 {
		t.Errorf("runs = %+v, want one summary for %s", runs, id)
	}

	w = do(t, s, http.MethodGet, "/v1/runs/"+id, "")
	run := decode[archive.Run](t, w)
	if run.Report.Steps != 3 || run.Name != "line" {
		t.Errorf("run = %s with %d steps", run.Name, run.Report.Steps)
	}

	w = do(t, s, http.MethodGet, "/v1/runs/"+id+"/frames", "")
	frames := decode[[]graph.Frame](t, w)
	if len(frames) != 4 {
		t.Fatalf("len(frames) = %d, want 4", len(frames))
	}
	if got := len(frames[3].Occupancy["Sd"]); got != 2 {
		t.Errorf("frame 3 has %d ants at Sd, want 2", got)
	}

	if w := do(t, s, http.MethodDelete, "/v1/runs/"+id, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/v1/runs/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/v1/runs/not-a-uuid", ""); w.Code != http.StatusNotFound {
		t.Errorf("bad id status = %d, want 404", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/v1/runs?limit=x", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
}

func TestRunsDisabled(t *testing.T) {
	s, _ := newTestServer(t, false)
	w := do(t, s, http.MethodGet, "/v1/runs", "")
	if w.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotImplemented)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s, reg := newTestServer(t, false)

	w := do(t, s, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("healthz = %d %s", w.Code, w.Body)
	}

	do(t, s, http.MethodPost, "/v1/solve", lineSource)
	if got := testutil.ToFloat64(s.metrics.requests.WithLabelValues("POST", "/v1/solve", "200")); got != 1 {
		t.Errorf("solve requests = %v, want 1", got)
	}
	if n, err := testutil.GatherAndCount(reg, "antnest_http_requests_total"); err != nil || n < 2 {
		t.Errorf("GatherAndCount() = %d, %v", n, err)
	}

	w = do(t, s, http.MethodGet, "/metrics", "")
	if !strings.Contains(w.Body.String(), "antnest_http_requests_total") {
		t.Error("/metrics should expose the request counter")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t, false)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
