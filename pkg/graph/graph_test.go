package graph

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/sim"
)

func lineNest(t *testing.T) *nest.Nest {
	t.Helper()
	n, err := nest.New(nest.Description{
		Name:   "line",
		Agents: 2,
		Nodes:  []nest.Node{{ID: "Sv"}, {ID: "Sd"}, {ID: "M", Capacity: 1}},
		Edges:  []nest.Edge{{A: "Sv", B: "M"}, {A: "M", B: "Sd"}},
	})
	if err != nil {
		t.Fatalf("nest.New() error = %v", err)
	}
	return n
}

func lineReport(t *testing.T) (*nest.Nest, Report) {
	t.Helper()
	n := lineNest(t)
	res, err := sim.Run(context.Background(), n, sim.Options{})
	if err != nil {
		t.Fatalf("sim.Run() error = %v", err)
	}
	return n, FromResult(n, res)
}

func TestFromResult(t *testing.T) {
	n, r := lineReport(t)

	if r.Outcome != string(sim.OutcomeDelivered) || !r.Success() {
		t.Errorf("Outcome = %q, want delivered", r.Outcome)
	}
	if r.Steps != 3 || len(r.Moves) != 3 {
		t.Fatalf("Steps = %d, len(Moves) = %d, want 3", r.Steps, len(r.Moves))
	}
	if r.NestHash != n.Hash() {
		t.Errorf("NestHash = %s, want %s", r.NestHash, n.Hash())
	}
	wantUsage := []Usage{{A: "Sv", B: "M", Passages: 2}, {A: "M", B: "Sd", Passages: 2}}
	if !slices.Equal(r.Usage, wantUsage) {
		t.Errorf("Usage = %v, want %v", r.Usage, wantUsage)
	}
	if r.Stats.ActiveEdges != 2 || r.Stats.Passages != 4 {
		t.Errorf("Stats = %+v", r.Stats)
	}
	if got := r.Moves[1]; len(got) != 2 || got[0] != (Move{Agent: 1, From: "M", To: "Sd"}) {
		t.Errorf("Moves[1] = %v", got)
	}
}

func TestReportRoundTrip(t *testing.T) {
	n, r := lineReport(t)

	data, err := MarshalReport(r)
	if err != nil {
		t.Fatalf("MarshalReport() error = %v", err)
	}
	if !strings.Contains(string(data), `"outcome": "delivered"`) {
		t.Errorf("JSON missing outcome:\n%s", data)
	}

	back, err := UnmarshalReport(data)
	if err != nil {
		t.Fatalf("UnmarshalReport() error = %v", err)
	}
	restored, rec, err := back.Restore()
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if restored.Hash() != n.Hash() {
		t.Error("restored nest hash differs")
	}
	if rec.Len() != 3 || rec.MoveCount() != 4 {
		t.Errorf("Recorder Len = %d, MoveCount = %d, want 3 and 4", rec.Len(), rec.MoveCount())
	}
	if !slices.Equal(restored.Neighbors("M"), n.Neighbors("M")) {
		t.Errorf("Neighbors(M) = %v, want %v", restored.Neighbors("M"), n.Neighbors("M"))
	}
}

func TestReportFile(t *testing.T) {
	_, r := lineReport(t)
	path := filepath.Join(t.TempDir(), "run.json")

	if err := WriteReportFile(r, path); err != nil {
		t.Fatalf("WriteReportFile() error = %v", err)
	}
	back, err := ReadReportFile(path)
	if err != nil {
		t.Fatalf("ReadReportFile() error = %v", err)
	}
	if back.Steps != r.Steps || back.Nest.Name != "line" {
		t.Errorf("ReadReportFile() = %+v", back)
	}

	if _, err := ReadReportFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadReportFile() on a missing file should fail")
	}
}

func TestReportValidate(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{name: "malformed", json: `{`, wantErr: "decode"},
		{name: "no rooms", json: `{"nest": {"name": "x"}}`, wantErr: "rooms"},
		{
			name:    "step mismatch",
			json:    `{"nest": {"rooms": [{"id": "Sv"}]}, "steps": 2, "moves": [[]]}`,
			wantErr: "2 steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalReport([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("UnmarshalReport() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestReportResult(t *testing.T) {
	n, r := lineReport(t)
	got, res, err := r.Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if got.Hash() != n.Hash() {
		t.Error("Result() nest differs from the original")
	}
	if res.Outcome != sim.OutcomeDelivered || res.Steps != 3 || res.Agents != 2 {
		t.Errorf("Result() = %+v", res)
	}
	if res.Final.Count("Sd") != 2 {
		t.Errorf("Final = %v, want both ants at Sd", res.Final.Counts())
	}
}

func TestRestoreRejectsInconsistentMoves(t *testing.T) {
	_, r := lineReport(t)
	r.Moves[1][0].From = "Sv"

	if _, _, err := r.Restore(); err == nil {
		t.Error("Restore() should reject a move from the wrong room")
	}
}

func TestFrames(t *testing.T) {
	n, r := lineReport(t)
	frames, err := Frames(n, r.Recorder())
	if err != nil {
		t.Fatalf("Frames() error = %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("len(Frames) = %d, want 4", len(frames))
	}

	if got := frames[0].Occupancy["Sv"]; !slices.Equal(got, []int{1, 2}) || len(frames[0].Moves) != 0 {
		t.Errorf("frame 0 = %+v", frames[0])
	}
	if got := frames[3].Occupancy["Sd"]; !slices.Equal(got, []int{1, 2}) {
		t.Errorf("frame 3 Sd = %v, want [1 2]", got)
	}

	trails := frames[1].Trails
	want := []Trail{
		{A: "M", B: "Sv", Passages: 1, Intensity: 1, Width: 5, Alpha: 0.9},
		{A: "M", B: "Sd", Passages: 0, Intensity: 0, Width: 1, Alpha: 0.3},
	}
	if !slices.Equal(trails, want) {
		t.Errorf("frame 1 trails = %+v, want %+v", trails, want)
	}
}
