package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/history"
	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/sim"
)

// =============================================================================
// Report - Run Serialization
// =============================================================================

// Report is the canonical serialization format for a simulation run.
// Used for API responses, the run archive, caching, and file export.
//
// Moves holds one entry per recorded step, including the empty final step of
// a stalled run.
type Report struct {
	Nest      Nest          `json:"nest" yaml:"nest" bson:"nest"`
	NestHash  string        `json:"nest_hash" yaml:"nest_hash" bson:"nest_hash"`
	Outcome   string        `json:"outcome" yaml:"outcome" bson:"outcome"`
	Steps     int           `json:"steps" yaml:"steps" bson:"steps"`
	Delivered int           `json:"delivered" yaml:"delivered" bson:"delivered"`
	Moves     [][]Move      `json:"moves" yaml:"moves" bson:"moves"`
	Usage     []Usage       `json:"usage,omitempty" yaml:"usage,omitempty" bson:"usage,omitempty"`
	Stats     history.Stats `json:"stats" yaml:"stats" bson:"stats"`
}

// FromResult converts a finished run of n to a report.
func FromResult(n *nest.Nest, res *sim.Result) Report {
	steps := res.Recorder.Steps()
	r := Report{
		Nest:      FromNest(n),
		NestHash:  n.Hash(),
		Outcome:   string(res.Outcome),
		Steps:     res.Steps,
		Delivered: res.Delivered,
		Moves:     make([][]Move, len(steps)),
		Usage:     fromUsage(n, res.Recorder.Totals()),
		Stats:     res.Recorder.Stats(n, res.Steps-1),
	}
	for i, moves := range steps {
		r.Moves[i] = fromMoves(moves)
	}
	return r
}

// Success reports whether every ant was delivered.
func (r Report) Success() bool { return sim.Outcome(r.Outcome).Success() }

// Recorder rebuilds the step history.
func (r Report) Recorder() *history.Recorder {
	steps := make([][]colony.Move, len(r.Moves))
	for i, moves := range r.Moves {
		steps[i] = toMoves(moves)
	}
	return history.FromSteps(steps)
}

// Restore rebuilds the nest and history and checks that the recorded moves
// are consistent with the nest.
func (r Report) Restore() (*nest.Nest, *history.Recorder, error) {
	n, err := ToNest(r.Nest)
	if err != nil {
		return nil, nil, fmt.Errorf("nest: %w", err)
	}
	rec := r.Recorder()
	if _, err := rec.Replay(n, rec.Len()-1); err != nil {
		return nil, nil, err
	}
	return n, rec, nil
}

// =============================================================================
// Report Serialization API
// =============================================================================

// Result rebuilds the run as a *sim.Result, with its final occupancy
// replayed from the recorded moves.
func (r Report) Result() (*nest.Nest, *sim.Result, error) {
	n, rec, err := r.Restore()
	if err != nil {
		return nil, nil, err
	}
	final, err := rec.Replay(n, rec.Len()-1)
	if err != nil {
		return nil, nil, err
	}
	return n, &sim.Result{
		Outcome:   sim.Outcome(r.Outcome),
		Steps:     r.Steps,
		Delivered: r.Delivered,
		Agents:    n.Agents(),
		Recorder:  rec,
		Final:     final,
	}, nil
}

// MarshalReport converts a report to indented JSON bytes.
func MarshalReport(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteReport(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalReport decodes JSON bytes into a report.
func UnmarshalReport(data []byte) (Report, error) {
	return ReadReport(bytes.NewReader(data))
}

// WriteReport writes a report as JSON to an io.Writer.
func WriteReport(r Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadReport decodes a JSON report from an io.Reader.
// A report without rooms is rejected.
func ReadReport(rd io.Reader) (Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return Report{}, fmt.Errorf("decode: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Validate checks the fields every report must carry.
func (r Report) Validate() error {
	if len(r.Nest.Rooms) == 0 {
		return fmt.Errorf("report must contain rooms")
	}
	if r.Steps != len(r.Moves) {
		return fmt.Errorf("report has %d steps but %d move lists", r.Steps, len(r.Moves))
	}
	return nil
}

// WriteReportFile writes a report to a JSON file.
func WriteReportFile(r Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteReport(r, f)
}

// ReadReportFile reads a report from a JSON file.
func ReadReportFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadReport(f)
}
