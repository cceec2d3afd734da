// Package archive keeps a history of simulation runs.
//
// Each [Run] stores the full [graph.Report], so any archived run can be
// replayed or rendered again without re-simulating. Two backends implement
// [Store]:
//   - [FileStore]: one JSON file per run (CLI default)
//   - [MongoStore]: a MongoDB collection (server deployments)
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/antnest/pkg/graph"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Run is one archived simulation.
type Run struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	NestHash  string       `json:"nest_hash" bson:"nest_hash"`
	Outcome   string       `json:"outcome" bson:"outcome"`
	Steps     int          `json:"steps" bson:"steps"`
	Agents    int          `json:"agents" bson:"agents"`
	Delivered int          `json:"delivered" bson:"delivered"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Report    graph.Report `json:"report" bson:"report"`
}

// NewRun wraps r in a new run with a fresh id.
func NewRun(r graph.Report) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Name:      r.Nest.Name,
		NestHash:  r.NestHash,
		Outcome:   r.Outcome,
		Steps:     r.Steps,
		Agents:    r.Nest.Agents,
		Delivered: r.Delivered,
		CreatedAt: time.Now().UTC(),
		Report:    r,
	}
}

// Summary returns a copy of the run without its report.
func (r *Run) Summary() Run {
	s := *r
	s.Report = graph.Report{}
	return s
}

// Store persists runs.
type Store interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, run *Run) error

	// Get returns the run with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit run summaries, newest first.
	List(ctx context.Context, limit int) ([]Run, error)

	// Delete removes a run. Deleting a missing run returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}

// ValidID reports whether id has the form assigned by [NewRun].
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
