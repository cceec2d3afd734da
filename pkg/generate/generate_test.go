package generate

import (
	"errors"
	"testing"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/nest"
)

func TestGenerateDeterministic(t *testing.T) {
	opts := Options{Agents: 8, Rooms: 7, Seed: 42}
	a, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if a.Hash() != b.Hash() {
		t.Error("same seed produced different nests")
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "defaults", opts: Options{Seed: 1}},
		{name: "sparse", opts: Options{Rooms: 4, Density: DensitySparse, Seed: 2}},
		{name: "dense", opts: Options{Rooms: 10, Density: DensityDense, Seed: 3}},
		{name: "single room", opts: Options{Rooms: 1, NoDirect: true, Seed: 4}},
		{name: "no direct", opts: Options{Rooms: 5, NoDirect: true, Density: DensityDense, Seed: 5}},
		{name: "multi path", opts: Options{Rooms: 8, MultiPath: true, Seed: 6}},
		{name: "avoid bottlenecks", opts: Options{Rooms: 6, AvoidBottlenecks: true, NoDirect: true, Seed: 7}},
		{name: "capacity range", opts: Options{Rooms: 12, MinCapacity: 2, MaxCapacity: 4, Seed: 8}},
	}

	for _, tt := range tests {
		for seed := uint64(0); seed < 20; seed++ {
			opts := tt.opts
			opts.Seed += seed * 1000
			n, err := Generate(opts)
			if err != nil {
				t.Fatalf("%s seed %d: Generate() error = %v", tt.name, opts.Seed, err)
			}
			check(t, tt.name, opts, n)
		}
	}
}

func check(t *testing.T, name string, opts Options, n *nest.Nest) {
	t.Helper()
	_ = opts.ValidateAndSetDefaults()

	if err := n.Validate(); err != nil {
		t.Errorf("%s: Validate() error = %v", name, err)
	}
	if got := len(n.Rooms()); got != opts.Rooms {
		t.Errorf("%s: %d rooms, want %d", name, got, opts.Rooms)
	}
	if n.Agents() != opts.Agents {
		t.Errorf("%s: %d agents, want %d", name, n.Agents(), opts.Agents)
	}
	for _, id := range n.Rooms() {
		if c := n.Capacity(id); c < opts.MinCapacity || c > opts.MaxCapacity {
			t.Errorf("%s: %s capacity %d outside [%d, %d]", name, id, c, opts.MinCapacity, opts.MaxCapacity)
		}
		if !n.Reachable(id) {
			t.Errorf("%s: %s is unreachable", name, id)
		}
	}
	if opts.NoDirect && n.HasEdge(nest.DefaultSource, nest.DefaultSink) {
		t.Errorf("%s: direct tunnel present", name)
	}
	if n.EdgeCount() < opts.Rooms+1 {
		t.Errorf("%s: %d tunnels cannot span %d rooms", name, n.EdgeCount(), opts.Rooms+2)
	}
}

func TestMultiPathPrefersSeveralRoutes(t *testing.T) {
	multi := 0
	for seed := uint64(0); seed < 20; seed++ {
		n, err := Generate(Options{Rooms: 8, MultiPath: true, NoDirect: true, Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		if analysis.Analyze(n).ParallelPaths >= 2 {
			multi++
		}
	}
	if multi < 15 {
		t.Errorf("only %d of 20 multi-path nests have two routes", multi)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "zero value", opts: Options{}},
		{name: "negative agents", opts: Options{Agents: -1}, wantErr: true},
		{name: "too many agents", opts: Options{Agents: nest.MaxAgents + 1}, wantErr: true},
		{name: "inverted capacity", opts: Options{MinCapacity: 5, MaxCapacity: 2}, wantErr: true},
		{name: "unknown density", opts: Options{Density: "packed"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr != errors.Is(err, ErrInvalidOptions) {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
