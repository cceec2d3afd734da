package archive

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/antnest/pkg/graph"
	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/sim"
)

func report(t *testing.T) graph.Report {
	t.Helper()
	n, err := nest.Build(nest.Description{
		Name:   "line",
		Agents: 2,
		Nodes:  []nest.Node{{ID: "Sv"}, {ID: "Sd"}, {ID: "M", Capacity: 1}},
		Edges:  []nest.Edge{{A: "Sv", B: "M"}, {A: "M", B: "Sd"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := sim.Run(context.Background(), n, sim.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return graph.FromResult(n, res)
}

func TestNewRun(t *testing.T) {
	r := report(t)
	run := NewRun(r)

	if !ValidID(run.ID) {
		t.Errorf("ID = %q, want a uuid", run.ID)
	}
	if run.Name != "line" || run.Agents != 2 || run.Steps != 3 || run.Outcome != "delivered" {
		t.Errorf("run = %+v", run.Summary())
	}
	if NewRun(r).ID == run.ID {
		t.Error("NewRun should assign distinct ids")
	}
	if s := run.Summary(); s.Report.Steps != 0 || s.ID != run.ID {
		t.Errorf("Summary() = %+v, want run without report", s)
	}
}

// testStore runs the Store contract against s.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	r := report(t)

	older := NewRun(r)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	newer := NewRun(r)
	newer.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	for _, run := range []*Run{older, newer} {
		if err := s.Save(ctx, run); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := s.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Report.Steps != r.Steps || len(got.Report.Moves) != len(r.Moves) {
		t.Errorf("Get().Report = %+v, want %+v", got.Report, r)
	}
	if _, _, err := got.Report.Restore(); err != nil {
		t.Errorf("archived report does not restore: %v", err)
	}

	runs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 || runs[0].ID != newer.ID || runs[1].ID != older.ID {
		t.Fatalf("List() = %v, want newest first", runs)
	}
	if runs[0].Report.Steps != 0 {
		t.Error("List() should return summaries")
	}
	if runs, _ := s.List(ctx, 1); len(runs) != 1 {
		t.Errorf("List(1) returned %d runs", len(runs))
	}

	if err := s.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, older.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want %v", err, ErrNotFound)
	}
	if err := s.Delete(ctx, older.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.Get(ctx, "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := s.Save(ctx, &Run{ID: "x/y"}); err == nil {
		t.Error("Save() with a bad id should fail")
	}
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/broken.json", []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), NewRun(report(t))); err != nil {
		t.Fatal(err)
	}
	runs, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("List() returned %d runs, want 1", len(runs))
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ANTNEST_MONGO_URI")
	if uri == "" {
		t.Skip("ANTNEST_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "antnest_test_" + time.Now().Format("20060102150405")
	s, err := NewMongoStore(ctx, uri, db)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close()
	}()
	testStore(t, s)
}
