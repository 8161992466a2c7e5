package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "interim.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)

	if err := s.CreateRun("run-1", "pipeline", "planning.xlsx"); err != nil {
		t.Fatal(err)
	}
	if err := s.FinishRun("run-1", Run{
		OutputPath:    "/tmp/planning_final.xlsx",
		LectureRows:   42,
		InterimRows:   7,
		UnmatchedDays: 2,
	}); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("%d traitements, attendu 1", len(runs))
	}
	r := runs[0]
	if r.Status != "done" || r.LectureRows != 42 || r.InterimRows != 7 || r.UnmatchedDays != 2 {
		t.Errorf("traitement = %+v", r)
	}
	if r.CompletedAt == "" {
		t.Error("completed_at non renseigné")
	}
}

func TestFinishRunWithError(t *testing.T) {
	s := newTestStore(t)

	if err := s.CreateRun("run-err", "badakan", "classeur.xlsx"); err != nil {
		t.Fatal(err)
	}
	if err := s.FinishRun("run-err", Run{ErrorMessage: "feuille interimaire absente"}); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Status != "error" || runs[0].ErrorMessage == "" {
		t.Errorf("traitement = %+v", runs[0])
	}
}

func TestCountRuns(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.CreateRun(id, "pipeline", "p.xlsx"); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.CountRuns()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("CountRuns = %d", n)
	}
}
