package review

import (
	"path/filepath"
	"testing"

	"gitscope/internal/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStoreFrom(filepath.Join(t.TempDir(), "reviews.json"))
	if err != nil {
		t.Fatalf("OpenStoreFrom: %v", err)
	}
	return s
}

func TestStoreStartAndGet(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Start("/repo", "abc123", []string{"main.go", "util.go"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if rec.LastActive == 0 {
		t.Error("Start should stamp LastActive")
	}

	got, ok := s.Get("/repo", "abc123")
	if !ok {
		t.Fatal("Get should find started review")
	}
	if len(got.RemainingFiles) != 2 {
		t.Errorf("RemainingFiles = %v", got.RemainingFiles)
	}
}

func TestStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.json")

	s, err := OpenStoreFrom(path)
	if err != nil {
		t.Fatalf("OpenStoreFrom: %v", err)
	}
	if _, err := s.Start("/repo", "abc-def", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	reopened, err := OpenStoreFrom(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok := reopened.Get("/repo", "abc-def"); !ok {
		t.Error("review lost across restart")
	}
}

func TestStoreEnd(t *testing.T) {
	s := openTestStore(t)
	s.Start("/repo", "abc123", nil)

	if err := s.End("/repo", "abc123"); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, ok := s.Get("/repo", "abc123"); ok {
		t.Error("review should be gone after End")
	}
}

func TestStoreEndMissingIsDistinguishable(t *testing.T) {
	s := openTestStore(t)

	err := s.End("/repo", "nope")
	if err == nil {
		t.Fatal("End of missing review must not silently succeed")
	}
	if !errors.Is(err, errors.KindNotFound) {
		t.Errorf("error kind = %v, want KindNotFound", errors.GetKind(err))
	}

	// Same for a repo that exists but an id that doesn't.
	s.Start("/repo", "abc123", nil)
	if err := s.End("/repo", "other"); !errors.Is(err, errors.KindNotFound) {
		t.Errorf("End with unknown id: %v", err)
	}
}

func TestStoreEndAllScopedByRoots(t *testing.T) {
	s := openTestStore(t)
	s.Start("/work/repoA", "a1", nil)
	s.Start("/work/repoB", "b1", nil)
	s.Start("/work/repoB", "b2-b3", nil)
	s.Start("/elsewhere/repoC", "c1", nil)

	removed, err := s.EndAll([]string{"/work"})
	if err != nil {
		t.Fatalf("EndAll: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if _, ok := s.Get("/elsewhere/repoC", "c1"); !ok {
		t.Error("review outside the roots should survive")
	}

	// Nil roots removes everything remaining.
	removed, err = s.EndAll(nil)
	if err != nil {
		t.Fatalf("EndAll(nil): %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestStoreEndAllPrefixIsPathAware(t *testing.T) {
	s := openTestStore(t)
	s.Start("/work2/repo", "a1", nil)

	removed, err := s.EndAll([]string{"/work"})
	if err != nil {
		t.Fatalf("EndAll: %v", err)
	}
	if removed != 0 {
		t.Error("/work2 must not match root /work")
	}
}

func TestStoreEndAllForRepo(t *testing.T) {
	s := openTestStore(t)
	s.Start("/work/repoA", "a1", nil)
	s.Start("/work/repoA", "a2-a3", nil)
	s.Start("/work/repoB", "b1", nil)

	removed, err := s.EndAllForRepo("/work/repoA")
	if err != nil {
		t.Fatalf("EndAllForRepo: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, ok := s.Get("/work/repoB", "b1"); !ok {
		t.Error("other repository's review should survive")
	}

	removed, err = s.EndAllForRepo("/work/repoA")
	if err != nil || removed != 0 {
		t.Errorf("second EndAllForRepo = (%d, %v), want (0, nil)", removed, err)
	}
}

func TestStoreTouch(t *testing.T) {
	s := openTestStore(t)
	rec, _ := s.Start("/repo", "abc123", []string{"a.go", "b.go"})

	if err := s.Touch("/repo", "abc123", []string{"b.go"}, "a.go"); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	got, _ := s.Get("/repo", "abc123")
	if got.LastActive < rec.LastActive {
		t.Error("Touch must not move LastActive backwards")
	}
	if len(got.RemainingFiles) != 1 || got.RemainingFiles[0] != "b.go" {
		t.Errorf("RemainingFiles = %v", got.RemainingFiles)
	}
	if got.LastViewedFile != "a.go" {
		t.Errorf("LastViewedFile = %q", got.LastViewedFile)
	}

	if err := s.Touch("/repo", "missing", nil, ""); !errors.Is(err, errors.KindNotFound) {
		t.Errorf("Touch of missing review: %v", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := openTestStore(t)
	s.Start("/repo", "abc123", nil)

	snap := s.Snapshot()
	delete(snap["/repo"], "abc123")

	if _, ok := s.Get("/repo", "abc123"); !ok {
		t.Error("mutating a snapshot must not affect the store")
	}
}
